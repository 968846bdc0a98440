package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Persistence errors
	ErrStateNotFound = errors.New("gamification state not found")
	ErrLogNotFound   = errors.New("meal log not found")

	// Engine errors
	ErrChestAlreadyOpened = errors.New("daily chest already opened")
	ErrChestLocked        = errors.New("daily checklist not complete — chest locked")

	// AI analysis errors
	ErrAnalyzerUnavailable = errors.New("meal analyzer endpoint unreachable")
	ErrNoNutrientData      = errors.New("analyzer response contains no nutrient data")

	// Image storage errors
	ErrImageTooLarge    = errors.New("image exceeds maximum upload size")
	ErrImageUnsupported = errors.New("unsupported image content type")
)
