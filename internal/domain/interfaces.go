package domain

import (
	"context"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// StateStore abstracts gamification state persistence.
// Last-write-wins on the whole document, no partial writes.
type StateStore interface {
	// LoadState returns the stored state, or (nil, nil) if none exists yet.
	LoadState(ctx context.Context, userID string) (*GamificationState, error)

	// SaveState overwrites the stored state for the user.
	SaveState(ctx context.Context, userID string, state *GamificationState) error
}

// LogStore abstracts the meal diary. Logs are persisted before the
// gamification engine runs, so a reward failure never loses a meal record.
type LogStore interface {
	InsertLog(ctx context.Context, userID string, item DailyLogItem) error
	ListLogsForDay(ctx context.Context, userID, day string) ([]DailyLogItem, error)
	ListLogsSince(ctx context.Context, userID string, since time.Time) ([]DailyLogItem, error)
}

// MealAnalyzer abstracts the external AI model that turns a meal
// description (text and/or photos) into structured nutrient estimates.
type MealAnalyzer interface {
	// AnalyzeMeal returns the assistant's reply text and, when the model
	// produced one, a structured nutrient snapshot.
	AnalyzeMeal(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)
}

// AnalyzeRequest carries one meal description to the analyzer.
type AnalyzeRequest struct {
	History   []ChatMessage `json:"history"`
	Message   string        `json:"message"`
	ImageURLs []string      `json:"imageUrls,omitempty"`
	DayTotals *DayStats     `json:"dayTotals,omitempty"`
}

// AnalyzeResult is the analyzer's reply.
type AnalyzeResult struct {
	Text      string        `json:"text"`
	Nutrients *NutrientData `json:"nutrients,omitempty"`
	MealName  string        `json:"mealName,omitempty"`
}

// ChatMessage is one turn of the meal-logging conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// RewardLog records reward grants for the history view. Implementations
// must be safe to call after the state persist; a logging failure is
// reported but never fails the gamification call.
type RewardLog interface {
	RecordReward(ctx context.Context, userID, source string, reward Reward) error
}
