// Package domain defines the core types of NutriBot.
// The meal diary feeds the gamification engine: users log meals, the AI
// model returns structured nutrient estimates, and the engine turns the
// day's logs into rewards, streaks, and progression.
package domain

import "time"

// ─── Nutrient Types ─────────────────────────────────────────────────────────

// NutrientData is a structured nutrient snapshot for a single meal.
// It comes from the AI analysis and is treated as trusted input; absent
// fields default to zero (lenient-input policy — upstream output is partial).
type NutrientData struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Omega3   float64 `json:"omega3"`
	Omega6   float64 `json:"omega6"`
	Iron     float64 `json:"iron"`
}

// UserGoals holds the user's daily nutrient targets.
// Threaded through the engine for forward compatibility; the current
// reward formulas use fixed thresholds.
type UserGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Omega3   float64 `json:"omega3"`
	Omega6   float64 `json:"omega6"`
	Iron     float64 `json:"iron"`
}

// DefaultGoals returns the standard daily targets used until the user
// sets their own.
func DefaultGoals() UserGoals {
	return UserGoals{
		Calories: 2000,
		Protein:  120,
		Fat:      70,
		Carbs:    200,
		Fiber:    30,
		Omega3:   1.6,
		Omega6:   10,
		Iron:     14,
	}
}

// ─── Plate Rating ───────────────────────────────────────────────────────────

// Grade is a single-letter plate quality grade.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// PlateRating is the derived quality assessment of one meal.
// Attached to each logged meal; never persisted as engine state.
type PlateRating struct {
	Score int      `json:"score"` // 0–100
	Grade Grade    `json:"grade"`
	Tags  []string `json:"tags"`
	Color string   `json:"color"`
}

// ─── Meal Log ───────────────────────────────────────────────────────────────

// DailyLogItem is one logged meal. Owned by the log store; the engine
// only ever reads the day's accumulated list.
type DailyLogItem struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`

	NutrientData

	PlateRating *PlateRating `json:"plateRating,omitempty"`
	AIAnalysis  string       `json:"aiAnalysis,omitempty"`
	Note        string       `json:"note,omitempty"`

	// Photo references. Image/ImageID are legacy single-photo fields kept
	// for documents written by older clients; Images/ImageIDs supersede
	// them. Any of the four counts as "has photo".
	Image    string   `json:"image,omitempty"`
	ImageID  string   `json:"imageId,omitempty"`
	Images   []string `json:"images,omitempty"`
	ImageIDs []string `json:"imageIds,omitempty"`
}

// HasPhoto reports whether the log carries at least one photo reference.
func (l DailyLogItem) HasPhoto() bool {
	return len(l.Images) > 0 || len(l.ImageIDs) > 0 || l.Image != "" || l.ImageID != ""
}

// Score returns the plate rating score, or 0 when the meal was never rated.
func (l DailyLogItem) Score() int {
	if l.PlateRating == nil {
		return 0
	}
	return l.PlateRating.Score
}

// ─── Checklist ──────────────────────────────────────────────────────────────

// ChecklistTask is one entry of the daily checklist shown in the UI.
type ChecklistTask struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	IsCompleted bool   `json:"isCompleted"`
}

// DayStats is an aggregated nutrient total for one calendar day.
type DayStats struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Omega3   float64 `json:"omega3"`
	Omega6   float64 `json:"omega6"`
	Iron     float64 `json:"iron"`
}
