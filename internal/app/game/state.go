// Package game implements the gamification state engine.
// A persisted per-user state machine driven by two entrypoints: day
// rollover (InitializeOrGetState) and meal-log events (ProcessNewLog).
// Everything the user sees — streaks, quests, habits, achievements, rank,
// the season map — derives deterministically from the day's logs.
package game

import (
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// dayLayout is the calendar-day key format. Days are compared as strings
// in the caller's timezone, matching how the log store buckets meals.
const dayLayout = "2006-01-02"

// dayKey returns the calendar-day key for a point in time.
func dayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// generateInitialState builds a fresh state document for a first-time user.
// The season map has SeasonLength day-slots, one per day, with a camp node
// every 7th day carrying bonus rewards. The wallet starts with a single
// mindfulness token so a new user survives their first missed day.
func generateInitialState(now time.Time) *domain.GamificationState {
	nodes := make([]domain.MapNode, 0, domain.SeasonLength)
	for i := 0; i < domain.SeasonLength; i++ {
		node := domain.MapNode{
			ID:     i,
			Day:    i + 1,
			Type:   domain.NodePath,
			Status: domain.NodeLocked,
		}
		if (i+1)%7 == 0 {
			node.Type = domain.NodeCamp
			node.Rewards = &domain.Reward{Mindfulness: 1, Energy: 50}
		}
		if i == 0 {
			node.Status = domain.NodeCurrent
		}
		nodes = append(nodes, node)
	}

	return &domain.GamificationState{
		Profile: domain.Profile{
			Name:            "Исследователь",
			TotalDaysActive: 0,
		},
		RankID:          "rookie",
		TotalExp:        0,
		Wallet:          domain.Wallet{Energy: 0, Balance: 0, Mindfulness: 1},
		CurrentSeasonID: "season_protein",
		CurrentDayIndex: 0,
		MapNodes:        nodes,
		ActiveQuests:    generateDailyQuests(),
		LastLoginDate:   dayKey(now),
		Streak: domain.Streak{
			Current:      0,
			Best:         0,
			LastLogDate:  "",
			FreezeActive: false,
		},
		ReturnMechanic: domain.ReturnMechanic{
			IsActive:    false,
			CurrentDays: 0,
			LastLogDate: "",
		},
		Habits: []domain.Habit{
			{ID: "h_breakfast", Title: "Завтрак чемпиона", Description: "Первый прием пищи до 11:00", Tier: domain.TierNone},
			{ID: "h_protein", Title: "Белковый профи", Description: "Набрать >100г белка за день", Tier: domain.TierNone},
			{ID: "h_veggie", Title: "Зеленый день", Description: "Съесть >20г клетчатки", Tier: domain.TierNone},
		},
		UnlockedAchievements: []string{},
		NotificationSettings: domain.NotificationSettings{Enabled: false},
	}
}

// migrate backfills fields added after a state document was first written.
// Runs before every return so older documents keep working.
func migrate(state *domain.GamificationState) {
	if state.UnlockedAchievements == nil {
		state.UnlockedAchievements = []string{}
	}
	for i := range state.Habits {
		if state.Habits[i].Tier == "" {
			state.Habits[i].Tier = domain.TierNone
		}
		if state.Habits[i].TotalCompletions < 0 {
			state.Habits[i].TotalCompletions = 0
		}
	}
}
