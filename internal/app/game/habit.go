package game

import (
	"github.com/nutribot-app/nutribot/internal/domain"
)

// Habit completion reward. Applied directly to the wallet and exp, NOT to
// the reward delta returned to the caller. Quest rewards go through the
// returned delta; habit rewards do not.
const (
	habitRewardBalance = 5
	habitRewardExp     = 10
)

// Daily habit thresholds.
const (
	breakfastCutoffHour = 11
	habitProteinGrams   = 100
	habitFiberGrams     = 20
)

// evaluateHabits checks each habit against the new log and the day's
// accumulated totals. Idempotent per day: a habit with a completed history
// entry for today is skipped. Evaluation order is fixed array order; the
// habits share no counters.
func evaluateHabits(state *domain.GamificationState, newLog domain.DailyLogItem, allTodayLogs []domain.DailyLogItem) []string {
	hour := newLog.Timestamp.Hour()
	today := dayKey(newLog.Timestamp)

	var totalProtein, totalFiber float64
	for _, l := range allTodayLogs {
		totalProtein += l.Protein
		totalFiber += l.Fiber
	}

	var completedIDs []string
	for i := range state.Habits {
		habit := &state.Habits[i]
		if habitCompletedOn(habit, today) {
			continue
		}

		completed := false
		switch habit.ID {
		case "h_breakfast":
			// First meal of the day, before the cutoff.
			completed = len(allTodayLogs) == 1 && hour < breakfastCutoffHour
		case "h_protein":
			completed = totalProtein > habitProteinGrams
		case "h_veggie":
			completed = totalFiber > habitFiberGrams
		}
		if !completed {
			continue
		}

		habit.Streak++
		habit.TotalCompletions++
		habit.History = append(habit.History, domain.HabitEntry{Date: today, Status: "completed"})
		habit.Tier = HabitTierInfo(habit.TotalCompletions).Current

		state.Wallet.Balance += habitRewardBalance
		state.TotalExp += habitRewardExp
		completedIDs = append(completedIDs, habit.ID)
	}

	return completedIDs
}

// habitCompletedOn reports whether the habit already has a completed
// history entry for the given day.
func habitCompletedOn(h *domain.Habit, day string) bool {
	for _, e := range h.History {
		if e.Date == day && e.Status == "completed" {
			return true
		}
	}
	return false
}

// TierInfo describes a habit's current tier and progress toward the next.
type TierInfo struct {
	Current   domain.HabitTier
	Next      string  // next tier label, "" at platinum
	Remaining int     // completions left to the next tier
	Progress  float64 // 0–100 within the current tier band
}

// tierThresholds are the completion counts at which a habit is promoted.
var tierThresholds = []struct {
	count int
	tier  domain.HabitTier
	label string
}{
	{7, domain.TierBronze, "Bronze"},
	{21, domain.TierSilver, "Silver"},
	{50, domain.TierGold, "Gold"},
	{100, domain.TierPlatinum, "Platinum"},
}

// HabitTierInfo is the pure, monotonic tier function over completions.
func HabitTierInfo(completions int) TierInfo {
	prev := 0
	current := domain.TierNone
	for _, t := range tierThresholds {
		if completions < t.count {
			span := t.count - prev
			return TierInfo{
				Current:   current,
				Next:      t.label,
				Remaining: t.count - completions,
				Progress:  float64(completions-prev) / float64(span) * 100,
			}
		}
		prev = t.count
		current = t.tier
	}
	return TierInfo{Current: domain.TierPlatinum, Progress: 100}
}
