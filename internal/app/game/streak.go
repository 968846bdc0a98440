package game

import (
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// Return mechanic: three consecutive active days after a lapse pay the
// win-back bonus once. One day is not enough to game it.
const (
	returnTargetDays   = 3
	returnBonusEnergy  = 150
	returnBonusBalance = 50
)

// rollover applies the once-per-calendar-day transition. Returns true if a
// new day was detected and the state mutated.
//
// Lapse handling: if the last completed day was neither yesterday nor
// today, a mindfulness token is consumed automatically to freeze the
// streak; without a token the streak resets and the return mechanic arms.
func rollover(state *domain.GamificationState, now time.Time) bool {
	today := dayKey(now)
	if state.LastLoginDate == today {
		return false
	}

	state.ActiveQuests = generateDailyQuests()
	state.DailyChestOpened = false
	state.LastLoginDate = today

	yesterday := dayKey(now.AddDate(0, 0, -1))

	if state.Streak.LastLogDate != yesterday && state.Streak.LastLogDate != today {
		// Missed at least one day.
		if state.Wallet.Mindfulness > 0 {
			state.Wallet.Mindfulness--
			state.Streak.FreezeActive = true
		} else {
			state.Streak.Current = 0
			state.ReturnMechanic.IsActive = true
			state.ReturnMechanic.CurrentDays = 0
			state.ReturnMechanic.LastLogDate = ""
		}
	} else {
		state.Streak.FreezeActive = false
	}

	// A miss during the win-back attempt restarts the count.
	if state.ReturnMechanic.IsActive && state.ReturnMechanic.LastLogDate != "" &&
		state.ReturnMechanic.LastLogDate != yesterday {
		state.ReturnMechanic.CurrentDays = 0
	}

	return true
}

// applyReturnMechanic advances the win-back count at most once per day and
// pays the bonus into rewards on the third consecutive active day.
func applyReturnMechanic(state *domain.GamificationState, today string, rewards *domain.Reward) bool {
	rm := &state.ReturnMechanic
	if !rm.IsActive || rm.LastLogDate == today {
		return false
	}

	rm.CurrentDays++
	rm.LastLogDate = today

	if rm.CurrentDays >= returnTargetDays {
		rewards.Energy += returnBonusEnergy
		rewards.Balance += returnBonusBalance
		rm.IsActive = false
		rm.CurrentDays = 0
		return true
	}
	return false
}

// incrementStreak counts today toward the streak, at most once per day,
// and maintains the best watermark. Callers gate this on the day-completion
// check.
func incrementStreak(state *domain.GamificationState, today string) bool {
	if state.Streak.LastLogDate == today {
		return false
	}
	state.Streak.Current++
	state.Streak.LastLogDate = today
	if state.Streak.Current > state.Streak.Best {
		state.Streak.Best = state.Streak.Current
	}
	return true
}
