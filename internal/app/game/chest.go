package game

import (
	"context"
	"time"

	"github.com/nutribot-app/nutribot/internal/app/rating"
	"github.com/nutribot-app/nutribot/internal/domain"
)

// chestBonusExp is granted on top of the rolled reward.
const chestBonusExp = 50

// ChestAvailable reports whether the daily chest can be opened: the full
// daily checklist is complete and the chest was not opened today.
func ChestAvailable(state *domain.GamificationState, logs []domain.DailyLogItem) bool {
	if state.DailyChestOpened {
		return false
	}
	for _, task := range rating.DailyChecklistStatus(logs) {
		if !task.IsCompleted {
			return false
		}
	}
	return true
}

// chestReward maps a uniform roll in [0,1) to a chest reward.
// 50% plain energy, 30% balance, 20% a mindfulness token with a little
// energy on the side.
func chestReward(roll float64) domain.Reward {
	switch {
	case roll < 0.5:
		return domain.Reward{Energy: 50}
	case roll < 0.8:
		return domain.Reward{Balance: 30}
	default:
		return domain.Reward{Mindfulness: 1, Energy: 20}
	}
}

// OpenDailyChest opens the daily chest if the checklist allows it.
// One-shot per calendar day: DailyChestOpened latches until the next
// rollover.
func (e *Engine) OpenDailyChest(ctx context.Context, userID string, logs []domain.DailyLogItem) (*domain.GamificationState, domain.Reward, error) {
	return e.OpenDailyChestAt(ctx, userID, logs, time.Now())
}

// OpenDailyChestAt is OpenDailyChest with an explicit clock, for testability.
func (e *Engine) OpenDailyChestAt(ctx context.Context, userID string, logs []domain.DailyLogItem, now time.Time) (*domain.GamificationState, domain.Reward, error) {
	u := e.entry(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	work, err := e.loadWorking(ctx, userID, u, now)
	if err != nil {
		return nil, domain.Reward{}, err
	}

	if work.DailyChestOpened {
		return nil, domain.Reward{}, domain.ErrChestAlreadyOpened
	}
	if !ChestAvailable(work, logs) {
		return nil, domain.Reward{}, domain.ErrChestLocked
	}

	reward := chestReward(e.roll())
	work.Wallet.Energy += reward.Energy
	work.Wallet.Balance += reward.Balance
	work.Wallet.Mindfulness += reward.Mindfulness
	work.TotalExp += chestBonusExp
	work.DailyChestOpened = true

	if err := e.persist(ctx, userID, u, work); err != nil {
		return nil, domain.Reward{}, err
	}

	e.record(ctx, userID, "chest", reward)
	return work.Clone(), reward, nil
}
