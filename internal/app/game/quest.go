package game

import "github.com/nutribot-app/nutribot/internal/domain"

// generateDailyQuests returns the three fixed daily quests. Regenerated
// fresh at every calendar-day rollover; progress never carries over.
func generateDailyQuests() []domain.Quest {
	return []domain.Quest{
		{
			ID: "q_log_2", Title: "Дисциплина",
			Description: "Запишите минимум 2 приема пищи",
			Target:      2, Type: "daily", Icon: "camera",
			Reward: domain.Reward{Energy: 20},
		},
		{
			ID: "q_quality", Title: "Качество",
			Description: "Съешьте блюдо с оценкой \"A\" или \"S\"",
			Target:      1, Type: "daily", Icon: "star",
			Reward: domain.Reward{Balance: 15},
		},
		{
			ID: "q_photo", Title: "Фото-охота",
			Description: "Добавьте фото к любому приему пищи",
			Target:      1, Type: "daily", Icon: "image",
			Reward: domain.Reward{Energy: 10},
		},
	}
}

// updateQuests advances quest progress for a new log and latches completed
// quests exactly once, accumulating their one-shot rewards into rewards.
// The count quest recomputes progress from the full day list; the boolean
// quests set progress once.
func updateQuests(state *domain.GamificationState, newLog domain.DailyLogItem, dailyLogs []domain.DailyLogItem, rewards *domain.Reward) []domain.Quest {
	var completed []domain.Quest

	for i := range state.ActiveQuests {
		q := &state.ActiveQuests[i]
		if q.IsCompleted {
			continue
		}

		progressed := false
		switch q.ID {
		case "q_log_2":
			q.Progress = len(dailyLogs)
			if q.Progress > q.Target {
				q.Progress = q.Target
			}
			progressed = len(dailyLogs) >= q.Target
		case "q_quality":
			if newLog.Score() >= 80 { // A or S
				q.Progress = 1
				progressed = true
			}
		case "q_photo":
			if newLog.HasPhoto() {
				q.Progress = 1
				progressed = true
			}
		}

		if progressed && q.Progress >= q.Target {
			q.IsCompleted = true
			rewards.Add(q.Reward)
			completed = append(completed, *q)
		}
	}

	return completed
}
