package game

import "github.com/nutribot-app/nutribot/internal/domain"

// expPerLevel is the flat per-level experience cost. Deliberately not an
// escalating curve: levels are a frequent, cheap dopamine tick while rank
// is the long arc.
const expPerLevel = 100

// CalculateLevelInfo returns the derived level view for a total exp value.
func CalculateLevelInfo(totalExp int) domain.LevelInfo {
	return domain.LevelInfo{
		Level:        totalExp/expPerLevel + 1,
		Progress:     totalExp % expPerLevel,
		NextLevelExp: expPerLevel,
	}
}

// ranks is the fixed ascending progression table.
var ranks = []domain.Rank{
	{ID: "rookie", Title: "Новичок Осознанности", Level: 1, MinExp: 0},
	{ID: "gatherer", Title: "Собиратель Баланса", Level: 2, MinExp: 500},
	{ID: "architect", Title: "Архитектор Тарелки", Level: 3, MinExp: 1500},
	{ID: "master", Title: "Мастер Стабильности", Level: 4, MinExp: 3000},
	{ID: "mentor", Title: "Наставник Экспедиции", Level: 5, MinExp: 6000},
}

// Ranks returns the full rank table (for display).
func Ranks() []domain.Rank {
	out := make([]domain.Rank, len(ranks))
	copy(out, ranks)
	return out
}

// CurrentRank returns the highest rank whose threshold the exp meets.
func CurrentRank(exp int) domain.Rank {
	current := ranks[0]
	for _, r := range ranks {
		if exp >= r.MinExp {
			current = r
		}
	}
	return current
}

// NextRank returns the rank after the current one, or nil at the top tier.
func NextRank(exp int) *domain.Rank {
	current := CurrentRank(exp)
	for i, r := range ranks {
		if r.ID == current.ID && i+1 < len(ranks) {
			next := ranks[i+1]
			return &next
		}
	}
	return nil
}
