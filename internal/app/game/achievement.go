package game

import "github.com/nutribot-app/nutribot/internal/domain"

// DayStatsSnapshot is the state slice fed to achievement predicates.
type DayStatsSnapshot struct {
	LogCount      int
	TotalProtein  float64
	TotalFiber    float64
	CurrentStreak int
	DayComplete   bool
}

// AchievementDef pairs a display badge with its unlock predicate.
// Defs with a nil predicate are display-only: their unlock path is not
// wired yet and they never fire.
type AchievementDef struct {
	domain.Achievement
	Predicate func(DayStatsSnapshot) bool
}

// AllAchievements returns the full achievement catalog.
func AllAchievements() []AchievementDef {
	return []AchievementDef{
		{
			Achievement: domain.Achievement{ID: "a_first_log", Title: "Первый шаг", Description: "Сделайте первую запись в дневнике", Icon: "🌱", Color: "text-green-400"},
			Predicate:   func(s DayStatsSnapshot) bool { return s.LogCount > 0 },
		},
		{
			Achievement: domain.Achievement{ID: "a_streak_3", Title: "Разгон", Description: "Держите стрик 3 дня подряд", Icon: "🔥", Color: "text-orange-500"},
			Predicate:   func(s DayStatsSnapshot) bool { return s.CurrentStreak >= 3 },
		},
		{
			Achievement: domain.Achievement{ID: "a_streak_7", Title: "Неделя побед", Description: "Полная неделя без пропусков", Icon: "📅", Color: "text-blue-500"},
			Predicate:   func(s DayStatsSnapshot) bool { return s.CurrentStreak >= 7 },
		},
		{
			Achievement: domain.Achievement{ID: "a_protein_master", Title: "Белковый барон", Description: "Наберите >150г белка за день", Icon: "🥩", Color: "text-red-400"},
			Predicate:   func(s DayStatsSnapshot) bool { return s.TotalProtein > 150 },
		},
		{
			Achievement: domain.Achievement{ID: "a_fiber_king", Title: "Клетчатка", Description: "Съешьте >30г клетчатки за день", Icon: "🥦", Color: "text-green-600"},
			Predicate:   func(s DayStatsSnapshot) bool { return s.TotalFiber > 30 },
		},
		{
			Achievement: domain.Achievement{ID: "a_perfect_day", Title: "Идеальный день", Description: "Выполните все цели дня", Icon: "✨", Color: "text-yellow-400"},
			Predicate:   func(s DayStatsSnapshot) bool { return s.DayComplete },
		},
		// Not wired yet: need per-nutrient goal tracking and a lifetime
		// photo counter before these can fire.
		{Achievement: domain.Achievement{ID: "a_omega_lord", Title: "Повелитель морей", Description: "Идеальный баланс Омега-3/6", Icon: "🐟", Color: "text-cyan-400"}},
		{Achievement: domain.Achievement{ID: "a_iron_man", Title: "Железный человек", Description: "Наберите норму железа (100%)", Icon: "⚓", Color: "text-gray-400"}},
		{Achievement: domain.Achievement{ID: "a_photographer", Title: "Фуд-блогер", Description: "Загрузите 10 фото еды", Icon: "📸", Color: "text-purple-400"}},
	}
}

// checkAchievements evaluates the catalog against the day snapshot and
// appends newly unlocked ids. Unlocks are permanent and carry no direct
// wallet payout. Returns the newly unlocked ids.
func checkAchievements(state *domain.GamificationState, snapshot DayStatsSnapshot) []string {
	var unlocked []string
	for _, def := range AllAchievements() {
		if def.Predicate == nil || state.HasAchievement(def.ID) {
			continue
		}
		if def.Predicate(snapshot) {
			state.UnlockedAchievements = append(state.UnlockedAchievements, def.ID)
			unlocked = append(unlocked, def.ID)
		}
	}
	return unlocked
}
