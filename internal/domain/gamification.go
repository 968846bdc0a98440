// Package domain — gamification state types.
// One GamificationState document per user, owned exclusively by the game
// engine and persisted as a last-write-wins blob.
package domain

// SeasonLength is the number of day-slots in one season map (4 weeks).
const SeasonLength = 28

// ─── Wallet & Rewards ───────────────────────────────────────────────────────

// Wallet holds the three independent reward currencies.
// Mindfulness doubles as the scarce streak-freeze token.
// All fields stay non-negative: the engine only ever adds.
type Wallet struct {
	Energy      int `json:"energy"`
	Balance     int `json:"balance"`
	Mindfulness int `json:"mindfulness"`
}

// Reward is the per-call reward delta returned to the caller.
// Fixed shape with zero defaults — absent and zero are the same thing.
type Reward struct {
	Energy      int `json:"energy"`
	Balance     int `json:"balance"`
	Mindfulness int `json:"mindfulness"`
}

// Add merges another reward into this one.
func (r *Reward) Add(other Reward) {
	r.Energy += other.Energy
	r.Balance += other.Balance
	r.Mindfulness += other.Mindfulness
}

// IsZero reports whether the reward grants nothing.
func (r Reward) IsZero() bool {
	return r.Energy == 0 && r.Balance == 0 && r.Mindfulness == 0
}

// ─── Streak Types ───────────────────────────────────────────────────────────

// Streak counts consecutive calendar days meeting the day-completion gate.
// A mindfulness token is consumed automatically to bridge one missed day.
type Streak struct {
	Current      int    `json:"current"`
	Best         int    `json:"best"`
	LastLogDate  string `json:"lastLogDate"` // "2006-01-02", empty if never
	FreezeActive bool   `json:"freezeActive"`
}

// ReturnMechanic is the win-back funnel for lapsed users: three consecutive
// active days after a streak reset pay a one-time bonus.
type ReturnMechanic struct {
	IsActive    bool   `json:"isActive"`
	CurrentDays int    `json:"currentDays"`
	LastLogDate string `json:"lastLogDate"`
}

// ─── Quests ─────────────────────────────────────────────────────────────────

// Quest is a daily objective. Regenerated fresh each calendar day;
// IsCompleted is a one-shot latch — the reward is granted exactly once.
type Quest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	IsCompleted bool   `json:"isCompleted"`
	Type        string `json:"type"` // "daily"
	Reward      Reward `json:"reward"`
	Icon        string `json:"icon"`
}

// ─── Season Map ─────────────────────────────────────────────────────────────

// NodeType distinguishes ordinary path days from weekly camp days.
type NodeType string

const (
	NodePath NodeType = "path"
	NodeCamp NodeType = "camp"
)

// NodeStatus is the map-node lifecycle. Transitions only move forward:
// locked → current → completed.
type NodeStatus string

const (
	NodeLocked    NodeStatus = "locked"
	NodeCurrent   NodeStatus = "current"
	NodeCompleted NodeStatus = "completed"
)

// MapNode is one day-slot in the 28-day season track. Every 7th node is a
// camp carrying bonus rewards.
type MapNode struct {
	ID      int        `json:"id"`
	Day     int        `json:"day"`
	Type    NodeType   `json:"type"`
	Status  NodeStatus `json:"status"`
	Rewards *Reward    `json:"rewards,omitempty"`
}

// ─── Habits ─────────────────────────────────────────────────────────────────

// HabitTier is a pure function of total completions (7/21/50/100).
type HabitTier string

const (
	TierNone     HabitTier = "none"
	TierBronze   HabitTier = "bronze"
	TierSilver   HabitTier = "silver"
	TierGold     HabitTier = "gold"
	TierPlatinum HabitTier = "platinum"
)

// HabitEntry is one day in a habit's history. At most one completed entry
// per date; the history is append-only.
type HabitEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// Habit tracks one recurring behavior (breakfast timing, protein total,
// fiber total). TotalCompletions never decreases.
type Habit struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Streak           int          `json:"streak"`
	History          []HabitEntry `json:"history"`
	Tier             HabitTier    `json:"tier"`
	TotalCompletions int          `json:"totalCompletions"`
}

// ─── Progression ────────────────────────────────────────────────────────────

// Rank is one tier of the fixed ascending progression table.
type Rank struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Level  int    `json:"level"`
	MinExp int    `json:"minExp"`
}

// LevelInfo is the derived level view for a total experience value.
type LevelInfo struct {
	Level        int `json:"level"`
	Progress     int `json:"progress"`
	NextLevelExp int `json:"nextLevelExp"`
}

// Achievement is a permanent badge definition for display.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// ─── State Document ─────────────────────────────────────────────────────────

// Profile holds display-level user stats.
type Profile struct {
	Name            string `json:"name"`
	TotalDaysActive int    `json:"totalDaysActive"`
}

// NotificationSettings controls whether engagement notifications are sent.
type NotificationSettings struct {
	Enabled  bool   `json:"enabled"`
	LastSent string `json:"lastSent"`
}

// GamificationState is the persisted per-user state document.
// Mutated exclusively through the engine's InitializeOrGetState (day
// rollover) and ProcessNewLog (event-driven) paths; TotalExp only grows.
type GamificationState struct {
	Profile              Profile              `json:"profile"`
	RankID               string               `json:"rankId"`
	TotalExp             int                  `json:"totalExp"`
	Wallet               Wallet               `json:"wallet"`
	CurrentSeasonID      string               `json:"currentSeasonId"`
	CurrentDayIndex      int                  `json:"currentDayIndex"`
	MapNodes             []MapNode            `json:"mapNodes"`
	ActiveQuests         []Quest              `json:"activeQuests"`
	LastLoginDate        string               `json:"lastLoginDate"`
	DailyChestOpened     bool                 `json:"dailyChestOpened"`
	Streak               Streak               `json:"streak"`
	ReturnMechanic       ReturnMechanic       `json:"returnMechanic"`
	Habits               []Habit              `json:"habits"`
	UnlockedAchievements []string             `json:"unlockedAchievements"`
	NotificationSettings NotificationSettings `json:"notificationSettings"`
}

// Clone returns a deep value copy of the state. The engine mutates clones
// and swaps its cache only after a successful persist, so a failed save
// never leaves the cache ahead of the store.
func (s *GamificationState) Clone() *GamificationState {
	out := *s

	out.MapNodes = make([]MapNode, len(s.MapNodes))
	copy(out.MapNodes, s.MapNodes)
	for i, n := range s.MapNodes {
		if n.Rewards != nil {
			r := *n.Rewards
			out.MapNodes[i].Rewards = &r
		}
	}

	out.ActiveQuests = make([]Quest, len(s.ActiveQuests))
	copy(out.ActiveQuests, s.ActiveQuests)

	out.Habits = make([]Habit, len(s.Habits))
	copy(out.Habits, s.Habits)
	for i, h := range s.Habits {
		out.Habits[i].History = make([]HabitEntry, len(h.History))
		copy(out.Habits[i].History, h.History)
	}

	out.UnlockedAchievements = make([]string, len(s.UnlockedAchievements))
	copy(out.UnlockedAchievements, s.UnlockedAchievements)

	return &out
}

// HasAchievement reports whether the achievement id is already unlocked.
func (s *GamificationState) HasAchievement(id string) bool {
	for _, a := range s.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// Habit returns a pointer to the habit with the given id, or nil.
func (s *GamificationState) Habit(id string) *Habit {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return &s.Habits[i]
		}
	}
	return nil
}
