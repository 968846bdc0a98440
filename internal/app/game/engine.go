package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/nutribot-app/nutribot/internal/app/rating"
	"github.com/nutribot-app/nutribot/internal/domain"
	"github.com/nutribot-app/nutribot/internal/infra/metrics"
)

// Base reward formula for every logged meal.
const (
	baseEnergy          = 10
	proteinBonusEnergy  = 10 // protein > 20g
	calorieBonusEnergy  = 5  // calories >= 200
	gradeSBalance       = 25
	gradeABalance       = 15
	gradeBBalance       = 5
	fiberBonusBalance   = 5 // fiber > 5g
)

// Engine owns the persisted GamificationState, one document per user.
// Each call is a read-modify-persist cycle serialized by a per-user mutex;
// the in-memory cache is swapped only after a successful persist, so a
// failed save leaves cache and store consistent.
type Engine struct {
	store     domain.StateStore
	rewardLog domain.RewardLog     // nil disables the history ledger
	notifier  *NotificationService // nil disables notifications

	rng   *rand.Rand
	rngMu sync.Mutex

	mu    sync.Mutex
	users map[string]*userEntry
}

// userEntry holds the per-user lock and the last persisted state.
type userEntry struct {
	mu    sync.Mutex
	state *domain.GamificationState
}

// Option configures an Engine.
type Option func(*Engine)

// WithRewardLog records every wallet movement into the given ledger.
func WithRewardLog(rl domain.RewardLog) Option {
	return func(e *Engine) { e.rewardLog = rl }
}

// WithNotifications enables engagement notifications.
func WithNotifications(n *NotificationService) Option {
	return func(e *Engine) { e.notifier = n }
}

// NewEngine creates a gamification engine backed by the given store.
func NewEngine(store domain.StateStore, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		users: make(map[string]*userEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// entry returns the per-user cache slot, creating it on first access.
func (e *Engine) entry(userID string) *userEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := e.users[userID]
	if !ok {
		u = &userEntry{}
		e.users[userID] = u
	}
	return u
}

// loadWorking returns a mutable working copy of the user's state with day
// rollover and field migration already applied. Caller holds u.mu.
func (e *Engine) loadWorking(ctx context.Context, userID string, u *userEntry, now time.Time) (*domain.GamificationState, error) {
	if u.state == nil {
		stored, err := e.store.LoadState(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		if stored == nil {
			stored = generateInitialState(now)
		}
		u.state = stored
	}

	work := u.state.Clone()
	rollover(work, now)
	migrate(work)
	return work, nil
}

// persist saves the working copy and, only on success, swaps the cache.
func (e *Engine) persist(ctx context.Context, userID string, u *userEntry, work *domain.GamificationState) error {
	if err := e.store.SaveState(ctx, userID, work); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	u.state = work
	return nil
}

// InitializeOrGetState loads (or creates) the user's state and performs
// the calendar-day rollover. Called on app boot and day checks. Calling it
// twice within the same day returns identical state.
func (e *Engine) InitializeOrGetState(ctx context.Context, userID string) (*domain.GamificationState, error) {
	return e.InitializeOrGetStateAt(ctx, userID, time.Now())
}

// InitializeOrGetStateAt is InitializeOrGetState with an explicit clock,
// for testability.
func (e *Engine) InitializeOrGetStateAt(ctx context.Context, userID string, now time.Time) (*domain.GamificationState, error) {
	u := e.entry(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	work, err := e.loadWorking(ctx, userID, u, now)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx, userID, u, work); err != nil {
		return nil, err
	}
	return work.Clone(), nil
}

// ProcessNewLog is the single mutation entrypoint for meal-log events.
// dailyLogs is the day's full log list including newLog, already bucketed
// by calendar day in the caller's timezone. Returns the updated state and
// the reward delta for UI display.
//
// The caller persists the meal log BEFORE calling this: a gamification
// failure must never lose the underlying meal record.
func (e *Engine) ProcessNewLog(ctx context.Context, userID string, newLog domain.DailyLogItem, dailyLogs []domain.DailyLogItem, goals domain.UserGoals) (*domain.GamificationState, domain.Reward, error) {
	return e.ProcessNewLogAt(ctx, userID, newLog, dailyLogs, goals, time.Now())
}

// ProcessNewLogAt is ProcessNewLog with an explicit clock, for testability.
func (e *Engine) ProcessNewLogAt(ctx context.Context, userID string, newLog domain.DailyLogItem, dailyLogs []domain.DailyLogItem, goals domain.UserGoals, now time.Time) (*domain.GamificationState, domain.Reward, error) {
	u := e.entry(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	work, err := e.loadWorking(ctx, userID, u, now)
	if err != nil {
		return nil, domain.Reward{}, err
	}

	var rewards domain.Reward
	today := dayKey(now)

	plate := domain.PlateRating{Score: 50, Grade: domain.GradeC}
	if newLog.PlateRating != nil {
		plate = *newLog.PlateRating
	}

	// First log of the day counts toward lifetime active days.
	if len(dailyLogs) == 1 {
		work.Profile.TotalDaysActive++
	}

	returnPaid := applyReturnMechanic(work, today, &rewards)

	// Base energy: quantity-driven.
	energy := baseEnergy
	if newLog.Protein > 20 {
		energy += proteinBonusEnergy
	}
	if newLog.Calories >= 200 {
		energy += calorieBonusEnergy
	}
	rewards.Energy += energy

	// Base balance: quality-driven.
	balance := 0
	switch plate.Grade {
	case domain.GradeS:
		balance += gradeSBalance
	case domain.GradeA:
		balance += gradeABalance
	case domain.GradeB:
		balance += gradeBBalance
	}
	if newLog.Fiber > 5 {
		balance += fiberBonusBalance
	}
	rewards.Balance += balance

	completedQuests := updateQuests(work, newLog, dailyLogs, &rewards)

	// Habit rewards bypass the returned delta and land directly in the
	// wallet (see habit.go).
	completedHabits := evaluateHabits(work, newLog, dailyLogs)

	totals := rating.DayTotals(dailyLogs)
	dayComplete := rating.CheckDayCompletion(dailyLogs)
	unlocked := checkAchievements(work, DayStatsSnapshot{
		LogCount:      len(dailyLogs),
		TotalProtein:  totals.Protein,
		TotalFiber:    totals.Fiber,
		CurrentStreak: work.Streak.Current,
		DayComplete:   dayComplete,
	})

	// Apply accumulated rewards; exp mirrors energy+balance.
	work.Wallet.Energy += rewards.Energy
	work.Wallet.Balance += rewards.Balance
	work.Wallet.Mindfulness += rewards.Mindfulness
	work.TotalExp += rewards.Energy + rewards.Balance

	previousRank := work.RankID
	work.RankID = CurrentRank(work.TotalExp).ID

	// Season map + streak, gated on the strict day-completion check.
	streakExtended := false
	if dayComplete {
		if work.CurrentDayIndex >= 0 && work.CurrentDayIndex < len(work.MapNodes) {
			node := &work.MapNodes[work.CurrentDayIndex]
			if node.Status != domain.NodeCompleted {
				node.Status = domain.NodeCompleted
			}
		}
		streakExtended = incrementStreak(work, today)
	}

	if err := e.persist(ctx, userID, u, work); err != nil {
		return nil, domain.Reward{}, err
	}

	e.record(ctx, userID, "meal", domain.Reward{Energy: energy, Balance: balance})
	if returnPaid {
		e.record(ctx, userID, "return_bonus", domain.Reward{Energy: returnBonusEnergy, Balance: returnBonusBalance})
	}
	for _, q := range completedQuests {
		e.record(ctx, userID, "quest:"+q.ID, q.Reward)
		metrics.QuestsCompleted.Inc()
	}
	for _, id := range completedHabits {
		e.record(ctx, userID, "habit:"+id, domain.Reward{Balance: habitRewardBalance})
	}
	for _, id := range unlocked {
		metrics.AchievementsUnlocked.Inc()
		e.notifyAchievement(ctx, userID, work, id, now)
	}
	if work.RankID != previousRank {
		e.notifyRankUp(ctx, userID, work, now)
	}

	metrics.LogsProcessed.Inc()
	metrics.RewardsGranted.WithLabelValues("energy").Add(float64(rewards.Energy))
	metrics.RewardsGranted.WithLabelValues("balance").Add(float64(rewards.Balance))
	if streakExtended {
		metrics.StreakDays.Set(float64(work.Streak.Current))
	}

	return work.Clone(), rewards, nil
}

// record appends a reward event to the history ledger. Best effort: the
// state is already persisted, a ledger failure only loses history.
func (e *Engine) record(ctx context.Context, userID, source string, reward domain.Reward) {
	if e.rewardLog == nil || reward.IsZero() {
		return
	}
	if err := e.rewardLog.RecordReward(ctx, userID, source, reward); err != nil {
		log.Printf("[game] reward ledger write failed (%s/%s): %v", userID, source, err)
	}
}

// roll returns a uniform random number in [0,1). Guarded because engine
// calls may run from concurrent request handlers.
func (e *Engine) roll() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}
