package game_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nutribot-app/nutribot/internal/app/game"
	"github.com/nutribot-app/nutribot/internal/domain"
)

// memStore is an in-memory StateStore with optional injected save failures.
type memStore struct {
	mu        sync.Mutex
	states    map[string]*domain.GamificationState
	failSaves int
	saves     int
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*domain.GamificationState)}
}

func (m *memStore) LoadState(_ context.Context, userID string) (*domain.GamificationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[userID]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *memStore) SaveState(_ context.Context, userID string, state *domain.GamificationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves > 0 {
		m.failSaves--
		return errors.New("disk full")
	}
	m.saves++
	m.states[userID] = state.Clone()
	return nil
}

// memRewardLog captures ledger writes.
type memRewardLog struct {
	mu      sync.Mutex
	entries []string
}

func (m *memRewardLog) RecordReward(_ context.Context, userID, source string, _ domain.Reward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, source)
	return nil
}

func (m *memRewardLog) sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}

// day returns noon on 2026-03-<n> UTC; the tests only care about calendar
// day boundaries.
func day(n int) time.Time {
	return time.Date(2026, 3, n, 12, 0, 0, 0, time.UTC)
}

// mealLog builds a log with the given plate score at the given time.
func mealLog(ts time.Time, score int, photo bool, n domain.NutrientData) domain.DailyLogItem {
	grade := domain.GradeD
	switch {
	case score >= 90:
		grade = domain.GradeS
	case score >= 80:
		grade = domain.GradeA
	case score >= 60:
		grade = domain.GradeB
	case score >= 40:
		grade = domain.GradeC
	}
	l := domain.DailyLogItem{
		ID:           fmt.Sprintf("log-%d", ts.UnixNano()),
		Timestamp:    ts,
		Name:         "meal",
		NutrientData: n,
		PlateRating:  &domain.PlateRating{Score: score, Grade: grade},
	}
	if photo {
		l.Images = []string{"https://cdn.example/" + l.ID + ".jpg"}
	}
	return l
}

// completeDay runs two qualifying logs through the engine so the
// day-completion gate passes. Returns the state after the second log.
func completeDay(t *testing.T, e *game.Engine, userID string, ts time.Time) *domain.GamificationState {
	t.Helper()
	ctx := context.Background()
	goals := domain.DefaultGoals()

	first := mealLog(ts, 85, true, domain.NutrientData{Calories: 400, Protein: 30})
	second := mealLog(ts.Add(4*time.Hour), 85, false, domain.NutrientData{Calories: 500, Protein: 30})

	if _, _, err := e.ProcessNewLogAt(ctx, userID, first, []domain.DailyLogItem{first}, goals, ts); err != nil {
		t.Fatalf("first log: %v", err)
	}
	state, _, err := e.ProcessNewLogAt(ctx, userID, second, []domain.DailyLogItem{first, second}, goals, ts.Add(4*time.Hour))
	if err != nil {
		t.Fatalf("second log: %v", err)
	}
	return state
}

// ═══════════════════════════════════════════════════════════════════════════
// Initialization & rollover
// ═══════════════════════════════════════════════════════════════════════════

func TestInitialize_NewUser(t *testing.T) {
	e := game.NewEngine(newMemStore())

	state, err := e.InitializeOrGetStateAt(context.Background(), "u1", day(1))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if len(state.MapNodes) != domain.SeasonLength {
		t.Errorf("map nodes = %d, want %d", len(state.MapNodes), domain.SeasonLength)
	}
	if state.MapNodes[0].Status != domain.NodeCurrent {
		t.Errorf("first node status = %s, want current", state.MapNodes[0].Status)
	}
	for i, n := range state.MapNodes {
		wantCamp := (i+1)%7 == 0
		if (n.Type == domain.NodeCamp) != wantCamp {
			t.Errorf("node %d type = %s", i, n.Type)
		}
		if wantCamp && (n.Rewards == nil || n.Rewards.Mindfulness != 1 || n.Rewards.Energy != 50) {
			t.Errorf("camp node %d rewards = %+v", i, n.Rewards)
		}
	}

	if state.Wallet != (domain.Wallet{Energy: 0, Balance: 0, Mindfulness: 1}) {
		t.Errorf("initial wallet = %+v", state.Wallet)
	}
	if len(state.ActiveQuests) != 3 {
		t.Errorf("quests = %d, want 3", len(state.ActiveQuests))
	}
	if len(state.Habits) != 3 {
		t.Errorf("habits = %d, want 3", len(state.Habits))
	}
	if state.RankID != "rookie" {
		t.Errorf("rank = %q, want rookie", state.RankID)
	}
	if state.LastLoginDate != "2026-03-01" {
		t.Errorf("lastLoginDate = %q", state.LastLoginDate)
	}
}

func TestInitialize_SameDayIdempotent(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()

	first, err := e.InitializeOrGetStateAt(ctx, "u1", day(1))
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.InitializeOrGetStateAt(ctx, "u1", day(1).Add(6*time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	if first.LastLoginDate != second.LastLoginDate {
		t.Error("same-day rollover should not change login date")
	}
	if second.Wallet != first.Wallet || second.Streak != first.Streak {
		t.Errorf("same-day state drifted: %+v vs %+v", first, second)
	}
}

func TestRollover_RegeneratesQuestsAndChest(t *testing.T) {
	store := newMemStore()
	e := game.NewEngine(store)
	ctx := context.Background()

	completeDay(t, e, "u1", day(1))

	// Mark a quest complete and open flag set, then cross midnight.
	seeded := store.states["u1"].Clone()
	seeded.DailyChestOpened = true
	store.states["u1"] = seeded
	e2 := game.NewEngine(store) // fresh cache so the seeded store is read

	state, err := e2.InitializeOrGetStateAt(ctx, "u1", day(2))
	if err != nil {
		t.Fatal(err)
	}

	if state.DailyChestOpened {
		t.Error("chest flag should reset at rollover")
	}
	for _, q := range state.ActiveQuests {
		if q.IsCompleted || q.Progress != 0 {
			t.Errorf("quest %s not regenerated: %+v", q.ID, q)
		}
	}
	if state.LastLoginDate != "2026-03-02" {
		t.Errorf("lastLoginDate = %q", state.LastLoginDate)
	}
}

func TestRollover_MissedDayConsumesFreezeToken(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()

	state := completeDay(t, e, "u1", day(1))
	if state.Streak.Current != 1 {
		t.Fatalf("streak = %d, want 1", state.Streak.Current)
	}
	tokens := state.Wallet.Mindfulness

	// Skip day 2 entirely; reappear on day 3.
	state, err := e.InitializeOrGetStateAt(ctx, "u1", day(3))
	if err != nil {
		t.Fatal(err)
	}

	if state.Wallet.Mindfulness != tokens-1 {
		t.Errorf("mindfulness = %d, want %d (token consumed)", state.Wallet.Mindfulness, tokens-1)
	}
	if !state.Streak.FreezeActive {
		t.Error("freeze should be active after token consumption")
	}
	if state.Streak.Current != 1 {
		t.Errorf("streak = %d, want preserved 1", state.Streak.Current)
	}
	if state.ReturnMechanic.IsActive {
		t.Error("return mechanic must not arm when the streak was frozen")
	}
}

func TestRollover_MissedDayWithoutTokenResetsStreak(t *testing.T) {
	store := newMemStore()
	e := game.NewEngine(store)
	ctx := context.Background()

	state := completeDay(t, e, "u1", day(1))

	// Drain the wallet of freeze tokens.
	seeded := state.Clone()
	seeded.Wallet.Mindfulness = 0
	store.states["u1"] = seeded

	e2 := game.NewEngine(store)
	got, err := e2.InitializeOrGetStateAt(ctx, "u1", day(3))
	if err != nil {
		t.Fatal(err)
	}

	if got.Streak.Current != 0 {
		t.Errorf("streak = %d, want reset to 0", got.Streak.Current)
	}
	if got.Streak.Best != 1 {
		t.Errorf("best = %d, want watermark preserved", got.Streak.Best)
	}
	if !got.ReturnMechanic.IsActive {
		t.Error("return mechanic should arm on a hard lapse")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Rewards, quests, habits
// ═══════════════════════════════════════════════════════════════════════════

func TestProcessNewLog_BaseRewards(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	// Grade B meal, protein 25 (>20), calories 600 (>=200), fiber 6 (>5).
	l := mealLog(day(1), 65, false, domain.NutrientData{Calories: 600, Protein: 25, Fiber: 6})
	state, rewards, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, day(1))
	if err != nil {
		t.Fatal(err)
	}

	// 10 base + 10 protein + 5 calories = 25 energy; 5 grade B + 5 fiber = 10 balance.
	if rewards.Energy != 25 {
		t.Errorf("energy = %d, want 25", rewards.Energy)
	}
	if rewards.Balance != 10 {
		t.Errorf("balance = %d, want 10", rewards.Balance)
	}
	if state.Wallet.Energy != 25 || state.Wallet.Balance != 10 {
		t.Errorf("wallet = %+v", state.Wallet)
	}
	if state.TotalExp != rewards.Energy+rewards.Balance {
		t.Errorf("exp = %d, want %d", state.TotalExp, rewards.Energy+rewards.Balance)
	}
	if state.Profile.TotalDaysActive != 1 {
		t.Errorf("totalDaysActive = %d, want 1", state.Profile.TotalDaysActive)
	}
}

func TestQuests_OneShotLatch(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	// Two grade-A meals, no photos, no bonus nutrients.
	first := mealLog(day(1), 85, false, domain.NutrientData{Calories: 100})
	_, r1, err := e.ProcessNewLogAt(ctx, "u1", first, []domain.DailyLogItem{first}, goals, day(1))
	if err != nil {
		t.Fatal(err)
	}
	// 10 base energy; 15 grade A + 15 q_quality = 30 balance.
	if r1.Balance != 30 {
		t.Errorf("first balance = %d, want 30 (grade + quest)", r1.Balance)
	}

	second := mealLog(day(1).Add(2*time.Hour), 85, false, domain.NutrientData{Calories: 100})
	state, r2, err := e.ProcessNewLogAt(ctx, "u1", second, []domain.DailyLogItem{first, second}, goals, day(1).Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	// Quality quest already latched: 15 grade A only. q_log_2 pays 20 energy.
	if r2.Balance != 15 {
		t.Errorf("second balance = %d, want 15 (no double quest reward)", r2.Balance)
	}
	if r2.Energy != 10+20 {
		t.Errorf("second energy = %d, want 30 (base + q_log_2)", r2.Energy)
	}

	for _, q := range state.ActiveQuests {
		switch q.ID {
		case "q_log_2", "q_quality":
			if !q.IsCompleted {
				t.Errorf("quest %s should be completed", q.ID)
			}
		case "q_photo":
			if q.IsCompleted {
				t.Error("photo quest should stay open without photos")
			}
		}
	}
}

func TestHabits_RewardBypassesReturnedDelta(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	// Afternoon meal with 120g protein: completes h_protein only.
	// Grade D so no grade balance; no fiber, no quest quality.
	ts := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	l := mealLog(ts, 30, false, domain.NutrientData{Calories: 700, Protein: 120})
	state, rewards, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, ts)
	if err != nil {
		t.Fatal(err)
	}

	if rewards.Balance != 0 {
		t.Errorf("returned balance = %d, habit reward must not appear in the delta", rewards.Balance)
	}
	if state.Wallet.Balance != 5 {
		t.Errorf("wallet balance = %d, want 5 (direct habit grant)", state.Wallet.Balance)
	}
	// Exp: energy (10+10+5) mirrored + 10 habit exp.
	if state.TotalExp != rewards.Energy+rewards.Balance+10 {
		t.Errorf("exp = %d, want %d", state.TotalExp, rewards.Energy+rewards.Balance+10)
	}

	h := state.Habit("h_protein")
	if h == nil || h.TotalCompletions != 1 || h.Streak != 1 {
		t.Errorf("h_protein = %+v", h)
	}
}

func TestHabits_IdempotentPerDay(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	ts := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	first := mealLog(ts, 30, false, domain.NutrientData{Protein: 120})
	if _, _, err := e.ProcessNewLogAt(ctx, "u1", first, []domain.DailyLogItem{first}, goals, ts); err != nil {
		t.Fatal(err)
	}

	second := mealLog(ts.Add(time.Hour), 30, false, domain.NutrientData{Protein: 60})
	state, _, err := e.ProcessNewLogAt(ctx, "u1", second, []domain.DailyLogItem{first, second}, goals, ts.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	h := state.Habit("h_protein")
	if h.TotalCompletions != 1 {
		t.Errorf("completions = %d, want 1 (once per day)", h.TotalCompletions)
	}
	if len(h.History) != 1 {
		t.Errorf("history = %d entries, want 1", len(h.History))
	}
}

func TestHabits_BreakfastOnlyFirstMealBeforeCutoff(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	morning := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := mealLog(morning, 30, false, domain.NutrientData{Calories: 300})
	state, _, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, morning)
	if err != nil {
		t.Fatal(err)
	}
	if state.Habit("h_breakfast").TotalCompletions != 1 {
		t.Error("9:00 first meal should complete h_breakfast")
	}

	// Different user, first meal at noon: no breakfast.
	noon := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l2 := mealLog(noon, 30, false, domain.NutrientData{Calories: 300})
	state2, _, err := e.ProcessNewLogAt(ctx, "u2", l2, []domain.DailyLogItem{l2}, goals, noon)
	if err != nil {
		t.Fatal(err)
	}
	if state2.Habit("h_breakfast").TotalCompletions != 0 {
		t.Error("noon meal must not complete h_breakfast")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streaks, season map, return mechanic
// ═══════════════════════════════════════════════════════════════════════════

func TestStreak_IncrementsOncePerCompletedDay(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	state := completeDay(t, e, "u1", day(1))
	if state.Streak.Current != 1 {
		t.Fatalf("streak = %d, want 1", state.Streak.Current)
	}
	if state.MapNodes[0].Status != domain.NodeCompleted {
		t.Error("current map node should complete with the day")
	}

	// A third qualifying log the same day must not double count.
	extra := mealLog(day(1).Add(6*time.Hour), 90, true, domain.NutrientData{Calories: 300})
	logs := []domain.DailyLogItem{extra, extra, extra}
	state, _, err := e.ProcessNewLogAt(ctx, "u1", extra, logs, goals, day(1).Add(6*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if state.Streak.Current != 1 {
		t.Errorf("streak = %d after extra log, want 1", state.Streak.Current)
	}
}

func TestStreak_IncompleteDayDoesNotCount(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	// One meal, no photo: gate fails.
	l := mealLog(day(1), 95, false, domain.NutrientData{Calories: 300})
	state, _, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, day(1))
	if err != nil {
		t.Fatal(err)
	}
	if state.Streak.Current != 0 {
		t.Errorf("streak = %d, want 0", state.Streak.Current)
	}
	if state.MapNodes[0].Status == domain.NodeCompleted {
		t.Error("map node must not complete on an incomplete day")
	}
}

func TestStreak_GrowsAcrossDays(t *testing.T) {
	e := game.NewEngine(newMemStore())

	for d := 1; d <= 3; d++ {
		state := completeDay(t, e, "u1", day(d))
		if state.Streak.Current != d {
			t.Fatalf("day %d: streak = %d, want %d", d, state.Streak.Current, d)
		}
	}
}

func TestReturnMechanic_PaysOnThirdConsecutiveDay(t *testing.T) {
	store := newMemStore()
	e := game.NewEngine(store)
	ctx := context.Background()
	goals := domain.DefaultGoals()

	// Lapsed user with no freeze tokens: mechanic armed.
	state := completeDay(t, e, "u1", day(1))
	seeded := state.Clone()
	seeded.Wallet.Mindfulness = 0
	store.states["u1"] = seeded

	e2 := game.NewEngine(store)
	got, err := e2.InitializeOrGetStateAt(ctx, "u1", day(5))
	if err != nil {
		t.Fatal(err)
	}
	if !got.ReturnMechanic.IsActive {
		t.Fatal("return mechanic should be armed")
	}

	// Three consecutive completed days; the bonus lands on day 3.
	var dayRewards []domain.Reward
	for d := 5; d <= 7; d++ {
		ts := day(d)
		first := mealLog(ts, 85, true, domain.NutrientData{Calories: 400})
		_, r1, err := e2.ProcessNewLogAt(ctx, "u1", first, []domain.DailyLogItem{first}, goals, ts)
		if err != nil {
			t.Fatal(err)
		}
		second := mealLog(ts.Add(time.Hour), 85, false, domain.NutrientData{Calories: 400})
		got, _, err = e2.ProcessNewLogAt(ctx, "u1", second, []domain.DailyLogItem{first, second}, goals, ts.Add(time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		dayRewards = append(dayRewards, r1)
	}

	// First two days: no bonus in the first-log reward beyond base+quests.
	if dayRewards[0].Energy >= 150 || dayRewards[1].Energy >= 150 {
		t.Errorf("bonus paid early: %+v", dayRewards[:2])
	}
	// Day 3 first log: +150 energy / +50 balance on top of base.
	if dayRewards[2].Energy < 150 {
		t.Errorf("day-3 energy = %d, want return bonus included", dayRewards[2].Energy)
	}
	if dayRewards[2].Balance < 50 {
		t.Errorf("day-3 balance = %d, want return bonus included", dayRewards[2].Balance)
	}
	if got.ReturnMechanic.IsActive {
		t.Error("mechanic should disarm after the payout")
	}
	if got.ReturnMechanic.CurrentDays != 0 {
		t.Errorf("currentDays = %d, want 0", got.ReturnMechanic.CurrentDays)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievements
// ═══════════════════════════════════════════════════════════════════════════

func TestAchievements_FirstLogAndProteinMaster(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	ts := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	l := mealLog(ts, 30, false, domain.NutrientData{Protein: 160})
	state, _, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, ts)
	if err != nil {
		t.Fatal(err)
	}

	if !state.HasAchievement("a_first_log") {
		t.Error("a_first_log should unlock on the first log")
	}
	if !state.HasAchievement("a_protein_master") {
		t.Error("a_protein_master should unlock at 160g protein")
	}
	if state.HasAchievement("a_perfect_day") {
		t.Error("a_perfect_day must not unlock on an incomplete day")
	}
}

func TestAchievements_UnlockIsPermanentAndSingle(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	ts := day(1)
	l := mealLog(ts, 30, false, domain.NutrientData{Calories: 100})
	if _, _, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, ts); err != nil {
		t.Fatal(err)
	}
	l2 := mealLog(ts.Add(time.Hour), 30, false, domain.NutrientData{Calories: 100})
	state, _, err := e.ProcessNewLogAt(ctx, "u1", l2, []domain.DailyLogItem{l, l2}, goals, ts.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for _, id := range state.UnlockedAchievements {
		if id == "a_first_log" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("a_first_log appears %d times, want 1", count)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Persistence discipline
// ═══════════════════════════════════════════════════════════════════════════

func TestPersistFailure_CacheStaysConsistent(t *testing.T) {
	store := newMemStore()
	e := game.NewEngine(store)
	ctx := context.Background()
	goals := domain.DefaultGoals()

	if _, err := e.InitializeOrGetStateAt(ctx, "u1", day(1)); err != nil {
		t.Fatal(err)
	}

	store.failSaves = 1
	l := mealLog(day(1), 85, false, domain.NutrientData{Calories: 600, Protein: 25})
	if _, _, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, day(1)); err == nil {
		t.Fatal("expected save failure")
	}

	// The failed mutation must not leak into later reads.
	state, err := e.InitializeOrGetStateAt(ctx, "u1", day(1))
	if err != nil {
		t.Fatal(err)
	}
	if state.Wallet.Energy != 0 || state.TotalExp != 0 {
		t.Errorf("state after failed save = wallet %+v exp %d, want untouched", state.Wallet, state.TotalExp)
	}

	// Retrying the same log now succeeds and applies exactly once.
	state, rewards, err := e.ProcessNewLogAt(ctx, "u1", l, []domain.DailyLogItem{l}, goals, day(1))
	if err != nil {
		t.Fatal(err)
	}
	if state.Wallet.Energy != rewards.Energy {
		t.Errorf("wallet energy = %d, want %d", state.Wallet.Energy, rewards.Energy)
	}
}

func TestRewardLedger_RecordsSources(t *testing.T) {
	store := newMemStore()
	ledger := &memRewardLog{}
	e := game.NewEngine(store, game.WithRewardLog(ledger))

	completeDay(t, e, "u1", day(1))

	var hasMeal, hasQuest bool
	for _, src := range ledger.sources() {
		if src == "meal" {
			hasMeal = true
		}
		if src == "quest:q_log_2" || src == "quest:q_quality" || src == "quest:q_photo" {
			hasQuest = true
		}
	}
	if !hasMeal {
		t.Error("ledger missing meal entries")
	}
	if !hasQuest {
		t.Error("ledger missing quest entries")
	}
}

func TestEngine_PerUserIsolation(t *testing.T) {
	e := game.NewEngine(newMemStore())
	ctx := context.Background()
	goals := domain.DefaultGoals()

	l := mealLog(day(1), 85, false, domain.NutrientData{Calories: 600, Protein: 25})
	if _, _, err := e.ProcessNewLogAt(ctx, "alice", l, []domain.DailyLogItem{l}, goals, day(1)); err != nil {
		t.Fatal(err)
	}

	state, err := e.InitializeOrGetStateAt(ctx, "bob", day(1))
	if err != nil {
		t.Fatal(err)
	}
	if state.Wallet.Energy != 0 {
		t.Errorf("bob's wallet = %+v, want untouched by alice's log", state.Wallet)
	}
}
