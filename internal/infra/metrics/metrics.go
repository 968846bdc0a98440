// Package metrics provides Prometheus metrics for NutriBot — counters and
// gauges for meal logging, reward flow, and the AI analysis call.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Meal Logging ───────────────────────────────────────────────────────────

// LogsProcessed tracks meal logs run through the gamification engine.
var LogsProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nutribot",
	Name:      "logs_processed_total",
	Help:      "Total meal logs processed by the gamification engine.",
})

// AnalyzeLatency tracks AI meal-analysis request duration in seconds.
var AnalyzeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "nutribot",
	Name:      "analyze_latency_seconds",
	Help:      "Meal analysis request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// AnalyzeFailures tracks failed AI analysis calls.
var AnalyzeFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nutribot",
	Name:      "analyze_failures_total",
	Help:      "Total failed meal analysis calls.",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// RewardsGranted tracks reward units granted, by currency.
var RewardsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nutribot",
	Name:      "rewards_granted_total",
	Help:      "Total reward units granted.",
}, []string{"currency"})

// QuestsCompleted tracks completed daily quests.
var QuestsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nutribot",
	Name:      "quests_completed_total",
	Help:      "Total daily quests completed.",
})

// AchievementsUnlocked tracks unlocked achievements.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nutribot",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
})

// StreakDays tracks the most recently updated streak length.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "nutribot",
	Name:      "streak_days",
	Help:      "Current streak length of the last updated user.",
})

// ─── Images ─────────────────────────────────────────────────────────────────

// ImagesUploaded tracks meal photos uploaded to object storage.
var ImagesUploaded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "nutribot",
	Name:      "images_uploaded_total",
	Help:      "Total meal photos uploaded.",
})
