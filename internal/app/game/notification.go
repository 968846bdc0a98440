package game

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// NotificationStore persists engagement notifications.
type NotificationStore interface {
	InsertNotification(ctx context.Context, userID string, n domain.Notification) (int64, error)
	NotificationCountOn(ctx context.Context, userID, day string) (int, error)
}

// NotificationService creates policy-capped notifications. The policy is a
// hard daily limit plus quiet hours: an engagement system that nags is
// worse than none.
type NotificationService struct {
	store  NotificationStore
	policy domain.NotificationPolicy
}

// NewNotificationService creates a notification service with the default
// policy.
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, policy: domain.DefaultNotificationPolicy()}
}

// NewNotificationServiceWithPolicy creates a notification service with a
// custom policy.
func NewNotificationServiceWithPolicy(store NotificationStore, policy domain.NotificationPolicy) *NotificationService {
	return &NotificationService{store: store, policy: policy}
}

// Create stores a notification if policy allows it. Returns the id, or 0
// when suppressed.
func (n *NotificationService) Create(ctx context.Context, userID string, notif domain.Notification, now time.Time) (int64, error) {
	count, err := n.store.NotificationCountOn(ctx, userID, dayKey(now))
	if err != nil {
		return 0, fmt.Errorf("count today: %w", err)
	}
	if count >= n.policy.MaxPerDay {
		return 0, nil // Daily limit reached.
	}
	if n.isQuietHour(now) {
		return 0, nil
	}

	notif.CreatedAt = now
	notif.Shown = false
	id, err := n.store.InsertNotification(ctx, userID, notif)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// isQuietHour reports whether t falls inside the quiet window. The window
// may wrap around midnight ("22:00"–"08:00").
func (n *NotificationService) isQuietHour(t time.Time) bool {
	start := parseClock(n.policy.QuietStart)
	end := parseClock(n.policy.QuietEnd)
	if start < 0 || end < 0 {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	if start <= end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

// parseClock turns "HH:MM" into minutes since midnight, -1 if malformed.
func parseClock(s string) int {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return -1
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return -1
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

// notifyAchievement sends an unlock notification when settings allow.
func (e *Engine) notifyAchievement(ctx context.Context, userID string, state *domain.GamificationState, achievementID string, now time.Time) {
	if e.notifier == nil || !state.NotificationSettings.Enabled {
		return
	}
	var def *AchievementDef
	for _, d := range AllAchievements() {
		if d.ID == achievementID {
			def = &d
			break
		}
	}
	if def == nil {
		return
	}
	_, err := e.notifier.Create(ctx, userID, domain.Notification{
		Type:  domain.NotifyAchievement,
		Title: "Новое достижение",
		Body:  def.Icon + " " + def.Title + " — " + def.Description,
	}, now)
	if err != nil {
		log.Printf("[game] achievement notification failed: %v", err)
	}
}

// notifyRankUp sends a rank-up notification when settings allow.
func (e *Engine) notifyRankUp(ctx context.Context, userID string, state *domain.GamificationState, now time.Time) {
	if e.notifier == nil || !state.NotificationSettings.Enabled {
		return
	}
	rank := CurrentRank(state.TotalExp)
	_, err := e.notifier.Create(ctx, userID, domain.Notification{
		Type:  domain.NotifyRankUp,
		Title: "Новый ранг",
		Body:  rank.Title,
	}, now)
	if err != nil {
		log.Printf("[game] rank notification failed: %v", err)
	}
}
