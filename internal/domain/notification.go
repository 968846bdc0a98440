package domain

import "time"

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes engagement notifications.
type NotificationType string

const (
	NotifyAchievement NotificationType = "achievement"
	NotifyRankUp      NotificationType = "rank_up"
	NotifyLevelUp     NotificationType = "level_up"
	NotifyQuest       NotificationType = "quest_complete"
)

// Notification is a user-facing message produced by the game engine.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy caps how often notifications are sent: a hard daily
// limit plus quiet hours.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy returns the standard policy: one per day,
// silence overnight.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  1,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}
