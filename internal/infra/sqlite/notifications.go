package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// ─── Notifications ──────────────────────────────────────────────────────────
// Backs game.NotificationStore plus the pending/shown API.

// InsertNotification stores a notification and returns its id.
func (d *DB) InsertNotification(ctx context.Context, userID string, n domain.Notification) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, body, day, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		userID, string(n.Type), n.Title, n.Body,
		n.CreatedAt.Format(logDayLayout), n.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return res.LastInsertId()
}

// NotificationCountOn returns how many notifications were created for the
// user on the given day.
func (d *DB) NotificationCountOn(ctx context.Context, userID, day string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND day = ?`,
		userID, day,
	).Scan(&count)
	return count, err
}

// ListPendingNotifications returns unshown notifications, oldest first.
func (d *DB) ListPendingNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, type, title, body, created_at, shown FROM notifications
		 WHERE user_id = ? AND shown = 0 ORDER BY created_at ASC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		var ts int64
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Body, &ts, &n.Shown); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		n.CreatedAt = time.Unix(ts, 0)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(ctx context.Context, id int64) error {
	_, err := d.db.ExecContext(ctx, `UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}

// PruneNotifications deletes notifications older than the cutoff.
func (d *DB) PruneNotifications(ctx context.Context, before time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE created_at < ?`, before.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
