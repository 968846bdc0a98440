package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// ─── Log Store ──────────────────────────────────────────────────────────────
// Implements domain.LogStore. Logs are bucketed by calendar-day key
// ("2006-01-02") computed from the item timestamp in local time, matching
// how the game engine keys its days.

// logDayLayout mirrors the engine's day key format.
const logDayLayout = "2006-01-02"

// InsertLog appends one meal to the diary.
func (d *DB) InsertLog(ctx context.Context, userID string, item domain.DailyLogItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode log: %w", err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO daily_logs (id, user_id, day, timestamp, item) VALUES (?, ?, ?, ?, ?)`,
		item.ID, userID, item.Timestamp.Format(logDayLayout), item.Timestamp.Unix(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// ListLogsForDay returns the day's logs ordered by timestamp ascending.
func (d *DB) ListLogsForDay(ctx context.Context, userID, day string) ([]domain.DailyLogItem, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT item FROM daily_logs WHERE user_id = ? AND day = ? ORDER BY timestamp ASC`,
		userID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

// ListLogsSince returns all logs at or after the given time, ordered by
// timestamp ascending. Used for the 7-day stats view.
func (d *DB) ListLogsSince(ctx context.Context, userID string, since time.Time) ([]domain.DailyLogItem, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT item FROM daily_logs WHERE user_id = ? AND timestamp >= ? ORDER BY timestamp ASC`,
		userID, since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanLogs(rows rowScanner) ([]domain.DailyLogItem, error) {
	var logs []domain.DailyLogItem
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var item domain.DailyLogItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("decode log: %w", err)
		}
		logs = append(logs, item)
	}
	return logs, rows.Err()
}
