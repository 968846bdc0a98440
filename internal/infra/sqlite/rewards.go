package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// ─── Reward Ledger ──────────────────────────────────────────────────────────
// Implements domain.RewardLog. Append-only: every wallet movement gets one
// row, keyed by its source ("meal", "quest:q_photo", "habit:h_protein",
// "return_bonus", "chest").

// RewardEvent is one recorded grant.
type RewardEvent struct {
	ID        int64         `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Source    string        `json:"source"`
	Reward    domain.Reward `json:"reward"`
}

// RecordReward appends a reward event.
func (d *DB) RecordReward(ctx context.Context, userID, source string, reward domain.Reward) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO reward_events (user_id, timestamp, source, energy, balance, mindfulness)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, time.Now().Unix(), source, reward.Energy, reward.Balance, reward.Mindfulness,
	)
	if err != nil {
		return fmt.Errorf("insert reward event: %w", err)
	}
	return nil
}

// ListRewardEvents returns the user's most recent grants, newest first.
func (d *DB) ListRewardEvents(ctx context.Context, userID string, limit int) ([]RewardEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, timestamp, source, energy, balance, mindfulness
		 FROM reward_events WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query reward events: %w", err)
	}
	defer rows.Close()

	var events []RewardEvent
	for rows.Next() {
		var ev RewardEvent
		var ts int64
		if err := rows.Scan(&ev.ID, &ts, &ev.Source, &ev.Reward.Energy, &ev.Reward.Balance, &ev.Reward.Mindfulness); err != nil {
			return nil, err
		}
		ev.Timestamp = time.Unix(ts, 0)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// PruneRewardEvents deletes events older than the cutoff. Returns rows
// removed. Run by the daemon's nightly cleanup job.
func (d *DB) PruneRewardEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM reward_events WHERE timestamp < ?`, before.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
