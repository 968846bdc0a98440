package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// ─── State Store ────────────────────────────────────────────────────────────
// Implements domain.StateStore: one JSON document per user, whole-document
// overwrite on save. The last writer wins.

// LoadState returns the stored state for the user, or (nil, nil) if none
// exists yet.
func (d *DB) LoadState(ctx context.Context, userID string) (*domain.GamificationState, error) {
	var raw string
	err := d.db.QueryRowContext(ctx,
		`SELECT state FROM game_states WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query state: %w", err)
	}

	var state domain.GamificationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}

// SaveState overwrites the stored state for the user.
func (d *DB) SaveState(ctx context.Context, userID string, state *domain.GamificationState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO game_states (user_id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET state=excluded.state, updated_at=excluded.updated_at`,
		userID, string(raw), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// ListStateUsers returns the ids of all users with a stored state, for the
// daemon's day-rollover tick.
func (d *DB) ListStateUsers(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT user_id FROM game_states ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// ─── User Goals ─────────────────────────────────────────────────────────────

// LoadGoals returns the user's goals, falling back to the defaults.
func (d *DB) LoadGoals(ctx context.Context, userID string) (domain.UserGoals, error) {
	var raw string
	err := d.db.QueryRowContext(ctx,
		`SELECT goals FROM user_goals WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultGoals(), nil
	}
	if err != nil {
		return domain.UserGoals{}, fmt.Errorf("query goals: %w", err)
	}

	var goals domain.UserGoals
	if err := json.Unmarshal([]byte(raw), &goals); err != nil {
		return domain.UserGoals{}, fmt.Errorf("decode goals: %w", err)
	}
	return goals, nil
}

// SaveGoals overwrites the user's goals.
func (d *DB) SaveGoals(ctx context.Context, userID string, goals domain.UserGoals) error {
	raw, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO user_goals (user_id, goals, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET goals=excluded.goals, updated_at=excluded.updated_at`,
		userID, string(raw), time.Now().Unix(),
	)
	return err
}
