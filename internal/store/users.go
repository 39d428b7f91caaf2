package store

import (
	"database/sql"
	"fmt"
	"time"
)

// User holds per-user settings. UserID is an opaque caller-supplied
// identifier (the original system used chat-platform account IDs).
type User struct {
	UserID        string
	Timezone      string
	MaxDailyTHCMg *float64
	CreatedAt     int64
	UpdatedAt     int64
}

// GetUser returns a user by ID, or nil if not found.
func (db *DB) GetUser(userID string) (*User, error) {
	var u User
	err := db.QueryRow(`
		SELECT user_id, timezone, max_daily_thc_mg, created_at, updated_at
		FROM users WHERE user_id = ?
	`, userID).Scan(&u.UserID, &u.Timezone, &u.MaxDailyTHCMg, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetOrCreateUser returns the user, creating it with defaults on first use.
func (db *DB) GetOrCreateUser(userID string) (*User, error) {
	u, err := db.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	now := time.Now().UnixMilli()
	_, err = db.Exec(`
		INSERT INTO users (user_id, timezone, created_at, updated_at)
		VALUES (?, 'UTC', ?, ?)
	`, userID, now, now)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &User{UserID: userID, Timezone: "UTC", CreatedAt: now, UpdatedAt: now}, nil
}

// SetDailyLimit sets (or clears, with nil) the user's daily absorbed-dose cap.
func (db *DB) SetDailyLimit(userID string, limitMg *float64) error {
	if _, err := db.GetOrCreateUser(userID); err != nil {
		return err
	}
	_, err := db.Exec(`
		UPDATE users SET max_daily_thc_mg = ?, updated_at = ? WHERE user_id = ?
	`, limitMg, time.Now().UnixMilli(), userID)
	if err != nil {
		return fmt.Errorf("set daily limit: %w", err)
	}
	return nil
}

// SetTimezone updates the user's display timezone.
func (db *DB) SetTimezone(userID, tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	if _, err := db.GetOrCreateUser(userID); err != nil {
		return err
	}
	_, err := db.Exec(`
		UPDATE users SET timezone = ?, updated_at = ? WHERE user_id = ?
	`, tz, time.Now().UnixMilli(), userID)
	if err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}
	return nil
}
