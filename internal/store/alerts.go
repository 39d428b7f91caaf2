package store

import (
	"fmt"
	"time"
)

// Alert is a user-configured threshold notification. Only low_stash
// alerts exist today; the type column leaves room for more.
type Alert struct {
	ID         int64
	UserID     string
	AlertType  string
	TargetType string
	Threshold  float64
	Message    string
	CreatedAt  int64
}

// AddLowStashAlert registers a low-stash threshold for a product type.
func (db *DB) AddLowStashAlert(userID, targetType string, threshold float64, message string) (*Alert, error) {
	if _, err := db.GetOrCreateUser(userID); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		INSERT INTO alerts (user_id, alert_type, target_type, threshold, message, created_at)
		VALUES (?, 'low_stash', ?, ?, ?, ?)
	`, userID, targetType, threshold, nullStr(message), now)
	if err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Alert{
		ID: id, UserID: userID, AlertType: "low_stash", TargetType: targetType,
		Threshold: threshold, Message: message, CreatedAt: now,
	}, nil
}

// ListAlerts returns a user's alerts.
func (db *DB) ListAlerts(userID string) ([]Alert, error) {
	rows, err := db.Query(`
		SELECT id, user_id, alert_type, COALESCE(target_type, ''), COALESCE(threshold, 0), COALESCE(message, ''), created_at
		FROM alerts WHERE user_id = ? ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.AlertType, &a.TargetType, &a.Threshold, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

// LowStashWarnings evaluates the user's low_stash alerts against current
// inventory and returns a message per tripped alert.
func (db *DB) LowStashWarnings(userID string) ([]string, error) {
	alerts, err := db.ListAlerts(userID)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, nil
	}

	items, err := db.ListStash(userID)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, a := range alerts {
		if a.AlertType != "low_stash" || a.TargetType == "" {
			continue
		}
		total := 0.0
		for _, it := range items {
			if it.ProductType == a.TargetType {
				total += it.Amount
			}
		}
		if total <= a.Threshold {
			msg := a.Message
			if msg == "" {
				msg = fmt.Sprintf("low %s: %g remaining", a.TargetType, total)
			}
			warnings = append(warnings, msg)
		}
	}
	return warnings, nil
}
