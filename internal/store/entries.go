package store

import (
	"fmt"
)

// Entry is one logged consumption session. AbsorbedMg is always derived
// by the dose calculator before insert, never supplied by the user, and
// rows are append-only.
type Entry struct {
	ID           int64
	UserID       string
	ProductType  string
	Strain       string
	Amount       float64
	THCPercent   *float64 // nil when the log carried no concentration
	Method       string
	AbsorbedMg   float64
	EffectRating int // 0 = not rated; stored as NULL
	Symptom      string
	Notes        string
	ConsumedAt   int64 // unix millis
}

const entryColumns = `id, user_id, product_type, COALESCE(strain, ''), amount, thc_percent,
	method, absorbed_mg, COALESCE(effect_rating, 0), COALESCE(symptom, ''), COALESCE(notes, ''), consumed_at`

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.ProductType, &e.Strain, &e.Amount, &e.THCPercent,
		&e.Method, &e.AbsorbedMg, &e.EffectRating, &e.Symptom, &e.Notes, &e.ConsumedAt)
	return e, err
}

// InsertEntry appends a consumption entry and fills in its ID.
func (db *DB) InsertEntry(e *Entry) error {
	result, err := db.Exec(`
		INSERT INTO consumption_entries
			(user_id, product_type, strain, amount, thc_percent, method, absorbed_mg, effect_rating, symptom, notes, consumed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.UserID, e.ProductType, nullStr(e.Strain), e.Amount, e.THCPercent, e.Method,
		e.AbsorbedMg, nullRating(e.EffectRating), nullStr(e.Symptom), nullStr(e.Notes), e.ConsumedAt)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	e.ID, _ = result.LastInsertId()
	return nil
}

// ListEntries returns a user's entries, most recent first, up to limit
// (0 = no limit). Callers doing temporal analysis normalize the order
// themselves.
func (db *DB) ListEntries(userID string, limit int) ([]Entry, error) {
	q := "SELECT " + entryColumns + " FROM consumption_entries WHERE user_id = ? ORDER BY consumed_at DESC"
	args := []any{userID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return db.queryEntries(q, args...)
}

// EntriesSince returns a user's entries at or after the given unix-milli
// timestamp, ascending by time.
func (db *DB) EntriesSince(userID string, sinceMillis int64) ([]Entry, error) {
	return db.queryEntries(
		"SELECT "+entryColumns+" FROM consumption_entries WHERE user_id = ? AND consumed_at >= ? ORDER BY consumed_at ASC",
		userID, sinceMillis)
}

// AbsorbedSince sums absorbed doses at or after the given timestamp.
func (db *DB) AbsorbedSince(userID string, sinceMillis int64) (float64, error) {
	var total float64
	err := db.QueryRow(`
		SELECT COALESCE(SUM(absorbed_mg), 0) FROM consumption_entries
		WHERE user_id = ? AND consumed_at >= ?
	`, userID, sinceMillis).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum absorbed: %w", err)
	}
	return total, nil
}

func (db *DB) queryEntries(q string, args ...any) ([]Entry, error) {
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullRating(r int) any {
	if r == 0 {
		return nil
	}
	return r
}
