package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "users: per-user settings",
		SQL: `
CREATE TABLE users (
    user_id          TEXT PRIMARY KEY,
    timezone         TEXT NOT NULL DEFAULT 'UTC',
    max_daily_thc_mg REAL,
    created_at       INTEGER NOT NULL,
    updated_at       INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "consumption_entries: append-only session log",
		SQL: `
CREATE TABLE consumption_entries (
    id             INTEGER PRIMARY KEY,
    user_id        TEXT NOT NULL,
    product_type   TEXT NOT NULL,
    strain         TEXT,
    amount         REAL NOT NULL CHECK (amount > 0),
    thc_percent    REAL CHECK (thc_percent IS NULL OR (thc_percent >= 0 AND thc_percent <= 100)),
    method         TEXT NOT NULL,
    absorbed_mg    REAL NOT NULL,
    effect_rating  INTEGER CHECK (effect_rating IS NULL OR (effect_rating >= 1 AND effect_rating <= 5)),
    symptom        TEXT,
    notes          TEXT,
    consumed_at    INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE INDEX idx_entries_user_time ON consumption_entries(user_id, consumed_at);
`,
	},
	{
		Version:     3,
		Description: "stash_items: on-hand inventory per strain/product",
		SQL: `
CREATE TABLE stash_items (
    id           INTEGER PRIMARY KEY,
    user_id      TEXT NOT NULL,
    product_type TEXT NOT NULL,
    strain       TEXT,
    amount       REAL NOT NULL CHECK (amount >= 0),
    thc_percent  REAL CHECK (thc_percent IS NULL OR (thc_percent >= 0 AND thc_percent <= 100)),
    notes        TEXT,
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE INDEX idx_stash_user ON stash_items(user_id, product_type);
`,
	},
	{
		Version:     4,
		Description: "alerts: low-stash thresholds",
		SQL: `
CREATE TABLE alerts (
    id          INTEGER PRIMARY KEY,
    user_id     TEXT NOT NULL,
    alert_type  TEXT NOT NULL CHECK (alert_type IN ('low_stash')),
    target_type TEXT,
    threshold   REAL,
    message     TEXT,
    created_at  INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE INDEX idx_alerts_user ON alerts(user_id);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
