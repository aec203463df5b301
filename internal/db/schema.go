package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    gov_id        TEXT NOT NULL,
    name          TEXT NOT NULL,
    email         TEXT,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user', 'incharge')),
    location      TEXT,
    stars         INTEGER,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_gov_id_active
    ON users(gov_id) WHERE deleted_at IS NULL;

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id                 INTEGER PRIMARY KEY,
    item_id            TEXT NOT NULL,
    category           TEXT NOT NULL,
    type               TEXT NOT NULL,
    location           TEXT NOT NULL,
    temporary_location TEXT,
    condition          TEXT NOT NULL DEFAULT 'working' CHECK (condition IN ('working', 'damaged')),
    photo              BLOB,
    photo_mime         TEXT,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at         DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_item_id_active
    ON items(item_id) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS maintenance_requests (
    id                 TEXT PRIMARY KEY,
    gov_id             TEXT NOT NULL,
    user_id            INTEGER NOT NULL REFERENCES users(id),
    item_id            INTEGER NOT NULL REFERENCES items(id),
    issue_description  TEXT NOT NULL,
    status             TEXT NOT NULL DEFAULT 'PENDING'
                       CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED', 'COMPLETED', 'DISCARDED')),
    technician_id      TEXT,
    resolution_details TEXT,
    discard_reason     TEXT,
    approval_date      DATETIME,
    completion_date    DATETIME,
    maintenance_charge REAL,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notifications (
    id          INTEGER PRIMARY KEY,
    user_id     TEXT NOT NULL,
    incharge_id TEXT NOT NULL,
    message     TEXT NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS penalties (
    id            INTEGER PRIMARY KEY,
    gov_id        TEXT NOT NULL,
    stars_reduced INTEGER NOT NULL,
    reason        TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS awards (
    id          INTEGER PRIMARY KEY,
    gov_id      TEXT NOT NULL,
    stars_added INTEGER NOT NULL,
    reason      TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	`CREATE INDEX IF NOT EXISTS idx_requests_gov_id ON maintenance_requests(gov_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_incharge ON notifications(incharge_id)`,
	`CREATE INDEX IF NOT EXISTS idx_penalties_gov_id ON penalties(gov_id)`,
}

// Migrate creates the schema and runs all migrations.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
