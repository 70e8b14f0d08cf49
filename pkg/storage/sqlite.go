package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS participants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	username TEXT,
	color TEXT,
	joined_at DATETIME,
	left_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_participants_user ON participants(user_id);

CREATE TABLE IF NOT EXISTS canvas_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	user_id TEXT,
	payload TEXT,
	created_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_events_kind ON canvas_events(kind);
`

// NewSQLiteStore creates a SQLite-backed session archive
func NewSQLiteStore(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &sqlStore{db: db}, nil
}
