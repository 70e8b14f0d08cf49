package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS participants (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		user_id VARCHAR(64) NOT NULL,
		username VARCHAR(64),
		color VARCHAR(16),
		joined_at DATETIME,
		left_at DATETIME,
		INDEX idx_participants_user (user_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS canvas_events (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		kind VARCHAR(16) NOT NULL,
		user_id VARCHAR(64),
		payload TEXT,
		created_at DATETIME,
		INDEX idx_events_kind (kind)
	) ENGINE=InnoDB`,
}

// NewMySQLStore creates a MySQL-backed session archive. The DSN must enable
// parseTime for DATETIME scanning.
func NewMySQLStore(dsn string) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseConnection, err)
	}

	for _, stmt := range mysqlSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &sqlStore{db: db}, nil
}
