package storage

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// sqlStore implements Store over database/sql. The SQL is portable across
// the sqlite3 and mysql drivers; only the schema differs per backend.
type sqlStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

func (s *sqlStore) recordEvent(kind, userID, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ErrStoreClosed
	}

	_, err := s.db.Exec(
		`INSERT INTO canvas_events (kind, user_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		kind, userID, payload, time.Now().UTC(),
	)
	return err
}

// RecordJoin archives a user joining the session
func (s *sqlStore) RecordJoin(userID, username, color string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperrors.ErrStoreClosed
	}
	_, err := s.db.Exec(
		`INSERT INTO participants (user_id, username, color, joined_at) VALUES (?, ?, ?, ?)`,
		userID, username, color, time.Now().UTC(),
	)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return s.recordEvent(eventJoin, userID, "")
}

// RecordLeave archives a user leaving the session
func (s *sqlStore) RecordLeave(userID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperrors.ErrStoreClosed
	}
	_, err := s.db.Exec(
		`UPDATE participants SET left_at = ? WHERE user_id = ? AND left_at IS NULL`,
		time.Now().UTC(), userID,
	)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return s.recordEvent(eventLeave, userID, "")
}

// RecordCommand archives an appended draw or erase command
func (s *sqlStore) RecordCommand(cmd *protocol.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	kind := eventDraw
	if cmd.Type == protocol.CommandErase {
		kind = eventErase
	}
	return s.recordEvent(kind, cmd.UserID, string(payload))
}

// RecordUndo archives an undo by the given user
func (s *sqlStore) RecordUndo(userID string) error {
	return s.recordEvent(eventUndo, userID, "")
}

// RecordClear archives a canvas clear by the given user
func (s *sqlStore) RecordClear(userID string) error {
	return s.recordEvent(eventClear, userID, "")
}

// GetStats returns aggregate counters over the archive
func (s *sqlStore) GetStats() (*SessionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, apperrors.ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM canvas_events GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &SessionStats{}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		switch kind {
		case eventJoin:
			stats.Joins = count
		case eventLeave:
			stats.Leaves = count
		case eventDraw:
			stats.Draws = count
		case eventErase:
			stats.Erases = count
		case eventUndo:
			stats.Undos = count
		case eventClear:
			stats.Clears = count
		}
		stats.Total += count
	}
	return stats, rows.Err()
}

// Close releases the underlying database
func (s *sqlStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
