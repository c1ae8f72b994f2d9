// internal/history/sqlite.go
//
// SQLite-backed history Store, enabled with HISTORY_DB.
// The schema lives in assets/sql and is applied by the process at startup.

package history

import (
	"context"
	"database/sql"
	"time"
)

type sqliteStore struct{ db *sql.DB }

// NewSQLiteStore wraps an opened, migrated database.
func NewSQLiteStore(db *sql.DB) Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Record(ctx context.Context, m MatchRecord) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO matches
            (room_code, host_id, guest_id, host_score, guest_score, host_words, guest_words,
             rounds, is_tie, winner_role, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RoomCode, m.HostID, m.GuestID, m.HostScore, m.GuestScore, m.HostWords, m.GuestWords,
		m.Rounds, m.IsTie, m.WinnerRole,
		m.StartedAt.UTC().Format(time.RFC3339), m.FinishedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, room_code, host_id, guest_id, host_score, guest_score, host_words, guest_words,
               rounds, is_tie, winner_role, started_at, finished_at
        FROM matches
        ORDER BY finished_at DESC, id DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MatchRecord, 0, limit)
	for rows.Next() {
		var m MatchRecord
		var started, finished string
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.HostID, &m.GuestID, &m.HostScore, &m.GuestScore,
			&m.HostWords, &m.GuestWords, &m.Rounds, &m.IsTie, &m.WinnerRole, &started, &finished); err != nil {
			return nil, err
		}
		m.StartedAt, _ = time.Parse(time.RFC3339, started)
		m.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, m)
	}
	return out, rows.Err()
}
