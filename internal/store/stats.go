package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string         `json:"db_path"`
	DBSizeBytes   int64          `json:"db_size_bytes"`
	TotalEntries  int            `json:"total_entries"`
	ActiveEntries int            `json:"active_entries"`
	Sessions      []SessionStats `json:"sessions"`
}

// SessionStats holds per-session counts.
type SessionStats struct {
	Session string `json:"session"`
	Count   int    `json:"count"`
	Keys    int    `json:"keys"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Sessions: []SessionStats{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&st.TotalEntries); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL`).Scan(&st.ActiveEntries); err != nil {
		return st, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session, COUNT(*) as cnt, COUNT(DISTINCT key) as keys
		FROM entries WHERE deleted_at IS NULL
		GROUP BY session ORDER BY cnt DESC, session`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss SessionStats
		if err := rows.Scan(&ss.Session, &ss.Count, &ss.Keys); err != nil {
			return st, err
		}
		st.Sessions = append(st.Sessions, ss)
	}
	return st, rows.Err()
}
