package store

import (
	"context"
	"strings"

	"github.com/rcliao/product-support/internal/model"
)

// ExportAll returns all non-deleted entries, optionally filtered by session.
func (s *SQLiteStore) ExportAll(ctx context.Context, session string) ([]model.Entry, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if session != "" {
		where = append(where, "session = ?")
		args = append(args, session)
	}

	query := `SELECT ` + entryColumns + `
	          FROM entries WHERE ` + strings.Join(where, " AND ") + ` ORDER BY session, key, version`

	return s.query(ctx, query, args...)
}

// Import stores entries from an export in one transaction. Entries are
// replayed as new versions in the order given.
func (s *SQLiteStore) Import(ctx context.Context, entries []model.Entry) (int, error) {
	ps := make([]PutParams, len(entries))
	for i, e := range entries {
		ps[i] = PutParams{Session: e.Session, Key: e.Key, Value: e.Value}
	}
	if len(ps) == 0 {
		return 0, nil
	}
	if _, err := s.PutBatch(ctx, ps); err != nil {
		return 0, err
	}
	return len(ps), nil
}
