package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/product-support/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	// writeMu serializes read-modify-write version bumps.
	writeMu sync.Mutex

	idMu    sync.Mutex
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id          TEXT PRIMARY KEY,
		session     TEXT NOT NULL,
		key         TEXT NOT NULL,
		value       TEXT NOT NULL,
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entries_session_key ON entries(session, key);
	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_entries_deleted ON entries(deleted_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.Entry, error) {
	entries, err := s.PutBatch(ctx, []PutParams{p})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *SQLiteStore) PutBatch(ctx context.Context, ps []PutParams) ([]model.Entry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	entries := make([]model.Entry, 0, len(ps))
	for _, p := range ps {
		e, err := s.putTx(ctx, tx, p, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *SQLiteStore) putTx(ctx context.Context, tx *sql.Tx, p PutParams, now time.Time) (model.Entry, error) {
	if p.Session == "" || p.Key == "" {
		return model.Entry{}, fmt.Errorf("put: session and key are required")
	}
	id := s.newID()

	// Check for existing latest version
	var prevID string
	var prevVersion int
	err := tx.QueryRowContext(ctx,
		`SELECT id, version FROM entries
		 WHERE session = ? AND key = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, p.Session, p.Key).Scan(&prevID, &prevVersion)

	version := 1
	var supersedes *string
	switch {
	case err == nil:
		version = prevVersion + 1
		supersedes = &prevID
	case err != sql.ErrNoRows:
		return model.Entry{}, fmt.Errorf("find previous version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries (id, session, key, value, version, supersedes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.Session, p.Key, p.Value, version, supersedes, now.Format(time.RFC3339Nano))
	if err != nil {
		return model.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	e := model.Entry{
		ID:        id,
		Session:   p.Session,
		Key:       p.Key,
		Value:     p.Value,
		Version:   version,
		CreatedAt: now,
	}
	if supersedes != nil {
		e.Supersedes = *supersedes
	}
	return e, nil
}

const entryColumns = `id, session, key, value, version, supersedes, created_at, deleted_at`

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) ([]model.Entry, error) {
	var query string
	var args []interface{}

	if p.History {
		query = `SELECT ` + entryColumns + `
				 FROM entries WHERE session = ? AND key = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []interface{}{p.Session, p.Key}
	} else if p.Version > 0 {
		query = `SELECT ` + entryColumns + `
				 FROM entries WHERE session = ? AND key = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{p.Session, p.Key, p.Version}
	} else {
		query = `SELECT ` + entryColumns + `
				 FROM entries WHERE session = ? AND key = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []interface{}{p.Session, p.Key}
	}

	entries, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, p.Session, p.Key)
	}
	return entries, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	// Only the latest version of each session+key
	where := []string{"e.deleted_at IS NULL"}
	args := []interface{}{}

	if p.Session != "" {
		where = append(where, "e.session = ?")
		args = append(args, p.Session)
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.session, e.key, e.value, e.version, e.supersedes, e.created_at, e.deleted_at
		FROM entries e
		INNER JOIN (
			SELECT session, key, MAX(version) AS max_ver
			FROM entries WHERE deleted_at IS NULL
			GROUP BY session, key
		) latest ON e.session = latest.session AND e.key = latest.key AND e.version = latest.max_ver
		WHERE %s
		ORDER BY e.created_at DESC, e.key
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	if p.Hard {
		if p.AllVersions {
			_, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE session = ? AND key = ?`, p.Session, p.Key)
			return err
		}
		id, err := s.latestID(ctx, p.Session, p.Key)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if p.AllVersions {
		_, err := s.db.ExecContext(ctx,
			`UPDATE entries SET deleted_at = ? WHERE session = ? AND key = ? AND deleted_at IS NULL`,
			now, p.Session, p.Key)
		return err
	}

	id, err := s.latestID(ctx, p.Session, p.Key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE entries SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

func (s *SQLiteStore) latestID(ctx context.Context, session, key string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM entries WHERE session = ? AND key = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
		session, key).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, session, key)
	}
	return id, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var supersedes, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(&e.ID, &e.Session, &e.Key, &e.Value, &e.Version, &supersedes, &createdAt, &deletedAt)
	if err != nil {
		return e, err
	}

	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if supersedes.Valid {
		e.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, deletedAt.String)
		e.DeletedAt = &t
	}
	return e, nil
}
