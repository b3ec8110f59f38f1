package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/ctxutil"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/flock"
)

// Directory permission for the database's parent directory.
const dirPerm = 0o750

// lockSuffix names the lock file that serializes schema setup between
// processes opening the same database.
const lockSuffix = ".lock"

// connPragmas are applied to every connection through the DSN.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// SQLiteStore implements Store on SQLite.
//
// The store holds a single connection, so transactions are serialized: a
// mutation sees a snapshot no other mutation can change mid-walk.
type SQLiteStore struct {
	db       *sql.DB
	maxDepth int
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithMaxAncestorDepth bounds GetAncestors walks.
func WithMaxAncestorDepth(n int) Option {
	return func(s *SQLiteStore) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Parent directories are created. Enables WAL mode and foreign keys.
// Schema setup runs under an exclusive lock on dbPath + ".lock".
func NewSQLiteStore(ctx context.Context, dbPath string, opts ...Option) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("failed to open store: path %w", tferrors.ErrEmptyValue)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	lock, err := flock.Acquire(ctx, dbPath+lockSuffix, constants.TxTimeout)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("component", "store").Msg("failed to release schema lock")
		}
	}()

	dsn := fmt.Sprintf("file:%s?%s&_pragma=journal_mode(WAL)", dbPath, connPragmas)
	s, err := open(ctx, dsn, opts...)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "store").
		Str("path", dbPath).
		Msg("opened task store")
	return s, nil
}

// NewMemoryStore creates a private in-memory database. Each call gets its own
// database, which lives until Close.
func NewMemoryStore(ctx context.Context, opts ...Option) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:taskflow-%s?mode=memory&cache=shared&%s", uuid.NewString(), connPragmas)
	return open(ctx, dsn, opts...)
}

func open(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes transactions and keeps an in-memory
	// database alive between them.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, maxDepth: constants.DefaultMaxAncestorDepth}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WithTx runs fn in a serializable transaction bounded by constants.TxTimeout
// unless ctx already has a deadline. The transaction commits only if fn
// returns nil.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	ctx, cancel := ctxutil.Bounded(ctx, constants.TxTimeout)
	defer cancel()

	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(ctx, &sqliteTx{tx: sqlTx, maxDepth: s.maxDepth}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// sqliteTx implements Tx over one *sql.Tx.
type sqliteTx struct {
	tx       *sql.Tx
	maxDepth int
}

// timeLayout keeps every fractional digit so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
