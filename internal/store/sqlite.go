package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/finrecon/internal/logging"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a DocumentStore backed by a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

// SQLiteDSN builds the connection string used for both the store and its
// migrations.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// pending migrations. Opening is retried with exponential backoff while the
// file is locked by another process.
func NewSQLiteStore(ctx context.Context, path string, logger logging.Logger) (*SQLiteStore, error) {
	logger = logging.OrDefault(logger)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := SQLiteDSN(path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	ping := func() error {
		if err := db.PingContext(ctx); err != nil {
			logger.WithError(err).Debug("Database not ready, retrying", logging.F(logging.FieldFile, path))
			return err
		}
		return nil
	}
	retry := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(ping, retry); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("Opened document store", logging.F(logging.FieldFile, path))
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, userID, collection string, fields map[string]any) (Document, error) {
	docs, err := s.AddBatch(ctx, userID, collection, []map[string]any{fields})
	if err != nil {
		return Document{}, err
	}
	return docs[0], nil
}

// AddBatch inserts every document inside one transaction.
func (s *SQLiteStore) AddBatch(ctx context.Context, userID, collection string, batch []map[string]any) ([]Document, error) {
	if err := validateKey(userID, collection); err != nil {
		return nil, err
	}

	encoded := make([][]byte, len(batch))
	for i, fields := range batch {
		data, err := encodeFields(fields)
		if err != nil {
			return nil, err
		}
		encoded[i] = data
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, user_id, collection, fields, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	out := make([]Document, 0, len(batch))
	for _, data := range encoded {
		id := NewID()
		if _, err := stmt.ExecContext(ctx, id, userID, collection, string(data), now.UnixNano()); err != nil {
			return nil, fmt.Errorf("insert document: %w", err)
		}
		fields, err := decodeFields(data)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: id, Fields: fields, CreatedAt: now})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("Stored documents",
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldCollection, collection),
		logging.F(logging.FieldCount, len(out)))
	return out, nil
}

func (s *SQLiteStore) List(ctx context.Context, userID, collection string) ([]Document, error) {
	if err := validateKey(userID, collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields, created_at FROM documents
		 WHERE user_id = ? AND collection = ?
		 ORDER BY created_at DESC, seq DESC`, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			id        string
			data      string
			createdAt int64
		)
		if err := rows.Scan(&id, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		fields, err := decodeFields([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out = append(out, Document{ID: id, Fields: fields, CreatedAt: time.Unix(0, createdAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, collection, id string) error {
	if err := validateKey(userID, collection); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE user_id = ? AND collection = ? AND id = ?`, userID, collection, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
