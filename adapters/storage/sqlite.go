package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"billboard-pricing/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS catalog_documents(
  kind       TEXT PRIMARY KEY,
  syntax     TEXT NOT NULL DEFAULT 'json',
  data       BLOB NOT NULL,
  hash       TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL
);
`

// SQLiteStore keeps catalogs in a local SQLite database
type SQLiteStore struct {
	db *sqlx.DB
}

type documentRow struct {
	Kind      string `db:"kind"`
	Syntax    string `db:"syntax"`
	Data      []byte `db:"data"`
	Hash      string `db:"hash"`
	UpdatedAt string `db:"updated_at"`
}

// NewSQLiteStore opens (creating if needed) the database at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.TypeConfig, "sqlite storage requires a database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Storage("create sqlite directory", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("open sqlite database", err)
	}
	// one writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Storage("ping sqlite database", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, errors.Storage("create catalog schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, sqliteSchema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, kind Kind) (*Document, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `
		SELECT kind, syntax, data, hash, updated_at
		FROM catalog_documents
		WHERE kind = ?`, string(kind))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(string(kind)+" catalog", "sqlite")
	}
	if err != nil {
		return nil, errors.Storage("read catalog document", err)
	}

	updated, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return nil, errors.Storage("parse catalog timestamp", err)
	}
	return &Document{
		Kind:      Kind(row.Kind),
		Syntax:    Syntax(row.Syntax),
		Data:      row.Data,
		Hash:      row.Hash,
		UpdatedAt: updated,
	}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, doc *Document) error {
	updated := doc.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_documents(kind, syntax, data, hash, updated_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
		  syntax = excluded.syntax,
		  data = excluded.data,
		  hash = excluded.hash,
		  updated_at = excluded.updated_at
	`, string(doc.Kind), string(doc.syntax()), doc.Data, doc.Hash, updated.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Storage("write catalog document", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
