package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billboard-pricing/internal/errors"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS catalog_documents (
    kind       TEXT PRIMARY KEY,
    syntax     TEXT NOT NULL DEFAULT 'json',
    data       TEXT NOT NULL,
    hash       TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps catalogs in a PostgreSQL table, one row per kind
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects and ensures the schema exists
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New(errors.TypeConfig, "postgres storage requires a DSN")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Config("parse postgres DSN", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Storage("connect to postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Storage("ping postgres", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, errors.Storage("create catalog schema", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, kind Kind) (*Document, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT kind, syntax, data, hash, updated_at
        FROM catalog_documents
        WHERE kind = $1`, string(kind),
	)

	var doc Document
	var data string
	err := row.Scan(&doc.Kind, &doc.Syntax, &data, &doc.Hash, &doc.UpdatedAt)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFound(string(kind)+" catalog", "postgres")
	}
	if err != nil {
		return nil, errors.Storage("read catalog document", err)
	}
	doc.Data = []byte(data)
	return &doc, nil
}

func (s *PostgresStore) Put(ctx context.Context, doc *Document) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO catalog_documents (kind, syntax, data, hash, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (kind) DO UPDATE
        SET syntax = EXCLUDED.syntax,
            data = EXCLUDED.data,
            hash = EXCLUDED.hash,
            updated_at = EXCLUDED.updated_at`,
		string(doc.Kind), string(doc.syntax()), string(doc.Data), doc.Hash,
	)
	if err != nil {
		return errors.Storage("write catalog document", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
