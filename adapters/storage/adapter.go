// Package storage persists pricing and installation catalogs.
// Supports multiple backends: file, memory, PostgreSQL, SQLite.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"billboard-pricing/internal/config"
	"billboard-pricing/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile     Backend = "file"
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// Kind identifies which catalog a document holds
type Kind string

const (
	KindPricing      Kind = "pricing"
	KindInstallation Kind = "installation"
)

// Syntax is the encoding of a stored document
type Syntax string

const (
	SyntaxJSON Syntax = "json"
	SyntaxHCL  Syntax = "hcl"
)

// Document is a stored catalog in its persisted encoding
type Document struct {
	Kind      Kind      `json:"kind"`
	Syntax    Syntax    `json:"syntax"`
	Data      []byte    `json:"data"`
	Hash      string    `json:"hash"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Document) syntax() Syntax {
	if d.Syntax == "" {
		return SyntaxJSON
	}
	return d.Syntax
}

// Store is the storage interface. Writes replace the stored document
// wholesale; the last writer wins.
type Store interface {
	// Get retrieves the current document of a kind
	Get(ctx context.Context, kind Kind) (*Document, error)

	// Put replaces the document of a kind
	Put(ctx context.Context, doc *Document) error

	// Close closes the store
	Close() error
}

// FileStore keeps each catalog in its own file
type FileStore struct {
	paths map[Kind]string
	mu    sync.RWMutex
}

// NewFileStore creates a file store over the given catalog paths
func NewFileStore(pricingPath, installationPath string) *FileStore {
	return &FileStore{paths: map[Kind]string{
		KindPricing:      pricingPath,
		KindInstallation: installationPath,
	}}
}

func (s *FileStore) path(kind Kind) (string, error) {
	p, ok := s.paths[kind]
	if !ok || p == "" {
		return "", errors.Newf(errors.TypeConfig, "no file configured for %s catalog", kind)
	}
	return p, nil
}

func (s *FileStore) Get(ctx context.Context, kind Kind) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(kind)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(string(kind)+" catalog", path)
		}
		return nil, errors.Storage("stat catalog file", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Storage("read catalog file", err)
	}
	return &Document{
		Kind:      kind,
		Syntax:    syntaxOf(path),
		Data:      data,
		UpdatedAt: info.ModTime().UTC(),
	}, nil
}

func (s *FileStore) Put(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(doc.Kind)
	if err != nil {
		return err
	}
	if syntaxOf(path) != doc.syntax() {
		return errors.Inputf("cannot write %s document to %s", doc.syntax(), path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Storage("create catalog directory", err)
	}

	// write then rename so readers never see a partial catalog
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, doc.Data, 0644); err != nil {
		return errors.Storage("write catalog file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Storage("replace catalog file", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func syntaxOf(path string) Syntax {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return SyntaxHCL
	}
	return SyntaxJSON
}

// MemoryStore is an in-memory storage backend (for testing)
type MemoryStore struct {
	docs map[Kind]Document
	mu   sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[Kind]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, kind Kind) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[kind]
	if !ok {
		return nil, errors.NotFound(string(kind)+" catalog", "memory")
	}
	doc.Data = append([]byte(nil), doc.Data...)
	return &doc, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *doc
	stored.Data = append([]byte(nil), doc.Data...)
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}
	s.docs[doc.Kind] = stored
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Open creates the store selected by configuration
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Backend(cfg.Storage.Backend) {
	case BackendFile, "":
		return NewFileStore(cfg.Pricing.CatalogPath, cfg.Pricing.InstallationCatalogPath), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendPostgres:
		s, err := NewPostgresStore(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// Ensure interfaces are implemented
var (
	_ Store     = (*FileStore)(nil)
	_ Store     = (*MemoryStore)(nil)
	_ io.Closer = (*FileStore)(nil)
)
