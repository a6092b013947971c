// Package runstore keeps the history of generation runs, either in a JSON
// file or in Postgres.
package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("runstore: run not found")

const cacheSize = 256

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	loadErr  error
	mu       sync.RWMutex
	byID     map[string]Record

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, Record]
}

// New returns a store backed by the JSON file at path.
func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Record),
	}
}

// NewPostgres opens a Postgres-backed store. Reads go through an LRU cache.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("runstore: open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("runstore: ping db: %w", err)
	}
	cache, err := lru.New[string, Record](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// Open picks Postgres when dsn is set and falls back to the file at path
// when the database cannot be reached.
func Open(dsn, path string, log *slog.Logger) *Store {
	if strings.TrimSpace(dsn) == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		if log != nil {
			log.Warn("run store: postgres unavailable, using file", "path", path, "err", err)
		}
		return New(path)
	}
	return s
}

// Backend names the active backend.
func (s *Store) Backend() string {
	if s != nil && s.db != nil {
		return "postgres"
	}
	return "file"
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Put(ctx context.Context, rec Record) error {
	if s == nil {
		return errors.New("runstore: store is nil")
	}
	rec = normalizeRecord(rec)
	if rec.ID == "" {
		return errors.New("runstore: id is required")
	}
	if s.db != nil {
		if err := s.putDB(ctx, rec); err != nil {
			return err
		}
		s.cache.Add(rec.ID, rec)
		return nil
	}
	return s.putFile(rec)
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	if s == nil {
		return Record{}, ErrNotFound
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrNotFound
	}
	if s.db != nil {
		if rec, ok := s.cache.Get(id); ok {
			return rec, nil
		}
		rec, err := s.getDB(ctx, id)
		if err != nil {
			return Record{}, err
		}
		s.cache.Add(id, rec)
		return rec, nil
	}
	return s.getFile(id)
}

// List returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if s == nil {
		return nil, nil
	}
	if s.db != nil {
		return s.listDB(ctx, limit)
	}
	return s.listFile(limit)
}

func sortNewestFirst(rows []Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}
