// Package store is the persistent substrate (C1): relational storage
// of projects, assets, segments, embeddings, jobs, timeline versions,
// and orchestrator history, behind a single-writer discipline.
package store

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vibecut/daemon/internal/domain"
	platlog "github.com/vibecut/daemon/internal/platform/logger"
)

// Store is the facade every other component depends on. Reads go
// straight through the shared *gorm.DB without taking the write lock;
// writes funnel through withWriteLock so there is
// exactly one mutating handle on the database at a time, queued
// fairly by Go's mutex.
type Store struct {
	db  *gorm.DB
	log *platlog.Logger
	wmu sync.Mutex
}

// Open opens (or creates) the sqlite database at path, applies the
// additive migrations, and returns a ready Store. path may be
// ":memory:" for tests.
func Open(path string, log *platlog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("raw db handle: %w", err)
	}
	// Single-writer discipline at the engine level too: one open
	// connection means SQLite itself never has to arbitrate writers.
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: db, log: log.With("component", "Store")}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB exposes the shared read handle. Components performing reads only
// (retrieval, preconditions snapshots) may use this directly.
func (s *Store) DB() *gorm.DB { return s.db }

// withWriteLock serializes f against every other write in the process.
// Any error f returns propagates unchanged; persistence errors are
// fatal to the caller and are never swallowed here.
func (s *Store) withWriteLock(f func(tx *gorm.DB) error) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return f(s.db)
}

// withWriteTx funnels a caller-supplied transaction through the same write
// lock, for operations that must be atomic across several tables
// (project cascade delete, timeline version rollover).
func (s *Store) withWriteTx(ctx context.Context, f func(tx *gorm.DB) error) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.db.WithContext(ctx).Transaction(f)
}

// allModels lists every GORM model migrated at startup.
func (s *Store) allModels() []any {
	return []any{
		&domain.Project{},
		&domain.MediaAsset{},
		&domain.Segment{},
		&domain.Embedding{},
		&domain.Job{},
		&domain.TimelineVersion{},
		&domain.OrchestratorGoal{},
		&domain.OrchestratorMessage{},
	}
}
