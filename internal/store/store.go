// Package store is the relational layer behind the ingestion pipeline.
// It owns the schema and every natural-key lookup the pipeline performs
// before creating a row; lookups return nil when nothing matches, which
// callers treat as "create new".
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps a gorm handle. All methods scope a fresh session per call.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path and migrates the schema.
func Open(path string, logMode bool) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	gl := gormlogger.Default
	if !logMode {
		gl = gl.LogMode(gormlogger.Silent)
	}

	// Foreign keys are enforced per connection, so they go in the DSN to
	// cover the whole pool; cascade deletes depend on them.
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// SQLite reliability tuning.
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")

	if err := db.AutoMigrate(&User{}, &Statement{}, &Label{}, &Transaction{}, &Comment{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// WithTx runs fn inside a single database transaction. The *Store passed to
// fn is bound to that transaction; any error rolls the whole scope back.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
