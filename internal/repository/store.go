// Package repository persists engine state with gorm. PostgreSQL backs
// production; the sqlite driver serves local setups and tests.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/easeaico/companion-engine/internal/types"
)

// Store holds the DB pool and repositories.
type Store struct {
	db           *gorm.DB
	Attitudes    *AttitudeRepo
	Persons      *PersonRepo
	Interactions *InteractionRepo
}

// Open initializes the database and repositories. URLs with a postgres
// scheme use the postgres driver; anything else is treated as a sqlite path.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewStore(db), nil
}

// NewStore wraps an existing gorm DB.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Attitudes:    &AttitudeRepo{db: db},
		Persons:      &PersonRepo{db: db},
		Interactions: &InteractionRepo{db: db},
	}
}

// AutoMigrate creates or updates the engine's tables.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(
		&types.AttitudeRecord{},
		&types.ThirdPartyPerson{},
		&types.Interaction{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// DB exposes the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

// lockForUpdate adds a row lock on dialects that support it. sqlite has a
// single writer and rejects FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

const (
	retryAttempts = 3
	retryBackoff  = 50 * time.Millisecond
)

// withRetry runs op with bounded retries for transient persistence errors.
// Each op is a full transaction, so retrying never duplicates effects.
func withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = op()
		if err == nil || !isRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("persistence failed after %d attempts: %w", retryAttempts, err)
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrConflict),
		errors.Is(err, types.ErrInvalidDimension),
		errors.Is(err, types.ErrValidation),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}
