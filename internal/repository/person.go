package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/easeaico/companion-engine/internal/types"
)

// PersonRepo provides access to the third_party_persons table.
type PersonRepo struct {
	db *gorm.DB
}

// GetByName fetches a person by normalized name within a companion's scope.
func (r *PersonRepo) GetByName(ctx context.Context, companionID int, nameKey string) (*types.ThirdPartyPerson, error) {
	var p types.ThirdPartyPerson
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("companion_id = ? AND name_key = ?", companionID, nameKey).
			First(&p).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("person %q: %w", nameKey, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get person by name: %w", err)
	}
	return &p, nil
}

// GetByID fetches a person by id.
func (r *PersonRepo) GetByID(ctx context.Context, id string) (*types.ThirdPartyPerson, error) {
	var p types.ThirdPartyPerson
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("person %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get person by id: %w", err)
	}
	return &p, nil
}

// Create inserts a new person record.
func (r *PersonRepo) Create(ctx context.Context, p *types.ThirdPartyPerson) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Create(p).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// Update saves an existing person record.
func (r *PersonRepo) Update(ctx context.Context, p *types.ThirdPartyPerson) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Save(p).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}

// List returns every person known to a companion, most important first.
func (r *PersonRepo) List(ctx context.Context, companionID int) ([]types.ThirdPartyPerson, error) {
	var persons []types.ThirdPartyPerson
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("companion_id = ?", companionID).
			Order("importance_score DESC, mention_count DESC").
			Find(&persons).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}
