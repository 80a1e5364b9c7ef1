package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/interaction"
	"github.com/easeaico/companion-engine/internal/types"
)

// InteractionRepo provides access to the third_party_interactions table and
// implements interaction.Store.
type InteractionRepo struct {
	db *gorm.DB
}

// Create inserts a planned interaction.
func (r *InteractionRepo) Create(ctx context.Context, it *types.Interaction) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Create(it).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}

// Get fetches one interaction by id.
func (r *InteractionRepo) Get(ctx context.Context, id string) (*types.Interaction, error) {
	var it types.Interaction
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interaction %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get interaction: %w", err)
	}
	return &it, nil
}

// History lists interactions between a companion and a person, newest first.
func (r *InteractionRepo) History(ctx context.Context, companionID int, personID string) ([]types.Interaction, error) {
	var items []types.Interaction
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("companion_id = ? AND person_id = ?", companionID, personID).
			Order("created_at DESC").
			Find(&items).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list interaction history: %w", err)
	}
	return items, nil
}

// Planned lists pending interactions for a companion, oldest plan first.
func (r *InteractionRepo) Planned(ctx context.Context, companionID int, limit int) ([]types.Interaction, error) {
	var items []types.Interaction
	err := withRetry(ctx, func() error {
		q := r.db.WithContext(ctx).
			Where("companion_id = ? AND status = ?", companionID, types.InteractionPlanned).
			Order("created_at ASC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&items).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list planned interactions: %w", err)
	}
	return items, nil
}

// Complete transitions an interaction to completed in a single transaction:
// the status check, outcome fields, and attitude deltas commit together or
// not at all. An already-completed interaction returns unchanged with
// ErrConflict; no deltas are reapplied.
func (r *InteractionRepo) Complete(ctx context.Context, id string, gen interaction.GenerateFunc) (*types.Interaction, *types.AttitudeRecord, float64, error) {
	var (
		it       types.Interaction
		rec      types.AttitudeRecord
		oldScore float64
	)
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := lockForUpdate(tx).
				Where("id = ?", id).First(&it).Error; err != nil {
				return err
			}
			if it.Status == types.InteractionCompleted {
				return types.ErrConflict
			}

			var pers types.ThirdPartyPerson
			if err := tx.Where("id = ?", it.PersonID).First(&pers).Error; err != nil {
				return err
			}
			if err := lockForUpdate(tx).
				Where("companion_id = ? AND target_id = ? AND target_type = ?",
					it.CompanionID, it.PersonID, types.TargetThirdParty).
				First(&rec).Error; err != nil {
				return err
			}
			oldScore = rec.RelationshipScore

			out := gen(it.ID, rec.RelationshipScore, it.InteractionType, pers.Name)
			for name, delta := range out.Deltas {
				if err := rec.AddDimension(name, delta); err != nil {
					return err
				}
			}
			attitude.Rescore(&rec)
			rec.LastUpdated = time.Now()
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}

			now := time.Now()
			it.Status = types.InteractionCompleted
			it.Outcome = &out.Narrative
			it.ImpactOnRelationship = out.Impact
			it.CompletedAt = &now
			it.UpdatedAt = now
			return tx.Save(&it).Error
		})
	})
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return &it, nil, 0, fmt.Errorf("interaction %s: %w", id, types.ErrConflict)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, fmt.Errorf("interaction %s: %w", id, types.ErrNotFound)
		}
		return nil, nil, 0, fmt.Errorf("failed to complete interaction: %w", err)
	}
	return &it, &rec, oldScore, nil
}
