package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/types"
)

// AttitudeRepo provides access to the companion_attitudes table.
type AttitudeRepo struct {
	db *gorm.DB
}

// Get fetches the record for (companion, target, type).
func (r *AttitudeRepo) Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, error) {
	var rec types.AttitudeRecord
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("companion_id = ? AND target_id = ? AND target_type = ?", companionID, targetID, targetType).
			First(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attitude for target %s: %w", targetID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get attitude: %w", err)
	}
	return &rec, nil
}

// Save upserts a full record keyed by (companion, target, type).
func (r *AttitudeRepo) Save(ctx context.Context, rec *types.AttitudeRecord) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "companion_id"}, {Name: "target_id"}, {Name: "target_type"}},
				UpdateAll: true,
			}).
			Create(rec).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save attitude: %w", err)
	}
	return nil
}

// ApplyDeltas applies dimension deltas in one transaction: read, clamp,
// rescore, write. No torn writes are observable.
func (r *AttitudeRepo) ApplyDeltas(ctx context.Context, companionID int, targetID string, targetType types.TargetType, deltas map[string]float64) (*types.AttitudeRecord, error) {
	var rec types.AttitudeRecord
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return applyDeltasTx(tx, &rec, companionID, targetID, targetType, deltas)
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attitude for target %s: %w", targetID, types.ErrNotFound)
		}
		return nil, err
	}
	return &rec, nil
}

func applyDeltasTx(tx *gorm.DB, rec *types.AttitudeRecord, companionID int, targetID string, targetType types.TargetType, deltas map[string]float64) error {
	if err := lockForUpdate(tx).
		Where("companion_id = ? AND target_id = ? AND target_type = ?", companionID, targetID, targetType).
		First(rec).Error; err != nil {
		return err
	}
	for name, delta := range deltas {
		if err := rec.AddDimension(name, delta); err != nil {
			return err
		}
	}
	attitude.Rescore(rec)
	rec.LastUpdated = time.Now()
	return tx.Save(rec).Error
}

// ListByCompanion returns all records for a companion, best relationship
// first.
func (r *AttitudeRepo) ListByCompanion(ctx context.Context, companionID int) ([]types.AttitudeRecord, error) {
	var records []types.AttitudeRecord
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("companion_id = ?", companionID).
			Order("relationship_score DESC").
			Find(&records).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attitudes: %w", err)
	}
	return records, nil
}
