package attitude

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/keylock"
	"github.com/easeaico/companion-engine/internal/types"
)

// Repo defines attitude persistence behavior.
type Repo interface {
	Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, error)
	Save(ctx context.Context, record *types.AttitudeRecord) error
	ApplyDeltas(ctx context.Context, companionID int, targetID string, targetType types.TargetType, deltas map[string]float64) (*types.AttitudeRecord, error)
	ListByCompanion(ctx context.Context, companionID int) ([]types.AttitudeRecord, error)
}

// Cache is an optional read-through cache for attitude records.
type Cache interface {
	Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, bool)
	Set(ctx context.Context, record *types.AttitudeRecord)
	Invalidate(ctx context.Context, companionID int, targetID string, targetType types.TargetType)
}

// Change describes one committed attitude mutation. There is no global
// broadcast; callers subscribe explicitly via OnChange.
type Change struct {
	Record   types.AttitudeRecord
	OldScore float64
	NewScore float64
	OldLabel Label
	NewLabel Label
}

// Service owns AttitudeRecord lifetimes. Mutations to a single
// (companion, target) key are serialized through a per-key lock.
type Service struct {
	repo  Repo
	cache Cache
	locks *keylock.KeyLock
	log   *logrus.Logger

	obsMu     sync.RWMutex
	observers []func(Change)

	now func() time.Time
}

// NewService returns an attitude service. cache may be nil.
func NewService(repo Repo, cache Cache, log *logrus.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		locks: keylock.New(),
		log:   log,
		now:   time.Now,
	}
}

// OnChange registers an observer invoked after every committed mutation.
func (s *Service) OnChange(fn func(Change)) {
	s.obsMu.Lock()
	s.observers = append(s.observers, fn)
	s.obsMu.Unlock()
}

func (s *Service) key(companionID int, targetID string, targetType types.TargetType) string {
	return fmt.Sprintf("%d:%s:%s", companionID, targetType, targetID)
}

func validateTarget(companionID int, targetID string, targetType types.TargetType) error {
	if companionID <= 0 {
		return fmt.Errorf("%w: companion id must be positive", types.ErrValidation)
	}
	if targetID == "" {
		return fmt.Errorf("%w: target id is empty", types.ErrValidation)
	}
	if !types.ValidTargetType(targetType) {
		return fmt.Errorf("%w: unknown target type %q", types.ErrValidation, targetType)
	}
	return nil
}

// Get returns the attitude record for (companion, target, type).
func (s *Service) Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, error) {
	if err := validateTarget(companionID, targetID, targetType); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if rec, ok := s.cache.Get(ctx, companionID, targetID, targetType); ok {
			return rec, nil
		}
	}
	rec, err := s.repo.Get(ctx, companionID, targetID, targetType)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, rec)
	}
	return rec, nil
}

// List returns all attitude records for a companion, best relationship first.
func (s *Service) List(ctx context.Context, companionID int) ([]types.AttitudeRecord, error) {
	return s.repo.ListByCompanion(ctx, companionID)
}

// Upsert creates the record if absent, otherwise overwrites only the provided
// fields. Every dimension is clamped and the relationship score recomputed.
func (s *Service) Upsert(ctx context.Context, companionID int, targetID string, targetType types.TargetType, up *types.AttitudeUpsert) (*types.AttitudeRecord, error) {
	if err := validateTarget(companionID, targetID, targetType); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(s.key(companionID, targetID, targetType))
	defer unlock()

	rec, err := s.repo.Get(ctx, companionID, targetID, targetType)
	var oldScore float64
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		rec = &types.AttitudeRecord{
			CompanionID: companionID,
			TargetID:    targetID,
			TargetType:  targetType,
			CreatedAt:   s.now(),
		}
	} else {
		oldScore = rec.RelationshipScore
	}

	for name, value := range up.Fields() {
		if err := rec.SetDimension(name, value); err != nil {
			return nil, err
		}
	}
	Rescore(rec)
	rec.LastUpdated = s.now()

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save attitude: %w", err)
	}
	s.afterMutation(ctx, rec, oldScore)
	return rec, nil
}

// UpdateDimension applies a clamped delta to one dimension. Fails with
// ErrNotFound when no record exists and ErrInvalidDimension for unknown names.
func (s *Service) UpdateDimension(ctx context.Context, companionID int, targetID string, targetType types.TargetType, dimension string, delta float64) (*types.AttitudeRecord, error) {
	return s.ApplyDeltas(ctx, companionID, targetID, targetType, map[string]float64{dimension: delta})
}

// ApplyDeltas applies several dimension deltas as one atomic mutation.
func (s *Service) ApplyDeltas(ctx context.Context, companionID int, targetID string, targetType types.TargetType, deltas map[string]float64) (*types.AttitudeRecord, error) {
	if err := validateTarget(companionID, targetID, targetType); err != nil {
		return nil, err
	}
	for name := range deltas {
		if !types.ValidDimension(name) {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidDimension, name)
		}
	}
	unlock := s.locks.Lock(s.key(companionID, targetID, targetType))
	defer unlock()

	before, err := s.repo.Get(ctx, companionID, targetID, targetType)
	if err != nil {
		return nil, err
	}
	oldScore := before.RelationshipScore

	rec, err := s.repo.ApplyDeltas(ctx, companionID, targetID, targetType, deltas)
	if err != nil {
		return nil, fmt.Errorf("failed to apply attitude deltas: %w", err)
	}
	s.afterMutation(ctx, rec, oldScore)
	return rec, nil
}

// Seed profiles: a new person starts mostly neutral with elevated curiosity
// and surprise, and the relationship hint shifts a few dimensions.
func seedBaseline(rec *types.AttitudeRecord, relationshipHint string, valence float64) {
	rec.Trust = 5
	rec.Surprise = 15
	rec.Curiosity = 20
	rec.Respect = 10
	rec.Suspicion = 5
	rec.Empathy = 10

	switch relationshipHint {
	case "friend", "best friend":
		rec.Trust += 15
		rec.Joy += 10
		rec.Respect += 10
		rec.Suspicion -= 5
	case "brother", "sister", "mother", "father", "mom", "dad", "cousin",
		"uncle", "aunt", "grandmother", "grandfather", "grandma", "grandpa", "family":
		rec.Trust += 20
		rec.Joy += 15
		rec.Respect += 15
		rec.Empathy += 10
		rec.Suspicion = 0
	case "boss", "manager":
		rec.Respect += 20
		rec.Fear += 10
		rec.Curiosity += 10
	case "colleague", "coworker", "neighbor":
		rec.Trust += 10
		rec.Respect += 10
	}

	// The valence nudge is advisory and small enough that it can never move
	// a fresh record across a relationship-band boundary on its own.
	if valence > 0 {
		rec.Joy += 8 * valence
		rec.Trust += 5 * valence
	} else if valence < 0 {
		rec.Anger += 8 * -valence
		rec.Suspicion += 5 * -valence
	}
}

// Seed creates a default record for a newly detected target, optionally
// biased by a relationship hint and an emotional valence hint in [-1, 1].
// Returns the existing record unchanged when one is already present.
func (s *Service) Seed(ctx context.Context, companionID int, targetID string, targetType types.TargetType, relationshipHint string, valence float64) (*types.AttitudeRecord, error) {
	if err := validateTarget(companionID, targetID, targetType); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(s.key(companionID, targetID, targetType))
	defer unlock()

	if existing, err := s.repo.Get(ctx, companionID, targetID, targetType); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	rec := &types.AttitudeRecord{
		CompanionID: companionID,
		TargetID:    targetID,
		TargetType:  targetType,
		CreatedAt:   s.now(),
		LastUpdated: s.now(),
	}
	seedBaseline(rec, relationshipHint, clampValence(valence))
	Rescore(rec)

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to seed attitude: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"companion_id": companionID,
		"target_id":    targetID,
		"target_type":  targetType,
		"score":        rec.RelationshipScore,
	}).Debug("seeded attitude record")
	s.afterMutation(ctx, rec, 0)
	return rec, nil
}

// NotifyChanged publishes an externally committed mutation (e.g. an
// interaction completion that updated the record transactionally) to the
// cache and observers.
func (s *Service) NotifyChanged(ctx context.Context, rec *types.AttitudeRecord, oldScore float64) {
	s.afterMutation(ctx, rec, oldScore)
}

func (s *Service) afterMutation(ctx context.Context, rec *types.AttitudeRecord, oldScore float64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, rec.CompanionID, rec.TargetID, rec.TargetType)
	}
	change := Change{
		Record:   *rec,
		OldScore: oldScore,
		NewScore: rec.RelationshipScore,
		OldLabel: Classify(oldScore),
		NewLabel: Classify(rec.RelationshipScore),
	}
	s.obsMu.RLock()
	observers := s.observers
	s.obsMu.RUnlock()
	for _, fn := range observers {
		fn(change)
	}
}

func clampValence(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
