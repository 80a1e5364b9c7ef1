package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/keylock"
	"github.com/easeaico/companion-engine/internal/person"
	"github.com/easeaico/companion-engine/internal/types"
)

// GenerateFunc produces an outcome for a completing interaction.
type GenerateFunc func(interactionID string, score float64, interactionType, personName string) Outcome

// Store defines interaction persistence behavior. Complete must run the
// whole transition atomically: status check, outcome fields, and attitude
// deltas are committed together or not at all. It returns the interaction,
// the updated attitude record, and the pre-completion relationship score;
// for an already-completed interaction it returns the existing record with
// ErrConflict.
type Store interface {
	Create(ctx context.Context, it *types.Interaction) error
	Get(ctx context.Context, id string) (*types.Interaction, error)
	History(ctx context.Context, companionID int, personID string) ([]types.Interaction, error)
	Planned(ctx context.Context, companionID int, limit int) ([]types.Interaction, error)
	Complete(ctx context.Context, id string, gen GenerateFunc) (*types.Interaction, *types.AttitudeRecord, float64, error)
}

// Planner turns interaction intents into planned interactions and completes
// them, applying the generated attitude deltas.
type Planner struct {
	store     Store
	attitudes *attitude.Service
	persons   *person.Directory
	locks     *keylock.KeyLock
	log       *logrus.Logger
	now       func() time.Time
}

// NewPlanner returns an interaction planner.
func NewPlanner(store Store, attitudes *attitude.Service, persons *person.Directory, log *logrus.Logger) *Planner {
	return &Planner{
		store:     store,
		attitudes: attitudes,
		persons:   persons,
		locks:     keylock.New(),
		log:       log,
		now:       time.Now,
	}
}

// Plan records a future interaction with a known person.
func (p *Planner) Plan(ctx context.Context, companionID int, personID, interactionType, description, plannedDate string) (*types.Interaction, error) {
	if companionID <= 0 || personID == "" {
		return nil, fmt.Errorf("%w: companion and person ids are required", types.ErrValidation)
	}
	if _, err := p.persons.GetByID(ctx, personID); err != nil {
		return nil, err
	}

	now := p.now()
	it := &types.Interaction{
		ID:              uuid.NewString(),
		CompanionID:     companionID,
		PersonID:        personID,
		InteractionType: interactionType,
		Description:     description,
		PlannedDate:     plannedDate,
		Status:          types.InteractionPlanned,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.store.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to plan interaction: %w", err)
	}
	p.log.WithFields(logrus.Fields{
		"interaction_id": it.ID,
		"companion_id":   companionID,
		"person_id":      personID,
		"type":           interactionType,
	}).Info("interaction planned")
	return it, nil
}

// Complete transitions a planned interaction to completed exactly once,
// generating the narrative outcome and applying the attitude deltas. A
// second call returns the existing record with ErrConflict and applies
// nothing.
func (p *Planner) Complete(ctx context.Context, id string) (*types.Interaction, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: interaction id is empty", types.ErrValidation)
	}
	unlock := p.locks.Lock(id)
	defer unlock()

	it, rec, oldScore, err := p.store.Complete(ctx, id, Generate)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return it, err
		}
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"interaction_id": it.ID,
		"impact":         it.ImpactOnRelationship,
		"score":          rec.RelationshipScore,
	}).Info("interaction completed")
	p.attitudes.NotifyChanged(ctx, rec, oldScore)
	return it, nil
}

// Get returns one interaction by id.
func (p *Planner) Get(ctx context.Context, id string) (*types.Interaction, error) {
	return p.store.Get(ctx, id)
}

// History lists interactions between a companion and a person, newest first.
func (p *Planner) History(ctx context.Context, companionID int, personID string) ([]types.Interaction, error) {
	return p.store.History(ctx, companionID, personID)
}

// Planned lists a companion's pending interactions.
func (p *Planner) Planned(ctx context.Context, companionID int, limit int) ([]types.Interaction, error) {
	return p.store.Planned(ctx, companionID, limit)
}

// HandleIntent resolves a detected intent against the person directory.
// Planning creates an interaction; an inquiry returns the most recent
// completed interaction, completing a pending planned one if that is all
// that exists. An intent about an unknown person yields nil.
func (p *Planner) HandleIntent(ctx context.Context, companionID int, intent Intent) (*types.Interaction, error) {
	if intent.Kind == IntentNone || intent.PersonName == "" {
		return nil, nil
	}

	pers, err := p.persons.Get(ctx, companionID, intent.PersonName)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	switch intent.Kind {
	case IntentPlanning:
		return p.Plan(ctx, companionID, pers.ID, intent.TypeGuess, intent.Description, intent.PlannedDate)
	case IntentInquiry:
		history, err := p.store.History(ctx, companionID, pers.ID)
		if err != nil {
			return nil, err
		}
		for i := range history {
			if history[i].Status == types.InteractionCompleted {
				return &history[i], nil
			}
		}
		for i := range history {
			if history[i].Status == types.InteractionPlanned {
				return p.Complete(ctx, history[i].ID)
			}
		}
		return nil, nil
	default:
		return nil, nil
	}
}
