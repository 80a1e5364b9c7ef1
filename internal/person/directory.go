package person

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/types"
)

// Repo defines third-party person persistence behavior.
type Repo interface {
	GetByName(ctx context.Context, companionID int, nameKey string) (*types.ThirdPartyPerson, error)
	GetByID(ctx context.Context, id string) (*types.ThirdPartyPerson, error)
	Create(ctx context.Context, p *types.ThirdPartyPerson) error
	Update(ctx context.Context, p *types.ThirdPartyPerson) error
	List(ctx context.Context, companionID int) ([]types.ThirdPartyPerson, error)
}

// Directory owns ThirdPartyPerson records and performs identity resolution
// by normalized name within a companion's scope.
type Directory struct {
	repo Repo
	log  *logrus.Logger
	now  func() time.Time
}

// NewDirectory returns a person directory.
func NewDirectory(repo Repo, log *logrus.Logger) *Directory {
	return &Directory{repo: repo, log: log, now: time.Now}
}

// Resolve looks up an existing person by normalized name. A repeat mention
// increments the mention count, refreshes last_mentioned, and fills hint
// fields that are still null; it never overwrites known facts. An unknown
// name creates a new record. The created flag reports which path was taken.
func (d *Directory) Resolve(ctx context.Context, companionID int, cand Candidate) (*types.ThirdPartyPerson, bool, error) {
	name := strings.Join(strings.Fields(cand.Name), " ")
	if name == "" {
		return nil, false, fmt.Errorf("%w: empty person name", types.ErrValidation)
	}
	nameKey := types.NormalizeName(name)

	existing, err := d.repo.GetByName(ctx, companionID, nameKey)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, false, err
	}

	now := d.now()
	if existing != nil {
		existing.MentionCount++
		existing.LastMentioned = now
		existing.UpdatedAt = now
		mergeHints(existing, cand)
		if cand.ImportanceHint > existing.ImportanceScore {
			existing.ImportanceScore = cand.ImportanceHint
		}
		if err := d.repo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update person: %w", err)
		}
		return existing, false, nil
	}

	p := &types.ThirdPartyPerson{
		ID:              uuid.NewString(),
		CompanionID:     companionID,
		Name:            name,
		NameKey:         nameKey,
		MentionCount:    1,
		ImportanceScore: cand.ImportanceHint,
		FirstMentioned:  now,
		LastMentioned:   now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	mergeHints(p, cand)
	if err := d.repo.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("failed to create person: %w", err)
	}
	d.log.WithFields(logrus.Fields{
		"companion_id": companionID,
		"person_id":    p.ID,
		"name":         p.Name,
	}).Info("new third-party person")
	return p, true, nil
}

// mergeHints fills only currently-null fields from candidate hints.
func mergeHints(p *types.ThirdPartyPerson, cand Candidate) {
	if p.RelationshipToUser == nil && cand.RelationshipHint != "" {
		hint := cand.RelationshipHint
		p.RelationshipToUser = &hint
	}
	if p.Occupation == nil && cand.OccupationHint != "" {
		hint := cand.OccupationHint
		p.Occupation = &hint
	}
	if p.PersonalityTraits == nil && len(cand.TraitHints) > 0 {
		traits := strings.Join(cand.TraitHints, ", ")
		p.PersonalityTraits = &traits
	}
}

// Get returns a person by display name.
func (d *Directory) Get(ctx context.Context, companionID int, name string) (*types.ThirdPartyPerson, error) {
	return d.repo.GetByName(ctx, companionID, types.NormalizeName(name))
}

// GetByID returns a person by id.
func (d *Directory) GetByID(ctx context.Context, id string) (*types.ThirdPartyPerson, error) {
	return d.repo.GetByID(ctx, id)
}

// List returns every known person for a companion.
func (d *Directory) List(ctx context.Context, companionID int) ([]types.ThirdPartyPerson, error) {
	return d.repo.List(ctx, companionID)
}
