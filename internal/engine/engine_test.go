package engine

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/interaction"
	"github.com/easeaico/companion-engine/internal/person"
	"github.com/easeaico/companion-engine/internal/types"
)

type memAttitudeRepo struct {
	records map[string]*types.AttitudeRecord
}

func (m *memAttitudeRepo) key(companionID int, targetID string, targetType types.TargetType) string {
	return fmt.Sprintf("%d:%s:%s", companionID, targetType, targetID)
}

func (m *memAttitudeRepo) Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, error) {
	rec, ok := m.records[m.key(companionID, targetID, targetType)]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memAttitudeRepo) Save(ctx context.Context, rec *types.AttitudeRecord) error {
	cp := *rec
	m.records[m.key(rec.CompanionID, rec.TargetID, rec.TargetType)] = &cp
	return nil
}

func (m *memAttitudeRepo) ApplyDeltas(ctx context.Context, companionID int, targetID string, targetType types.TargetType, deltas map[string]float64) (*types.AttitudeRecord, error) {
	rec, ok := m.records[m.key(companionID, targetID, targetType)]
	if !ok {
		return nil, types.ErrNotFound
	}
	for name, delta := range deltas {
		if err := rec.AddDimension(name, delta); err != nil {
			return nil, err
		}
	}
	attitude.Rescore(rec)
	cp := *rec
	return &cp, nil
}

func (m *memAttitudeRepo) ListByCompanion(ctx context.Context, companionID int) ([]types.AttitudeRecord, error) {
	return nil, nil
}

type memPersonRepo struct {
	byID  map[string]*types.ThirdPartyPerson
	byKey map[string]*types.ThirdPartyPerson
}

func (m *memPersonRepo) GetByName(ctx context.Context, companionID int, nameKey string) (*types.ThirdPartyPerson, error) {
	p, ok := m.byKey[fmt.Sprintf("%d:%s", companionID, nameKey)]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPersonRepo) GetByID(ctx context.Context, id string) (*types.ThirdPartyPerson, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPersonRepo) Create(ctx context.Context, p *types.ThirdPartyPerson) error {
	cp := *p
	m.byID[p.ID] = &cp
	m.byKey[fmt.Sprintf("%d:%s", p.CompanionID, p.NameKey)] = &cp
	return nil
}

func (m *memPersonRepo) Update(ctx context.Context, p *types.ThirdPartyPerson) error {
	return m.Create(ctx, p)
}

func (m *memPersonRepo) List(ctx context.Context, companionID int) ([]types.ThirdPartyPerson, error) {
	return nil, nil
}

type memInteractionStore struct {
	order     []string
	items     map[string]*types.Interaction
	attitudes *memAttitudeRepo
	persons   *memPersonRepo
}

func (m *memInteractionStore) Create(ctx context.Context, it *types.Interaction) error {
	cp := *it
	m.items[it.ID] = &cp
	m.order = append(m.order, it.ID)
	return nil
}

func (m *memInteractionStore) Get(ctx context.Context, id string) (*types.Interaction, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memInteractionStore) History(ctx context.Context, companionID int, personID string) ([]types.Interaction, error) {
	var out []types.Interaction
	for i := len(m.order) - 1; i >= 0; i-- {
		it := m.items[m.order[i]]
		if it.CompanionID == companionID && it.PersonID == personID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memInteractionStore) Planned(ctx context.Context, companionID int, limit int) ([]types.Interaction, error) {
	var out []types.Interaction
	for _, id := range m.order {
		it := m.items[id]
		if it.CompanionID == companionID && it.Status == types.InteractionPlanned {
			out = append(out, *it)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memInteractionStore) Complete(ctx context.Context, id string, gen interaction.GenerateFunc) (*types.Interaction, *types.AttitudeRecord, float64, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, nil, 0, types.ErrNotFound
	}
	if it.Status == types.InteractionCompleted {
		cp := *it
		return &cp, nil, 0, types.ErrConflict
	}
	pers, err := m.persons.GetByID(ctx, it.PersonID)
	if err != nil {
		return nil, nil, 0, err
	}
	rec := m.attitudes.records[m.attitudes.key(it.CompanionID, it.PersonID, types.TargetThirdParty)]
	if rec == nil {
		return nil, nil, 0, types.ErrNotFound
	}
	oldScore := rec.RelationshipScore

	out := gen(it.ID, rec.RelationshipScore, it.InteractionType, pers.Name)
	for name, delta := range out.Deltas {
		if err := rec.AddDimension(name, delta); err != nil {
			return nil, nil, 0, err
		}
	}
	attitude.Rescore(rec)

	now := time.Now()
	it.Status = types.InteractionCompleted
	it.Outcome = &out.Narrative
	it.ImpactOnRelationship = out.Impact
	it.CompletedAt = &now

	itCopy := *it
	recCopy := *rec
	return &itCopy, &recCopy, oldScore, nil
}

func newTestEngine() (*Engine, *memPersonRepo) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	attRepo := &memAttitudeRepo{records: make(map[string]*types.AttitudeRecord)}
	persRepo := &memPersonRepo{
		byID:  make(map[string]*types.ThirdPartyPerson),
		byKey: make(map[string]*types.ThirdPartyPerson),
	}
	store := &memInteractionStore{
		items:     make(map[string]*types.Interaction),
		attitudes: attRepo,
		persons:   persRepo,
	}

	attitudes := attitude.NewService(attRepo, nil, log)
	directory := person.NewDirectory(persRepo, log)
	planner := interaction.NewPlanner(store, attitudes, directory, log)
	return New(person.NewDetector(), directory, attitudes, planner, log), persRepo
}

func TestProcessTurnDetectsAndSeeds(t *testing.T) {
	eng, _ := newTestEngine()
	ctx := context.Background()

	result, err := eng.ProcessTurn(ctx, 1, "Mike", "My friend Alice called me today")
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if len(result.Mentions) != 1 {
		t.Fatalf("expected 1 mention, got %+v", result.Mentions)
	}
	m := result.Mentions[0]
	if m.Person.Name != "Alice" || !m.Created {
		t.Fatalf("unexpected mention %+v", m)
	}
	if m.Person.RelationshipToUser == nil || *m.Person.RelationshipToUser != "friend" {
		t.Fatalf("relationship hint not stored: %+v", m.Person)
	}

	if len(result.Attitudes) != 1 {
		t.Fatalf("expected a seeded attitude, got %+v", result.Attitudes)
	}
	rec := result.Attitudes[0]
	if rec.Trust != 20 {
		t.Fatalf("friend seed should set trust 20, got %v", rec.Trust)
	}
}

func TestProcessTurnSkipsTheUser(t *testing.T) {
	eng, _ := newTestEngine()

	result, err := eng.ProcessTurn(context.Background(), 1, "Mike", "I saw Mike today")
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if len(result.Mentions) != 0 {
		t.Fatalf("the user must never become a third party: %+v", result.Mentions)
	}
}

func TestProcessTurnRepeatMention(t *testing.T) {
	eng, _ := newTestEngine()
	ctx := context.Background()

	if _, err := eng.ProcessTurn(ctx, 1, "Mike", "My friend Alice called me today"); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	result, err := eng.ProcessTurn(ctx, 1, "Mike", "I saw Alice at the gym")
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if len(result.Mentions) != 1 {
		t.Fatalf("expected 1 mention, got %+v", result.Mentions)
	}
	m := result.Mentions[0]
	if m.Created {
		t.Fatal("repeat mention should resolve to the existing person")
	}
	if m.Person.MentionCount != 2 {
		t.Fatalf("expected mention count 2, got %d", m.Person.MentionCount)
	}
}

func TestProcessTurnPlansIntent(t *testing.T) {
	eng, _ := newTestEngine()
	ctx := context.Background()

	if _, err := eng.ProcessTurn(ctx, 1, "Mike", "My friend Sarah called me today"); err != nil {
		t.Fatalf("introduce turn: %v", err)
	}

	result, err := eng.ProcessTurn(ctx, 1, "Mike", "I'm planning to have coffee with Sarah tomorrow")
	if err != nil {
		t.Fatalf("planning turn: %v", err)
	}
	if result.IntentKind != interaction.IntentPlanning {
		t.Fatalf("expected planning intent, got %s", result.IntentKind)
	}
	if result.Interaction == nil || result.Interaction.Status != types.InteractionPlanned {
		t.Fatalf("expected a planned interaction, got %+v", result.Interaction)
	}
	if result.Interaction.InteractionType != "coffee" {
		t.Fatalf("expected coffee interaction, got %q", result.Interaction.InteractionType)
	}
}

func TestProcessTurnInquiryProducesNarrative(t *testing.T) {
	eng, _ := newTestEngine()
	ctx := context.Background()

	if _, err := eng.ProcessTurn(ctx, 1, "Mike", "My friend Sarah called me today"); err != nil {
		t.Fatalf("introduce turn: %v", err)
	}
	if _, err := eng.ProcessTurn(ctx, 1, "Mike", "I'm planning to have coffee with Sarah tomorrow"); err != nil {
		t.Fatalf("planning turn: %v", err)
	}

	result, err := eng.ProcessTurn(ctx, 1, "Mike", "How did the coffee with Sarah go?")
	if err != nil {
		t.Fatalf("inquiry turn: %v", err)
	}
	if result.IntentKind != interaction.IntentInquiry {
		t.Fatalf("expected inquiry intent, got %s", result.IntentKind)
	}
	if result.Interaction == nil || result.Interaction.Status != types.InteractionCompleted {
		t.Fatalf("expected a completed interaction, got %+v", result.Interaction)
	}
	if result.Narrative == "" {
		t.Fatal("expected an outcome narrative")
	}
}

func TestProcessTurnEmptyText(t *testing.T) {
	eng, _ := newTestEngine()
	result, err := eng.ProcessTurn(context.Background(), 1, "Mike", "")
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if len(result.Mentions) != 0 || result.IntentKind != interaction.IntentNone {
		t.Fatalf("empty text should be a quiet no-op, got %+v", result)
	}
}
