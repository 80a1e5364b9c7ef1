package attitude

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/types"
)

type fakeRepo struct {
	records map[string]*types.AttitudeRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*types.AttitudeRecord)}
}

func (f *fakeRepo) key(companionID int, targetID string, targetType types.TargetType) string {
	return fmt.Sprintf("%d:%s:%s", companionID, targetType, targetID)
}

func (f *fakeRepo) Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, error) {
	rec, ok := f.records[f.key(companionID, targetID, targetType)]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRepo) Save(ctx context.Context, rec *types.AttitudeRecord) error {
	cp := *rec
	f.records[f.key(rec.CompanionID, rec.TargetID, rec.TargetType)] = &cp
	return nil
}

func (f *fakeRepo) ApplyDeltas(ctx context.Context, companionID int, targetID string, targetType types.TargetType, deltas map[string]float64) (*types.AttitudeRecord, error) {
	rec, ok := f.records[f.key(companionID, targetID, targetType)]
	if !ok {
		return nil, types.ErrNotFound
	}
	for name, delta := range deltas {
		if err := rec.AddDimension(name, delta); err != nil {
			return nil, err
		}
	}
	Rescore(rec)
	cp := *rec
	return &cp, nil
}

func (f *fakeRepo) ListByCompanion(ctx context.Context, companionID int) ([]types.AttitudeRecord, error) {
	var out []types.AttitudeRecord
	for _, rec := range f.records {
		if rec.CompanionID == companionID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, nil, testLogger()), repo
}

func floatPtr(v float64) *float64 { return &v }

func TestUpsertThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Upsert(ctx, 1, "alice", types.TargetThirdParty, &types.AttitudeUpsert{
		Joy: floatPtr(50), Trust: floatPtr(30),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.Joy != 50 || rec.Trust != 30 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.RelationshipScore != (50+30)/16.0 {
		t.Fatalf("unexpected score %v", rec.RelationshipScore)
	}

	got, err := svc.Get(ctx, 1, "alice", types.TargetThirdParty)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Joy != 50 || got.Trust != 30 {
		t.Fatalf("round trip mismatch %+v", got)
	}
}

func TestUpsertIsPartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 1, "alice", types.TargetThirdParty, &types.AttitudeUpsert{Joy: floatPtr(50)}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	rec, err := svc.Upsert(ctx, 1, "alice", types.TargetThirdParty, &types.AttitudeUpsert{Trust: floatPtr(40)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if rec.Joy != 50 {
		t.Fatalf("partial upsert overwrote joy: %v", rec.Joy)
	}
	if rec.Trust != 40 {
		t.Fatalf("trust not applied: %v", rec.Trust)
	}
}

func TestUpsertClampsValues(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.Upsert(context.Background(), 1, "alice", types.TargetThirdParty, &types.AttitudeUpsert{
		Joy: floatPtr(250), Fear: floatPtr(-250),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.Joy != 100 || rec.Fear != -100 {
		t.Fatalf("values not clamped: joy=%v fear=%v", rec.Joy, rec.Fear)
	}
}

func TestUpsertRejectsInvalidTargets(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	up := &types.AttitudeUpsert{Joy: floatPtr(1)}

	if _, err := svc.Upsert(ctx, 0, "alice", types.TargetThirdParty, up); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected ErrValidation for companion 0, got %v", err)
	}
	if _, err := svc.Upsert(ctx, 1, "", types.TargetThirdParty, up); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty target, got %v", err)
	}
	if _, err := svc.Upsert(ctx, 1, "alice", types.TargetType("robot"), up); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad target type, got %v", err)
	}
}

func TestUpdateDimension(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 1, "alice", types.TargetThirdParty, &types.AttitudeUpsert{Trust: floatPtr(10)}); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	rec, err := svc.UpdateDimension(ctx, 1, "alice", types.TargetThirdParty, "trust", 15)
	if err != nil {
		t.Fatalf("update dimension: %v", err)
	}
	if rec.Trust != 25 {
		t.Fatalf("expected trust 25, got %v", rec.Trust)
	}

	if _, err := svc.UpdateDimension(ctx, 1, "alice", types.TargetThirdParty, "charisma", 5); !errors.Is(err, types.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	if _, err := svc.UpdateDimension(ctx, 1, "nobody", types.TargetThirdParty, "trust", 5); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown target, got %v", err)
	}
}

func TestSeedNewPersonBaseline(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.Seed(context.Background(), 1, "alice", types.TargetThirdParty, "", 0)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if rec.Curiosity != 20 || rec.Surprise != 15 || rec.Trust != 5 {
		t.Fatalf("unexpected baseline %+v", rec)
	}
	if Classify(rec.RelationshipScore) != LabelNeutral && Classify(rec.RelationshipScore) != LabelFriendly {
		t.Fatalf("fresh record should start near neutral, got score %v", rec.RelationshipScore)
	}
}

func TestSeedAppliesRelationshipHint(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	friend, err := svc.Seed(ctx, 1, "alice", types.TargetThirdParty, "friend", 0)
	if err != nil {
		t.Fatalf("seed friend: %v", err)
	}
	if friend.Trust != 20 {
		t.Fatalf("friend hint should raise trust to 20, got %v", friend.Trust)
	}

	boss, err := svc.Seed(ctx, 1, "bob", types.TargetThirdParty, "boss", 0)
	if err != nil {
		t.Fatalf("seed boss: %v", err)
	}
	if boss.Fear != 10 || boss.Respect != 30 {
		t.Fatalf("boss hint not applied: fear=%v respect=%v", boss.Fear, boss.Respect)
	}
}

func TestSeedReturnsExistingUnchanged(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Seed(ctx, 1, "alice", types.TargetThirdParty, "", 0)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	second, err := svc.Seed(ctx, 1, "alice", types.TargetThirdParty, "family", 1)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.Trust != first.Trust || second.RelationshipScore != first.RelationshipScore {
		t.Fatalf("second seed mutated the record: %+v vs %+v", first, second)
	}
}

func TestSeedValenceNudge(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	neutral, _ := svc.Seed(ctx, 1, "neutral", types.TargetThirdParty, "", 0)
	liked, _ := svc.Seed(ctx, 1, "liked", types.TargetThirdParty, "", 1)
	disliked, _ := svc.Seed(ctx, 1, "disliked", types.TargetThirdParty, "", -1)

	if liked.RelationshipScore <= neutral.RelationshipScore {
		t.Fatal("positive valence should raise the initial score")
	}
	if disliked.RelationshipScore >= neutral.RelationshipScore {
		t.Fatal("negative valence should lower the initial score")
	}
}

func TestOnChangeObserverSeesLabelTransition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var changes []Change
	svc.OnChange(func(ch Change) { changes = append(changes, ch) })

	if _, err := svc.Upsert(ctx, 1, "alice", types.TargetThirdParty, &types.AttitudeUpsert{
		Trust: floatPtr(100), Joy: floatPtr(100), Love: floatPtr(100), Respect: floatPtr(100),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("expected 1 change event, got %d", len(changes))
	}
	ch := changes[0]
	if ch.OldLabel != LabelNeutral {
		t.Fatalf("expected old label neutral, got %s", ch.OldLabel)
	}
	if ch.NewLabel == LabelNeutral {
		t.Fatalf("expected label transition, still %s (score %v)", ch.NewLabel, ch.NewScore)
	}
}

func TestGetUsesCache(t *testing.T) {
	repo := newFakeRepo()
	c := &countingCache{entries: make(map[string]*types.AttitudeRecord)}
	svc := NewService(repo, c, testLogger())
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 1, "alice", types.TargetThirdParty, &types.AttitudeUpsert{Joy: floatPtr(10)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if c.invalidations != 1 {
		t.Fatalf("mutation should invalidate the cache, got %d invalidations", c.invalidations)
	}

	if _, err := svc.Get(ctx, 1, "alice", types.TargetThirdParty); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("miss should populate the cache, got %d sets", c.sets)
	}
	if _, err := svc.Get(ctx, 1, "alice", types.TargetThirdParty); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if c.hits != 1 {
		t.Fatalf("second get should hit the cache, got %d hits", c.hits)
	}
}

type countingCache struct {
	entries       map[string]*types.AttitudeRecord
	hits          int
	sets          int
	invalidations int
}

func (c *countingCache) cacheKey(companionID int, targetID string, targetType types.TargetType) string {
	return fmt.Sprintf("%d:%s:%s", companionID, targetType, targetID)
}

func (c *countingCache) Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, bool) {
	rec, ok := c.entries[c.cacheKey(companionID, targetID, targetType)]
	if ok {
		c.hits++
	}
	return rec, ok
}

func (c *countingCache) Set(ctx context.Context, rec *types.AttitudeRecord) {
	c.sets++
	cp := *rec
	c.entries[c.cacheKey(rec.CompanionID, rec.TargetID, rec.TargetType)] = &cp
}

func (c *countingCache) Invalidate(ctx context.Context, companionID int, targetID string, targetType types.TargetType) {
	c.invalidations++
	delete(c.entries, c.cacheKey(companionID, targetID, targetType))
}
