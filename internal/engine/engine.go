// Package engine orchestrates one conversational turn: person detection,
// identity resolution, attitude seeding, and interaction planning.
package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/interaction"
	"github.com/easeaico/companion-engine/internal/person"
	"github.com/easeaico/companion-engine/internal/types"
)

// Mention is one resolved person reference in a turn.
type Mention struct {
	Person  types.ThirdPartyPerson `json:"person"`
	Created bool                   `json:"created"`
}

// TurnResult is everything a response pipeline needs from one turn: the
// people involved, their current attitude records, and the interaction
// narrative when an intent was acted on.
type TurnResult struct {
	Mentions    []Mention              `json:"mentions"`
	Intent      interaction.Intent     `json:"-"`
	IntentKind  interaction.IntentKind `json:"intent_kind"`
	Interaction *types.Interaction     `json:"interaction,omitempty"`
	Narrative   string                 `json:"narrative,omitempty"`
	Attitudes   []types.AttitudeRecord `json:"attitudes"`
}

// Engine wires the detection, directory, attitude, and planning components
// behind a single per-turn entry point.
type Engine struct {
	detector  *person.Detector
	directory *person.Directory
	attitudes *attitude.Service
	planner   *interaction.Planner
	log       *logrus.Logger
}

// New returns an engine.
func New(detector *person.Detector, directory *person.Directory, attitudes *attitude.Service, planner *interaction.Planner, log *logrus.Logger) *Engine {
	return &Engine{
		detector:  detector,
		directory: directory,
		attitudes: attitudes,
		planner:   planner,
		log:       log,
	}
}

// Attitudes exposes the attitude service for observer registration.
func (e *Engine) Attitudes() *attitude.Service {
	return e.attitudes
}

// ProcessTurn runs the full pipeline over one message. userName is the
// primary user's display name and is never treated as a third party.
// Detection failures degrade to empty results; persistence failures abort
// the turn with no partial attitude state.
func (e *Engine) ProcessTurn(ctx context.Context, companionID int, userName, text string) (*TurnResult, error) {
	result := &TurnResult{IntentKind: interaction.IntentNone}

	for _, cand := range e.detector.Detect(text) {
		if strings.EqualFold(cand.Name, userName) {
			continue
		}
		pers, created, err := e.directory.Resolve(ctx, companionID, cand)
		if err != nil {
			return nil, err
		}
		if created {
			if _, err := e.attitudes.Seed(ctx, companionID, pers.ID, types.TargetThirdParty, cand.RelationshipHint, cand.ValenceHint); err != nil {
				return nil, err
			}
		}
		result.Mentions = append(result.Mentions, Mention{Person: *pers, Created: created})
	}

	intent := interaction.DetectIntent(text)
	result.Intent = intent
	result.IntentKind = intent.Kind
	if intent.Kind != interaction.IntentNone {
		it, err := e.planner.HandleIntent(ctx, companionID, intent)
		if err != nil && !errors.Is(err, types.ErrConflict) {
			return nil, err
		}
		if it != nil {
			result.Interaction = it
			if it.Outcome != nil {
				result.Narrative = *it.Outcome
			}
		}
	}

	for _, m := range result.Mentions {
		rec, err := e.attitudes.Get(ctx, companionID, m.Person.ID, types.TargetThirdParty)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result.Attitudes = append(result.Attitudes, *rec)
	}

	e.log.WithFields(logrus.Fields{
		"companion_id": companionID,
		"mentions":     len(result.Mentions),
		"intent":       result.IntentKind,
	}).Debug("turn processed")
	return result, nil
}
