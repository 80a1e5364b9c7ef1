package types

import "time"

// InteractionStatus is the lifecycle state of an interaction.
type InteractionStatus string

const (
	// InteractionPlanned means the interaction has not happened yet.
	InteractionPlanned InteractionStatus = "planned"
	// InteractionCompleted means an outcome has been generated and the
	// attitude deltas applied. The transition happens exactly once.
	InteractionCompleted InteractionStatus = "completed"
)

// Interaction is a discrete planned or completed event between the companion
// and a third-party person. Outcome and ImpactOnRelationship are populated
// only at completion.
type Interaction struct {
	ID              string            `json:"id" gorm:"primaryKey"`
	CompanionID     int               `json:"companion_id" gorm:"index;not null"`
	PersonID        string            `json:"person_id" gorm:"index;not null"`
	InteractionType string            `json:"interaction_type"`
	Description     string            `json:"description"`
	PlannedDate     string            `json:"planned_date"`
	Status          InteractionStatus `json:"status"`

	Outcome              *string    `json:"outcome,omitempty"`
	ImpactOnRelationship float64    `json:"impact_on_relationship"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for gorm.
func (Interaction) TableName() string {
	return "third_party_interactions"
}
