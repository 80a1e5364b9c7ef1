package types

import (
	"strings"
	"time"
)

// ThirdPartyPerson is an individual other than the primary user who has been
// mentioned in conversation. Identity is resolved by normalized name within
// a companion's scope.
type ThirdPartyPerson struct {
	ID          string `json:"id" gorm:"primaryKey"`
	CompanionID int    `json:"companion_id" gorm:"uniqueIndex:idx_person_name;not null"`
	Name        string `json:"name" gorm:"not null"`
	// NameKey is the lowercased, whitespace-normalized form of Name used
	// for identity resolution.
	NameKey string `json:"-" gorm:"uniqueIndex:idx_person_name;not null"`

	RelationshipToUser      *string `json:"relationship_to_user,omitempty"`
	RelationshipToCompanion *string `json:"relationship_to_companion,omitempty"`
	Occupation              *string `json:"occupation,omitempty"`
	PersonalityTraits       *string `json:"personality_traits,omitempty"`
	PhysicalDescription     *string `json:"physical_description,omitempty"`

	MentionCount    int       `json:"mention_count"`
	ImportanceScore float64   `json:"importance_score"`
	FirstMentioned  time.Time `json:"first_mentioned"`
	LastMentioned   time.Time `json:"last_mentioned"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name for gorm.
func (ThirdPartyPerson) TableName() string {
	return "third_party_persons"
}

// NormalizeName returns the identity-resolution key for a display name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
