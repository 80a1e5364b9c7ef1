package types

import (
	"time"
)

// TargetType identifies whom an attitude record is about.
type TargetType string

const (
	// TargetUser is the primary user of the companion.
	TargetUser TargetType = "user"
	// TargetThirdParty is a person mentioned in conversation.
	TargetThirdParty TargetType = "third_party"
)

// ValidTargetType reports whether t is a known target type.
func ValidTargetType(t TargetType) bool {
	return t == TargetUser || t == TargetThirdParty
}

// DimensionMin and DimensionMax bound every attitude dimension.
const (
	DimensionMin = -100.0
	DimensionMax = 100.0
)

// AttitudeRecord is the companion's emotional state toward one target.
// Each dimension is an explicit field so unknown dimension names are
// rejected at the boundary instead of silently stored.
type AttitudeRecord struct {
	ID          int        `json:"id" gorm:"primaryKey;autoIncrement"`
	CompanionID int        `json:"companion_id" gorm:"uniqueIndex:idx_attitude_key;not null"`
	TargetID    string     `json:"target_id" gorm:"uniqueIndex:idx_attitude_key;not null"`
	TargetType  TargetType `json:"target_type" gorm:"uniqueIndex:idx_attitude_key;not null"`

	Attraction     float64 `json:"attraction"`
	Trust          float64 `json:"trust"`
	Fear           float64 `json:"fear"`
	Anger          float64 `json:"anger"`
	Joy            float64 `json:"joy"`
	Sorrow         float64 `json:"sorrow"`
	Disgust        float64 `json:"disgust"`
	Surprise       float64 `json:"surprise"`
	Curiosity      float64 `json:"curiosity"`
	Respect        float64 `json:"respect"`
	Suspicion      float64 `json:"suspicion"`
	Gratitude      float64 `json:"gratitude"`
	Jealousy       float64 `json:"jealousy"`
	Empathy        float64 `json:"empathy"`
	Lust           float64 `json:"lust"`
	Love           float64 `json:"love"`
	Anxiety        float64 `json:"anxiety"`
	Butterflies    float64 `json:"butterflies"`
	Submissiveness float64 `json:"submissiveness"`
	Dominance      float64 `json:"dominance"`

	RelationshipScore float64   `json:"relationship_score"`
	LastUpdated       time.Time `json:"last_updated" gorm:"column:last_updated"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName sets the table name for gorm.
func (AttitudeRecord) TableName() string {
	return "companion_attitudes"
}

// DimensionNames lists the 20 recognized dimensions in a stable order.
func DimensionNames() []string {
	return []string{
		"attraction", "trust", "fear", "anger", "joy", "sorrow", "disgust",
		"surprise", "curiosity", "respect", "suspicion", "gratitude",
		"jealousy", "empathy", "lust", "love", "anxiety", "butterflies",
		"submissiveness", "dominance",
	}
}

// ValidDimension reports whether name is one of the 20 dimensions.
func ValidDimension(name string) bool {
	_, err := (&AttitudeRecord{}).Dimension(name)
	return err == nil
}

// Dimension returns the value of the named dimension.
func (r *AttitudeRecord) Dimension(name string) (float64, error) {
	switch name {
	case "attraction":
		return r.Attraction, nil
	case "trust":
		return r.Trust, nil
	case "fear":
		return r.Fear, nil
	case "anger":
		return r.Anger, nil
	case "joy":
		return r.Joy, nil
	case "sorrow":
		return r.Sorrow, nil
	case "disgust":
		return r.Disgust, nil
	case "surprise":
		return r.Surprise, nil
	case "curiosity":
		return r.Curiosity, nil
	case "respect":
		return r.Respect, nil
	case "suspicion":
		return r.Suspicion, nil
	case "gratitude":
		return r.Gratitude, nil
	case "jealousy":
		return r.Jealousy, nil
	case "empathy":
		return r.Empathy, nil
	case "lust":
		return r.Lust, nil
	case "love":
		return r.Love, nil
	case "anxiety":
		return r.Anxiety, nil
	case "butterflies":
		return r.Butterflies, nil
	case "submissiveness":
		return r.Submissiveness, nil
	case "dominance":
		return r.Dominance, nil
	default:
		return 0, ErrInvalidDimension
	}
}

// SetDimension sets the named dimension to value, clamped to range.
func (r *AttitudeRecord) SetDimension(name string, value float64) error {
	value = ClampDimension(value)
	switch name {
	case "attraction":
		r.Attraction = value
	case "trust":
		r.Trust = value
	case "fear":
		r.Fear = value
	case "anger":
		r.Anger = value
	case "joy":
		r.Joy = value
	case "sorrow":
		r.Sorrow = value
	case "disgust":
		r.Disgust = value
	case "surprise":
		r.Surprise = value
	case "curiosity":
		r.Curiosity = value
	case "respect":
		r.Respect = value
	case "suspicion":
		r.Suspicion = value
	case "gratitude":
		r.Gratitude = value
	case "jealousy":
		r.Jealousy = value
	case "empathy":
		r.Empathy = value
	case "lust":
		r.Lust = value
	case "love":
		r.Love = value
	case "anxiety":
		r.Anxiety = value
	case "butterflies":
		r.Butterflies = value
	case "submissiveness":
		r.Submissiveness = value
	case "dominance":
		r.Dominance = value
	default:
		return ErrInvalidDimension
	}
	return nil
}

// AddDimension applies a delta to the named dimension, clamped to range.
func (r *AttitudeRecord) AddDimension(name string, delta float64) error {
	current, err := r.Dimension(name)
	if err != nil {
		return err
	}
	return r.SetDimension(name, current+delta)
}

// Clamp bounds every dimension to [DimensionMin, DimensionMax].
func (r *AttitudeRecord) Clamp() {
	for _, name := range DimensionNames() {
		v, _ := r.Dimension(name)
		_ = r.SetDimension(name, v)
	}
}

// ClampDimension bounds a single value to the valid dimension range.
func ClampDimension(v float64) float64 {
	switch {
	case v < DimensionMin:
		return DimensionMin
	case v > DimensionMax:
		return DimensionMax
	default:
		return v
	}
}

// AttitudeUpsert carries the fields of a partial attitude write.
// Nil fields keep their current value.
type AttitudeUpsert struct {
	Attraction     *float64 `json:"attraction,omitempty"`
	Trust          *float64 `json:"trust,omitempty"`
	Fear           *float64 `json:"fear,omitempty"`
	Anger          *float64 `json:"anger,omitempty"`
	Joy            *float64 `json:"joy,omitempty"`
	Sorrow         *float64 `json:"sorrow,omitempty"`
	Disgust        *float64 `json:"disgust,omitempty"`
	Surprise       *float64 `json:"surprise,omitempty"`
	Curiosity      *float64 `json:"curiosity,omitempty"`
	Respect        *float64 `json:"respect,omitempty"`
	Suspicion      *float64 `json:"suspicion,omitempty"`
	Gratitude      *float64 `json:"gratitude,omitempty"`
	Jealousy       *float64 `json:"jealousy,omitempty"`
	Empathy        *float64 `json:"empathy,omitempty"`
	Lust           *float64 `json:"lust,omitempty"`
	Love           *float64 `json:"love,omitempty"`
	Anxiety        *float64 `json:"anxiety,omitempty"`
	Butterflies    *float64 `json:"butterflies,omitempty"`
	Submissiveness *float64 `json:"submissiveness,omitempty"`
	Dominance      *float64 `json:"dominance,omitempty"`
}

// Fields returns the provided (non-nil) dimension values by name.
func (u *AttitudeUpsert) Fields() map[string]float64 {
	out := make(map[string]float64)
	set := func(name string, v *float64) {
		if v != nil {
			out[name] = *v
		}
	}
	set("attraction", u.Attraction)
	set("trust", u.Trust)
	set("fear", u.Fear)
	set("anger", u.Anger)
	set("joy", u.Joy)
	set("sorrow", u.Sorrow)
	set("disgust", u.Disgust)
	set("surprise", u.Surprise)
	set("curiosity", u.Curiosity)
	set("respect", u.Respect)
	set("suspicion", u.Suspicion)
	set("gratitude", u.Gratitude)
	set("jealousy", u.Jealousy)
	set("empathy", u.Empathy)
	set("lust", u.Lust)
	set("love", u.Love)
	set("anxiety", u.Anxiety)
	set("butterflies", u.Butterflies)
	set("submissiveness", u.Submissiveness)
	set("dominance", u.Dominance)
	return out
}
