package attitude

import "github.com/easeaico/companion-engine/internal/types"

// Label is the categorical relationship bucket for a score.
type Label string

const (
	LabelHostile    Label = "hostile"
	LabelUnfriendly Label = "unfriendly"
	LabelNeutral    Label = "neutral"
	LabelFriendly   Label = "friendly"
	LabelClose      Label = "close"
	LabelIntimate   Label = "intimate"
)

// Classify maps a relationship score to its label. The score is clamped into
// [-100, 100] first; the bands partition that domain with no gaps or
// overlaps: hostile [-100,-61], unfriendly [-60,-21], neutral [-20,20],
// friendly [21,60], close [61,80], intimate [81,100].
func Classify(score float64) Label {
	score = types.ClampDimension(score)
	switch {
	case score >= 81:
		return LabelIntimate
	case score >= 61:
		return LabelClose
	case score >= 21:
		return LabelFriendly
	case score >= -20:
		return LabelNeutral
	case score >= -60:
		return LabelUnfriendly
	default:
		return LabelHostile
	}
}

// Describe returns a short behavioral description for a label, usable as
// prompt context by the response pipeline.
func Describe(l Label) string {
	switch l {
	case LabelIntimate:
		return "deeply connected, comfortable with vulnerability"
	case LabelClose:
		return "warm and trusting, shares personal thoughts"
	case LabelFriendly:
		return "positive and helpful, maintains boundaries"
	case LabelNeutral:
		return "polite but reserved, minimal emotional investment"
	case LabelUnfriendly:
		return "curt and dismissive, shows irritation"
	case LabelHostile:
		return "argumentative and defensive, openly annoyed"
	default:
		return ""
	}
}
