package attitude

import "github.com/easeaico/companion-engine/internal/types"

// Dimension groupings for the relationship score. Surprise, curiosity,
// submissiveness and dominance are ambiguous signals and carry no weight.
var (
	positiveDimensions = []string{
		"attraction", "trust", "joy", "respect", "gratitude",
		"empathy", "lust", "love", "butterflies",
	}
	negativeDimensions = []string{
		"fear", "anger", "sorrow", "disgust", "suspicion",
		"jealousy", "anxiety",
	}
)

const scoreDivisor = 16.0

// Score aggregates the 20 dimensions into a single relationship score in
// [-100, 100]: positive-affect dimensions add, negative-affect dimensions
// subtract, divided by the number of weighted dimensions. Monotonic in every
// weighted dimension.
func Score(r *types.AttitudeRecord) float64 {
	var sum float64
	for _, name := range positiveDimensions {
		v, _ := r.Dimension(name)
		sum += v
	}
	for _, name := range negativeDimensions {
		v, _ := r.Dimension(name)
		sum -= v
	}
	return types.ClampDimension(sum / scoreDivisor)
}

// Rescore clamps the record and stores the recomputed relationship score.
func Rescore(r *types.AttitudeRecord) {
	r.Clamp()
	r.RelationshipScore = Score(r)
}
