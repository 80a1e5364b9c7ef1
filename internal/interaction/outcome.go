package interaction

import (
	"fmt"
	"hash/fnv"
)

// Band buckets a relationship score for outcome selection.
type Band string

const (
	BandHigh   Band = "high"   // score > 50
	BandMedium Band = "medium" // 0 <= score <= 50
	BandLow    Band = "low"    // score < 0
)

// BandFor returns the outcome band for a relationship score.
func BandFor(score float64) Band {
	switch {
	case score > 50:
		return BandHigh
	case score >= 0:
		return BandMedium
	default:
		return BandLow
	}
}

// Category groups interaction types by their relationship effect.
type Category string

const (
	CategoryFun            Category = "fun"
	CategoryHelp           Category = "help"
	CategoryMeaningful     Category = "meaningful"
	CategoryArgument       Category = "argument"
	CategoryDisappointment Category = "disappointment"
	CategoryBetrayal       Category = "betrayal"
)

// Categorize maps a free-form interaction type to its effect category.
func Categorize(interactionType string) Category {
	switch interactionType {
	case "coffee", "lunch", "dinner", "party", "meet", "visit":
		return CategoryFun
	case "help", "assist", "support":
		return CategoryHelp
	case "call", "talk", "work", "deep talk":
		return CategoryMeaningful
	case "argument", "fight", "conflict":
		return CategoryArgument
	case "disappointment", "letdown":
		return CategoryDisappointment
	case "betrayal", "lie", "deceive":
		return CategoryBetrayal
	default:
		return CategoryFun
	}
}

// magnitude maps a stable hash of (interactionID, salt) into [lo, hi].
// Outcome deltas must be reproducible per interaction, never random.
func magnitude(interactionID, salt string, lo, hi int) float64 {
	h := fnv.New32a()
	h.Write([]byte(interactionID))
	h.Write([]byte(":"))
	h.Write([]byte(salt))
	span := uint32(hi - lo + 1)
	return float64(lo) + float64(h.Sum32()%span)
}

// Outcome is a generated narrative with the attitude deltas to apply.
type Outcome struct {
	Narrative string
	// Deltas maps dimension names to signed changes.
	Deltas map[string]float64
	// Impact is the single summary magnitude recorded on the interaction.
	Impact float64
}

// Generate produces a relationship-consistent outcome for a completed
// interaction. Deterministic: the same interaction id, score band, type and
// person always yield the same narrative and deltas.
func Generate(interactionID string, score float64, interactionType, personName string) Outcome {
	band := BandFor(score)
	category := Categorize(interactionType)
	narrative := narrativeFor(category, band, personName)

	// A fun/help/meaningful interaction only lands well when the
	// relationship supports it: in the low band the same plan goes poorly
	// and the deltas lean negative.
	deltas := make(map[string]float64)
	var impact float64
	switch category {
	case CategoryFun:
		m := magnitude(interactionID, "primary", 5, 10)
		if band == BandLow {
			deltas["joy"] = -m * 0.5
			deltas["suspicion"] = m * 0.4
			impact = -m * 0.5
			break
		}
		deltas["joy"] = m
		deltas["attraction"] = magnitude(interactionID, "secondary", 5, 10) * 0.5
		deltas["suspicion"] = -m * 0.3
		impact = m
	case CategoryHelp:
		m := magnitude(interactionID, "primary", 8, 15)
		if band == BandLow {
			deltas["gratitude"] = m * 0.3
			deltas["suspicion"] = m * 0.2
			impact = m * 0.3
			break
		}
		deltas["gratitude"] = m
		deltas["trust"] = magnitude(interactionID, "secondary", 8, 15) * 0.6
		deltas["fear"] = -m * 0.2
		impact = m
	case CategoryMeaningful:
		m := magnitude(interactionID, "primary", 3, 8)
		if band == BandLow {
			deltas["empathy"] = m * 0.3
			deltas["joy"] = -m * 0.3
			impact = -m * 0.3
			break
		}
		deltas["empathy"] = m
		deltas["respect"] = magnitude(interactionID, "secondary", 3, 8) * 0.7
		impact = m
	case CategoryArgument:
		m := magnitude(interactionID, "primary", 10, 15)
		deltas["trust"] = -m
		deltas["anger"] = m * 0.8
		deltas["joy"] = -m * 0.4
		impact = -m
	case CategoryDisappointment:
		m := magnitude(interactionID, "primary", 5, 10)
		deltas["respect"] = -m
		deltas["sorrow"] = m * 0.6
		deltas["joy"] = -m * 0.4
		impact = -m
	case CategoryBetrayal:
		// Trust takes a double hit so repeated betrayals drive it to
		// its floor quickly.
		m := magnitude(interactionID, "primary", 15, 20)
		deltas["trust"] = -m * 2
		deltas["suspicion"] = m * 1.5
		deltas["disgust"] = m * 0.7
		deltas["love"] = -m * 0.5
		impact = -m
	}

	return Outcome{Narrative: narrative, Deltas: deltas, Impact: impact}
}

func narrativeFor(category Category, band Band, name string) string {
	switch category {
	case CategoryFun:
		switch band {
		case BandHigh:
			return fmt.Sprintf("Had a wonderful time with %s! We talked about everything and really enjoyed each other's company. %s seemed happy and we made plans to meet again soon.", name, name)
		case BandMedium:
			return fmt.Sprintf("Met with %s as planned. The conversation was pleasant enough, though there were a few awkward moments. %s was friendly but seemed a bit distracted.", name, name)
		default:
			return fmt.Sprintf("The meeting with %s was tense. We struggled to find common ground and the conversation felt forced. %s left early citing other commitments.", name, name)
		}
	case CategoryHelp:
		switch band {
		case BandHigh:
			return fmt.Sprintf("%s was incredibly grateful for my help! They thanked me several times and offered to return the favor anytime. This really strengthened our bond.", name)
		case BandMedium:
			return fmt.Sprintf("%s appreciated the help, though they seemed a bit hesitant to accept it at first. In the end everything worked out well.", name)
		default:
			return fmt.Sprintf("%s reluctantly accepted my help but didn't seem very appreciative. There was an underlying tension throughout.", name)
		}
	case CategoryMeaningful:
		switch band {
		case BandHigh:
			return fmt.Sprintf("Had a great conversation with %s. We caught up on recent events and shared some laughs; it lasted longer than expected because we were enjoying it.", name)
		case BandMedium:
			return fmt.Sprintf("Spoke with %s for a while. The conversation was polite but somewhat formal. We covered what we needed to and wrapped up.", name)
		default:
			return fmt.Sprintf("The conversation with %s was brief and uncomfortable. We barely exchanged pleasantries before %s had to go.", name, name)
		}
	case CategoryArgument:
		switch band {
		case BandHigh:
			return fmt.Sprintf("The argument with %s was painful precisely because we're usually so close. We both said things we regret, but there's a chance to repair this.", name)
		case BandMedium:
			return fmt.Sprintf("Argued with %s. Voices were raised and neither of us backed down. We parted on cold terms.", name)
		default:
			return fmt.Sprintf("The confrontation with %s went badly. Old grievances surfaced and it ended with %s walking away.", name, name)
		}
	case CategoryDisappointment:
		switch band {
		case BandHigh:
			return fmt.Sprintf("%s let me down, which stung more than expected given how much I trusted them.", name)
		case BandMedium:
			return fmt.Sprintf("%s didn't follow through on what they promised. Disappointing, if not entirely surprising.", name)
		default:
			return fmt.Sprintf("%s failed to show up again. At this point I expected nothing more.", name)
		}
	case CategoryBetrayal:
		switch band {
		case BandHigh:
			return fmt.Sprintf("I found out %s lied to me. Coming from someone I trusted this deeply, it changes everything.", name)
		case BandMedium:
			return fmt.Sprintf("%s went behind my back. I'm questioning everything they've told me.", name)
		default:
			return fmt.Sprintf("%s betrayed what little trust remained between us. I want nothing to do with them.", name)
		}
	}
	return fmt.Sprintf("Spent some time with %s.", name)
}
