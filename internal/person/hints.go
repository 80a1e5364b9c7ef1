package person

import (
	"regexp"
	"strings"
)

// Keyword tables driving hint extraction. Kept as data so matchers stay
// independent and unit-testable.

var kinshipTerms = []string{
	"best friend", "friend", "colleague", "coworker", "boss", "manager",
	"teacher", "doctor", "neighbor", "brother", "sister", "mother", "father",
	"mom", "dad", "parent", "cousin", "uncle", "aunt", "grandmother",
	"grandfather", "grandma", "grandpa",
}

var titleOccupations = map[string]string{
	"dr.":       "doctor",
	"dr":        "doctor",
	"doctor":    "doctor",
	"prof.":     "professor",
	"prof":      "professor",
	"professor": "professor",
	"officer":   "officer",
	"nurse":     "nurse",
	"coach":     "coach",
	"captain":   "captain",
}

var occupationTerms = []string{
	"doctor", "professor", "teacher", "engineer", "lawyer", "nurse",
	"officer", "manager", "accountant", "artist", "musician", "chef",
	"pilot", "scientist", "writer", "designer", "therapist", "dentist",
}

var traitAdjectives = []string{
	"kind", "nice", "friendly", "helpful", "smart", "intelligent", "funny",
	"serious", "quiet", "loud", "outgoing", "shy", "confident", "nervous",
	"patient", "impatient", "generous", "selfish", "honest", "dishonest",
	"reliable", "unreliable", "creative", "logical", "emotional", "calm",
}

var positiveSentiment = []string{
	"love", "adore", "like", "enjoy", "happy", "excited", "great",
	"wonderful", "amazing", "miss",
}

var negativeSentiment = []string{
	"hate", "dislike", "angry", "annoyed", "worried", "concerned", "afraid",
	"upset", "terrible", "awful",
}

// words that count as emotional context for importance scoring
var emotionalWords = []string{
	"love", "hate", "angry", "happy", "sad", "excited", "worried",
}

// relationshipHint finds a kinship term attached to the name, via
// "my <term> <Name>" or "<Name> is my <term>".
func relationshipHint(name, text string) string {
	lower := strings.ToLower(text)
	nameLower := strings.ToLower(name)
	for _, term := range kinshipTerms {
		if strings.Contains(lower, "my "+term+" "+nameLower) ||
			strings.Contains(lower, "our "+term+" "+nameLower) ||
			strings.Contains(lower, nameLower+" is my "+term) ||
			strings.Contains(lower, nameLower+" is our "+term) ||
			strings.Contains(lower, nameLower+", my "+term) {
			return term
		}
	}
	return ""
}

// occupationHint finds a profession attached to the name, either from a
// title directly before it or an "is a <occupation>" predicate.
func occupationHint(name, text string) string {
	lower := strings.ToLower(text)
	nameLower := strings.ToLower(name)
	for title, occupation := range titleOccupations {
		if strings.Contains(lower, title+" "+nameLower) {
			return occupation
		}
	}
	for _, term := range occupationTerms {
		if strings.Contains(lower, nameLower+" is a "+term) ||
			strings.Contains(lower, nameLower+" is an "+term) ||
			strings.Contains(lower, nameLower+" works as a "+term) ||
			strings.Contains(lower, "my "+term+" "+nameLower) {
			return term
		}
	}
	return ""
}

// traitHints finds descriptive adjectives predicated on the name.
func traitHints(name, text string) []string {
	lower := strings.ToLower(text)
	nameLower := strings.ToLower(name)
	var traits []string
	for _, trait := range traitAdjectives {
		if strings.Contains(lower, nameLower+" is "+trait) ||
			strings.Contains(lower, nameLower+" is very "+trait) ||
			strings.Contains(lower, nameLower+" seems "+trait) ||
			strings.Contains(lower, "very "+trait+" "+nameLower) {
			traits = append(traits, trait)
		}
	}
	return traits
}

var clauseSplit = regexp.MustCompile(`[.!?;]`)

// valenceHint derives an advisory sentiment in [-1, 1] from sentiment words
// in the clauses that mention the name.
func valenceHint(name, text string) float64 {
	nameLower := strings.ToLower(name)
	var pos, neg int
	for _, clause := range clauseSplit.Split(strings.ToLower(text), -1) {
		if !strings.Contains(clause, nameLower) {
			continue
		}
		for _, w := range positiveSentiment {
			if containsWord(clause, w) {
				pos++
			}
		}
		for _, w := range negativeSentiment {
			if containsWord(clause, w) {
				neg++
			}
		}
	}
	if pos == 0 && neg == 0 {
		return 0
	}
	v := float64(pos-neg) / float64(pos+neg)
	return v
}

// importanceHint scores how central the person seems to the message,
// in [0, 1].
func importanceHint(name, text string) float64 {
	lower := strings.ToLower(text)
	nameLower := strings.ToLower(name)
	importance := 0.5

	if strings.Contains(lower, "best friend") || strings.Contains(lower, "family") {
		importance += 0.3
	} else if strings.Contains(lower, "friend") || strings.Contains(lower, "colleague") {
		importance += 0.2
	} else if strings.Contains(lower, "boss") || strings.Contains(lower, "manager") {
		importance += 0.2
	}

	for _, w := range emotionalWords {
		if containsWord(lower, w) {
			importance += 0.1
			break
		}
	}

	if n := strings.Count(lower, nameLower); n > 1 {
		importance += 0.1 * float64(n-1)
	}

	if importance > 1.0 {
		return 1.0
	}
	return importance
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isLetter(text[start-1])
		afterOK := end == len(text) || !isLetter(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
