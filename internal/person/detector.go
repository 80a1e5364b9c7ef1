package person

import (
	"regexp"
	"strings"
)

// Candidate is one detected person mention with contextual hints. Hints are
// advisory: they seed initial state, they never overwrite confirmed facts.
type Candidate struct {
	Name             string
	RelationshipHint string
	OccupationHint   string
	TraitHints       []string
	// ValenceHint is an advisory sentiment in [-1, 1].
	ValenceHint float64
	// ImportanceHint is an advisory importance in [0, 1].
	ImportanceHint float64
}

// matcher is one independent name-extraction strategy.
type matcher interface {
	names(text string) []string
}

// patternMatcher extracts the capture group of a regular expression.
type patternMatcher struct {
	re    *regexp.Regexp
	group int
}

func (m *patternMatcher) names(text string) []string {
	var out []string
	for _, cap := range m.re.FindAllStringSubmatch(text, -1) {
		if m.group < len(cap) && cap[m.group] != "" {
			out = append(out, cap[m.group])
		}
	}
	return out
}

// Patterns require a supporting contextual cue next to the capitalized
// token: a kinship keyword, an interaction verb, a title, a possessive
// introduction, or an interpersonal predicate. Capitalization alone is
// never enough.
var (
	kinshipPattern = &patternMatcher{re: regexp.MustCompile(
		`(?:[Mm]y|[Oo]ur|[Tt]heir|[Hh]is|[Hh]er) (?:best friend|friend|colleague|coworker|boss|manager|teacher|doctor|neighbor|brother|sister|mother|father|mom|dad|cousin|uncle|aunt|grandmother|grandfather|grandma|grandpa) (?:is |was )?([A-Z][a-z]+)`), group: 1}

	verbBeforePattern = &patternMatcher{re: regexp.MustCompile(
		`(?:[Tt]alked to|[Ss]poke with|[Mm]et|[Ss]aw|[Vv]isited|[Cc]alled|[Tt]exted|[Ee]mailed) ([A-Z][a-z]+)`), group: 1}

	verbAfterPattern = &patternMatcher{re: regexp.MustCompile(
		`([A-Z][a-z]+) (?:called|texted|emailed|visited|invited|asked|told|said|mentioned|arrived|helped)`), group: 1}

	titlePattern = &patternMatcher{re: regexp.MustCompile(
		`(?:Dr\.|Mr\.|Mrs\.|Ms\.|Prof\.|Professor|Doctor|Officer|Coach|Captain) ([A-Z][a-z]+)`), group: 1}

	possessivePattern = &patternMatcher{re: regexp.MustCompile(
		`([A-Z][a-z]+)'s (?:house|place|car|office|room|family|friend|work|party|birthday)`), group: 1}

	predicatePattern = &patternMatcher{re: regexp.MustCompile(
		`([A-Z][a-z]+) is (?:my|our) (?:best friend|friend|colleague|coworker|boss|manager|teacher|doctor|neighbor|brother|sister|mother|father|cousin)`), group: 1}
)

// indicatorWords gate the standalone capitalized-token scan: the adjacent
// word must be one of these for a bare capitalized token to count.
var indicatorWords = map[string]bool{
	"friend": true, "colleague": true, "coworker": true, "neighbor": true,
	"boss": true, "manager": true, "teacher": true, "doctor": true,
	"met": true, "saw": true, "visited": true, "called": true, "texted": true,
	"with": true, "and": true, "told": true, "asked": true,
}

// stopWords are capitalized tokens that are never person names: common
// sentence-leading words, body parts, objects, time words.
var stopWords = map[string]bool{
	"the": true, "and": true, "but": true, "when": true, "where": true,
	"what": true, "who": true, "how": true, "why": true, "this": true,
	"that": true, "these": true, "those": true, "here": true, "there": true,
	"now": true, "then": true, "today": true, "tomorrow": true,
	"yesterday": true, "tonight": true, "morning": true, "evening": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"running": true, "walking": true, "swimming": true, "shopping": true,
	"working": true, "cooking": true, "reading": true,
	"hand": true, "hands": true, "shoulder": true, "head": true, "arm": true,
	"leg": true, "eye": true, "eyes": true, "face": true, "hair": true,
	"class": true, "book": true, "table": true, "chair": true, "door": true,
	"window": true, "desk": true, "computer": true, "phone": true,
	"car": true, "house": true, "room": true, "work": true, "home": true,
	"coffee": true, "lunch": true, "dinner": true, "breakfast": true,
	"thing": true, "things": true, "stuff": true, "time": true,
	"place": true, "way": true, "okay": true, "yes": true, "no": true,
	"hello": true, "thanks": true, "please": true, "sorry": true,
}

func isLikelyName(token string) bool {
	if len(token) < 3 {
		return false
	}
	if token[0] < 'A' || token[0] > 'Z' {
		return false
	}
	for i := 1; i < len(token); i++ {
		if token[i] < 'a' || token[i] > 'z' {
			return false
		}
	}
	return !stopWords[strings.ToLower(token)]
}

// standaloneMatcher accepts a bare capitalized token only when an adjacent
// word is a person indicator. No contextual support means no candidate.
type standaloneMatcher struct{}

func (standaloneMatcher) names(text string) []string {
	words := strings.Fields(text)
	var out []string
	for i, word := range words {
		clean := strings.TrimFunc(word, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
		})
		if !isLikelyName(clean) {
			continue
		}
		prevOK := i > 0 && indicatorWords[normalizeToken(words[i-1])]
		nextOK := i < len(words)-1 && indicatorWords[normalizeToken(words[i+1])]
		if prevOK || nextOK {
			out = append(out, clean)
		}
	}
	return out
}

func normalizeToken(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}))
}

// Detector extracts person mentions from free-form text. Pure and
// side-effect free; malformed input degrades to an empty result.
type Detector struct {
	matchers []matcher
}

// NewDetector returns a detector composed of the standard matcher pipeline.
func NewDetector() *Detector {
	return &Detector{matchers: []matcher{
		kinshipPattern,
		verbBeforePattern,
		verbAfterPattern,
		titlePattern,
		possessivePattern,
		predicatePattern,
		standaloneMatcher{},
	}}
}

// Detect returns zero or more candidates with hints, deduplicated by
// normalized name in order of first appearance.
func (d *Detector) Detect(text string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []Candidate
	for _, m := range d.matchers {
		for _, name := range m.names(text) {
			if !isLikelyName(name) {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, Candidate{
				Name:             name,
				RelationshipHint: relationshipHint(name, text),
				OccupationHint:   occupationHint(name, text),
				TraitHints:       traitHints(name, text),
				ValenceHint:      valenceHint(name, text),
				ImportanceHint:   importanceHint(name, text),
			})
		}
	}
	return candidates
}
