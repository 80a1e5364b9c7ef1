package interaction

import (
	"regexp"
	"strings"
)

// IntentKind classifies what the text asks of the planner.
type IntentKind string

const (
	// IntentPlanning is future-tense phrasing about an upcoming interaction.
	IntentPlanning IntentKind = "planning"
	// IntentInquiry is past-tense questioning about a known person.
	IntentInquiry IntentKind = "inquiry"
	// IntentNone means no interaction intent was found.
	IntentNone IntentKind = "none"
)

// Intent is the result of DetectIntent. PersonName is a guess to be resolved
// against the person directory by the caller.
type Intent struct {
	Kind        IntentKind
	PersonName  string
	TypeGuess   string
	Description string
	PlannedDate string
}

var planningPhrases = []string{
	"plan to", "planning to", "going to", "will meet", "will see",
	"will call", "will visit", "scheduled", "tomorrow i will", "i'll meet",
	"i'll call", "i'll see",
}

var inquiryPhrases = []string{
	"did you", "have you", "what happened", "how did", "how was",
	"tell me about",
}

var personQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:with|to|about|see|meet|call|visit|help|and) ([A-Z][a-z]+)`),
	regexp.MustCompile(`(?:with|to|about|see|meet|call|visit|help) (\w+)`),
}

// DetectIntent classifies text as planning, inquiry, or none. Pure and
// side-effect free.
func DetectIntent(text string) Intent {
	lower := strings.ToLower(text)

	if containsAny(lower, inquiryPhrases) {
		if name := extractPersonFromQuery(text); name != "" {
			return Intent{Kind: IntentInquiry, PersonName: name}
		}
	}

	if containsAny(lower, planningPhrases) {
		if name := extractPersonFromQuery(text); name != "" {
			typeGuess := GuessType(lower)
			return Intent{
				Kind:        IntentPlanning,
				PersonName:  name,
				TypeGuess:   typeGuess,
				Description: describeInteraction(typeGuess, name),
				PlannedDate: extractPlannedDate(lower),
			}
		}
	}

	return Intent{Kind: IntentNone}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// queryStopWords are words the person-query patterns may capture that are
// never names.
var queryStopWords = map[string]bool{
	"the": true, "him": true, "her": true, "them": true, "you": true,
	"me": true, "it": true, "that": true, "this": true, "your": true,
	"my": true, "our": true, "some": true, "someone": true, "anyone": true,
	"tomorrow": true, "today": true, "tonight": true, "coffee": true,
	"lunch": true, "dinner": true, "work": true, "call": true, "meet": true,
	"see": true, "visit": true, "help": true, "talk": true, "have": true,
}

func extractPersonFromQuery(text string) string {
	for _, re := range personQueryPatterns {
		for _, cap := range re.FindAllStringSubmatch(text, -1) {
			name := cap[1]
			if len(name) > 2 && !queryStopWords[strings.ToLower(name)] {
				return capitalize(name)
			}
		}
	}
	return ""
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

// GuessType maps free text to an interaction type category name.
func GuessType(lower string) string {
	switch {
	case strings.Contains(lower, "coffee"):
		return "coffee"
	case strings.Contains(lower, "lunch"):
		return "lunch"
	case strings.Contains(lower, "dinner"):
		return "dinner"
	case strings.Contains(lower, "call") || strings.Contains(lower, "phone"):
		return "call"
	case strings.Contains(lower, "help") || strings.Contains(lower, "assist"):
		return "help"
	case strings.Contains(lower, "party") || strings.Contains(lower, "event"):
		return "party"
	case strings.Contains(lower, "argue") || strings.Contains(lower, "fight") || strings.Contains(lower, "confront"):
		return "argument"
	case strings.Contains(lower, "work") || strings.Contains(lower, "project"):
		return "work"
	case strings.Contains(lower, "visit"):
		return "visit"
	default:
		return "meet"
	}
}

func describeInteraction(typeGuess, name string) string {
	switch typeGuess {
	case "coffee":
		return "Have coffee with " + name
	case "lunch":
		return "Have lunch with " + name
	case "dinner":
		return "Have dinner with " + name
	case "call":
		return "Phone call with " + name
	case "help":
		return "Help " + name + " with something"
	case "party":
		return "Attend event with " + name
	case "argument":
		return "Confront " + name
	case "work":
		return "Work on project with " + name
	case "visit":
		return "Visit " + name
	default:
		return "Meet with " + name
	}
}

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func extractPlannedDate(lower string) string {
	switch {
	case strings.Contains(lower, "tomorrow"):
		return "tomorrow"
	case strings.Contains(lower, "tonight"):
		return "tonight"
	case strings.Contains(lower, "today"):
		return "today"
	case strings.Contains(lower, "this weekend"):
		return "this weekend"
	case strings.Contains(lower, "next week"):
		return "next week"
	}
	for _, day := range weekdays {
		if strings.Contains(lower, day) {
			return strings.ToUpper(day[:1]) + day[1:]
		}
	}
	return "soon"
}
