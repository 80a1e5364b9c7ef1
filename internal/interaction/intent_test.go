package interaction

import "testing"

func TestDetectIntentPlanning(t *testing.T) {
	intent := DetectIntent("I'm planning to have coffee with Sarah tomorrow")
	if intent.Kind != IntentPlanning {
		t.Fatalf("expected planning intent, got %s", intent.Kind)
	}
	if intent.PersonName != "Sarah" {
		t.Fatalf("expected Sarah, got %q", intent.PersonName)
	}
	if intent.TypeGuess != "coffee" {
		t.Fatalf("expected coffee type, got %q", intent.TypeGuess)
	}
	if intent.PlannedDate != "tomorrow" {
		t.Fatalf("expected tomorrow, got %q", intent.PlannedDate)
	}
	if intent.Description == "" {
		t.Fatal("expected a description")
	}
}

func TestDetectIntentPlanningLowercaseName(t *testing.T) {
	intent := DetectIntent("going to call mike tonight")
	if intent.Kind != IntentPlanning {
		t.Fatalf("expected planning intent, got %s", intent.Kind)
	}
	if intent.PersonName != "Mike" {
		t.Fatalf("expected capitalized Mike, got %q", intent.PersonName)
	}
	if intent.TypeGuess != "call" {
		t.Fatalf("expected call type, got %q", intent.TypeGuess)
	}
	if intent.PlannedDate != "tonight" {
		t.Fatalf("expected tonight, got %q", intent.PlannedDate)
	}
}

func TestDetectIntentInquiry(t *testing.T) {
	intent := DetectIntent("Did you meet with Tom?")
	if intent.Kind != IntentInquiry {
		t.Fatalf("expected inquiry intent, got %s", intent.Kind)
	}
	if intent.PersonName != "Tom" {
		t.Fatalf("expected Tom, got %q", intent.PersonName)
	}
}

func TestDetectIntentInquiryBeatsPlanning(t *testing.T) {
	intent := DetectIntent("How did the lunch with Anna go? I am planning to see her again")
	if intent.Kind != IntentInquiry {
		t.Fatalf("inquiry phrasing should win, got %s", intent.Kind)
	}
	if intent.PersonName != "Anna" {
		t.Fatalf("expected Anna, got %q", intent.PersonName)
	}
}

func TestDetectIntentNone(t *testing.T) {
	for _, text := range []string{
		"The weather is nice today",
		"I finished the report",
		"",
	} {
		if intent := DetectIntent(text); intent.Kind != IntentNone {
			t.Errorf("DetectIntent(%q) = %s, want none", text, intent.Kind)
		}
	}
}

func TestGuessType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"grab a coffee", "coffee"},
		{"have lunch", "lunch"},
		{"dinner at eight", "dinner"},
		{"give her a call", "call"},
		{"help him move", "help"},
		{"birthday party", "party"},
		{"we had a fight", "argument"},
		{"work on the project", "work"},
		{"visit grandma", "visit"},
		{"hang out", "meet"},
	}
	for _, tt := range tests {
		if got := GuessType(tt.text); got != tt.want {
			t.Errorf("GuessType(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractPlannedDate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"see you tomorrow", "tomorrow"},
		{"dinner tonight", "tonight"},
		{"later today", "today"},
		{"maybe this weekend", "this weekend"},
		{"sometime next week", "next week"},
		{"on friday", "Friday"},
		{"at some point", "soon"},
	}
	for _, tt := range tests {
		if got := extractPlannedDate(tt.text); got != tt.want {
			t.Errorf("extractPlannedDate(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
