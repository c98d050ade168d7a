package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

const sampleExport = `
"Push Day";"2026-02-19 18:30";"1:02 hr"
"note: felt strong today"
"1. Bench Press · weight_reps"
#;WEIGHT;REPS;TIME
1;60;8;
2;62,5;6;
3;62,5;5;
"2. Push Up · reps_only"
#;WEIGHT;REPS;TIME
1;;20;
2;;15;
"3. Plank · time"
#;WEIGHT;REPS;TIME
1;;;60
2;;;45,5

"Pull Day";"2026-02-17 7:04";"0:48 hr"
"1. Deadlift · weight_reps"
#;WEIGHT;REPS;TIME
1;100;5;
`

// TestParseCompleteSessions verifies parsing a multi-session export with
// all three record types. This is the primary end-to-end parser test.
func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	s1 := sessions[0]
	if s1.Name != "Push Day" {
		t.Errorf("s1.Name = %q, want Push Day", s1.Name)
	}
	if s1.Note != "felt strong today" {
		t.Errorf("s1.Note = %q", s1.Note)
	}
	if s1.Duration != time.Hour+2*time.Minute {
		t.Errorf("s1.Duration = %s, want 1h2m", s1.Duration)
	}
	if !s1.Date.Equal(time.Date(2026, 2, 19, 18, 30, 0, 0, time.UTC)) {
		t.Errorf("s1.Date = %s", s1.Date)
	}
	if len(s1.Exercises) != 3 {
		t.Fatalf("s1 exercises = %d, want 3", len(s1.Exercises))
	}

	// Exercise 1: weight_reps with a European decimal weight
	ex1 := s1.Exercises[0]
	if ex1.Name != "Bench Press" || ex1.RecordType != models.RecordWeightReps {
		t.Errorf("ex1 = %q %s, want Bench Press weight_reps", ex1.Name, ex1.RecordType)
	}
	if len(ex1.Sets) != 3 {
		t.Fatalf("ex1 sets = %d, want 3", len(ex1.Sets))
	}
	if ex1.Sets[1].Weight == nil || *ex1.Sets[1].Weight != 62.5 {
		t.Errorf("ex1 set 2 weight = %v, want 62.5", ex1.Sets[1].Weight)
	}
	if ex1.Sets[0].Reps == nil || *ex1.Sets[0].Reps != 8 {
		t.Errorf("ex1 set 1 reps = %v, want 8", ex1.Sets[0].Reps)
	}
	if ex1.Sets[0].TimeSeconds != nil {
		t.Errorf("ex1 set 1 time = %v, want nil", ex1.Sets[0].TimeSeconds)
	}

	// Exercise 2: reps_only keeps weight nil
	ex2 := s1.Exercises[1]
	if ex2.Sets[0].Weight != nil {
		t.Errorf("ex2 set 1 weight = %v, want nil", ex2.Sets[0].Weight)
	}
	if ex2.Sets[0].Reps == nil || *ex2.Sets[0].Reps != 20 {
		t.Errorf("ex2 set 1 reps = %v, want 20", ex2.Sets[0].Reps)
	}

	// Exercise 3: time with fractional seconds
	ex3 := s1.Exercises[2]
	if ex3.RecordType != models.RecordTime {
		t.Errorf("ex3 record type = %s, want time", ex3.RecordType)
	}
	if ex3.Sets[1].TimeSeconds == nil || *ex3.Sets[1].TimeSeconds != 45.5 {
		t.Errorf("ex3 set 2 time = %v, want 45.5", ex3.Sets[1].TimeSeconds)
	}

	// Second session — single-digit hour in the date
	s2 := sessions[1]
	if s2.Name != "Pull Day" {
		t.Errorf("s2.Name = %q, want Pull Day", s2.Name)
	}
	if s2.Date.Hour() != 7 {
		t.Errorf("s2 hour = %d, want 7", s2.Date.Hour())
	}
	if len(s2.Exercises) != 1 || len(s2.Exercises[0].Sets) != 1 {
		t.Errorf("s2 = %d exercises, want 1 with 1 set", len(s2.Exercises))
	}
}

// TestParseSetWithoutExercise verifies that stray set data fails loudly
// instead of being attached to the wrong exercise.
func TestParseSetWithoutExercise(t *testing.T) {
	input := `
"Push Day";"2026-02-19 18:30";"1:02 hr"
1;60;8;
`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Error("expected error for set data before any exercise header")
	}
}

// TestParseExerciseWithoutSession verifies the same for exercise headers.
func TestParseExerciseWithoutSession(t *testing.T) {
	input := `"1. Bench Press · weight_reps"`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Error("expected error for exercise before any session header")
	}
}

// TestParseBadDate verifies that a malformed session date is an error.
func TestParseBadDate(t *testing.T) {
	input := `"Push Day";"2026-99-99 18:30";"1:02 hr"`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestParseSkipsUnknownLines verifies that lines matching no pattern are
// ignored rather than failing the import.
func TestParseSkipsUnknownLines(t *testing.T) {
	input := `
"Push Day";"2026-02-19 18:30";"1:02 hr"
some stray metadata line
"1. Bench Press · weight_reps"
#;WEIGHT;REPS;TIME
1;60;8;
`
	sessions, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Exercises) != 1 {
		t.Errorf("sessions = %+v, want 1 session with 1 exercise", sessions)
	}
}

// TestParseEuropeanFloat verifies decimal comma handling.
func TestParseEuropeanFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		nil_ bool
	}{
		{"102,5", 102.5, false},
		{"0,5", 0.5, false},
		{"60", 60, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got := parseEuropeanFloat(tt.in)
		if tt.nil_ {
			if got != nil {
				t.Errorf("parseEuropeanFloat(%q) = %v, want nil", tt.in, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parseEuropeanFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
