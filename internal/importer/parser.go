package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// ImportSession is one workout parsed from an export file.
type ImportSession struct {
	Name      string
	Date      time.Time
	Duration  time.Duration
	Note      string
	Exercises []ImportExercise
}

// ImportExercise is one exercise block within a session.
type ImportExercise struct {
	Number     int
	Name       string
	RecordType models.RecordType
	Sets       []ImportSet
}

// ImportSet is one recorded set. Only the fields relevant to the
// exercise's record type are non-nil.
type ImportSet struct {
	Number      int
	Weight      *float64
	Reps        *int
	TimeSeconds *float64
}

var (
	// sessionHeaderRe matches: "Push Day";"2026-02-19 18:30";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)";"(\d+):(\d+)\s+hr"$`)

	// exerciseHeaderRe matches: "1. Bench Press · weight_reps"
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)\s+·\s+(weight_reps|reps_only|time)"$`)

	// setDataRe matches: 1;62,5;8;  or  1;;;60
	setDataRe = regexp.MustCompile(`^(\d+);([^;]*);([^;]*);([^;]*)$`)

	// columnHeaderRe matches: #;WEIGHT;REPS;TIME
	columnHeaderRe = regexp.MustCompile(`^#;WEIGHT;REPS;TIME$`)

	// noteRe matches: "note: felt strong today"
	noteRe = regexp.MustCompile(`^"note:\s*(.*)"$`)
)

// Parse reads a JuniFit workout export and returns parsed sessions.
// Sessions are separated by blank lines; unknown lines are skipped.
func Parse(r io.Reader) ([]ImportSession, error) {
	scanner := bufio.NewScanner(r)
	var sessions []ImportSession
	var current *ImportSession
	var currentExercise *ImportExercise

	flushExercise := func() {
		if current != nil && currentExercise != nil {
			current.Exercises = append(current.Exercises, *currentExercise)
			currentExercise = nil
		}
	}
	flushSession := func() {
		flushExercise()
		if current != nil {
			sessions = append(sessions, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Blank line = session boundary
		if line == "" {
			flushSession()
			continue
		}

		// Skip column headers
		if columnHeaderRe.MatchString(line) {
			continue
		}

		// Try session header
		if m := sessionHeaderRe.FindStringSubmatch(line); m != nil {
			flushSession()
			date, err := parseSessionDate(m[2])
			if err != nil {
				return nil, fmt.Errorf("parsing session date %q: %w", m[2], err)
			}
			hours, _ := strconv.Atoi(m[3])
			minutes, _ := strconv.Atoi(m[4])
			current = &ImportSession{
				Name:     m[1],
				Date:     date,
				Duration: time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute,
			}
			continue
		}

		// Try exercise header
		if m := exerciseHeaderRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				return nil, fmt.Errorf("exercise without session: %q", line)
			}
			flushExercise()
			num, _ := strconv.Atoi(m[1])
			currentExercise = &ImportExercise{
				Number:     num,
				Name:       strings.TrimSpace(m[2]),
				RecordType: models.RecordType(m[3]),
			}
			continue
		}

		// Try set data
		if m := setDataRe.FindStringSubmatch(line); m != nil {
			if currentExercise == nil {
				return nil, fmt.Errorf("set data without exercise: %q", line)
			}
			setNum, _ := strconv.Atoi(m[1])
			set := ImportSet{Number: setNum}
			if w := parseEuropeanFloat(m[2]); w != nil {
				set.Weight = w
			}
			if v := parseEuropeanFloat(m[3]); v != nil {
				reps := int(*v)
				set.Reps = &reps
			}
			if v := parseEuropeanFloat(m[4]); v != nil {
				set.TimeSeconds = v
			}
			currentExercise.Sets = append(currentExercise.Sets, set)
			continue
		}

		// Try session note
		if m := noteRe.FindStringSubmatch(line); m != nil && current != nil {
			current.Note = m[1]
			continue
		}

		// Unknown line — skip silently
	}

	flushSession()
	return sessions, scanner.Err()
}

// parseSessionDate parses "2026-02-19 18:30" into a time.Time.
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseEuropeanFloat converts a decimal string to a float, accepting the
// European comma separator. Empty or unparsable text yields nil.
// "102,5" -> 102.5
func parseEuropeanFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
