package workout

import (
	"math"
	"strconv"
	"strings"
)

// Field names one of the three performance dimensions a set can record.
type Field string

const (
	FieldWeight Field = "weight"
	FieldReps   Field = "reps"
	FieldTime   Field = "time"
)

// Validate classifies numeric text for a field. An empty string is valid
// (not yet entered) and yields a nil value. Otherwise the text must parse to
// a positive number — and for reps, an integer — or a field-specific message
// is returned. The parsed value is returned alongside so callers never
// re-parse.
func Validate(field Field, text string) (*float64, string) {
	if text == "" {
		return nil, ""
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return nil, validationMessage(field)
	}
	if field == FieldReps && v != math.Trunc(v) {
		return nil, validationMessage(field)
	}
	return &v, ""
}

func validationMessage(field Field) string {
	switch field {
	case FieldWeight:
		return "weight must be positive"
	case FieldReps:
		return "reps must be a positive integer"
	case FieldTime:
		return "time must be positive"
	}
	return "invalid value"
}

// IsPartialNumber reports whether s is partial numeric text: digits with at
// most one decimal point. Input that fails this check is dropped before it
// ever reaches session state, so intermediate typing like "12." is kept but
// "12a" never is.
func IsPartialNumber(s string) bool {
	if strings.Count(s, ".") > 1 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
