package gauge

import (
	"math"
	"regexp"
	"strconv"
)

// partialNumber matches an optionally signed decimal literal that may still
// be mid-typing: "", "-", ".", "-.", "12", "12.", ".5", "-0.25".
var partialNumber = regexp.MustCompile(`^-?\d*\.?\d*$`)

// IsPartial reports whether text is an acceptable keystroke-level state of a
// numeric field. Letters, repeated dots or signs, whitespace and exponent
// notation are rejected.
func IsPartial(text string) bool {
	switch text {
	case "", "-", ".", "-.":
		return true
	}
	return partialNumber.MatchString(text)
}

// IsComplete reports whether text is acceptable and denotes a finite number.
func IsComplete(text string) bool {
	_, ok := parseComplete(text)
	return ok
}

// Parse returns the number denoted by text, or an InvalidInput error naming
// field when text is not complete.
func Parse(field, text string) (float64, error) {
	v, ok := parseComplete(text)
	if !ok {
		if text == "" {
			return 0, invalidInput(field, "Please fill "+field)
		}
		return 0, invalidInput(field, field+" must be a valid number")
	}
	return v, nil
}

func parseComplete(text string) (float64, bool) {
	if !IsPartial(text) {
		return 0, false
	}
	switch text {
	case "", "-", ".", "-.":
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
