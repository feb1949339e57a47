package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

// ParseArray reads a comma-separated list of numbers such as "5, 3, 8, 1".
// Empty text, empty elements and non-numeric elements are rejected with
// session.ErrInvalidInput.
func ParseArray(text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: please enter an array", session.ErrInvalidInput)
	}

	parts := strings.Split(text, ",")
	values := make([]float64, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: element %d is empty", session.ErrInvalidInput, i+1)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %q is not a number", session.ErrInvalidInput, p)
		}
		values = append(values, v)
	}
	return values, nil
}

// FormatArray renders values the way ParseArray reads them.
func FormatArray(values []float64) string {
	return steps.FormatList(values, ",")
}
