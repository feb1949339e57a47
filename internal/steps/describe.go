package steps

import (
	"strconv"
	"strings"
)

// Describe builds the log sentence for a step from the roles present.
// Indices outside the snapshot are skipped.
func Describe(snapshot Snapshot, roles Roles) string {
	var msgs []string
	if idx, ok := roles[Compared]; ok {
		msgs = append(msgs, "Comparing "+strings.Join(values(snapshot, idx), " and "))
	}
	if idx, ok := roles[Swapped]; ok {
		msgs = append(msgs, "Swapped "+strings.Join(values(snapshot, idx), " and "))
	}
	left, hasLeft := roles[Left]
	right, hasRight := roles[Right]
	if hasLeft && hasRight {
		msgs = append(msgs, "Left: ["+strings.Join(values(snapshot, left), ", ")+"], Right: ["+strings.Join(values(snapshot, right), ", ")+"]")
	}
	if idx, ok := roles[Updated]; ok {
		msgs = append(msgs, "Updated positions: ["+strings.Join(values(snapshot, idx), ", ")+"]")
	}
	return strings.Join(msgs, "; ")
}

func values(snapshot Snapshot, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(snapshot) {
			continue
		}
		out = append(out, FormatValue(snapshot[i]))
	}
	return out
}

// FormatValue prints v without trailing zeros, so 3 prints as "3".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatList joins values with sep.
func FormatList(vals []float64, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, sep)
}
