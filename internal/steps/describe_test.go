package steps

import "testing"

func TestDescribe(t *testing.T) {
	snap := Snapshot{5, 3, 8, 1}

	tests := []struct {
		name  string
		roles Roles
		want  string
	}{
		{"compare", Roles{Compared: {0, 1}}, "Comparing 5 and 3"},
		{"swap", Roles{Swapped: {2, 3}}, "Swapped 8 and 1"},
		{"single swap", Roles{Swapped: {1}}, "Swapped 3"},
		{"partition", Roles{Left: {0, 1}, Right: {2, 3}}, "Left: [5, 3], Right: [8, 1]"},
		{"left only", Roles{Left: {0, 1}}, ""},
		{"updated", Roles{Updated: {0, 1, 2}}, "Updated positions: [5, 3, 8]"},
		{"combined", Roles{Compared: {0, 3}, Updated: {3}}, "Comparing 5 and 1; Updated positions: [1]"},
		{"empty", Roles{}, ""},
		{"out of range skipped", Roles{Compared: {0, 9}}, "Comparing 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(snap, tt.roles); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(3); got != "3" {
		t.Errorf("expected 3, got %s", got)
	}
	if got := FormatValue(2.5); got != "2.5" {
		t.Errorf("expected 2.5, got %s", got)
	}
	if got := FormatList([]float64{1, 3, 5}, ","); got != "1,3,5" {
		t.Errorf("expected 1,3,5, got %s", got)
	}
}

func TestNewRecordCopies(t *testing.T) {
	snap := Snapshot{2, 1}
	roles := Roles{Compared: {0, 1}}

	rec := NewRecord(1, snap, roles, "")
	snap[0] = 99
	roles[Compared][0] = 7

	if rec.Snapshot[0] != 2 {
		t.Errorf("snapshot aliased: got %v", rec.Snapshot)
	}
	if rec.Roles[Compared][0] != 0 {
		t.Errorf("roles aliased: got %v", rec.Roles)
	}
	if rec.Description != "Comparing 2 and 1" {
		t.Errorf("unexpected description %q", rec.Description)
	}
}

func TestRolesOf(t *testing.T) {
	roles := Roles{Compared: {1}, Updated: {1, 2}}
	got := roles.Of(1)
	if len(got) != 2 || got[0] != Compared || got[1] != Updated {
		t.Errorf("unexpected roles %v", got)
	}
	if len(roles.Of(0)) != 0 {
		t.Error("index 0 should have no roles")
	}
}

func TestRange(t *testing.T) {
	r := Range(2, 4)
	if len(r) != 3 || r[0] != 2 || r[2] != 4 {
		t.Errorf("unexpected range %v", r)
	}
	if len(Range(3, 2)) != 0 {
		t.Error("empty range expected")
	}
}

func TestInversions(t *testing.T) {
	tests := []struct {
		snap Snapshot
		want int
	}{
		{Snapshot{}, 0},
		{Snapshot{1, 2, 3}, 0},
		{Snapshot{3, 2, 1}, 3},
		{Snapshot{5, 3, 8, 1}, 4},
		{Snapshot{2, 2}, 0},
	}
	for _, tt := range tests {
		if got := tt.snap.Inversions(); got != tt.want {
			t.Errorf("%v.Inversions() = %d, want %d", tt.snap, got, tt.want)
		}
	}
}
