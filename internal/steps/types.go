package steps

import "sort"

type Snapshot []float64

func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	copy(c, s)
	return c
}

type Role string

const (
	Compared Role = "compared"
	Swapped  Role = "swapped"
	Left     Role = "left"
	Right    Role = "right"
	Updated  Role = "updated"
)

// AllRoles lists roles in rendering priority order.
var AllRoles = []Role{Compared, Swapped, Left, Right, Updated}

type Roles map[Role][]int

func (r Roles) Clone() Roles {
	c := make(Roles, len(r))
	for role, idx := range r {
		cp := make([]int, len(idx))
		copy(cp, idx)
		c[role] = cp
	}
	return c
}

// Has reports whether i is tagged with role.
func (r Roles) Has(role Role, i int) bool {
	for _, j := range r[role] {
		if j == i {
			return true
		}
	}
	return false
}

// Of returns the roles of index i in priority order.
func (r Roles) Of(i int) []Role {
	var out []Role
	for _, role := range AllRoles {
		if r.Has(role, i) {
			out = append(out, role)
		}
	}
	return out
}

// Names returns the roles present, sorted.
func (r Roles) Names() []string {
	names := make([]string, 0, len(r))
	for role := range r {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return names
}

type Record struct {
	Seq         int      `json:"seq"`
	Snapshot    Snapshot `json:"snapshot"`
	Roles       Roles    `json:"roles"`
	Description string   `json:"description"`
}

// NewRecord copies snapshot and roles so the caller may keep mutating them.
func NewRecord(seq int, snapshot Snapshot, roles Roles, description string) Record {
	if description == "" {
		description = Describe(snapshot, roles)
	}
	return Record{
		Seq:         seq,
		Snapshot:    snapshot.Clone(),
		Roles:       roles.Clone(),
		Description: description,
	}
}

// Range returns the indices l..r inclusive.
func Range(l, r int) []int {
	if r < l {
		return []int{}
	}
	out := make([]int, 0, r-l+1)
	for i := l; i <= r; i++ {
		out = append(out, i)
	}
	return out
}

// Inversions counts pairs i<j with s[i] > s[j]; zero means sorted.
func (s Snapshot) Inversions() int {
	n := 0
	for i := range s {
		for j := i + 1; j < len(s); j++ {
			if s[i] > s[j] {
				n++
			}
		}
	}
	return n
}
