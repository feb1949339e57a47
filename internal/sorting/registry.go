package sorting

import "fmt"

type Registry struct {
	drivers map[string]Driver
	order   []string
}

// NewRegistry returns a registry holding the five built-in algorithms.
func NewRegistry() *Registry {
	r := &Registry{drivers: make(map[string]Driver)}
	r.Register("bubble", Bubble)
	r.Register("selection", Selection)
	r.Register("insertion", Insertion)
	r.Register("merge", Merge)
	r.Register("quick", Quick)
	return r
}

// Register adds or replaces a driver.
func (r *Registry) Register(name string, d Driver) {
	if _, ok := r.drivers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.drivers[name] = d
}

func (r *Registry) Get(name string) (Driver, error) {
	d, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return d, nil
}

// Names lists algorithms in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

var descriptions = map[string]string{
	"bubble":    "adjacent swaps, largest value sinks each pass",
	"selection": "select the minimum of the unsorted tail",
	"insertion": "shift larger values right, insert the key",
	"merge":     "split in halves, merge sorted runs",
	"quick":     "lomuto partition around the last element",
}

// Describe returns a one-line summary of a built-in algorithm.
func Describe(name string) string { return descriptions[name] }
