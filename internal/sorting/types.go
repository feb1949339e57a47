package sorting

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/sortviz/internal/steps"
)

var ErrUnknownAlgorithm = errors.New("sorting: unknown algorithm")

// Recorder receives the observable events of a running driver.
type Recorder interface {
	Step(ctx context.Context, snapshot steps.Snapshot, roles steps.Roles) error
	Say(ctx context.Context, items ...string) error
}

// Driver sorts input without modifying it and returns the sorted copy.
type Driver func(ctx context.Context, input []float64, rec Recorder) ([]float64, error)

// IndexError is raised (as a panic) when a driver touches an index outside
// the working array. It indicates a bug, never bad user input.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("sorting: index %d out of range [0,%d)", e.Index, e.Len)
}

func check(a steps.Snapshot, idx ...int) {
	for _, i := range idx {
		if i < 0 || i >= len(a) {
			panic(&IndexError{Index: i, Len: len(a)})
		}
	}
}

func swap(a steps.Snapshot, i, j int) {
	check(a, i, j)
	a[i], a[j] = a[j], a[i]
}

// emit reports one step and then its narration.
func emit(ctx context.Context, rec Recorder, a steps.Snapshot, roles steps.Roles, items ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, idx := range roles {
		check(a, idx...)
	}
	if err := rec.Step(ctx, a, roles); err != nil {
		return err
	}
	return rec.Say(ctx, items...)
}

func num(v float64) string { return steps.FormatValue(v) }
