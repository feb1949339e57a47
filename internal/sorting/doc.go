// Package sorting implements the instrumented sorting algorithms.
//
// Every driver sorts a private copy of its input and reports each
// comparison, swap, partition split and merge placement to a [Recorder]
// before moving on: first the step, then the narration for it. Drivers do no
// rendering of their own.
//
// The algorithms are written for observability, not speed.
package sorting
