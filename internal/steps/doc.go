// Package steps defines the records produced while a sorting algorithm runs.
//
// A [Record] is one observable moment of an algorithm: a copy of the working
// array plus the indices that play a role in that moment (compared, swapped,
// partition halves, updated positions). Records are immutable once built.
//
// [Describe] turns a snapshot and its role map into the log sentence shown
// next to the bars. It has no side effects and is safe to call from anywhere.
package steps
