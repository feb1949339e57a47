// Package session runs one sorting algorithm at a time over a fixed input.
//
// A [Controller] owns everything a run needs: the pacer, the narration
// channel, the renderers and the run state. Nothing lives at package level,
// so independent controllers can run side by side (tests do, and so does the
// race command).
//
// # Flow
//
//	Start -> driver step -> Emit (record, render, pace) -> narration -> ... -> Finish
//
// Emit is the only way a driver makes progress visible: it numbers the step,
// hands the record to every [Renderer] and then waits on the pacer. Pause
// freezes both the pacer and the narration channel.
package session
