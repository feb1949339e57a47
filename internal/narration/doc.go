// Package narration plays short spoken descriptions of sorting steps.
//
// A [Channel] owns the ordering and pause rules; the actual voice is an
// [Engine] supplied by the caller. Only one utterance is audible at a time:
// every item starts by cancelling whatever the engine is still saying, and a
// newer Speak call supersedes the batch of an older one.
//
// Engines in this package:
//
//   - [TextEngine]: prints each sentence and holds it for a speaking time
//     derived from its word count.
//   - [Silent]: completes every utterance immediately.
package narration
