// Package rope implements a persistent, chunked tree buffer for text.
//
// A Rope is an immutable value: every mutating operation returns a new
// Rope whose tree shares all unmodified subtrees with the original.
// Copying a Rope is therefore a plain assignment, and a copy taken
// before an edit is a stable snapshot that can be read from any
// goroutine while the live document keeps changing.
//
// Internally the text is held in bounded string chunks at the leaves of
// a wide balanced tree. Every node caches a summary (byte length and
// newline count) for its subtree, so offset lookups, line lookups, and
// edits all run in O(log n).
//
// The rope itself has no document semantics: it does not validate
// caller offsets beyond clamping, does not track versions, and does not
// notify anyone. That is the document package's job.
package rope
