// Package document is the mutation gateway over a rope buffer.
//
// A Document owns one rope, a change journal, and the tree of live
// anchors. Every edit flows through Replace/Insert/Delete (or an Edit
// value), which validates bounds, mutates the rope, bumps the version,
// records the change in the journal, rebases anchors, updates
// registered observers (segment indexes), and finally delivers a
// change notification to listeners. From the caller's point of view
// the sequence is atomic: a validation failure leaves every structure
// untouched.
//
// Concurrency follows a single-owner model. Exactly one goroutine may
// mutate a Document; a second mutator, or a mutation attempted from
// inside a change notification, fails fast with ErrInvalidOperation
// instead of corrupting state. Snapshot returns the underlying rope
// value, which is immutable and safe to read from any goroutine while
// the document keeps changing.
//
// BeginUpdate and EndUpdate bracket a batch of edits. Brackets nest by
// reference count; only the outermost EndUpdate delivers one coalesced
// notification carrying the ordered changes and their union range.
// Anchor and observer rebasing still happens per edit, so offsets stay
// consistent inside the bracket.
package document
