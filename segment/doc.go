// Package segment provides a generic interval index over a document.
//
// An Index tracks (start, length, payload) ranges and keeps them
// consistent as the document is edited: ranges before an edit are
// untouched, ranges after it shift, ranges overlapping a deletion are
// truncated, and ranges engulfed by a deletion are dropped. Each index
// is owned by one consumer and registered with the document as an
// observer; the document never looks at payloads.
//
// Whether an insertion exactly at a range boundary grows the range is
// an explicit per-index choice (Inclusive or Exclusive), not an
// accident of tree layout.
package segment
