package segment

import (
	"sort"

	"github.com/dshills/textcore/document"
)

// Index tracks segments over one document. Create it with New, which
// registers it for change notification; call Close when done.
//
// An Index belongs to a single consumer and follows the document's
// single-owner model: it must be used from the document's mutating
// goroutine.
type Index[T any] struct {
	doc       *document.Document
	tree      segTree
	values    []T
	boundary  Boundary
	onRemoved func(T)
	cancel    func()
}

// Segment is a stable handle to one tracked range. It relocates with
// the text; once an edit engulfs it (or Remove is called) every
// accessor fails with ErrSegmentInvalidated.
type Segment[T any] struct {
	idx  *Index[T]
	slot int32
	gen  uint32
}

// New creates an index over doc and registers it as an observer.
func New[T any](doc *document.Document, opts ...Option[T]) *Index[T] {
	var cfg config[T]
	for _, opt := range opts {
		opt(&cfg)
	}
	idx := &Index[T]{
		doc:       doc,
		tree:      newSegTree(),
		boundary:  cfg.boundary,
		onRemoved: cfg.onRemoved,
	}
	doc.RegisterObserver(idx)
	idx.cancel = func() { doc.UnregisterObserver(idx) }
	return idx
}

// Close detaches the index from the document. Segments stop tracking
// edits; existing handles stay readable.
func (idx *Index[T]) Close() {
	if idx.cancel != nil {
		idx.cancel()
		idx.cancel = nil
	}
}

// Boundary returns the index's interval convention.
func (idx *Index[T]) Boundary() Boundary { return idx.boundary }

// Len returns the number of tracked segments.
func (idx *Index[T]) Len() int { return idx.tree.count }

// Add tracks [start, start+length) with the given payload.
func (idx *Index[T]) Add(start, length document.ByteOffset, value T) (*Segment[T], error) {
	if start < 0 || start > idx.doc.Len() {
		return nil, document.ErrOffsetOutOfRange
	}
	if length < 0 || start+length > idx.doc.Len() {
		return nil, document.ErrRangeInvalid
	}
	slot := idx.tree.insert(start, length)
	idx.setValue(slot, value)
	return &Segment[T]{idx: idx, slot: slot, gen: idx.tree.nodes[slot].gen}, nil
}

func (idx *Index[T]) setValue(slot int32, value T) {
	for int(slot) >= len(idx.values) {
		var zero T
		idx.values = append(idx.values, zero)
	}
	idx.values[slot] = value
}

// Remove drops a segment from the index. The removed callback is not
// invoked; it reports edit-driven removal only.
func (idx *Index[T]) Remove(s *Segment[T]) error {
	if s == nil || s.idx != idx || !idx.tree.valid(s.slot, s.gen) {
		return ErrSegmentInvalidated
	}
	idx.tree.detach(s.slot)
	idx.tree.kill(s.slot)
	var zero T
	idx.values[s.slot] = zero
	return nil
}

// FindContaining returns the segments containing offset, ordered by
// (start, length). Under Inclusive a segment contains its end offset;
// under Exclusive it does not, and empty segments contain nothing.
func (idx *Index[T]) FindContaining(offset document.ByteOffset) []*Segment[T] {
	hits := idx.tree.collectOverlap(offset, offset)
	if idx.boundary == Exclusive {
		hits = filterHits(hits, func(h segHit) bool { return h.end() > offset })
	}
	return idx.handles(hits)
}

// FindOverlapping returns the segments overlapping [start, end),
// ordered by (start, length). Under Inclusive, touching at an endpoint
// counts as overlap; under Exclusive the intersection must be
// non-empty (an empty segment strictly inside the range still counts).
func (idx *Index[T]) FindOverlapping(start, end document.ByteOffset) []*Segment[T] {
	hits := idx.tree.collectOverlap(start, end)
	if idx.boundary == Exclusive {
		hits = filterHits(hits, func(h segHit) bool {
			return h.start < end && h.end() > start
		})
	}
	return idx.handles(hits)
}

// All returns every segment, ordered by (start, length).
func (idx *Index[T]) All() []*Segment[T] {
	return idx.handles(idx.tree.all())
}

func filterHits(hits []segHit, keep func(segHit) bool) []segHit {
	out := hits[:0]
	for _, h := range hits {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

// handles wraps hits as public handles, in (start, length) order. The
// tree yields start order already; equal starts need the length
// tie-break so results do not depend on insertion order.
func (idx *Index[T]) handles(hits []segHit) []*Segment[T] {
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].start != hits[b].start {
			return hits[a].start < hits[b].start
		}
		return hits[a].length < hits[b].length
	})
	out := make([]*Segment[T], len(hits))
	for i, h := range hits {
		out[i] = &Segment[T]{idx: idx, slot: h.idx, gen: idx.tree.nodes[h.idx].gen}
	}
	return out
}

// OnChange rebases every segment for one applied edit. Segments fully
// before the edit are untouched; segments fully after shift by the
// length delta along one tree path; segments overlapping the removed
// span lose the overlap; segments engulfed by a deletion are dropped
// and reported via the removed callback. Insertion at a boundary
// follows the index's Boundary convention. O(log n + k) for k affected
// segments.
func (idx *Index[T]) OnChange(c document.Change) {
	off := c.Offset
	removed := c.RemovedLength
	inserted := c.InsertedLength

	affected := idx.tree.collectOverlap(off, off+removed)
	for _, h := range affected {
		idx.tree.detach(h.idx)
	}
	idx.tree.shiftFrom(off+removed+1, inserted-removed)

	for _, h := range affected {
		if idx.engulfed(h, off, removed) {
			value := idx.values[h.idx]
			idx.tree.kill(h.idx)
			var zero T
			idx.values[h.idx] = zero
			if idx.onRemoved != nil {
				idx.onRemoved(value)
			}
			continue
		}
		start, end := idx.rebase(h, off, removed, inserted)
		idx.tree.nodes[h.idx].length = end - start
		idx.tree.attach(h.idx, start)
	}
}

// engulfed reports whether a deletion removes the segment outright:
// a non-empty segment fully covered by the removed span, or an empty
// segment strictly inside it. Empty segments sitting exactly on a span
// boundary collapse to the edit point instead.
func (idx *Index[T]) engulfed(h segHit, off, removed int64) bool {
	if removed == 0 || h.start < off || h.end() > off+removed {
		return false
	}
	if h.length > 0 {
		return true
	}
	return h.start > off && h.start < off+removed
}

// rebase maps a surviving segment through the edit: both endpoints
// collapse into the removed span's start where they fell inside it,
// then the insertion is applied with the boundary convention deciding
// endpoints exactly at the edit offset.
func (idx *Index[T]) rebase(h segHit, off, removed, inserted int64) (start, end int64) {
	collapse := func(p int64) int64 {
		switch {
		case p <= off:
			return p
		case p >= off+removed:
			return p - removed
		default:
			return off
		}
	}
	start = collapse(h.start)
	end = collapse(h.end())

	grow := idx.boundary == Inclusive
	switch {
	case start > off:
		start += inserted
	case start == off && !grow:
		start = off + inserted
	}
	switch {
	case end > off:
		end += inserted
	case end == off && grow:
		end = off + inserted
	}
	if end < start {
		// empty segment at the edit point under the exclusive
		// convention: it stays before the inserted text
		start, end = off, off
	}
	return start, end
}

// Range returns the segment's current [start, end) range.
func (s *Segment[T]) Range() (document.Range, error) {
	if s.idx == nil || !s.idx.tree.valid(s.slot, s.gen) {
		return document.Range{}, ErrSegmentInvalidated
	}
	start := s.idx.tree.absStart(s.slot)
	return document.NewRange(start, start+s.idx.tree.nodes[s.slot].length), nil
}

// Value returns the segment's payload.
func (s *Segment[T]) Value() (T, error) {
	if s.idx == nil || !s.idx.tree.valid(s.slot, s.gen) {
		var zero T
		return zero, ErrSegmentInvalidated
	}
	return s.idx.values[s.slot], nil
}

// SetValue replaces the segment's payload.
func (s *Segment[T]) SetValue(value T) error {
	if s.idx == nil || !s.idx.tree.valid(s.slot, s.gen) {
		return ErrSegmentInvalidated
	}
	s.idx.values[s.slot] = value
	return nil
}

// IsDeleted reports whether the segment has been removed from its
// index.
func (s *Segment[T]) IsDeleted() bool {
	return s.idx == nil || !s.idx.tree.valid(s.slot, s.gen)
}
