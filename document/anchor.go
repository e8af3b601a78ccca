package document

// Anchor is a stable reference to a document offset. It relocates
// automatically as the document is edited, according to its movement
// policy and survive-deletion flag.
//
// An anchor whose offset is strictly contained in a deleted span
// becomes permanently invalid unless it was created with
// SurviveDeletion, in which case it collapses to the deletion's start.
// The handle is index-based: the document's anchor tree holds no
// reference back to the Anchor value, so dropping the handle is always
// safe.
type Anchor struct {
	doc *Document
	idx int32
	gen uint32
}

// anchorConfig collects creation options.
type anchorConfig struct {
	survive   bool
	moveAfter bool
}

// AnchorOption configures anchor creation.
type AnchorOption func(*anchorConfig)

// SurviveDeletion makes the anchor collapse to the deletion start
// instead of invalidating when its position is deleted.
func SurviveDeletion() AnchorOption {
	return func(c *anchorConfig) { c.survive = true }
}

// MoveAfterInsertion makes the anchor move past text inserted exactly
// at its offset. The default is to stay before such insertions.
func MoveAfterInsertion() AnchorOption {
	return func(c *anchorConfig) { c.moveAfter = true }
}

// Offset returns the anchor's current offset. Fails with
// ErrAnchorInvalidated once the anchor has been deleted or released.
func (a *Anchor) Offset() (ByteOffset, error) {
	if a.doc == nil || !a.doc.anchors.valid(a.idx, a.gen) {
		return 0, ErrAnchorInvalidated
	}
	return a.doc.anchors.abs(a.idx), nil
}

// IsDeleted reports whether the anchor has been invalidated. The
// transition is terminal: a deleted anchor never comes back.
func (a *Anchor) IsDeleted() bool {
	return a.doc == nil || !a.doc.anchors.valid(a.idx, a.gen)
}

// SurvivesDeletion reports the anchor's survive-deletion flag.
func (a *Anchor) SurvivesDeletion() bool {
	if a.IsDeleted() {
		return false
	}
	return a.doc.anchors.nodes[a.idx].survive
}

// MovesAfterInsertion reports the anchor's movement policy.
func (a *Anchor) MovesAfterInsertion() bool {
	if a.IsDeleted() {
		return false
	}
	return a.doc.anchors.nodes[a.idx].moveAfter
}

// Release detaches a live anchor from the document. Further Offset
// calls fail with ErrAnchorInvalidated. Releasing an already-deleted
// anchor is a no-op.
func (a *Anchor) Release() {
	if a.doc == nil || !a.doc.anchors.valid(a.idx, a.gen) {
		return
	}
	a.doc.anchors.detach(a.idx)
	a.doc.anchors.kill(a.idx)
}
