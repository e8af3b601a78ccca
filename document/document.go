package document

import (
	"io"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/textcore/rope"
)

// Observer receives one callback per applied change, after the
// document has committed it. Offset-maintaining structures implement
// this to stay in sync with the text.
type Observer interface {
	OnChange(Change)
}

// listener is one registered batch callback. Kept in a slice so
// delivery order matches registration order.
type listener struct {
	id int
	fn func(Batch)
}

// Document is the mutation gateway for one text buffer. All edits go
// through it; it keeps the rope, anchors, line index, and journal in
// step and guarantees observers always see a consistent state.
//
// A Document expects a single mutating goroutine. Snapshots are free
// and safe to read from any goroutine; a concurrent second mutator is
// detected and rejected with ErrInvalidOperation rather than silently
// corrupting state.
type Document struct {
	id      uuid.UUID
	rope    rope.Rope
	version Version
	anchors anchorTree
	journal journal

	observers []Observer
	listeners []listener
	nextID    int

	// batching state
	depth        int
	pending      []Change
	pendingRange Range
	batchFirst   Version

	notifying bool
	editing   atomic.Bool
}

// New creates an empty document.
func New(opts ...Option) *Document {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Document{
		id:      uuid.New(),
		rope:    rope.New(),
		anchors: newAnchorTree(),
		journal: newJournal(cfg.journalCapacity),
	}
}

// NewFromString creates a document holding s.
func NewFromString(s string, opts ...Option) *Document {
	d := New(opts...)
	d.rope = rope.FromString(s)
	return d
}

// NewFromReader creates a document from r's contents.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	rp, err := rope.FromReader(r)
	if err != nil {
		return nil, err
	}
	d := New(opts...)
	d.rope = rp
	return d, nil
}

// ID returns the document's identity, stable across edits.
func (d *Document) ID() uuid.UUID { return d.id }

// Version returns the current version token.
func (d *Document) Version() Version { return d.version }

// Len returns the document length in bytes.
func (d *Document) Len() ByteOffset { return d.rope.Len() }

// Snapshot returns the current content as an immutable rope. The
// snapshot is O(1) and never changes, no matter what the document does
// afterwards.
func (d *Document) Snapshot() rope.Rope { return d.rope }

// Text returns the full content as a string.
func (d *Document) Text() string { return d.rope.String() }

// TextRange returns the content of [start, end).
func (d *Document) TextRange(start, end ByteOffset) (string, error) {
	if err := d.checkRange(start, end); err != nil {
		return "", err
	}
	return d.rope.Slice(start, end), nil
}

// Insert inserts text at offset.
func (d *Document) Insert(offset ByteOffset, text string) (Change, error) {
	return d.Replace(offset, offset, text)
}

// Delete removes [start, end).
func (d *Document) Delete(start, end ByteOffset) (Change, error) {
	return d.Replace(start, end, "")
}

// Apply applies an Edit.
func (d *Document) Apply(e Edit) (Change, error) {
	return d.Replace(e.Range.Start, e.Range.End, e.NewText)
}

// Replace substitutes [start, end) with text. This is the single
// mutation primitive: validation happens before any state changes, so
// a failed call leaves the document untouched. On success the version
// advances by one, the journal records the change, anchors rebase, and
// observers are notified, in that order.
//
// Replace fails with ErrInvalidOperation when called from inside a
// notification or from a second goroutine racing the current mutator.
func (d *Document) Replace(start, end ByteOffset, text string) (Change, error) {
	if err := d.checkRange(start, end); err != nil {
		return Change{}, err
	}
	if d.notifying {
		return Change{}, ErrInvalidOperation
	}
	if !d.editing.CompareAndSwap(false, true) {
		return Change{}, ErrInvalidOperation
	}
	defer d.editing.Store(false)

	if start == end && text == "" {
		return Change{Version: d.version}, nil
	}

	var removed string
	if end > start {
		removed = d.rope.Slice(start, end)
	}
	d.rope = d.rope.Replace(start, end, text)
	d.version++

	c := Change{
		Type:           changeType(end-start, int64(len(text))),
		Offset:         start,
		RemovedLength:  end - start,
		InsertedLength: int64(len(text)),
		RemovedText:    removed,
		InsertedText:   text,
		Version:        d.version,
	}
	d.journal.record(c)
	d.anchors.applyEdit(start, c.RemovedLength, c.InsertedLength)
	d.notifyObservers(c)
	d.dispatch(c)
	return c, nil
}

func changeType(removed, inserted int64) ChangeType {
	switch {
	case removed == 0:
		return ChangeInsert
	case inserted == 0:
		return ChangeDelete
	default:
		return ChangeReplace
	}
}

func (d *Document) checkRange(start, end ByteOffset) error {
	if start < 0 || start > d.rope.Len() {
		return ErrOffsetOutOfRange
	}
	if end < start || end > d.rope.Len() {
		return ErrRangeInvalid
	}
	return nil
}

// notifyObservers runs the per-change observer pass. Mutations from
// inside an observer are rejected, so observers always see the exact
// state the change produced.
func (d *Document) notifyObservers(c Change) {
	d.notifying = true
	defer func() { d.notifying = false }()
	for _, o := range d.observers {
		o.OnChange(c)
	}
}

// dispatch either queues the change for the open batch or delivers a
// single-change batch immediately.
func (d *Document) dispatch(c Change) {
	if d.depth > 0 {
		if len(d.pending) == 0 {
			d.batchFirst = c.Version - 1
			d.pendingRange = c.NewRange()
		} else {
			r := Range{
				Start: c.transformPos(d.pendingRange.Start),
				End:   c.transformPos(d.pendingRange.End),
			}
			d.pendingRange = r.Union(c.NewRange())
		}
		d.pending = append(d.pending, c)
		return
	}
	d.deliver(Batch{
		Changes: []Change{c},
		Range:   c.NewRange(),
		First:   c.Version - 1,
		Last:    c.Version,
	})
}

func (d *Document) deliver(b Batch) {
	d.notifying = true
	defer func() { d.notifying = false }()
	for _, l := range d.listeners {
		l.fn(b)
	}
}

// BeginUpdate opens (or nests into) a batch. While a batch is open,
// per-change observers still fire per edit, but batch listeners stay
// silent until the outermost EndUpdate.
func (d *Document) BeginUpdate() error {
	if d.notifying {
		return ErrInvalidOperation
	}
	d.depth++
	return nil
}

// EndUpdate closes one batch level. Closing the outermost level
// delivers the coalesced batch. An unmatched EndUpdate fails with
// ErrInvalidOperation.
func (d *Document) EndUpdate() error {
	if d.notifying {
		return ErrInvalidOperation
	}
	if d.depth == 0 {
		return ErrInvalidOperation
	}
	d.depth--
	if d.depth > 0 || len(d.pending) == 0 {
		return nil
	}
	b := Batch{
		Changes: d.pending,
		Range:   d.pendingRange,
		First:   d.batchFirst,
		Last:    d.version,
	}
	d.pending = nil
	d.deliver(b)
	return nil
}

// InUpdate reports whether a batch is currently open.
func (d *Document) InUpdate() bool { return d.depth > 0 }

// Update runs fn inside a batch bracket. The bracket closes even if fn
// returns an error; the error is passed through.
func (d *Document) Update(fn func() error) error {
	if err := d.BeginUpdate(); err != nil {
		return err
	}
	ferr := fn()
	if err := d.EndUpdate(); err != nil && ferr == nil {
		return err
	}
	return ferr
}

// RegisterObserver adds a per-change observer. Observers run in
// registration order, synchronously, after each applied change.
func (d *Document) RegisterObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// UnregisterObserver removes a previously registered observer.
func (d *Document) UnregisterObserver(o Observer) {
	for i, cur := range d.observers {
		if cur == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// OnChange registers a batch listener and returns its cancel function.
// Listeners see one Batch per top-level edit, or one coalesced Batch
// per outermost BeginUpdate/EndUpdate bracket.
func (d *Document) OnChange(fn func(Batch)) func() {
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// CreateAnchor places an anchor at offset. The default anchor stays
// before text inserted at its position and invalidates when its
// position is deleted; options adjust both behaviors.
func (d *Document) CreateAnchor(offset ByteOffset, opts ...AnchorOption) (*Anchor, error) {
	if offset < 0 || offset > d.rope.Len() {
		return nil, ErrOffsetOutOfRange
	}
	var cfg anchorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	idx := d.anchors.insert(offset, cfg.survive, cfg.moveAfter)
	return &Anchor{doc: d, idx: idx, gen: d.anchors.nodes[idx].gen}, nil
}

// AnchorCount returns the number of live anchors.
func (d *Document) AnchorCount() int { return d.anchors.count }

// Changes returns the ordered changes that advance version from to
// version to. Fails with ErrVersionNotFound when to is in the future
// or the span reaches past the journal's retention window.
func (d *Document) Changes(from, to Version) ([]Change, error) {
	if from > to {
		return nil, ErrRangeInvalid
	}
	if to > d.version {
		return nil, ErrVersionNotFound
	}
	return d.journal.changes(from, to)
}

// ChangesSince returns the changes applied after version from.
func (d *Document) ChangesSince(from Version) ([]Change, error) {
	return d.Changes(from, d.version)
}

// Mark records a named mark at the current version, with a snapshot of
// the current content.
func (d *Document) Mark(name string) *Mark {
	return d.journal.mark(name, d.version, d.rope)
}

// MarkByID looks up a mark by identity.
func (d *Document) MarkByID(id uuid.UUID) (*Mark, error) {
	return d.journal.markByID(id)
}

// MarkByName looks up a mark by name. With duplicate names the result
// is unspecified among them.
func (d *Document) MarkByName(name string) (*Mark, error) {
	return d.journal.markByName(name)
}

// DropMark removes a mark, releasing its snapshot.
func (d *Document) DropMark(id uuid.UUID) {
	d.journal.dropMark(id)
}

// ChangesSinceMark returns the changes applied after the mark's
// version.
func (d *Document) ChangesSinceMark(id uuid.UUID) ([]Change, error) {
	m, err := d.journal.markByID(id)
	if err != nil {
		return nil, err
	}
	return d.Changes(m.Version, d.version)
}
