package document

import "fmt"

// ByteOffset is a byte position in the document.
type ByteOffset = int64

// Version identifies a document state. Versions are per-document,
// monotonic, and totally ordered: higher means later.
type Version uint64

// IsAncestorOf reports whether v is the same state as other or an
// earlier one on the document's single edit history.
func (v Version) IsAncestorOf(other Version) bool {
	return v <= other
}

// Range is a byte range [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange creates a Range.
func NewRange(start, end ByteOffset) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the range length in bytes.
func (r Range) Len() ByteOffset { return r.End - r.Start }

// IsEmpty reports whether the range has zero length.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// Contains reports whether offset lies in [Start, End).
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether the two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Union returns the smallest range covering both.
func (r Range) Union(other Range) Range {
	out := r
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Edit is a requested text edit: replace Range with NewText. An empty
// range is an insertion; empty NewText is a deletion.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert builds an Edit inserting text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete builds an Edit removing [start, end).
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// ChangeType categorizes an applied change.
type ChangeType uint8

const (
	ChangeInsert ChangeType = iota
	ChangeDelete
	ChangeReplace
)

func (t ChangeType) String() string {
	switch t {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Change describes one applied edit: what was removed and what was
// inserted at Offset, and the document version after the edit. This is
// the notification contract consumers replay.
type Change struct {
	Type           ChangeType
	Offset         ByteOffset
	RemovedLength  ByteOffset
	InsertedLength ByteOffset
	RemovedText    string
	InsertedText   string
	Version        Version
}

// OldRange returns the replaced range in pre-edit coordinates.
func (c Change) OldRange() Range {
	return Range{Start: c.Offset, End: c.Offset + c.RemovedLength}
}

// NewRange returns the inserted range in post-edit coordinates.
func (c Change) NewRange() Range {
	return Range{Start: c.Offset, End: c.Offset + c.InsertedLength}
}

// Delta returns the length change caused by this edit.
func (c Change) Delta() ByteOffset {
	return c.InsertedLength - c.RemovedLength
}

func (c Change) String() string {
	switch c.Type {
	case ChangeInsert:
		return fmt.Sprintf("insert %q at %d (v%d)", clip(c.InsertedText), c.Offset, c.Version)
	case ChangeDelete:
		return fmt.Sprintf("delete %q at %d (v%d)", clip(c.RemovedText), c.Offset, c.Version)
	default:
		return fmt.Sprintf("replace %q with %q at %d (v%d)",
			clip(c.RemovedText), clip(c.InsertedText), c.Offset, c.Version)
	}
}

func clip(s string) string {
	if len(s) > 20 {
		return s[:17] + "..."
	}
	return s
}

// transformPos maps a pre-change position through c: positions past
// the removed span shift by the delta, positions inside it collapse to
// the change offset.
func (c Change) transformPos(p ByteOffset) ByteOffset {
	switch {
	case p <= c.Offset:
		return p
	case p >= c.Offset+c.RemovedLength:
		return p + c.Delta()
	default:
		return c.Offset
	}
}

// Batch is one coalesced notification: the ordered changes applied
// since the outermost BeginUpdate, plus their union range in post-edit
// coordinates.
type Batch struct {
	Changes []Change
	Range   Range
	First   Version // version before the first change
	Last    Version // version after the last change
}

// IsEmpty reports whether the batch carries no changes.
func (b Batch) IsEmpty() bool { return len(b.Changes) == 0 }

// Delta returns the total length change across the batch.
func (b Batch) Delta() ByteOffset {
	var d ByteOffset
	for _, c := range b.Changes {
		d += c.Delta()
	}
	return d
}

// Line describes one document line. Number is 1-based. Length excludes
// the terminator; TerminatorLength is 0 (final line), 1 ("\n"), or
// 2 ("\r\n").
type Line struct {
	Number           int64
	Start            ByteOffset
	Length           ByteOffset
	TerminatorLength int
}

// End returns the offset just past the line's content, excluding the
// terminator.
func (l Line) End() ByteOffset { return l.Start + l.Length }
