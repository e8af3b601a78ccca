package document

// Line queries are answered from the rope's newline summaries, so they
// cost O(log n) and need no separate index to maintain. Lines are
// 1-based. A line ends at "\n" or "\r\n"; a lone "\r" is ordinary
// content, not a terminator.

// LineCount returns the number of lines. An empty document has one
// empty line.
func (d *Document) LineCount() int64 {
	return d.rope.LineCount()
}

// LineAt returns the line containing offset. Offsets inside a "\r\n"
// terminator belong to the line the terminator ends.
func (d *Document) LineAt(offset ByteOffset) (Line, error) {
	if offset < 0 || offset > d.rope.Len() {
		return Line{}, ErrOffsetOutOfRange
	}
	return d.LineInfo(d.rope.LineForOffset(offset) + 1)
}

// LineInfo returns the line with the given 1-based number.
func (d *Document) LineInfo(number int64) (Line, error) {
	if number < 1 || number > d.rope.LineCount() {
		return Line{}, ErrOffsetOutOfRange
	}
	start := d.rope.LineStart(number - 1)
	end := d.rope.LineEnd(number - 1)

	// end excludes the "\n" but not a preceding "\r"; a lone "\r" on
	// the final line is content, not a terminator.
	term := 0
	if end < d.rope.Len() {
		term = 1
		if b, ok := d.rope.ByteAt(end - 1); ok && end > start && b == '\r' {
			end--
			term = 2
		}
	}
	return Line{
		Number:           number,
		Start:            start,
		Length:           end - start,
		TerminatorLength: term,
	}, nil
}

// LineText returns the content of the given 1-based line, excluding
// its terminator.
func (d *Document) LineText(number int64) (string, error) {
	l, err := d.LineInfo(number)
	if err != nil {
		return "", err
	}
	return d.rope.Slice(l.Start, l.End()), nil
}

// OffsetForLine returns the start offset of the given 1-based line.
func (d *Document) OffsetForLine(number int64) (ByteOffset, error) {
	if number < 1 || number > d.rope.LineCount() {
		return 0, ErrOffsetOutOfRange
	}
	return d.rope.LineStart(number - 1), nil
}
