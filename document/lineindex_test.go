package document

import (
	"errors"
	"testing"
)

func TestLineInfo(t *testing.T) {
	d := NewFromString("ab\ncdef\r\n\nxyz")
	tests := []struct {
		number int64
		start  ByteOffset
		length ByteOffset
		term   int
		text   string
	}{
		{1, 0, 2, 1, "ab"},
		{2, 3, 4, 2, "cdef"},
		{3, 9, 0, 1, ""},
		{4, 10, 3, 0, "xyz"},
	}
	if d.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", d.LineCount())
	}
	for _, tt := range tests {
		l, err := d.LineInfo(tt.number)
		if err != nil {
			t.Fatalf("LineInfo(%d): %v", tt.number, err)
		}
		if l.Start != tt.start || l.Length != tt.length || l.TerminatorLength != tt.term {
			t.Errorf("line %d = %+v, want start %d len %d term %d",
				tt.number, l, tt.start, tt.length, tt.term)
		}
		if text, _ := d.LineText(tt.number); text != tt.text {
			t.Errorf("LineText(%d) = %q, want %q", tt.number, text, tt.text)
		}
	}
}

func TestLineAt(t *testing.T) {
	d := NewFromString("ab\ncdef\r\n\nxyz")
	tests := []struct {
		offset ByteOffset
		line   int64
	}{
		{0, 1}, {2, 1},
		{3, 2}, {7, 2}, {8, 2}, // the \r\n pair belongs to line 2
		{9, 3},
		{10, 4}, {13, 4}, // offset == Len maps to the final line
	}
	for _, tt := range tests {
		l, err := d.LineAt(tt.offset)
		if err != nil {
			t.Fatalf("LineAt(%d): %v", tt.offset, err)
		}
		if l.Number != tt.line {
			t.Errorf("LineAt(%d).Number = %d, want %d", tt.offset, l.Number, tt.line)
		}
	}
}

func TestLoneCarriageReturnIsContent(t *testing.T) {
	d := NewFromString("ab\rcd")
	if d.LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1", d.LineCount())
	}
	l, err := d.LineInfo(1)
	if err != nil {
		t.Fatal(err)
	}
	if l.Length != 5 || l.TerminatorLength != 0 {
		t.Errorf("line = %+v", l)
	}

	// a trailing \r with no \n is also content
	d = NewFromString("ab\r")
	l, _ = d.LineInfo(1)
	if l.Length != 3 || l.TerminatorLength != 0 {
		t.Errorf("trailing \\r line = %+v", l)
	}
}

func TestEmptyDocumentHasOneLine(t *testing.T) {
	d := New()
	if d.LineCount() != 1 {
		t.Fatalf("LineCount = %d", d.LineCount())
	}
	l, err := d.LineInfo(1)
	if err != nil {
		t.Fatal(err)
	}
	if l.Start != 0 || l.Length != 0 || l.TerminatorLength != 0 {
		t.Errorf("line = %+v", l)
	}
}

func TestLineBounds(t *testing.T) {
	d := NewFromString("one\ntwo")
	if _, err := d.LineInfo(0); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("LineInfo(0) err = %v", err)
	}
	if _, err := d.LineInfo(3); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("LineInfo(3) err = %v", err)
	}
	if _, err := d.LineAt(8); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("LineAt(8) err = %v", err)
	}
	if off, err := d.OffsetForLine(2); err != nil || off != 4 {
		t.Errorf("OffsetForLine(2) = %d, %v", off, err)
	}
}

func TestLinesTrackEdits(t *testing.T) {
	d := NewFromString("aaa\nbbb")
	d.Insert(3, "\nzz")
	if d.LineCount() != 3 {
		t.Fatalf("LineCount = %d", d.LineCount())
	}
	if text, _ := d.LineText(2); text != "zz" {
		t.Errorf("line 2 = %q", text)
	}
	d.Delete(3, 7) // remove "\nzz\n"
	if d.LineCount() != 1 {
		t.Fatalf("LineCount after merge = %d", d.LineCount())
	}
	if text, _ := d.LineText(1); text != "aaabbb" {
		t.Errorf("merged line = %q", text)
	}
}
