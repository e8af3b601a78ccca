package segment

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/dshills/textcore/document"
)

func mustRange(t *testing.T, s *Segment[string]) document.Range {
	t.Helper()
	r, err := s.Range()
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	return r
}

func TestAddAndQuery(t *testing.T) {
	d := document.NewFromString("hello beautiful world")
	idx := New[string](d)
	defer idx.Close()

	if _, err := idx.Add(6, 9, "adjective"); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Add(0, 5, "greeting"); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Add(16, 5, "noun"); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 3 {
		t.Fatalf("Len = %d", idx.Len())
	}

	hits := idx.FindContaining(8)
	if len(hits) != 1 {
		t.Fatalf("FindContaining(8) returned %d segments", len(hits))
	}
	if v, _ := hits[0].Value(); v != "adjective" {
		t.Errorf("payload = %q", v)
	}

	hits = idx.FindOverlapping(4, 7)
	if len(hits) != 2 {
		t.Fatalf("FindOverlapping(4, 7) returned %d segments", len(hits))
	}
	if a, _ := hits[0].Value(); a != "greeting" {
		t.Errorf("first hit = %q, want start order", a)
	}
}

func TestAddValidation(t *testing.T) {
	d := document.NewFromString("short")
	idx := New[string](d)
	defer idx.Close()

	if _, err := idx.Add(-1, 2, "x"); !errors.Is(err, document.ErrOffsetOutOfRange) {
		t.Errorf("negative start err = %v", err)
	}
	if _, err := idx.Add(0, 6, "x"); !errors.Is(err, document.ErrRangeInvalid) {
		t.Errorf("overlong err = %v", err)
	}
	if _, err := idx.Add(3, -1, "x"); !errors.Is(err, document.ErrRangeInvalid) {
		t.Errorf("negative length err = %v", err)
	}
}

func TestRemove(t *testing.T) {
	d := document.NewFromString("0123456789")
	idx := New[string](d)
	defer idx.Close()

	s, _ := idx.Add(2, 3, "x")
	if err := idx.Remove(s); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d", idx.Len())
	}
	if err := idx.Remove(s); !errors.Is(err, ErrSegmentInvalidated) {
		t.Errorf("double remove err = %v", err)
	}
	if _, err := s.Value(); !errors.Is(err, ErrSegmentInvalidated) {
		t.Errorf("Value after remove err = %v", err)
	}
}

func TestSegmentsTrackEdits(t *testing.T) {
	tests := []struct {
		name      string
		segStart  document.ByteOffset
		segLen    document.ByteOffset
		editStart document.ByteOffset
		editEnd   document.ByteOffset
		text      string
		wantStart document.ByteOffset
		wantEnd   document.ByteOffset
		wantGone  bool
	}{
		{name: "fully before", segStart: 1, segLen: 3, editStart: 10, editEnd: 12, text: "zz", wantStart: 1, wantEnd: 4},
		{name: "fully after shifts", segStart: 10, segLen: 4, editStart: 2, editEnd: 5, text: "x", wantStart: 8, wantEnd: 12},
		{name: "insert inside extends", segStart: 4, segLen: 6, editStart: 7, editEnd: 7, text: "ab", wantStart: 4, wantEnd: 12},
		{name: "deletion truncates tail", segStart: 4, segLen: 6, editStart: 8, editEnd: 14, text: "", wantStart: 4, wantEnd: 8},
		{name: "deletion truncates head", segStart: 8, segLen: 6, editStart: 4, editEnd: 10, text: "", wantStart: 4, wantEnd: 8},
		{name: "deletion removes middle", segStart: 4, segLen: 10, editStart: 6, editEnd: 9, text: "", wantStart: 4, wantEnd: 11},
		{name: "engulfed removed", segStart: 6, segLen: 3, editStart: 4, editEnd: 12, text: "", wantGone: true},
		{name: "exact cover removed", segStart: 6, segLen: 3, editStart: 6, editEnd: 9, text: "", wantGone: true},
		{name: "replacement inside keeps span", segStart: 4, segLen: 8, editStart: 6, editEnd: 9, text: "long patch", wantStart: 4, wantEnd: 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := document.NewFromString(strings.Repeat("x", 20))
			var removed []string
			idx := New[string](d, WithRemovedFunc[string](func(v string) { removed = append(removed, v) }))
			defer idx.Close()

			s, err := idx.Add(tt.segStart, tt.segLen, "seg")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := d.Replace(tt.editStart, tt.editEnd, tt.text); err != nil {
				t.Fatal(err)
			}

			if tt.wantGone {
				if !s.IsDeleted() {
					t.Fatal("segment should be removed")
				}
				if len(removed) != 1 || removed[0] != "seg" {
					t.Errorf("removed callback saw %v", removed)
				}
				if idx.Len() != 0 {
					t.Errorf("Len = %d", idx.Len())
				}
				return
			}
			if len(removed) != 0 {
				t.Errorf("unexpected removal callback: %v", removed)
			}
			r := mustRange(t, s)
			if r.Start != tt.wantStart || r.End != tt.wantEnd {
				t.Errorf("range = %v, want [%d:%d)", r, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBoundaryConventions(t *testing.T) {
	tests := []struct {
		name     string
		boundary Boundary
		insertAt document.ByteOffset
		want     document.Range
	}{
		// segment [5, 10), insert 3 bytes
		{"exclusive at start shifts", Exclusive, 5, document.NewRange(8, 13)},
		{"inclusive at start grows", Inclusive, 5, document.NewRange(5, 13)},
		{"exclusive at end ignores", Exclusive, 10, document.NewRange(5, 10)},
		{"inclusive at end grows", Inclusive, 10, document.NewRange(5, 13)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := document.NewFromString(strings.Repeat("x", 20))
			idx := New[string](d, WithBoundary[string](tt.boundary))
			defer idx.Close()

			s, err := idx.Add(5, 5, "seg")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := d.Insert(tt.insertAt, "abc"); err != nil {
				t.Fatal(err)
			}
			if r := mustRange(t, s); r != tt.want {
				t.Errorf("range = %v, want %v", r, tt.want)
			}
		})
	}
}

func TestEmptySegmentAtEditPoint(t *testing.T) {
	d := document.NewFromString("0123456789")

	excl := New[string](d, WithBoundary[string](Exclusive))
	incl := New[string](d, WithBoundary[string](Inclusive))
	defer excl.Close()
	defer incl.Close()

	se, _ := excl.Add(5, 0, "excl")
	si, _ := incl.Add(5, 0, "incl")

	d.Insert(5, "ab")

	if r := mustRange(t, se); r != document.NewRange(5, 5) {
		t.Errorf("exclusive empty segment = %v, want to stay at [5:5)", r)
	}
	if r := mustRange(t, si); r != document.NewRange(5, 7) {
		t.Errorf("inclusive empty segment = %v, want [5:7)", r)
	}
}

func TestContainingConventions(t *testing.T) {
	d := document.NewFromString("0123456789")

	excl := New[string](d, WithBoundary[string](Exclusive))
	incl := New[string](d, WithBoundary[string](Inclusive))
	defer excl.Close()
	defer incl.Close()

	excl.Add(2, 4, "e")
	incl.Add(2, 4, "i")

	if got := len(excl.FindContaining(6)); got != 0 {
		t.Errorf("exclusive contains its end: %d hits", got)
	}
	if got := len(incl.FindContaining(6)); got != 1 {
		t.Errorf("inclusive misses its end: %d hits", got)
	}
	if got := len(excl.FindContaining(2)); got != 1 {
		t.Errorf("exclusive misses its start: %d hits", got)
	}
	if got := len(excl.FindContaining(1)); got != 0 {
		t.Errorf("phantom hit before segment: %d", got)
	}
}

// Query results must not depend on the order segments were added.
func TestQueryOrderIndependence(t *testing.T) {
	type span struct {
		start, length document.ByteOffset
	}
	spans := []span{{0, 10}, {5, 5}, {5, 12}, {8, 0}, {12, 4}, {2, 2}, {5, 5}}

	build := func(order []int) *Index[int] {
		d := document.NewFromString(strings.Repeat("x", 30))
		idx := New[int](d)
		for _, i := range order {
			if _, err := idx.Add(spans[i].start, spans[i].length, i); err != nil {
				panic(err)
			}
		}
		return idx
	}

	ranges := func(segs []*Segment[int]) []document.Range {
		out := make([]document.Range, len(segs))
		for i, s := range segs {
			r, err := s.Range()
			if err != nil {
				panic(err)
			}
			out[i] = r
		}
		return out
	}

	a := build([]int{0, 1, 2, 3, 4, 5, 6})
	b := build([]int{6, 3, 0, 5, 2, 4, 1})

	for _, q := range []document.ByteOffset{0, 2, 5, 8, 13} {
		ra := ranges(a.FindContaining(q))
		rb := ranges(b.FindContaining(q))
		if len(ra) != len(rb) {
			t.Fatalf("FindContaining(%d): %d vs %d hits", q, len(ra), len(rb))
		}
		for i := range ra {
			if ra[i] != rb[i] {
				t.Errorf("FindContaining(%d)[%d]: %v vs %v", q, i, ra[i], rb[i])
			}
		}
	}

	ra := ranges(a.FindOverlapping(3, 9))
	rb := ranges(b.FindOverlapping(3, 9))
	if len(ra) != len(rb) {
		t.Fatalf("FindOverlapping: %d vs %d hits", len(ra), len(rb))
	}
	for i := range ra {
		if ra[i] != rb[i] {
			t.Errorf("FindOverlapping[%d]: %v vs %v", i, ra[i], rb[i])
		}
	}
}

func TestAllOrdered(t *testing.T) {
	d := document.NewFromString(strings.Repeat("x", 30))
	idx := New[int](d)
	defer idx.Close()

	idx.Add(10, 5, 0)
	idx.Add(2, 8, 1)
	idx.Add(2, 3, 2)
	idx.Add(20, 0, 3)

	all := idx.All()
	if len(all) != 4 {
		t.Fatalf("All returned %d", len(all))
	}
	var prev document.Range
	for i, s := range all {
		r := mustRangeInt(t, s)
		if i > 0 && (r.Start < prev.Start || (r.Start == prev.Start && r.Len() < prev.Len())) {
			t.Fatalf("All out of (start, length) order at %d: %v after %v", i, r, prev)
		}
		prev = r
	}
}

func mustRangeInt(t *testing.T, s *Segment[int]) document.Range {
	t.Helper()
	r, err := s.Range()
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	return r
}

// Bounds invariant: whatever the edit sequence, every surviving
// segment stays inside the document.
func TestSegmentBoundsUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 9))
	d := document.NewFromString(strings.Repeat("abcde ", 100))
	idx := New[int](d)
	defer idx.Close()

	var segs []*Segment[int]
	for i := 0; i < 150; i++ {
		start := document.ByteOffset(rng.IntN(int(d.Len())))
		length := document.ByteOffset(rng.IntN(int(d.Len()-start) + 1))
		s, err := idx.Add(start, length, i)
		if err != nil {
			t.Fatal(err)
		}
		segs = append(segs, s)
	}

	for i := 0; i < 400; i++ {
		n := int(d.Len())
		start := document.ByteOffset(rng.IntN(n + 1))
		end := start + document.ByteOffset(rng.IntN(n-int(start)+1))
		if end-start > 30 {
			end = start + 30
		}
		if _, err := d.Replace(start, end, strings.Repeat("z", rng.IntN(20))); err != nil {
			t.Fatal(err)
		}

		for j, s := range segs {
			if s.IsDeleted() {
				continue
			}
			r := mustRangeInt(t, s)
			if r.Start < 0 || r.End < r.Start || r.End > d.Len() {
				t.Fatalf("edit %d: segment %d escaped: %v (doc len %d)", i, j, r, d.Len())
			}
		}
	}
}

func TestCloseStopsTracking(t *testing.T) {
	d := document.NewFromString("0123456789")
	idx := New[string](d)
	s, _ := idx.Add(4, 3, "x")
	idx.Close()

	d.Insert(0, "abc")
	if r := mustRange(t, s); r != document.NewRange(4, 7) {
		t.Errorf("closed index still tracked the edit: %v", r)
	}
}
