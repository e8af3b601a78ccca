package document

import (
	"errors"
	"testing"
)

// replay applies a change sequence to a string, the way a renderer
// would reconstruct state from a delta query.
func replay(base string, changes []Change) string {
	for _, c := range changes {
		base = base[:c.Offset] + c.InsertedText + base[c.Offset+c.RemovedLength:]
	}
	return base
}

func TestChangesReplay(t *testing.T) {
	d := NewFromString("hello")
	v0 := d.Version()
	base := d.Text()

	d.Insert(5, " world")
	d.Replace(0, 5, "goodbye")
	d.Delete(7, 13)

	changes, err := d.Changes(v0, d.Version())
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}
	for i := 1; i < len(changes); i++ {
		if changes[i].Version <= changes[i-1].Version {
			t.Fatal("changes out of version order")
		}
	}
	if got := replay(base, changes); got != d.Text() {
		t.Errorf("replay produced %q, document is %q", got, d.Text())
	}
}

func TestChangesPartialSpan(t *testing.T) {
	d := New()
	d.Insert(0, "a")
	v1 := d.Version()
	d.Insert(1, "b")
	d.Insert(2, "c")

	changes, err := d.Changes(v1, d.Version())
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 2 || changes[0].InsertedText != "b" || changes[1].InsertedText != "c" {
		t.Errorf("unexpected changes: %v", changes)
	}

	if got, err := d.Changes(v1, v1); err != nil || len(got) != 0 {
		t.Errorf("empty span: %v, %v", got, err)
	}
}

func TestChangesErrors(t *testing.T) {
	d := New()
	d.Insert(0, "x")
	if _, err := d.Changes(1, 0); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("inverted span err = %v", err)
	}
	if _, err := d.Changes(0, 99); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("future version err = %v", err)
	}
}

func TestJournalEviction(t *testing.T) {
	d := New(WithJournalCapacity(4))
	for i := 0; i < 10; i++ {
		d.Insert(d.Len(), "x")
	}
	// the four newest changes remain answerable
	if _, err := d.Changes(6, 10); err != nil {
		t.Errorf("recent span: %v", err)
	}
	// anything reaching past the window is gone
	if _, err := d.Changes(0, 10); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("evicted span err = %v", err)
	}
	if _, err := d.ChangesSince(2); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("evicted since err = %v", err)
	}
}

func TestMarks(t *testing.T) {
	d := NewFromString("draft one")
	m := d.Mark("checkpoint")
	if m.Name != "checkpoint" || m.Version != d.Version() {
		t.Fatalf("mark = %+v", m)
	}

	d.Replace(6, 9, "two")

	if got := m.Snapshot().String(); got != "draft one" {
		t.Errorf("mark snapshot = %q", got)
	}
	changes, err := d.ChangesSinceMark(m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := replay(m.Snapshot().String(), changes); got != d.Text() {
		t.Errorf("replay from mark = %q, want %q", got, d.Text())
	}

	byName, err := d.MarkByName("checkpoint")
	if err != nil || byName.ID != m.ID {
		t.Errorf("MarkByName: %v", err)
	}
	byID, err := d.MarkByID(m.ID)
	if err != nil || byID != m {
		t.Errorf("MarkByID: %v", err)
	}

	d.DropMark(m.ID)
	if _, err := d.MarkByID(m.ID); !errors.Is(err, ErrMarkNotFound) {
		t.Errorf("dropped mark err = %v", err)
	}
	if _, err := d.MarkByName("nope"); !errors.Is(err, ErrMarkNotFound) {
		t.Errorf("unknown name err = %v", err)
	}
}
