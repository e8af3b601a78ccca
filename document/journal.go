package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textcore/rope"
)

// DefaultJournalCapacity is the default number of changes retained for
// replay.
const DefaultJournalCapacity = 4096

// journal is a bounded, append-only ring of applied changes plus named
// marks. Versions are dense: change N carries Version N, so a query
// for (from, to] is answerable exactly or not at all.
type journal struct {
	entries []Change
	head    int
	count   int
	marks   map[uuid.UUID]*Mark
}

func newJournal(capacity int) journal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return journal{
		entries: make([]Change, capacity),
		marks:   make(map[uuid.UUID]*Mark),
	}
}

func (j *journal) record(c Change) {
	idx := (j.head + j.count) % len(j.entries)
	if j.count < len(j.entries) {
		j.count++
	} else {
		j.head = (j.head + 1) % len(j.entries)
	}
	j.entries[idx] = c
}

// changes returns the ordered changes with Version in (from, to].
// Fails with ErrVersionNotFound when the span reaches past the oldest
// retained entry.
func (j *journal) changes(from, to Version) ([]Change, error) {
	if from == to {
		return nil, nil
	}
	if j.count == 0 {
		return nil, ErrVersionNotFound
	}
	oldest := j.entries[j.head].Version
	if from+1 < oldest {
		return nil, ErrVersionNotFound
	}
	out := make([]Change, 0, to-from)
	for i := 0; i < j.count; i++ {
		c := j.entries[(j.head+i)%len(j.entries)]
		if c.Version > from && c.Version <= to {
			out = append(out, c)
		}
	}
	return out, nil
}

// Mark is a named journal position: a version token paired with a free
// rope snapshot taken at that version.
type Mark struct {
	ID      uuid.UUID
	Name    string
	Version Version
	At      time.Time

	snapshot rope.Rope
}

// Snapshot returns the document content at the marked version.
func (m *Mark) Snapshot() rope.Rope { return m.snapshot }

func (j *journal) mark(name string, v Version, snap rope.Rope) *Mark {
	m := &Mark{
		ID:       uuid.New(),
		Name:     name,
		Version:  v,
		At:       time.Now(),
		snapshot: snap,
	}
	j.marks[m.ID] = m
	return m
}

func (j *journal) markByID(id uuid.UUID) (*Mark, error) {
	m, ok := j.marks[id]
	if !ok {
		return nil, ErrMarkNotFound
	}
	return m, nil
}

func (j *journal) markByName(name string) (*Mark, error) {
	for _, m := range j.marks {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, ErrMarkNotFound
}

func (j *journal) dropMark(id uuid.UUID) {
	delete(j.marks, id)
}
