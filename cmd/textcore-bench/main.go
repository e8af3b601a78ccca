// textcore-bench measures edit, anchor rebase, segment, and query
// throughput for the textcore document engine. The workload can be
// described in a TOML file; every knob has a sensible default.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textcore/document"
	"github.com/dshills/textcore/rope"
	"github.com/dshills/textcore/segment"
)

// Workload describes one benchmark run.
type Workload struct {
	DocumentBytes int64  `toml:"document_bytes"`
	Edits         int    `toml:"edits"`
	EditSize      int    `toml:"edit_size"`
	Anchors       int    `toml:"anchors"`
	Segments      int    `toml:"segments"`
	Queries       int    `toml:"queries"`
	Seed          uint64 `toml:"seed"`
}

func defaultWorkload() Workload {
	return Workload{
		DocumentBytes: 4 << 20,
		Edits:         20000,
		EditSize:      16,
		Anchors:       5000,
		Segments:      5000,
		Queries:       20000,
		Seed:          42,
	}
}

type result struct {
	name string
	dur  time.Duration
	ops  int
}

func (r result) String() string {
	if r.ops > 0 {
		perOp := r.dur / time.Duration(r.ops)
		return fmt.Sprintf("%-32s %12v  (%d ops, %v/op)", r.name, r.dur.Round(time.Microsecond), r.ops, perOp)
	}
	return fmt.Sprintf("%-32s %12v", r.name, r.dur.Round(time.Microsecond))
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("f", "", "TOML workload description")
	flag.Parse()

	w := defaultWorkload()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read workload: %v\n", err)
			return 1
		}
		if err := toml.Unmarshal(data, &w); err != nil {
			fmt.Fprintf(os.Stderr, "Error: parse workload: %v\n", err)
			return 1
		}
	}

	fmt.Println("textcore benchmark")
	fmt.Printf("Go version: %s  GOMAXPROCS: %d\n", runtime.Version(), runtime.GOMAXPROCS(0))
	fmt.Printf("document: %d bytes, %d edits of ~%d bytes, %d anchors, %d segments, %d queries, seed %d\n\n",
		w.DocumentBytes, w.Edits, w.EditSize, w.Anchors, w.Segments, w.Queries, w.Seed)

	rng := rand.New(rand.NewPCG(w.Seed, w.Seed^0x9e3779b9))

	var results []result

	start := time.Now()
	d := buildDocument(w.DocumentBytes)
	results = append(results, result{name: "build document", dur: time.Since(start)})

	results = append(results, benchEdits("edits, no trackers", d, w, rng))
	results = append(results, benchAnchors(d, w, rng)...)
	results = append(results, benchSegments(d, w, rng)...)
	results = append(results, benchLineQueries(d, w, rng))
	results = append(results, benchJournal(d, w))

	fmt.Println()
	for _, r := range results {
		fmt.Println(r)
	}
	return 0
}

func buildDocument(size int64) *document.Document {
	var b rope.Builder
	line := "the quick brown fox jumps over the lazy dog\n"
	for b.Len() < size {
		b.WriteString(line)
	}
	d := document.New(document.WithJournalCapacity(1 << 16))
	if _, err := d.Insert(0, b.Build().String()); err != nil {
		panic(err)
	}
	return d
}

func randomEdit(d *document.Document, w Workload, rng *rand.Rand) {
	n := int(d.Len())
	if n == 0 {
		d.Insert(0, strings.Repeat("x", w.EditSize))
		return
	}
	off := document.ByteOffset(rng.IntN(n))
	switch rng.IntN(3) {
	case 0:
		d.Insert(off, strings.Repeat("x", w.EditSize))
	case 1:
		end := off + document.ByteOffset(w.EditSize)
		if end > d.Len() {
			end = d.Len()
		}
		d.Delete(off, end)
	default:
		end := off + document.ByteOffset(w.EditSize/2)
		if end > d.Len() {
			end = d.Len()
		}
		d.Replace(off, end, strings.Repeat("y", w.EditSize))
	}
}

func benchEdits(name string, d *document.Document, w Workload, rng *rand.Rand) result {
	start := time.Now()
	for i := 0; i < w.Edits; i++ {
		randomEdit(d, w, rng)
	}
	return result{name: name, dur: time.Since(start), ops: w.Edits}
}

func benchAnchors(d *document.Document, w Workload, rng *rand.Rand) []result {
	start := time.Now()
	anchors := make([]*document.Anchor, 0, w.Anchors)
	for i := 0; i < w.Anchors; i++ {
		a, err := d.CreateAnchor(document.ByteOffset(rng.IntN(int(d.Len()) + 1)))
		if err != nil {
			panic(err)
		}
		anchors = append(anchors, a)
	}
	create := result{name: "create anchors", dur: time.Since(start), ops: w.Anchors}

	rebase := benchEdits("edits with live anchors", d, w, rng)

	start = time.Now()
	var live int
	for _, a := range anchors {
		if !a.IsDeleted() {
			if _, err := a.Offset(); err == nil {
				live++
			}
		}
	}
	read := result{name: "read anchor offsets", dur: time.Since(start), ops: len(anchors)}

	for _, a := range anchors {
		a.Release()
	}
	return []result{create, rebase, read}
}

func benchSegments(d *document.Document, w Workload, rng *rand.Rand) []result {
	idx := segment.New[int](d)
	defer idx.Close()

	start := time.Now()
	for i := 0; i < w.Segments; i++ {
		s := document.ByteOffset(rng.IntN(int(d.Len())))
		l := document.ByteOffset(rng.IntN(200))
		if s+l > d.Len() {
			l = d.Len() - s
		}
		if _, err := idx.Add(s, l, i); err != nil {
			panic(err)
		}
	}
	add := result{name: "add segments", dur: time.Since(start), ops: w.Segments}

	rebase := benchEdits("edits with live segments", d, w, rng)

	start = time.Now()
	var hits int
	for i := 0; i < w.Queries; i++ {
		off := document.ByteOffset(rng.IntN(int(d.Len())))
		hits += len(idx.FindContaining(off))
	}
	containing := result{name: "FindContaining", dur: time.Since(start), ops: w.Queries}

	start = time.Now()
	for i := 0; i < w.Queries; i++ {
		off := document.ByteOffset(rng.IntN(int(d.Len())))
		hits += len(idx.FindOverlapping(off, off+256))
	}
	overlapping := result{name: "FindOverlapping", dur: time.Since(start), ops: w.Queries}
	_ = hits

	return []result{add, rebase, containing, overlapping}
}

func benchLineQueries(d *document.Document, w Workload, rng *rand.Rand) result {
	lines := d.LineCount()
	start := time.Now()
	for i := 0; i < w.Queries; i++ {
		if _, err := d.LineInfo(1 + int64(rng.IntN(int(lines)))); err != nil {
			panic(err)
		}
	}
	return result{name: "line queries", dur: time.Since(start), ops: w.Queries}
}

func benchJournal(d *document.Document, w Workload) result {
	from := d.Version() - document.Version(w.Edits/2)
	start := time.Now()
	changes, err := d.Changes(from, d.Version())
	if err != nil {
		panic(err)
	}
	return result{name: "journal delta query", dur: time.Since(start), ops: len(changes)}
}
