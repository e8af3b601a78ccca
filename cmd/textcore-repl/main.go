// textcore-repl is a line-oriented inspector for the textcore engine.
// It reads commands from stdin, applies them to an in-memory document,
// and prints the buffer with a line-number gutter. Useful for poking
// at anchor and segment behavior by hand.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/textcore/document"
	"github.com/dshills/textcore/segment"
)

const usage = `commands:
  i <off> <text>        insert text at offset (\n for newline)
  d <start> <end>       delete [start, end)
  r <start> <end> <text> replace [start, end)
  a <off> [s] [m]       create anchor (s: survive deletion, m: move after insertion)
  A                     list anchors
  s <start> <len> <label> add segment
  S                     list segments
  at <off>              segments containing offset
  p                     print buffer with gutter
  j [from]              journal changes since version (default 0)
  v                     version and length
  b / e                 begin / end update bracket
  q                     quit`

type repl struct {
	doc     *document.Document
	idx     *segment.Index[string]
	anchors []*document.Anchor
	out     *bufio.Writer
}

func main() {
	os.Exit(run())
}

func run() int {
	doc := document.NewFromString("")
	r := &repl{
		doc: doc,
		idx: segment.New[string](doc),
		out: bufio.NewWriter(os.Stdout),
	}
	defer r.out.Flush()

	fmt.Fprintln(r.out, "textcore repl; type ? for help")
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for {
		r.out.Flush()
		fmt.Print("> ")
		if !sc.Scan() {
			return 0
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			return 0
		}
		if err := r.dispatch(line); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *repl) dispatch(line string) error {
	fields := strings.SplitN(line, " ", 4)
	cmd := fields[0]
	switch cmd {
	case "?", "help":
		fmt.Fprintln(r.out, usage)
	case "i":
		if len(fields) < 3 {
			return fmt.Errorf("usage: i <off> <text>")
		}
		off, err := offset(fields[1])
		if err != nil {
			return err
		}
		_, err = r.doc.Insert(off, unescape(strings.Join(fields[2:], " ")))
		return err
	case "d":
		if len(fields) < 3 {
			return fmt.Errorf("usage: d <start> <end>")
		}
		start, err := offset(fields[1])
		if err != nil {
			return err
		}
		end, err := offset(fields[2])
		if err != nil {
			return err
		}
		_, err = r.doc.Delete(start, end)
		return err
	case "r":
		if len(fields) < 4 {
			return fmt.Errorf("usage: r <start> <end> <text>")
		}
		start, err := offset(fields[1])
		if err != nil {
			return err
		}
		end, err := offset(fields[2])
		if err != nil {
			return err
		}
		_, err = r.doc.Replace(start, end, unescape(fields[3]))
		return err
	case "a":
		if len(fields) < 2 {
			return fmt.Errorf("usage: a <off> [s] [m]")
		}
		off, err := offset(fields[1])
		if err != nil {
			return err
		}
		var opts []document.AnchorOption
		for _, f := range fields[2:] {
			switch f {
			case "s":
				opts = append(opts, document.SurviveDeletion())
			case "m":
				opts = append(opts, document.MoveAfterInsertion())
			}
		}
		a, err := r.doc.CreateAnchor(off, opts...)
		if err != nil {
			return err
		}
		r.anchors = append(r.anchors, a)
		fmt.Fprintf(r.out, "anchor #%d at %d\n", len(r.anchors)-1, off)
	case "A":
		for i, a := range r.anchors {
			if off, err := a.Offset(); err == nil {
				fmt.Fprintf(r.out, "#%d at %d (survive=%v moveAfter=%v)\n",
					i, off, a.SurvivesDeletion(), a.MovesAfterInsertion())
			} else {
				fmt.Fprintf(r.out, "#%d deleted\n", i)
			}
		}
	case "s":
		if len(fields) < 4 {
			return fmt.Errorf("usage: s <start> <len> <label>")
		}
		start, err := offset(fields[1])
		if err != nil {
			return err
		}
		length, err := offset(fields[2])
		if err != nil {
			return err
		}
		if _, err := r.idx.Add(start, length, fields[3]); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "segment %q [%d:%d)\n", fields[3], start, start+length)
	case "S":
		r.printSegments(r.idx.All())
	case "at":
		if len(fields) < 2 {
			return fmt.Errorf("usage: at <off>")
		}
		off, err := offset(fields[1])
		if err != nil {
			return err
		}
		r.printSegments(r.idx.FindContaining(off))
	case "p":
		r.printBuffer()
	case "j":
		var from document.Version
		if len(fields) > 1 {
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return err
			}
			from = document.Version(v)
		}
		changes, err := r.doc.Changes(from, r.doc.Version())
		if err != nil {
			return err
		}
		for _, c := range changes {
			fmt.Fprintln(r.out, c.String())
		}
	case "v":
		fmt.Fprintf(r.out, "version %d, %d bytes, %d lines\n",
			r.doc.Version(), r.doc.Len(), r.doc.LineCount())
	case "b":
		return r.doc.BeginUpdate()
	case "e":
		return r.doc.EndUpdate()
	default:
		return fmt.Errorf("unknown command %q (? for help)", cmd)
	}
	return nil
}

func (r *repl) printSegments(segs []*segment.Segment[string]) {
	for _, s := range segs {
		rng, err := s.Range()
		if err != nil {
			continue
		}
		label, _ := s.Value()
		fmt.Fprintf(r.out, "%v %q %q\n", rng, label, r.doc.Snapshot().Slice(rng.Start, rng.End))
	}
}

// printBuffer writes every line behind a right-aligned number gutter,
// with its byte range in a trailing column. Display widths come from
// go-runewidth so wide runes do not break the column alignment.
func (r *repl) printBuffer() {
	count := r.doc.LineCount()
	gutter := len(strconv.FormatInt(count, 10))

	lines := make([]document.Line, 0, count)
	texts := make([]string, 0, count)
	width := 0
	for n := int64(1); n <= count; n++ {
		l, err := r.doc.LineInfo(n)
		if err != nil {
			return
		}
		text, _ := r.doc.LineText(n)
		lines = append(lines, l)
		texts = append(texts, text)
		if w := runewidth.StringWidth(text); w > width {
			width = w
		}
	}
	for i, l := range lines {
		fmt.Fprintf(r.out, "%*d | %s  [%d:%d)\n",
			gutter, l.Number, runewidth.FillRight(texts[i], width), l.Start, l.End())
	}
	fmt.Fprintf(r.out, "%s +-- %d bytes, version %d\n",
		strings.Repeat(" ", gutter), r.doc.Len(), r.doc.Version())
}

func offset(s string) (document.ByteOffset, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad offset %q", s)
	}
	return v, nil
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	return s
}
