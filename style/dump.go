package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders the sheet tree in an indented textual form for debug logging
// and analysis output.
func (s *Sheet) Dump() string {
	tw := newTreeWriter()
	tw.line(0, "sheet %s", s.Name)
	dumpNode(tw, s.Root, 1)
	return tw.String()
}

func dumpNode(tw *treeWriter, n *RuleNode, depth int) {
	tw.line(depth, "block %s", n.Selector.describe())
	for _, d := range n.Declarations {
		tw.text(depth+1, d.Property, d.Value)
	}
	for _, c := range n.Children {
		dumpNode(tw, c, depth+1)
	}
}

type treeWriter struct {
	w *strings.Builder
}

func newTreeWriter() *treeWriter {
	return &treeWriter{w: &strings.Builder{}}
}

func (tw *treeWriter) String() string {
	return tw.w.String()
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *treeWriter) text(depth int, label, value string) {
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	if value != "" {
		value = strconv.Quote(value)
	}
	tw.w.WriteString(value)
	tw.w.WriteByte('\n')
}
