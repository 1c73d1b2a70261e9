package syntax

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Span is a half-open byte range [Start, End) of the parsed input.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// String returns s formatted as "start..end".
func (s Span) String() string {
	return strconv.Itoa(s.Start) + ".." + strconv.Itoa(s.End)
}

// Node is a captured span of input tagged with the rule that matched it.
type Node struct {
	Rule     Rule
	Span     Span
	Text     string
	Children []*Node
}

// Child returns the first direct child tagged with rule, or nil.
func (n *Node) Child(rule Rule) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}

	return nil
}

// All returns an iterator over the direct children tagged with rule.
func (n *Node) All(rule Rule) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.Children {
			if c.Rule == rule && !yield(c) {
				return
			}
		}
	}
}

// Inner returns the direct children of n excluding comments.
func (n *Node) Inner() []*Node {
	inner := make([]*Node, 0, len(n.Children))

	for _, c := range n.Children {
		if !c.Rule.IsComment() {
			inner = append(inner, c)
		}
	}

	return inner
}

// Walk calls fn for n and each of its descendants in depth-first pre-order.
// Descendants of a node are skipped if fn returns false for it.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Print writes an indented dump of the tree rooted at n to w.
func (n *Node) Print(w io.Writer) error {
	return n.print(w, 0, func(r Rule) string { return r.String() })
}

// PrintFunc is like [Node.Print] but renders rule names with label.
func (n *Node) PrintFunc(w io.Writer, label func(Rule) string) error {
	return n.print(w, 0, label)
}

func (n *Node) print(w io.Writer, depth int, label func(Rule) string) error {
	indent := strings.Repeat("  ", depth)

	var err error
	if len(n.Children) == 0 {
		_, err = fmt.Fprintf(w, "%s- %s %s: %s\n",
			indent, label(n.Rule), n.Span, strconv.Quote(n.Text))
	} else {
		_, err = fmt.Fprintf(w, "%s- %s %s\n", indent, label(n.Rule), n.Span)
	}

	if err != nil {
		return err
	}

	for _, c := range n.Children {
		if err := c.print(w, depth+1, label); err != nil {
			return err
		}
	}

	return nil
}
