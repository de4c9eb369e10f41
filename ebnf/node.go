package ebnf

import (
	"fmt"
	"io"
	"strings"
)

// Node is a node of the concrete syntax tree. Leaves come from lexical
// productions and from terminals of syntactic productions and carry the
// matched Text; interior nodes come from syntactic productions.
type Node struct {
	Kind     string  `json:"kind"`
	Text     string  `json:"text,omitempty"`
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Children []*Node `json:"children,omitempty"`
}

// IsTerminal returns true if the node has no children.
func (n *Node) IsTerminal() bool {
	return len(n.Children) == 0
}

// Find returns the nodes of the given kind in depth-first order.
func (n *Node) Find(kind string) []*Node {
	var found []*Node
	n.Walk(func(m *Node) bool {
		if m.Kind == kind {
			found = append(found, m)
		}
		return true
	})
	return found
}

// Walk calls fn for n and its descendants in depth-first order. Returning
// false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Format writes an indented dump of the tree, one node per line.
func (n *Node) Format(w io.Writer) error {
	return n.format(w, 0)
}

func (n *Node) format(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	if n.IsTerminal() && n.Text != "" {
		_, err = fmt.Fprintf(w, "%s%s %q %d..%d\n", indent, n.Kind, n.Text, n.Start, n.End)
	} else {
		_, err = fmt.Fprintf(w, "%s%s %d..%d\n", indent, n.Kind, n.Start, n.End)
	}
	if err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.format(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) String() string {
	var b strings.Builder
	n.Format(&b)
	return b.String()
}
