// Package nodes builds the scope tree of a Java compilation unit from
// parser events and resolves names inside it.
//
// Every node covers a byte range of the source. Children of a node are
// disjoint and lie inside it; the text between them is a gap. Nodes that
// open a scope (type declarations, type bodies, methods and blocks) also
// act as entity.Resolvers for the names declared in them.
package nodes

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnit Kind = iota
	KindPackage
	KindImport
	KindTypeDef
	KindTypeBody
	KindField
	KindMethod
	KindBlock
)

var kindNames = [...]string{"unit", "package", "import", "typedef", "typebody", "field", "method", "block"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is a region of a compilation unit. Start and End are byte
// offsets; End is exclusive.
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Name     string
	Parent   *Node
	Children []*Node

	unit   *Unit
	typ    *TypeDecl   // TypeDef and TypeBody
	method *MethodDecl // Method, and the Block of its body
	locals []*Local
	types  []*TypeDecl // local classes of a Block
}

// Size is the length of the node in bytes.
func (n *Node) Size() int {
	return n.End - n.Start
}

// Type returns the type declared by a TypeDef or TypeBody node.
func (n *Node) Type() *TypeDecl {
	return n.typ
}

// Method returns the method of a Method node or of its body.
func (n *Node) Method() *MethodDecl {
	return n.method
}

// Locals lists the local variables declared directly in the node.
func (n *Node) Locals() []*Local {
	return n.locals
}

func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s %s [%d,%d)", n.Kind, n.Name, n.Start, n.End)
	}
	return fmt.Sprintf("%s [%d,%d)", n.Kind, n.Start, n.End)
}

func (n *Node) add(child *Node) {
	child.Parent = n
	child.unit = n.unit
	n.Children = append(n.Children, child)
}

// close sets the end of n and pulls in children that ran past it.
func (n *Node) close(end int) {
	if end < n.Start {
		end = n.Start
	}
	n.End = end
	for _, c := range n.Children {
		if c.Start > end {
			c.Start = end
		}
		if c.End > end {
			c.close(end)
		}
	}
}

// NodeAndPosition is a node found by a position query.
type NodeAndPosition struct {
	Node *Node
	Pos  int
	Size int
}

func at(n *Node) *NodeAndPosition {
	return &NodeAndPosition{Node: n, Pos: n.Start, Size: n.Size()}
}

// FindNodeAtOrAfter returns the first child of n that contains pos or
// starts after it, or nil.
func (n *Node) FindNodeAtOrAfter(pos int) *NodeAndPosition {
	for _, c := range n.Children {
		if c.End > pos || c.Start >= pos {
			return at(c)
		}
	}
	return nil
}

// NodeAt returns the deepest node containing pos, which is n itself when
// no child does.
func (n *Node) NodeAt(pos int) *Node {
	for _, c := range n.Children {
		if c.Start <= pos && pos < c.End {
			return c.NodeAt(pos)
		}
	}
	return n
}

// Segment is a child node or, with Node nil, the gap between children.
type Segment struct {
	Start int
	End   int
	Node  *Node
}

// Segments covers the whole range of n with its children and the gaps
// between them.
func (n *Node) Segments() []Segment {
	var out []Segment
	pos := n.Start
	for _, c := range n.Children {
		if c.Start > pos {
			out = append(out, Segment{Start: pos, End: c.Start})
		}
		out = append(out, Segment{Start: c.Start, End: c.End, Node: c})
		pos = c.End
	}
	if pos < n.End {
		out = append(out, Segment{Start: pos, End: n.End})
	}
	return out
}

// Check verifies that every node's children are ordered, disjoint and
// contained in it.
func (n *Node) Check() error {
	if n.End < n.Start {
		return fmt.Errorf("%s: ends before it starts", n)
	}
	pos := n.Start
	for _, c := range n.Children {
		if c.Parent != n {
			return fmt.Errorf("%s: child %s has wrong parent", n, c)
		}
		if c.Start < pos {
			return fmt.Errorf("%s: child %s overlaps previous sibling or starts before parent", n, c)
		}
		if c.End > n.End {
			return fmt.Errorf("%s: child %s extends past parent", n, c)
		}
		if err := c.Check(); err != nil {
			return err
		}
		pos = c.End
	}
	return nil
}

// Walk calls fn for n and its descendants in source order, stopping at
// nodes for which fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Dump renders the tree with one node per line, indented by depth.
func (n *Node) Dump() string {
	var sb strings.Builder
	var dump func(n *Node, depth int)
	dump = func(n *Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.String())
		sb.WriteByte('\n')
		for _, c := range n.Children {
			dump(c, depth+1)
		}
	}
	dump(n, 0)
	return sb.String()
}
