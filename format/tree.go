package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/livejava/java/nodes"
)

// lineIndex converts byte offsets of a source text to 1-based lines and
// columns.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (idx lineIndex) position(offset int) treePosition {
	line := sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return treePosition{Line: line + 1, Column: offset - idx[line] + 1, Offset: offset}
}

// WriteTree writes the scope tree of a unit, one node per line, indented
// by depth, with the line and column range each node covers in src.
func WriteTree(w io.Writer, root *nodes.Node, src []byte) error {
	idx := newLineIndex(src)
	var sb strings.Builder
	var write func(n *nodes.Node, depth int)
	write = func(n *nodes.Node, depth int) {
		start, end := idx.position(n.Start), idx.position(n.End)
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Kind.String())
		if n.Name != "" {
			sb.WriteString(" ")
			sb.WriteString(n.Name)
		}
		fmt.Fprintf(&sb, " %d:%d-%d:%d\n", start.Line, start.Column, end.Line, end.Column)
		for _, c := range n.Children {
			write(c, depth+1)
		}
	}
	write(root, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// TreeJSONEncoder writes a scope tree as nested JSON objects.
type TreeJSONEncoder struct {
	w   io.Writer
	src []byte
}

func NewTreeJSONEncoder(w io.Writer, src []byte) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w, src: src}
}

func (e *TreeJSONEncoder) Encode(root *nodes.Node) error {
	text, err := e.MarshalText(root)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *TreeJSONEncoder) MarshalText(root *nodes.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(root, newLineIndex(e.src)), "", "  ")
}

type treeNode struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Span     treeSpan    `json:"span"`
	Children []*treeNode `json:"children,omitempty"`
}

type treeSpan struct {
	Start treePosition `json:"start"`
	End   treePosition `json:"end"`
}

type treePosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func nodeToJSON(n *nodes.Node, idx lineIndex) *treeNode {
	jn := &treeNode{
		Kind: n.Kind.String(),
		Name: n.Name,
		Span: treeSpan{Start: idx.position(n.Start), End: idx.position(n.End)},
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*treeNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child, idx)
		}
	}

	return jn
}
