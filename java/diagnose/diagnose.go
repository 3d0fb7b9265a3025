// Package diagnose reports syntax errors with the exact positions a
// full Java grammar gives them. It complements the resilient parser,
// which recovers from errors but only knows the token it stopped at.
package diagnose

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// Diagnostic is a syntax error. Lines and columns are 1-based; columns
// count bytes. The end is exclusive.
type Diagnostic struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Message   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

var java = sitter.NewLanguage(tree_sitter_java.Language())

var parsers = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(java)
		return p
	},
}

// Check parses src and returns its syntax errors in source order, or nil
// when there are none.
func Check(src []byte) []Diagnostic {
	p := parsers.Get().(*sitter.Parser)
	defer func() {
		p.Reset()
		parsers.Put(p)
	}()

	tree := p.Parse(src, nil)
	if tree == nil {
		return []Diagnostic{{Line: 1, Column: 1, EndLine: 1, EndColumn: 1, Message: "parse failed"}}
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var out []Diagnostic
	collect(root, src, &out)
	return out
}

func collect(n *sitter.Node, src []byte, out *[]Diagnostic) {
	switch {
	case n.IsMissing():
		*out = append(*out, diagnostic(n, "missing "+strings.Trim(n.Kind(), `"`)))
		return
	case n.IsError():
		*out = append(*out, diagnostic(n, unexpected(n, src)))
		return
	case !n.HasError():
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil {
			collect(c, src, out)
		}
	}
}

func unexpected(n *sitter.Node, src []byte) string {
	text := strings.TrimSpace(string(src[n.StartByte():n.EndByte()]))
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	if len(text) > 20 {
		text = text[:20] + "..."
	}
	if text == "" {
		return "syntax error"
	}
	return fmt.Sprintf("unexpected %q", text)
}

func diagnostic(n *sitter.Node, msg string) Diagnostic {
	start, end := n.StartPosition(), n.EndPosition()
	return Diagnostic{
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
		Message:   msg,
	}
}
