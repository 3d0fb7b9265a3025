package info

import (
	"fmt"

	"github.com/dhamidi/livejava/java/parser"
)

// Selection is a span of source text by line and column, used to
// splice text into a file later. Lines and columns are 1-based; the end
// is exclusive.
type Selection struct {
	Line      int `json:"line" yaml:"line"`
	Column    int `json:"column" yaml:"column"`
	EndLine   int `json:"endLine" yaml:"endLine"`
	EndColumn int `json:"endColumn" yaml:"endColumn"`
}

// Point returns an empty selection at line and column.
func Point(line, column int) *Selection {
	return &Selection{Line: line, Column: column, EndLine: line, EndColumn: column}
}

// TokenSelection returns the selection covering tok.
func TokenSelection(tok parser.Token) *Selection {
	s, e := tok.Span.Start, tok.Span.End
	if e.Line == 0 {
		return &Selection{Line: s.Line, Column: s.Column, EndLine: s.Line, EndColumn: s.Column + tok.Length()}
	}
	return &Selection{Line: s.Line, Column: s.Column, EndLine: e.Line, EndColumn: e.Column}
}

// TokensSelection returns the selection from the first token to the end
// of the last.
func TokensSelection(toks []parser.Token) *Selection {
	if len(toks) == 0 {
		return nil
	}
	s := TokenSelection(toks[0])
	if len(toks) > 1 {
		s.CombineWith(TokenSelection(toks[len(toks)-1]))
	}
	return s
}

// Length is the number of columns covered by a single line selection,
// or -1 for a selection spanning lines.
func (s *Selection) Length() int {
	if s.Line != s.EndLine {
		return -1
	}
	return s.EndColumn - s.Column
}

// CombineWith extends s to the end of other.
func (s *Selection) CombineWith(other *Selection) {
	s.EndLine = other.EndLine
	s.EndColumn = other.EndColumn
}

// ExtendEnd moves the end of s to line and column.
func (s *Selection) ExtendEnd(line, column int) {
	s.EndLine = line
	s.EndColumn = column
}

// Contains reports whether other lies entirely within s.
func (s *Selection) Contains(other *Selection) bool {
	return !before(other.Line, other.Column, s.Line, s.Column) &&
		!before(s.EndLine, s.EndColumn, other.EndLine, other.EndColumn)
}

// Overlaps reports whether s and other share at least one character.
func (s *Selection) Overlaps(other *Selection) bool {
	return before(s.Line, s.Column, other.EndLine, other.EndColumn) &&
		before(other.Line, other.Column, s.EndLine, s.EndColumn)
}

func before(l1, c1, l2, c2 int) bool {
	return l1 < l2 || l1 == l2 && c1 < c2
}

func (s *Selection) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Line, s.Column, s.EndLine, s.EndColumn)
}
