package format

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dhamidi/livejava/java/info"
	"github.com/dhamidi/livejava/java/javadoc"
)

// LineEncoder writes one tab separated record per line: the class
// itself, then its supertypes, type parameters, used names, documented
// methods and edit positions.
type LineEncoder struct {
	w     io.Writer
	class *info.ClassInfo
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *info.ClassInfo) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\n", classKind(c), qualified(c), visibility(c))

	if c.Superclass != "" {
		fmt.Fprintf(&sb, "extends\t%s\n", c.Superclass)
	}
	for _, i := range c.Implements {
		if i == "" {
			i = "?"
		}
		fmt.Fprintf(&sb, "implements\t%s\n", i)
	}
	for _, tp := range c.TypeParams {
		fmt.Fprintf(&sb, "typeparam\t%s\n", tp)
	}
	for _, u := range c.Used {
		fmt.Fprintf(&sb, "used\t%s\n", u)
	}
	for _, cm := range c.Comments {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\n", cm.Target, cm.Params, firstLine(cm.Text))
	}

	sels := selections(c)
	names := make([]string, 0, len(sels))
	for name := range sels {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s := sels[name]
		fmt.Fprintf(&sb, "selection\t%s\t%s\n", name, s.String())
	}

	if c.HadError {
		sb.WriteString("error\n")
	}
	return []byte(sb.String()), nil
}

// firstLine returns the summary sentence of a doc comment.
func firstLine(text string) string {
	return javadoc.Parse(text).Summary()
}
