package info

import (
	"fmt"
	"io"
	"strconv"

	"github.com/magiconair/properties"
)

const ctxtHeader = "# class context\n"

// Context renders the comments of c in the key-value form of a context
// file: numComments, then commentN.target, commentN.text and
// commentN.params for each method.
func Context(c *ClassInfo) *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true
	p.Set("numComments", strconv.Itoa(len(c.Comments)))
	for i, cm := range c.Comments {
		key := "comment" + strconv.Itoa(i)
		p.Set(key+".target", cm.Target)
		if cm.Text != "" {
			p.Set(key+".text", cm.Text)
		}
		if cm.Params != "" {
			p.Set(key+".params", cm.Params)
		}
	}
	return p
}

// WriteContext writes the context file of c to w.
func WriteContext(w io.Writer, c *ClassInfo) error {
	if _, err := io.WriteString(w, ctxtHeader); err != nil {
		return fmt.Errorf("write context: %w", err)
	}
	if _, err := Context(c).Write(w, properties.UTF8); err != nil {
		return fmt.Errorf("write context: %w", err)
	}
	return nil
}

// ReadContext reads the comments of a context file.
func ReadContext(r io.Reader) ([]Comment, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("parse context: %w", err)
	}
	n := p.GetInt("numComments", 0)
	out := make([]Comment, 0, n)
	for i := range n {
		key := "comment" + strconv.Itoa(i)
		target, ok := p.Get(key + ".target")
		if !ok {
			continue
		}
		text, _ := p.Get(key + ".text")
		params, _ := p.Get(key + ".params")
		out = append(out, Comment{Target: target, Text: text, Params: params})
	}
	return out, nil
}
