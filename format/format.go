// Package format renders analysis results: class information as text,
// JSON or YAML, compiled or source declarations as Java stubs, scope
// trees and parser event streams.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/livejava/java/info"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *info.ClassInfo) error
}

// Names lists the formats NewEncoder accepts.
var Names = []string{"text", "json", "yaml"}

// NewEncoder returns the encoder for the named format.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "text":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names)
}
