package format

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/dhamidi/livejava/java/parser"
)

var (
	tokenType  = reflect.TypeFor[parser.Token]()
	tokensType = reflect.TypeFor[[]parser.Token]()
)

// WriteEvents writes one line per parser event: its name followed by its
// fields. Tokens show their text and position.
func WriteEvents(w io.Writer, events []parser.Event) error {
	var sb strings.Builder
	for _, e := range events {
		writeEvent(&sb, e)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeEvent(sb *strings.Builder, e parser.Event) {
	v := reflect.ValueOf(e)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	sb.WriteString(t.Name())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		writeValue(sb, v.Field(i))
	}
}

func writeValue(sb *strings.Builder, v reflect.Value) {
	switch v.Type() {
	case tokenType:
		writeToken(sb, v.Interface().(parser.Token))
		return
	case tokensType:
		fmt.Fprintf(sb, "%q", parser.JoinTokens(v.Interface().([]parser.Token)))
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice:
		if v.IsNil() {
			sb.WriteString("nil")
			return
		}
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		sb.WriteString(s.String())
		return
	}
	if v.Kind() == reflect.String {
		fmt.Fprintf(sb, "%q", v.String())
		return
	}
	fmt.Fprintf(sb, "%v", v.Interface())
}

func writeToken(sb *strings.Builder, tok parser.Token) {
	fmt.Fprintf(sb, "%q@%d:%d", tok.Literal, tok.Span.Start.Line, tok.Span.Start.Column)
}
