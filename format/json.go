package format

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/livejava/java/info"
)

type JSONEncoder struct {
	w     io.Writer
	class *info.ClassInfo
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *info.ClassInfo) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildClassData(e.class), "", "  ")
}

type classData struct {
	Name       string                    `json:"name" yaml:"name"`
	SimpleName string                    `json:"simpleName" yaml:"simpleName"`
	Package    string                    `json:"package" yaml:"package"`
	Kind       string                    `json:"kind" yaml:"kind"`
	Visibility string                    `json:"visibility" yaml:"visibility"`
	TypeParams []string                  `json:"typeParams,omitempty" yaml:"typeParams,omitempty"`
	SuperClass string                    `json:"superClass,omitempty" yaml:"superClass,omitempty"`
	Interfaces []string                  `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Used       []string                  `json:"used,omitempty" yaml:"used,omitempty"`
	Comments   []commentData             `json:"comments,omitempty" yaml:"comments,omitempty"`
	HadError   bool                      `json:"hadError,omitempty" yaml:"hadError,omitempty"`
	Selections map[string]info.Selection `json:"selections,omitempty" yaml:"selections,omitempty"`
}

type commentData struct {
	Target string   `json:"target" yaml:"target"`
	Text   string   `json:"text,omitempty" yaml:"text,omitempty"`
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
}

func buildClassData(c *info.ClassInfo) classData {
	data := classData{
		Name:       qualified(c),
		SimpleName: c.Name,
		Package:    c.Package,
		Kind:       classKind(c),
		Visibility: visibility(c),
		TypeParams: c.TypeParams,
		SuperClass: c.Superclass,
		Interfaces: c.Implements,
		Used:       c.Used,
		HadError:   c.HadError,
		Selections: selections(c),
	}
	for _, cm := range c.Comments {
		data.Comments = append(data.Comments, commentData{
			Target: cm.Target,
			Text:   cm.Text,
			Params: strings.Fields(cm.Params),
		})
	}
	return data
}

func qualified(c *info.ClassInfo) string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

func classKind(c *info.ClassInfo) string {
	switch {
	case c.Enum:
		return "enum"
	case c.Record:
		return "record"
	case c.Interface:
		return "interface"
	default:
		return "class"
	}
}

func visibility(c *info.ClassInfo) string {
	if c.Public {
		return "public"
	}
	return "package"
}

// selections gathers the recorded edit positions by name.
func selections(c *info.ClassInfo) map[string]info.Selection {
	m := make(map[string]info.Selection)
	add := func(name string, s *info.Selection) {
		if s != nil {
			m[name] = *s
		}
	}
	add("extendsInsert", c.ExtendsInsert)
	add("extendsReplace", c.ExtendsReplace)
	add("superReplace", c.SuperReplace)
	add("implementsInsert", c.ImplementsInsert)
	add("packageStatement", c.PackageStatement)
	add("packageName", c.PackageName)
	add("packageSemi", c.PackageSemi)
	for i := range c.InterfaceSelections {
		add("interface"+strconv.Itoa(i), &c.InterfaceSelections[i])
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
