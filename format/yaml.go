package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/livejava/java/info"
)

type YAMLEncoder struct {
	w     io.Writer
	class *info.ClassInfo
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(class *info.ClassInfo) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	return yaml.Marshal(buildClassData(e.class))
}
