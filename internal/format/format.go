// Package format renders CLI payloads in machine-readable forms.
package format

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Formatter writes a payload to w in some serialized form.
type Formatter interface {
	Write(w io.Writer, payload any) error
}

// JSONFormatter writes one JSON document per payload. Indent is applied
// when non-empty.
type JSONFormatter struct {
	Indent string
}

func (f JSONFormatter) Write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(payload)
}

// YAMLFormatter writes a payload as a YAML document with two-space
// indentation.
type YAMLFormatter struct{}

func (f YAMLFormatter) Write(w io.Writer, payload any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
