package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
	Text = "text"
)

// Names lists the accepted --format values.
var Names = []string{JSON, EDN, Text}

// Texter is implemented by payloads with a human readable form. Payloads that
// do not implement it are written as indented JSON under --format text.
type Texter interface {
	TextLines() []string
}

// Validate reports whether name is a known format. Empty means json.
func Validate(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", JSON, EDN, Text:
		return nil
	default:
		return fmt.Errorf("unknown format: %s (want one of %s)", name, strings.Join(Names, ", "))
	}
}

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case Text:
		return WriteText(w, v)
	default:
		return Validate(format)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func WriteText(w io.Writer, v any) error {
	t, ok := v.(Texter)
	if !ok {
		return WriteJSON(w, v, true)
	}
	for _, line := range t.TextLines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
