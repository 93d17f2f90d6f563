package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// FormValue holds one untrusted form field as it arrived on the wire.
// Values that are not JSON strings are remembered as present but never
// expose text, so they fail any "non-empty string" requirement downstream.
type FormValue struct {
	Present  bool
	IsString bool
	raw      string
}

// NewFormValue builds a string-typed FormValue, mostly for tests and callers
// that bind form-encoded bodies.
func NewFormValue(s string) FormValue {
	return FormValue{Present: true, IsString: true, raw: s}
}

// UnmarshalJSON accepts any JSON value without failing the whole payload.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	*v = FormValue{Present: true}

	var s string
	if err := json.Unmarshal(data, &s); err == nil && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.IsString = true
		v.raw = s
	}
	return nil
}

// MarshalJSON renders string values back as strings and everything else as null.
func (v FormValue) MarshalJSON() ([]byte, error) {
	if !v.IsString {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

// Text returns the trimmed string value, or "" when the field is absent or not a string.
func (v FormValue) Text() string {
	if !v.IsString {
		return ""
	}
	return strings.TrimFunc(v.raw, isTrimmable)
}

// isTrimmable matches Unicode white space plus the byte order mark.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Filled reports whether the field is a string with non-whitespace content.
func (v FormValue) Filled() bool {
	return v.Text() != ""
}

// Consent is true only when the wire value is the JSON literal true.
// Truthy look-alikes such as "true", 1 or "yes" stay false.
type Consent bool

func (c *Consent) UnmarshalJSON(data []byte) error {
	*c = Consent(bytes.Equal(bytes.TrimSpace(data), []byte("true")))
	return nil
}
