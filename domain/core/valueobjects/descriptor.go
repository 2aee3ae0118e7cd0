package valueobjects

import (
	"encoding/json"
	"errors"
	"strings"
)

// Descriptor is a value object wrapping a SMILES string. It is immutable
// and only guarantees lexical plausibility; whether the text encodes a
// real molecule is decided by the parser.
type Descriptor struct {
	value string
}

// NewDescriptor creates a Descriptor from raw text.
func NewDescriptor(s string) (Descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Descriptor{}, errors.New("descriptor cannot be empty")
	}
	if strings.ContainsAny(s, " \t\n") {
		return Descriptor{}, errors.New("descriptor cannot contain whitespace")
	}
	if strings.Count(s, "(") != strings.Count(s, ")") {
		return Descriptor{}, errors.New("descriptor has unbalanced parentheses")
	}
	if strings.Count(s, "[") != strings.Count(s, "]") {
		return Descriptor{}, errors.New("descriptor has unbalanced brackets")
	}
	return Descriptor{value: s}, nil
}

// String returns the descriptor text.
func (d Descriptor) String() string {
	return d.value
}

// Equals checks if two descriptors are equal.
func (d Descriptor) Equals(other Descriptor) bool {
	return d.value == other.value
}

// IsZero checks if the Descriptor is the zero value.
func (d Descriptor) IsZero() bool {
	return d.value == ""
}

// MarshalJSON implements json.Marshaler
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("descriptor must be a string")
	}
	d.value = s
	return nil
}
