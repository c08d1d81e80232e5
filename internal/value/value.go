// Package value defines the tagged scalar values stored at store leaves.
package value

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidType is returned when a type tag is unrecognised, or when a
// value's text cannot be parsed as its declared type.
var ErrInvalidType = errors.New("Invalid data type")

// Type tags a Value's text with the kind of data it represents. The tag
// is advisory: values are always stored as their original text, and the
// tag only gates what text Validate accepts.
type Type int

const (
	// String accepts any text.
	String Type = iota
	// Int requires text parseable as a 64-bit signed integer.
	Int
	// Float requires text parseable as a 64-bit float.
	Float
	// Bool requires text equal to "true" or "false".
	Bool
)

// ParseType maps a wire token to a Type. Unknown tokens are rejected with
// ErrInvalidType.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(s) {
	case "STRING":
		return String, nil
	case "INT":
		return Int, nil
	case "FLOAT":
		return Float, nil
	case "BOOL":
		return Bool, nil
	default:
		return 0, ErrInvalidType
	}
}

// String renders the Type as its canonical wire/snapshot token.
func (t Type) String() string {
	switch t {
	case String:
		return "STRING"
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOL"
	default:
		return "STRING"
	}
}

// Validate reports whether text is well-formed for t. STRING accepts
// anything; INT/FLOAT/BOOL require the text to parse as that primitive.
func (t Type) Validate(text string) error {
	switch t {
	case String:
		return nil
	case Int:
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			return ErrInvalidType
		}
	case Float:
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return ErrInvalidType
		}
	case Bool:
		if text != "true" && text != "false" {
			return ErrInvalidType
		}
	default:
		return ErrInvalidType
	}
	return nil
}

// Value is a tagged scalar stored at a store leaf. The text is stored
// verbatim; Type records how it was validated at write time and is
// preserved across snapshots.
type Value struct {
	Text string
	Type Type
}

// New validates text against typ and returns the resulting Value.
func New(text string, typ Type) (Value, error) {
	if err := typ.Validate(text); err != nil {
		return Value{}, err
	}
	return Value{Text: text, Type: typ}, nil
}

// wireValue is the JSON shape used by the snapshot format: {"value":
// "<text>", "data_type": "<TYPE>"}.
type wireValue struct {
	Text string `json:"value"`
	Type string `json:"data_type"`
}

// MarshalJSON renders a Value in the snapshot's {value, data_type} shape.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireValue{Text: v.Text, Type: v.Type.String()})
}

// UnmarshalJSON parses the snapshot's {value, data_type} shape. The type
// tag is trusted as-is (it was validated when the snapshot was written);
// an unrecognised tag is still rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	typ, err := ParseType(w.Type)
	if err != nil {
		return err
	}
	v.Text = w.Text
	v.Type = typ
	return nil
}
