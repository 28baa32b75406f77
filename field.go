package jsonfields

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Field attaches presentation metadata to a schema. It validates exactly
// like Type. A nil Hint is absent from the literal form, an empty one is
// kept.
type Field struct {
	Type  SchemaType
	Label string
	Hint  *string
}

// NewField returns a Field labelled label wrapping t.
func NewField(t SchemaType, label string) Field {
	return Field{Type: t, Label: label}
}

// WithHint returns a copy of f with a hint.
func (f Field) WithHint(hint string) Field {
	f.Hint = &hint
	return f
}

// Validate returns the *SchemaTypeValidationError of the wrapped schema.
func (f Field) Validate(value gjson.Result) error {
	return Validate(f, value)
}

func (f Field) validateNode(value gjson.Result) *SchemaTypeValidationError {
	return validateSchema(f.Type, value)
}

func (f Field) String() string {
	return "field with " + describe(f.Type)
}

type fieldLiteral struct {
	Type  SchemaType `json:"?"`
	Label string     `json:"label"`
	Hint  *string    `json:"hint,omitempty"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldLiteral{Type: f.Type, Label: f.Label, Hint: f.Hint})
}
