package jsonfields

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptySchema = errors.New("schema has no type")
)

// Schema holds a SchemaType so that a schema literal can be embedded in a
// JSON or YAML document and decoded along with it:
//
//	type Config struct {
//		Input jsonfields.Schema `json:"input" yaml:"input"`
//	}
//
// Custom literals are resolved with the default ValidatorRegistry.
type Schema struct {
	Type SchemaType
}

// NewSchema wraps t.
func NewSchema(t SchemaType) Schema {
	return Schema{Type: t}
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	t, err := ParseSchemaType(data)
	if err != nil {
		return err
	}
	s.Type = t
	return nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	if s.Type == nil {
		return []byte("null"), nil
	}
	return s.Type.MarshalJSON()
}

func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var doc any
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("error decoding schema node: %w", err)
	}
	normalized, err := normalizeYAML(doc)
	if err != nil {
		return err
	}
	literal, err := json.Marshal(normalized)
	if err != nil {
		return &LiteralError{Err: err}
	}
	return s.UnmarshalJSON(literal)
}

func (s Schema) String() string {
	return describe(s.Type)
}

func (s Schema) Validate(value gjson.Result) error {
	if s.Type == nil {
		return ErrEmptySchema
	}
	return Validate(s.Type, value)
}

func (s Schema) ValidateBytes(data []byte) error {
	if s.Type == nil {
		return ErrEmptySchema
	}
	return ValidateBytes(s.Type, data)
}

func (s Schema) ValidateString(data string) error {
	if s.Type == nil {
		return ErrEmptySchema
	}
	return ValidateString(s.Type, data)
}

func (s Schema) ValidateValue(v any) error {
	if s.Type == nil {
		return ErrEmptySchema
	}
	return ValidateValue(s.Type, v)
}

func (s Schema) ValidateYAML(data []byte) error {
	if s.Type == nil {
		return ErrEmptySchema
	}
	return ValidateYAML(s.Type, data)
}
