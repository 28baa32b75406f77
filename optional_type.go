package jsonfields

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// OptionalType accepts null, or anything Type accepts. Inside an object
// schema an OptionalType key may also be absent.
type OptionalType struct {
	Type SchemaType
}

// NewOptionalType wraps t.
func NewOptionalType(t SchemaType) OptionalType {
	return OptionalType{Type: t}
}

func (OptionalType) Tag() string { return OptionalTag }

// Validate returns nil for null and otherwise the *SchemaTypeValidationError
// of the wrapped schema.
func (t OptionalType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t OptionalType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	return validateAdvanced(t, value)
}

func (t OptionalType) validate(value gjson.Result) *SchemaTypeValidationError {
	if kindOf(value) == kindNull {
		return nil
	}
	return validateSchema(t.Type, value)
}

func (t OptionalType) String() string {
	return "optional " + describe(t.Type)
}

type optionalLiteral struct {
	Tag  string     `json:"$"`
	Type SchemaType `json:"type"`
}

func (t OptionalType) MarshalJSON() ([]byte, error) {
	return json.Marshal(optionalLiteral{Tag: OptionalTag, Type: t.Type})
}
