package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrNoMatchingVariant = errors.New("no matching variant")
)

// AnyOfType is an ordered union. Variants are tried in order and the first
// match wins.
type AnyOfType struct {
	Variants []SchemaType
}

// NewAnyOfType returns an AnyOfType over variants.
func NewAnyOfType(variants ...SchemaType) AnyOfType {
	return AnyOfType{Variants: variants}
}

func (AnyOfType) Tag() string { return AnyOfTag }

func (t AnyOfType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t AnyOfType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	return validateAdvanced(t, value)
}

func (t AnyOfType) validate(value gjson.Result) *AnyOfTypeError {
	for _, variant := range t.Variants {
		if validateSchema(variant, value) == nil {
			return nil
		}
	}
	return &AnyOfTypeError{Variants: t.Variants}
}

func (t AnyOfType) String() string {
	return "any of: " + describeAll(t.Variants)
}

type anyOfLiteral struct {
	Tag      string       `json:"$"`
	Variants []SchemaType `json:"variants"`
}

func (t AnyOfType) MarshalJSON() ([]byte, error) {
	variants := t.Variants
	if variants == nil {
		variants = []SchemaType{}
	}
	return json.Marshal(anyOfLiteral{Tag: AnyOfTag, Variants: variants})
}

// AnyOfTypeError reports that no variant matched. It always carries the full
// variant list of the union.
type AnyOfTypeError struct {
	Variants []SchemaType
}

func (e *AnyOfTypeError) Error() string {
	return fmt.Sprintf("no matching variant, expected one of: %s", describeAll(e.Variants))
}

func (e *AnyOfTypeError) Unwrap() error {
	return ErrNoMatchingVariant
}
