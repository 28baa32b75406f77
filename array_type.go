package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidArrayItem = errors.New("invalid array item")
)

// ArrayType is a variable length array whose items all match Items. Use
// NewArrayType for the literal default of RequireFilled.
type ArrayType struct {
	RequireFilled bool
	Items         SchemaType
}

// NewArrayType returns an ArrayType that requires at least one item.
func NewArrayType(items SchemaType) ArrayType {
	return ArrayType{RequireFilled: true, Items: items}
}

func (ArrayType) Tag() string { return ArrayTag }

func (t ArrayType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t ArrayType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	return validateAdvanced(t, value)
}

func (t ArrayType) validate(value gjson.Result) *ArrayTypeError {
	if kindOf(value) != kindArray {
		return &ArrayTypeError{Reason: ErrNotAnArray}
	}

	items := arrayItems(value)
	if t.RequireFilled && len(items) == 0 {
		return &ArrayTypeError{Reason: ErrRequireFilled}
	}

	for i, item := range items {
		if err := validateSchema(t.Items, item); err != nil {
			return &ArrayTypeError{Reason: ErrInvalidArrayItem, Index: i, Cause: err}
		}
	}
	return nil
}

func (t ArrayType) String() string {
	return "array with items: " + describe(t.Items)
}

type arrayLiteral struct {
	Tag           string     `json:"$"`
	RequireFilled bool       `json:"requireFilled"`
	Items         SchemaType `json:"items"`
}

func (t ArrayType) MarshalJSON() ([]byte, error) {
	return json.Marshal(arrayLiteral{Tag: ArrayTag, RequireFilled: t.RequireFilled, Items: t.Items})
}

// ArrayTypeError reports a candidate rejected by an ArrayType or an array
// shorthand. For a failing item, Index and Cause are set.
type ArrayTypeError struct {
	Reason error
	Index  int
	Cause  *SchemaTypeValidationError
}

func (e *ArrayTypeError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("array item %d: %v", e.Index, e.Cause)
	case e.Reason == ErrRequireFilled:
		return "the provided array is empty, but should contain at least one item"
	default:
		return "expected an array, but got something else"
	}
}

func (e *ArrayTypeError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Reason
}
