package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrNotAnArray       = errors.New("not an array")
	ErrIncorrectLength  = errors.New("incorrect length")
	ErrInvalidTupleItem = errors.New("invalid tuple item")
)

// TupleType is a fixed length array whose items are typed by position.
type TupleType struct {
	Items []SchemaType
}

// NewTupleType returns a TupleType over items.
func NewTupleType(items ...SchemaType) TupleType {
	return TupleType{Items: items}
}

func (TupleType) Tag() string { return TupleTag }

func (t TupleType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t TupleType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	return validateAdvanced(t, value)
}

func (t TupleType) validate(value gjson.Result) *TupleTypeError {
	if kindOf(value) != kindArray {
		return &TupleTypeError{Reason: ErrNotAnArray}
	}

	items := arrayItems(value)
	if len(items) != len(t.Items) {
		return &TupleTypeError{Reason: ErrIncorrectLength, Actual: len(items), Expected: len(t.Items)}
	}

	for i, schema := range t.Items {
		if err := validateSchema(schema, items[i]); err != nil {
			return &TupleTypeError{Reason: ErrInvalidTupleItem, Index: i, Cause: err}
		}
	}
	return nil
}

func (t TupleType) String() string {
	return "tuple with items: " + describeAll(t.Items)
}

type tupleLiteral struct {
	Tag   string       `json:"$"`
	Items []SchemaType `json:"items"`
}

func (t TupleType) MarshalJSON() ([]byte, error) {
	items := t.Items
	if items == nil {
		items = []SchemaType{}
	}
	return json.Marshal(tupleLiteral{Tag: TupleTag, Items: items})
}

// TupleTypeError reports a candidate rejected by a TupleType. For
// ErrIncorrectLength, Actual and Expected hold the candidate and schema
// lengths. For a failing item, Index and Cause are set.
type TupleTypeError struct {
	Reason   error
	Actual   int
	Expected int
	Index    int
	Cause    *SchemaTypeValidationError
}

func (e *TupleTypeError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("tuple item %d: %v", e.Index, e.Cause)
	case e.Reason == ErrIncorrectLength:
		return fmt.Sprintf("incorrect tuple length: got %d items but expected %d", e.Actual, e.Expected)
	default:
		return "expected a tuple, but got something else"
	}
}

func (e *TupleTypeError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Reason
}
