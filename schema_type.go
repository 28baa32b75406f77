package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON = errors.New("candidate is not valid JSON")
)

///////////////////////////////////////////////////////////////////////////////
// SchemaType
///////////////////////////////////////////////////////////////////////////////

// SchemaType is the root of the recursive schema model. It is a closed sum
// type: it is implemented by [BasicType], the six advanced types (see
// [AdvancedType]), the shorthands [ArrayShorthand], [TupleShorthand] and
// [ObjectShorthand], [Field] and [CustomType].
//
// A SchemaType tree is immutable once built and may be shared by any number of
// goroutines validating concurrently.
type SchemaType interface {
	// Validate checks value against this node only and returns the node's own
	// error type. Use the package level [Validate] to get a
	// *SchemaTypeValidationError for any node.
	Validate(value gjson.Result) error
	// String returns a human readable description of the schema.
	String() string
	// MarshalJSON encodes the node as a schema literal.
	MarshalJSON() ([]byte, error)

	validateNode(value gjson.Result) *SchemaTypeValidationError
}

// SchemaTypeValidationError is the root error of a failed validation. Exactly
// one of its fields is set.
type SchemaTypeValidationError struct {
	Basic    *BasicTypeValidationError
	Advanced *AdvancedTypeValidationError
	Custom   *CustomValidationError
}

// Error implements the error interface
func (e *SchemaTypeValidationError) Error() string {
	return e.Unwrap().Error()
}

// Unwrap returns the boxed component error.
func (e *SchemaTypeValidationError) Unwrap() error {
	switch {
	case e.Basic != nil:
		return e.Basic
	case e.Advanced != nil:
		return e.Advanced
	case e.Custom != nil:
		return e.Custom
	default:
		panic("jsonfields: empty SchemaTypeValidationError")
	}
}

// Path returns the location of the failing value relative to the validated
// candidate: object keys and decimal array indexes, outermost first. The path
// of a failure at the root is empty.
func (e *SchemaTypeValidationError) Path() []string {
	path := []string{}
	for cur := e; cur != nil && cur.Advanced != nil; {
		adv := cur.Advanced
		switch {
		case adv.Tuple != nil && adv.Tuple.Cause != nil:
			path = append(path, strconv.Itoa(adv.Tuple.Index))
			cur = adv.Tuple.Cause
		case adv.Array != nil && adv.Array.Cause != nil:
			path = append(path, strconv.Itoa(adv.Array.Index))
			cur = adv.Array.Cause
		case adv.Object != nil && adv.Object.Cause != nil:
			path = append(path, adv.Object.Key)
			cur = adv.Object.Cause
		case adv.Object != nil && adv.Object.Reason == ErrMissingObjectKey:
			return append(path, adv.Object.Key)
		case adv.Optional != nil:
			cur = adv.Optional
		default:
			return path
		}
	}
	return path
}

// Validate checks value against schema. It returns nil or a
// *SchemaTypeValidationError describing the first violation found.
func Validate(schema SchemaType, value gjson.Result) error {
	if err := validateSchema(schema, value); err != nil {
		return err
	}
	return nil
}

// ValidateBytes parses data as JSON and validates it against schema.
func ValidateBytes(schema SchemaType, data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}
	return Validate(schema, gjson.ParseBytes(data))
}

// ValidateString parses data as JSON and validates it against schema.
func ValidateString(schema SchemaType, data string) error {
	if !gjson.Valid(data) {
		return ErrInvalidJSON
	}
	return Validate(schema, gjson.Parse(data))
}

// ValidateValue encodes v with encoding/json and validates the result against
// schema. It accepts anything json.Marshal accepts, including the output of
// json.Unmarshal into an any.
func ValidateValue(schema SchemaType, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling candidate value: %w", err)
	}
	return ValidateBytes(schema, data)
}

// validateSchema is the root dispatcher.
func validateSchema(schema SchemaType, value gjson.Result) *SchemaTypeValidationError {
	if schema == nil {
		panic("jsonfields: nil SchemaType in schema tree")
	}
	return schema.validateNode(value)
}

// describeAll joins the descriptions of schemas with ", ".
func describeAll(schemas []SchemaType) string {
	parts := make([]string, len(schemas))
	for i, s := range schemas {
		parts[i] = describe(s)
	}
	return strings.Join(parts, ", ")
}

// describe is String() tolerating nil children.
func describe(schema SchemaType) string {
	if schema == nil {
		return "<nil>"
	}
	return schema.String()
}

///////////////////////////////////////////////////////////////////////////////
// Shorthands
///////////////////////////////////////////////////////////////////////////////

// ArrayShorthand is the `[schema]` literal: a possibly empty array whose items
// all match Items. Unlike [ArrayType] it never requires the array to be
// filled.
type ArrayShorthand struct {
	Items SchemaType
}

func (s ArrayShorthand) arrayType() ArrayType {
	return ArrayType{RequireFilled: false, Items: s.Items}
}

func (s ArrayShorthand) Validate(value gjson.Result) error {
	return Validate(s, value)
}

func (s ArrayShorthand) validateNode(value gjson.Result) *SchemaTypeValidationError {
	if err := s.arrayType().validate(value); err != nil {
		return &SchemaTypeValidationError{Advanced: &AdvancedTypeValidationError{Array: err}}
	}
	return nil
}

func (s ArrayShorthand) String() string {
	return s.arrayType().String()
}

func (s ArrayShorthand) MarshalJSON() ([]byte, error) {
	return json.Marshal([]SchemaType{s.Items})
}

// TupleShorthand is the `[schema, schema, ...]` literal: a fixed length array
// whose items match the schemas position by position.
type TupleShorthand []SchemaType

func (s TupleShorthand) Validate(value gjson.Result) error {
	return Validate(s, value)
}

func (s TupleShorthand) validateNode(value gjson.Result) *SchemaTypeValidationError {
	if err := (TupleType{Items: s}).validate(value); err != nil {
		return &SchemaTypeValidationError{Advanced: &AdvancedTypeValidationError{Tuple: err}}
	}
	return nil
}

func (s TupleShorthand) String() string {
	return TupleType{Items: s}.String()
}

func (s TupleShorthand) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]SchemaType(s))
}

// ObjectShorthand is the `{key: schema, ...}` literal. It validates exactly
// like [ObjectType].
type ObjectShorthand map[string]SchemaType

func (s ObjectShorthand) Validate(value gjson.Result) error {
	return Validate(s, value)
}

func (s ObjectShorthand) validateNode(value gjson.Result) *SchemaTypeValidationError {
	if err := (ObjectType{Object: s}).validate(value); err != nil {
		return &SchemaTypeValidationError{Advanced: &AdvancedTypeValidationError{Object: err}}
	}
	return nil
}

func (s ObjectShorthand) String() string {
	return ObjectType{Object: s}.String()
}

func (s ObjectShorthand) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]SchemaType(s))
}

// sortedKeys returns the keys of an object schema in lexical order.
func sortedKeys(object map[string]SchemaType) []string {
	return slices.Sorted(maps.Keys(object))
}
