package jsonfields

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// AdvancedType is a configurable schema node selected in literals by its "$"
// discriminant. It is implemented by AdvancedStringType, AnyOfType,
// TupleType, ArrayType, ObjectType and OptionalType.
type AdvancedType interface {
	SchemaType
	// Tag returns the "$" discriminant of the literal form.
	Tag() string

	advanced()
}

func (AdvancedStringType) advanced() {}
func (AnyOfType) advanced()          {}
func (TupleType) advanced()          {}
func (ArrayType) advanced()          {}
func (ObjectType) advanced()         {}
func (OptionalType) advanced()       {}

// ValidateAdvanced checks value against t and returns an
// *AdvancedTypeValidationError on failure.
func ValidateAdvanced(t AdvancedType, value gjson.Result) error {
	if err := dispatchAdvanced(t, value); err != nil {
		return err
	}
	return nil
}

func validateAdvanced(t AdvancedType, value gjson.Result) *SchemaTypeValidationError {
	if err := dispatchAdvanced(t, value); err != nil {
		return &SchemaTypeValidationError{Advanced: err}
	}
	return nil
}

// derefAdvanced returns the value form of t. Pointers to the advanced types
// satisfy AdvancedType through their value methods and are accepted too.
func derefAdvanced(t AdvancedType) AdvancedType {
	switch p := t.(type) {
	case *AdvancedStringType:
		if p != nil {
			return *p
		}
	case *AnyOfType:
		if p != nil {
			return *p
		}
	case *TupleType:
		if p != nil {
			return *p
		}
	case *ArrayType:
		if p != nil {
			return *p
		}
	case *ObjectType:
		if p != nil {
			return *p
		}
	case *OptionalType:
		if p != nil {
			return *p
		}
	default:
		return t
	}
	panic(fmt.Sprintf("jsonfields: nil %T in schema tree", t))
}

func dispatchAdvanced(t AdvancedType, value gjson.Result) *AdvancedTypeValidationError {
	switch t := derefAdvanced(t).(type) {
	case AdvancedStringType:
		if err := t.validate(value); err != nil {
			return &AdvancedTypeValidationError{String: err}
		}
	case AnyOfType:
		if err := t.validate(value); err != nil {
			return &AdvancedTypeValidationError{AnyOf: err}
		}
	case TupleType:
		if err := t.validate(value); err != nil {
			return &AdvancedTypeValidationError{Tuple: err}
		}
	case ArrayType:
		if err := t.validate(value); err != nil {
			return &AdvancedTypeValidationError{Array: err}
		}
	case ObjectType:
		if err := t.validate(value); err != nil {
			return &AdvancedTypeValidationError{Object: err}
		}
	case OptionalType:
		if err := t.validate(value); err != nil {
			return &AdvancedTypeValidationError{Optional: err}
		}
	default:
		panic(fmt.Sprintf("jsonfields: unknown AdvancedType %T", t))
	}
	return nil
}

// AdvancedTypeValidationError boxes the error of the advanced type that
// rejected the candidate. Exactly one field is set. Optional holds the error
// of the wrapped schema unchanged.
type AdvancedTypeValidationError struct {
	String   *StringValidationError
	AnyOf    *AnyOfTypeError
	Tuple    *TupleTypeError
	Array    *ArrayTypeError
	Object   *ObjectTypeError
	Optional *SchemaTypeValidationError
}

func (e *AdvancedTypeValidationError) Error() string {
	return e.Unwrap().Error()
}

func (e *AdvancedTypeValidationError) Unwrap() error {
	switch {
	case e.String != nil:
		return e.String
	case e.AnyOf != nil:
		return e.AnyOf
	case e.Tuple != nil:
		return e.Tuple
	case e.Array != nil:
		return e.Array
	case e.Object != nil:
		return e.Object
	case e.Optional != nil:
		return e.Optional
	default:
		panic("jsonfields: empty AdvancedTypeValidationError")
	}
}
