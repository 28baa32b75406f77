package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrNotAString     = errors.New("not a string")
	ErrRequireFilled  = errors.New("empty but should be filled")
	ErrStringTooLong  = errors.New("string is too long")
	ErrStringTooShort = errors.New("string is too short")
)

// AdvancedStringType is a string with length constraints. Lengths are
// measured in bytes. Checks run in a fixed order: RequireFilled, then
// MaxLength, then MinLength.
type AdvancedStringType struct {
	RequireFilled bool
	MinLength     *int
	MaxLength     *int
}

// NewAdvancedStringType returns an AdvancedStringType with the literal
// defaults: filled, no length bounds.
func NewAdvancedStringType() AdvancedStringType {
	return AdvancedStringType{RequireFilled: true}
}

// WithMinLength returns a copy of t with a minimum length.
func (t AdvancedStringType) WithMinLength(n int) AdvancedStringType {
	t.MinLength = &n
	return t
}

// WithMaxLength returns a copy of t with a maximum length.
func (t AdvancedStringType) WithMaxLength(n int) AdvancedStringType {
	t.MaxLength = &n
	return t
}

func (AdvancedStringType) Tag() string { return StringTag }

func (t AdvancedStringType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t AdvancedStringType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	return validateAdvanced(t, value)
}

func (t AdvancedStringType) validate(value gjson.Result) *StringValidationError {
	if kindOf(value) != kindString {
		return &StringValidationError{Reason: ErrNotAString}
	}

	length := len(value.Str)
	if t.RequireFilled && length == 0 {
		return &StringValidationError{Reason: ErrRequireFilled}
	}
	if t.MaxLength != nil && length > *t.MaxLength {
		return &StringValidationError{Reason: ErrStringTooLong, Length: length, Limit: *t.MaxLength}
	}
	if t.MinLength != nil && length < *t.MinLength {
		return &StringValidationError{Reason: ErrStringTooShort, Length: length, Limit: *t.MinLength}
	}
	return nil
}

func (t AdvancedStringType) String() string {
	if t.RequireFilled {
		return "filled string"
	}
	return "string"
}

type advancedStringLiteral struct {
	Tag           string `json:"$"`
	RequireFilled bool   `json:"requireFilled"`
	MinLength     *int   `json:"minLength,omitempty"`
	MaxLength     *int   `json:"maxLength,omitempty"`
}

func (t AdvancedStringType) MarshalJSON() ([]byte, error) {
	return json.Marshal(advancedStringLiteral{
		Tag:           StringTag,
		RequireFilled: t.RequireFilled,
		MinLength:     t.MinLength,
		MaxLength:     t.MaxLength,
	})
}

// StringValidationError reports a candidate rejected by an
// AdvancedStringType. Length and Limit are set for the length checks.
type StringValidationError struct {
	Reason error
	Length int
	Limit  int
}

func (e *StringValidationError) Error() string {
	switch e.Reason {
	case ErrNotAString:
		return "the provided value is not a string"
	case ErrRequireFilled:
		return "the provided string is empty, but should be filled"
	case ErrStringTooLong:
		return fmt.Sprintf("the provided string is too long: %d > %d", e.Length, e.Limit)
	case ErrStringTooShort:
		return fmt.Sprintf("the provided string is too short: %d < %d", e.Length, e.Limit)
	default:
		return e.Reason.Error()
	}
}

func (e *StringValidationError) Unwrap() error {
	return e.Reason
}
