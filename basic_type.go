package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var (
	ErrIncorrectType      = errors.New("incorrect type")
	ErrEmptyString        = errors.New("string is empty but should be filled")
	ErrNotAPositiveNumber = errors.New("not a positive number")
	ErrNotANegativeNumber = errors.New("not a negative number")
	ErrNotAU8             = errors.New("not a u8")
	ErrNotAU16            = errors.New("not a u16")
	ErrNotAU32            = errors.New("not a u32")
	ErrNotAU64            = errors.New("not a u64")
	ErrNotAI8             = errors.New("not an i8")
	ErrNotAI16            = errors.New("not an i16")
	ErrNotAI32            = errors.New("not an i32")
	ErrNotAI64            = errors.New("not an i64")
	ErrIncorrectUuid      = errors.New("not a uuid")
	ErrIncorrectEmail     = errors.New("not an email")
)

// BasicType is a primitive matcher without configuration. It checks the JSON
// kind of the candidate and, for some members, its numeric range or string
// format.
type BasicType uint8

const (
	Any BasicType = iota
	Boolean
	String
	FilledString
	Number
	PositiveNumber
	NegativeNumber
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	Null
	Object
	Array
	Uuid
	Email
)

type basicTypeInfo struct {
	literal string
	display string
	reason  error
}

var basicTypes = [...]basicTypeInfo{
	Any:            {"any", "any", ErrIncorrectType},
	Boolean:        {"boolean", "boolean", ErrIncorrectType},
	String:         {"string", "string", ErrIncorrectType},
	FilledString:   {"filledString", "filled string", ErrEmptyString},
	Number:         {"number", "number", ErrIncorrectType},
	PositiveNumber: {"positiveNumber", "positive number", ErrNotAPositiveNumber},
	NegativeNumber: {"negativeNumber", "negative number", ErrNotANegativeNumber},
	U8:             {"u8", "u8", ErrNotAU8},
	U16:            {"u16", "u16", ErrNotAU16},
	U32:            {"u32", "u32", ErrNotAU32},
	U64:            {"u64", "u64", ErrNotAU64},
	I8:             {"i8", "i8", ErrNotAI8},
	I16:            {"i16", "i16", ErrNotAI16},
	I32:            {"i32", "i32", ErrNotAI32},
	I64:            {"i64", "i64", ErrNotAI64},
	Null:           {"null", "null", ErrIncorrectType},
	Object:         {"object", "object", ErrIncorrectType},
	Array:          {"array", "array", ErrIncorrectType},
	Uuid:           {"uuid", "uuid", ErrIncorrectUuid},
	Email:          {"email", "email", ErrIncorrectEmail},
}

// formatValidator checks the RFC shape of email strings.
var formatValidator = validator.New()

// ParseBasicType returns the BasicType whose literal name is exactly name.
func ParseBasicType(name string) (BasicType, bool) {
	for i, info := range basicTypes {
		if info.literal == name {
			return BasicType(i), true
		}
	}
	return 0, false
}

// BasicTypes returns every BasicType in declaration order.
func BasicTypes() []BasicType {
	types := make([]BasicType, len(basicTypes))
	for i := range basicTypes {
		types[i] = BasicType(i)
	}
	return types
}

func (t BasicType) valid() bool {
	return int(t) < len(basicTypes)
}

// Literal returns the name used for t in schema literals, e.g. "filledString".
func (t BasicType) Literal() string {
	if !t.valid() {
		return fmt.Sprintf("BasicType(%d)", uint8(t))
	}
	return basicTypes[t].literal
}

// String returns the human readable name of t, e.g. "filled string".
func (t BasicType) String() string {
	if !t.valid() {
		return fmt.Sprintf("BasicType(%d)", uint8(t))
	}
	return basicTypes[t].display
}

func (t BasicType) MarshalJSON() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: unknown basic type %d", ErrInvalidLiteral, uint8(t))
	}
	return json.Marshal(t.Literal())
}

func (t *BasicType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: basic type must be a string: %v", ErrInvalidLiteral, err)
	}
	parsed, ok := ParseBasicType(name)
	if !ok {
		return fmt.Errorf("%w: unknown basic type %q", ErrInvalidLiteral, name)
	}
	*t = parsed
	return nil
}

// Validate checks value against t and returns a *BasicTypeValidationError on
// failure.
func (t BasicType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t BasicType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	if err := t.validate(value); err != nil {
		return &SchemaTypeValidationError{Basic: err}
	}
	return nil
}

func (t BasicType) validate(value gjson.Result) *BasicTypeValidationError {
	if !t.valid() {
		panic(fmt.Sprintf("jsonfields: unknown BasicType %d", uint8(t)))
	}

	kind := kindOf(value)
	switch t {
	case Any:
		return nil
	case Null:
		return t.expectKind(kind, kindNull, value)
	case Boolean:
		return t.expectKind(kind, kindBool, value)
	case Number:
		return t.expectKind(kind, kindNumber, value)
	case String:
		return t.expectKind(kind, kindString, value)
	case Array:
		return t.expectKind(kind, kindArray, value)
	case Object:
		return t.expectKind(kind, kindObject, value)
	}

	switch t {
	case FilledString, Uuid, Email:
		if err := t.expectKind(kind, kindString, value); err != nil {
			return err
		}
		return t.validateString(value)
	default:
		if err := t.expectKind(kind, kindNumber, value); err != nil {
			return err
		}
		return t.validateNumber(value)
	}
}

func (t BasicType) expectKind(actual, expected jsonKind, value gjson.Result) *BasicTypeValidationError {
	if actual == expected {
		return nil
	}
	return &BasicTypeValidationError{Reason: ErrIncorrectType, Expected: t, Value: rawText(value)}
}

func (t BasicType) validateString(value gjson.Result) *BasicTypeValidationError {
	s := value.Str
	var ok bool
	switch t {
	case FilledString:
		ok = s != ""
	case Uuid:
		_, err := uuid.Parse(s)
		ok = err == nil
	case Email:
		ok = s != "" && formatValidator.Var(s, "email") == nil
	}
	if ok {
		return nil
	}
	return t.reject(value)
}

func (t BasicType) validateNumber(value gjson.Result) *BasicTypeValidationError {
	var ok bool
	switch t {
	case PositiveNumber:
		ok = value.Num >= 0
	case NegativeNumber:
		ok = value.Num <= 0
	case U8, U16, U32, U64:
		n, isInt := parseInteger(value.Raw)
		ok = isInt && n.fitsUnsigned(unsignedMax(t))
	case I8, I16, I32, I64:
		n, isInt := parseInteger(value.Raw)
		ok = isInt && n.fitsSigned(signedBits(t))
	}
	if ok {
		return nil
	}
	return t.reject(value)
}

func (t BasicType) reject(value gjson.Result) *BasicTypeValidationError {
	return &BasicTypeValidationError{Reason: basicTypes[t].reason, Expected: t, Value: rawText(value)}
}

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

// BasicTypeValidationError reports a candidate rejected by a BasicType.
// Value holds the candidate as JSON text.
type BasicTypeValidationError struct {
	Reason   error
	Expected BasicType
	Value    string
}

func (e *BasicTypeValidationError) Error() string {
	switch e.Reason {
	case ErrIncorrectType:
		return fmt.Sprintf("incorrect type provided, expected '%s' but got '%s'", e.Expected, e.Value)
	case ErrEmptyString:
		return "the provided string is empty, but should be filled"
	case ErrIncorrectUuid:
		return fmt.Sprintf("expected a uuid, but got %s", e.Value)
	case ErrIncorrectEmail:
		return fmt.Sprintf("expected an email, but got %s", e.Value)
	default:
		return fmt.Sprintf("expected a %s, but got %s", e.Expected, e.Value)
	}
}

func (e *BasicTypeValidationError) Unwrap() error {
	return e.Reason
}
