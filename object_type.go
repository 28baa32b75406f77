package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrNotAnObject       = errors.New("not an object")
	ErrMissingObjectKey  = errors.New("missing object key")
	ErrInvalidObjectItem = errors.New("invalid object value")
)

// ObjectType maps required keys to schemas. Keys whose schema is an
// OptionalType may be absent: the first absent optional key ends the check
// successfully. Keys are visited in sorted order. Keys of the candidate that
// are not declared are ignored.
type ObjectType struct {
	Object map[string]SchemaType
}

// NewObjectType returns an ObjectType over object.
func NewObjectType(object map[string]SchemaType) ObjectType {
	return ObjectType{Object: object}
}

func (ObjectType) Tag() string { return ObjectTag }

func (t ObjectType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t ObjectType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	return validateAdvanced(t, value)
}

func (t ObjectType) validate(value gjson.Result) *ObjectTypeError {
	if kindOf(value) != kindObject {
		return &ObjectTypeError{Reason: ErrNotAnObject}
	}

	members := objectMembers(value)
	for _, key := range sortedKeys(t.Object) {
		schema := t.Object[key]
		member, ok := members[key]
		if !ok {
			if isOptional(schema) {
				return nil
			}
			return &ObjectTypeError{Reason: ErrMissingObjectKey, Key: key}
		}
		if err := validateSchema(schema, member); err != nil {
			return &ObjectTypeError{Reason: ErrInvalidObjectItem, Key: key, Cause: err}
		}
	}
	return nil
}

// isOptional reports whether schema is an advanced optional node.
func isOptional(schema SchemaType) bool {
	switch s := schema.(type) {
	case OptionalType:
		return true
	case *OptionalType:
		return s != nil
	default:
		return false
	}
}

func (t ObjectType) String() string {
	return "object"
}

type objectLiteral struct {
	Tag    string                `json:"$"`
	Object map[string]SchemaType `json:"object"`
}

func (t ObjectType) MarshalJSON() ([]byte, error) {
	object := t.Object
	if object == nil {
		object = map[string]SchemaType{}
	}
	return json.Marshal(objectLiteral{Tag: ObjectTag, Object: object})
}

// ObjectTypeError reports a candidate rejected by an ObjectType or an object
// shorthand. Key is set for a missing key and for a failing value, Cause only
// for the latter.
type ObjectTypeError struct {
	Reason error
	Key    string
	Cause  *SchemaTypeValidationError
}

func (e *ObjectTypeError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("object key %q: %v", e.Key, e.Cause)
	case e.Reason == ErrMissingObjectKey:
		return fmt.Sprintf("missing object key: '%s'", e.Key)
	default:
		return "expected an object, but got something else"
	}
}

func (e *ObjectTypeError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Reason
}
