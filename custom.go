package jsonfields

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
)

///////////////////////////////////////////////////////////////////////////////
// Validator
///////////////////////////////////////////////////////////////////////////////

// Validator is the contract of custom schema nodes. Implementations must be
// synchronous and deterministic, and safe for concurrent use. Every
// SchemaType is also a Validator.
type Validator interface {
	Validate(value gjson.Result) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(value gjson.Result) error

func (fn ValidatorFunc) Validate(value gjson.Result) error {
	return fn(value)
}

///////////////////////////////////////////////////////////////////////////////
// CustomType
///////////////////////////////////////////////////////////////////////////////

// CustomType embeds a Validator in a schema tree. Name and Options are what
// the literal form {"$":"custom","custom":Name, ...Options} carries; they are
// used to rebuild the Validator from a ValidatorRegistry when decoding.
type CustomType struct {
	Name      string
	Options   map[string]any
	Validator Validator
}

// Custom returns a CustomType named name backed by v.
func Custom(name string, v Validator) CustomType {
	return CustomType{Name: name, Validator: v}
}

// Validate returns a *CustomValidationError when the validator rejects value.
func (t CustomType) Validate(value gjson.Result) error {
	if err := t.validate(value); err != nil {
		return err
	}
	return nil
}

func (t CustomType) validateNode(value gjson.Result) *SchemaTypeValidationError {
	if err := t.validate(value); err != nil {
		return &SchemaTypeValidationError{Custom: err}
	}
	return nil
}

func (t CustomType) validate(value gjson.Result) *CustomValidationError {
	if t.Validator == nil {
		panic(fmt.Sprintf("jsonfields: custom type %q has no validator", t.Name))
	}
	if err := t.Validator.Validate(value); err != nil {
		return &CustomValidationError{Name: t.Name, Err: err}
	}
	return nil
}

func (t CustomType) String() string {
	return fmt.Sprintf("custom validator '%s'", t.Name)
}

func (t CustomType) MarshalJSON() ([]byte, error) {
	literal := make(map[string]any, len(t.Options)+2)
	maps.Copy(literal, t.Options)
	literal[AdvancedTypeTagKey] = CustomTag
	literal[CustomNameKey] = t.Name
	return json.Marshal(literal)
}

// CustomValidationError reports a candidate rejected by a custom validator.
type CustomValidationError struct {
	Name string
	Err  error
}

func (e *CustomValidationError) Error() string {
	return fmt.Sprintf("custom validator '%s': %v", e.Name, e.Err)
}

func (e *CustomValidationError) Unwrap() error {
	return e.Err
}

///////////////////////////////////////////////////////////////////////////////
// Options
///////////////////////////////////////////////////////////////////////////////

// DecodeOptions decodes the options of a custom literal into out, which must
// be a pointer to a struct or map. Struct fields are matched by their
// `mapstructure` tag. Unknown options are an error.
func DecodeOptions(options map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("error creating options decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return fmt.Errorf("error decoding options: %w", err)
	}
	return nil
}
