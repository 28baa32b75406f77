package jsonfields

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/google/cel-go/cel"
	"github.com/tidwall/gjson"
)

// Names of the custom validators registered by default.
const (
	PatternValidatorName = "pattern"
	EnumValidatorName    = "enum"
	CELValidatorName     = "cel"
)

var (
	ErrPatternMismatch   = errors.New("string does not match pattern")
	ErrNotInEnum         = errors.New("value is not one of the allowed values")
	ErrExpressionFailed  = errors.New("value does not satisfy expression")
	ErrMissingOption     = errors.New("missing required option")
	ErrExpressionNotBool = errors.New("expression does not evaluate to a boolean")
)

///////////////////////////////////////////////////////////////////////////////
// pattern
///////////////////////////////////////////////////////////////////////////////

type patternOptions struct {
	Pattern string `mapstructure:"pattern"`
}

// PatternValidator accepts strings matching a regular expression.
type PatternValidator struct {
	re *regexp.Regexp
}

// NewPatternValidator builds a PatternValidator from {"pattern": "<regexp>"}.
func NewPatternValidator(options map[string]any) (Validator, error) {
	var opts patternOptions
	if err := DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Pattern == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingOption, "pattern")
	}

	re, err := regexp.Compile(opts.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return PatternValidator{re: re}, nil
}

func (v PatternValidator) Validate(value gjson.Result) error {
	if kindOf(value) != kindString {
		return ErrNotAString
	}
	if !v.re.MatchString(value.Str) {
		return fmt.Errorf("%w: %q does not match %q", ErrPatternMismatch, value.Str, v.re.String())
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// enum
///////////////////////////////////////////////////////////////////////////////

type enumOptions struct {
	Values []any `mapstructure:"values"`
}

// EnumValidator accepts values equal, as JSON, to one of a fixed list.
type EnumValidator struct {
	values []any
}

// NewEnumValidator builds an EnumValidator from {"values": [...]}.
func NewEnumValidator(options map[string]any) (Validator, error) {
	var opts enumOptions
	if err := DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if len(opts.Values) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingOption, "values")
	}

	values := make([]any, len(opts.Values))
	for i, raw := range opts.Values {
		normalized, err := normalizeJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("enum value %d: %w", i, err)
		}
		values[i] = normalized
	}
	return EnumValidator{values: values}, nil
}

func (v EnumValidator) Validate(value gjson.Result) error {
	candidate := value.Value()
	for _, allowed := range v.values {
		if reflect.DeepEqual(candidate, allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotInEnum, rawText(value))
}

// normalizeJSON converts v to the representation gjson.Result.Value uses, so
// that 1 and 1.0 compare equal.
func normalizeJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return gjson.ParseBytes(data).Value(), nil
}

///////////////////////////////////////////////////////////////////////////////
// cel
///////////////////////////////////////////////////////////////////////////////

type celOptions struct {
	Expression string `mapstructure:"expression"`
}

// CELValidator accepts values for which a boolean CEL expression over the
// variable `value` is true. JSON numbers are doubles, so compare them with
// double literals such as `value > 10.0`.
type CELValidator struct {
	expression string
	program    cel.Program
}

// NewCELValidator builds a CELValidator from {"expression": "<cel>"}.
func NewCELValidator(options map[string]any) (Validator, error) {
	var opts celOptions
	if err := DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Expression == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingOption, "expression")
	}

	env, err := cel.NewEnv(cel.Variable("value", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}
	ast, iss := env.Compile(opts.Expression)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("error compiling expression: %w", iss.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error building program: %w", err)
	}
	return CELValidator{expression: opts.Expression, program: program}, nil
}

func (v CELValidator) Validate(value gjson.Result) error {
	out, _, err := v.program.Eval(map[string]any{"value": value.Value()})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrExpressionFailed, v.expression, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return fmt.Errorf("%w: %s", ErrExpressionNotBool, v.expression)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrExpressionFailed, v.expression)
	}
	return nil
}
