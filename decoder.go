package jsonfields

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var (
	ErrInvalidLiteral = errors.New("invalid schema literal")
)

// LiteralError reports a schema literal that does not decode. Path locates
// the offending member, e.g. "object.tags.0"; it is empty for the root.
type LiteralError struct {
	Path string
	Err  error
}

func (e *LiteralError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", ErrInvalidLiteral, e.Err)
	}
	return fmt.Sprintf("%v at %q: %v", ErrInvalidLiteral, e.Path, e.Err)
}

func (e *LiteralError) Unwrap() []error {
	return []error{ErrInvalidLiteral, e.Err}
}

func literalErrorf(path string, format string, args ...any) *LiteralError {
	return &LiteralError{Path: path, Err: fmt.Errorf(format, args...)}
}

///////////////////////////////////////////////////////////////////////////////
// Decoder
///////////////////////////////////////////////////////////////////////////////

// Decoder turns schema literals into SchemaType trees.
//
// An untagged literal is resolved in a fixed order. A string names a
// BasicType. An object is tried as a Field ("?" and "label"), then as an
// advanced type ("$" with a known tag and valid members), then as an object
// shorthand whose members are all literals. An array with exactly one
// element is an array shorthand, any other array a tuple shorthand.
//
// A Decoder is safe for concurrent use.
type Decoder struct {
	registry *ValidatorRegistry
	cache    *SchemaCache
}

type DecoderOpts struct {
	// Registry resolves custom literals. Nil means the default registry.
	Registry *ValidatorRegistry
	// DisableCache turns off caching of decoded trees by literal text.
	DisableCache bool
	// CacheSize bounds the number of cached literals. Zero means
	// DefaultSchemaCacheSize.
	CacheSize int
}

func NewDecoder(opts DecoderOpts) *Decoder {
	d := &Decoder{registry: opts.Registry}
	if !opts.DisableCache {
		d.cache = NewSchemaCache(opts.CacheSize)
	}
	return d
}

func (d *Decoder) validators() *ValidatorRegistry {
	if d.registry == nil {
		return _gValidatorRegistry
	}
	return d.registry
}

// Decode decodes a JSON schema literal.
func (d *Decoder) Decode(data []byte) (SchemaType, error) {
	if !gjson.ValidBytes(data) {
		return nil, &LiteralError{Err: ErrInvalidJSON}
	}
	return d.DecodeResult(gjson.ParseBytes(data))
}

// DecodeString decodes a JSON schema literal.
func (d *Decoder) DecodeString(data string) (SchemaType, error) {
	if !gjson.Valid(data) {
		return nil, &LiteralError{Err: ErrInvalidJSON}
	}
	return d.DecodeResult(gjson.Parse(data))
}

// DecodeResult decodes an already parsed schema literal.
func (d *Decoder) DecodeResult(literal gjson.Result) (SchemaType, error) {
	if d.cache == nil {
		return d.decode(literal, "")
	}
	key := string(pretty.Ugly([]byte(literal.Raw)))
	return d.cache.GetOrCreate(key, func() (SchemaType, error) {
		return d.decode(literal, "")
	})
}

func (d *Decoder) decode(literal gjson.Result, path string) (SchemaType, error) {
	switch kindOf(literal) {
	case kindString:
		basic, ok := ParseBasicType(literal.Str)
		if !ok {
			return nil, literalErrorf(path, "unknown basic type %q", literal.Str)
		}
		return basic, nil
	case kindArray:
		return d.decodeArray(literal, path)
	case kindObject:
		return d.decodeObject(literal, path)
	default:
		return nil, literalErrorf(path, "expected a string, array or object but got %s", rawText(literal))
	}
}

func (d *Decoder) decodeArray(literal gjson.Result, path string) (SchemaType, error) {
	items := arrayItems(literal)
	if len(items) == 1 {
		item, err := d.decode(items[0], joinPath(path, "0"))
		if err != nil {
			return nil, err
		}
		return ArrayShorthand{Items: item}, nil
	}

	tuple, err := d.decodeList(items, path)
	if err != nil {
		return nil, err
	}
	return TupleShorthand(tuple), nil
}

func (d *Decoder) decodeList(items []gjson.Result, path string) ([]SchemaType, error) {
	schemas := make([]SchemaType, len(items))
	for i, item := range items {
		schema, err := d.decode(item, joinPath(path, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		schemas[i] = schema
	}
	return schemas, nil
}

func (d *Decoder) decodeObject(literal gjson.Result, path string) (SchemaType, error) {
	var tagged error

	if _, ok := objectMember(literal, FieldTagKey); ok {
		field, err := d.decodeField(literal, path)
		if err == nil {
			return field, nil
		}
		tagged = err
	}

	if tag, ok := objectMember(literal, AdvancedTypeTagKey); ok && isAdvancedTag(tag) {
		advanced, err := d.decodeAdvanced(tag.Str, literal, path)
		if err == nil {
			return advanced, nil
		}
		if tagged == nil {
			tagged = err
		}
	}

	object, err := d.decodeMembers(literal, path)
	if err != nil {
		if tagged != nil {
			return nil, tagged
		}
		return nil, err
	}
	return ObjectShorthand(object), nil
}

func (d *Decoder) decodeMembers(literal gjson.Result, path string) (map[string]SchemaType, error) {
	object := make(map[string]SchemaType)
	var err error
	literal.ForEach(func(key, value gjson.Result) bool {
		var schema SchemaType
		schema, err = d.decode(value, joinPath(path, key.Str))
		if err != nil {
			return false
		}
		object[key.Str] = schema
		return true
	})
	if err != nil {
		return nil, err
	}
	return object, nil
}

func (d *Decoder) decodeField(literal gjson.Result, path string) (Field, error) {
	inner, _ := objectMember(literal, FieldTagKey)
	fieldType, err := d.decode(inner, joinPath(path, FieldTagKey))
	if err != nil {
		return Field{}, err
	}

	label, ok := objectMember(literal, LabelKey)
	if !ok {
		return Field{}, literalErrorf(path, "field is missing %q", LabelKey)
	}
	if kindOf(label) != kindString {
		return Field{}, literalErrorf(joinPath(path, LabelKey), "expected a string but got %s", rawText(label))
	}

	field := Field{Type: fieldType, Label: label.Str}
	if hint, ok := objectMember(literal, HintKey); ok && kindOf(hint) != kindNull {
		if kindOf(hint) != kindString {
			return Field{}, literalErrorf(joinPath(path, HintKey), "expected a string but got %s", rawText(hint))
		}
		field.Hint = &hint.Str
	}
	return field, nil
}

func isAdvancedTag(tag gjson.Result) bool {
	if kindOf(tag) != kindString {
		return false
	}
	switch tag.Str {
	case StringTag, AnyOfTag, TupleTag, ArrayTag, ObjectTag, OptionalTag, CustomTag:
		return true
	default:
		return false
	}
}

func (d *Decoder) decodeAdvanced(tag string, literal gjson.Result, path string) (SchemaType, error) {
	switch tag {
	case StringTag:
		return d.decodeAdvancedString(literal, path)
	case AnyOfTag:
		variants, err := d.requiredList(literal, VariantsKey, path)
		if err != nil {
			return nil, err
		}
		return AnyOfType{Variants: variants}, nil
	case TupleTag:
		items, err := d.requiredList(literal, ItemsKey, path)
		if err != nil {
			return nil, err
		}
		return TupleType{Items: items}, nil
	case ArrayTag:
		items, err := d.requiredSchema(literal, ItemsKey, path)
		if err != nil {
			return nil, err
		}
		requireFilled, err := optionalBool(literal, RequireFilledKey, true, path)
		if err != nil {
			return nil, err
		}
		return ArrayType{RequireFilled: requireFilled, Items: items}, nil
	case ObjectTag:
		member, ok := objectMember(literal, ObjectKey)
		if !ok {
			return nil, literalErrorf(path, "%s is missing %q", tag, ObjectKey)
		}
		if kindOf(member) != kindObject {
			return nil, literalErrorf(joinPath(path, ObjectKey), "expected an object but got %s", rawText(member))
		}
		object, err := d.decodeMembers(member, joinPath(path, ObjectKey))
		if err != nil {
			return nil, err
		}
		return ObjectType{Object: object}, nil
	case OptionalTag:
		inner, err := d.requiredSchema(literal, TypeKey, path)
		if err != nil {
			return nil, err
		}
		return OptionalType{Type: inner}, nil
	case CustomTag:
		return d.decodeCustom(literal, path)
	default:
		return nil, literalErrorf(path, "unknown advanced type %q", tag)
	}
}

func (d *Decoder) decodeAdvancedString(literal gjson.Result, path string) (SchemaType, error) {
	requireFilled, err := optionalBool(literal, RequireFilledKey, true, path)
	if err != nil {
		return nil, err
	}
	t := AdvancedStringType{RequireFilled: requireFilled}
	if t.MinLength, err = optionalLength(literal, MinLengthKey, path); err != nil {
		return nil, err
	}
	if t.MaxLength, err = optionalLength(literal, MaxLengthKey, path); err != nil {
		return nil, err
	}
	return t, nil
}

func (d *Decoder) decodeCustom(literal gjson.Result, path string) (SchemaType, error) {
	name, ok := objectMember(literal, CustomNameKey)
	if !ok {
		return nil, literalErrorf(path, "custom type is missing %q", CustomNameKey)
	}
	if kindOf(name) != kindString {
		return nil, literalErrorf(joinPath(path, CustomNameKey), "expected a string but got %s", rawText(name))
	}

	options := make(map[string]any)
	literal.ForEach(func(key, value gjson.Result) bool {
		if key.Str != AdvancedTypeTagKey && key.Str != CustomNameKey {
			options[key.Str] = value.Value()
		}
		return true
	})

	custom, err := d.validators().Build(name.Str, options)
	if err != nil {
		return nil, &LiteralError{Path: path, Err: err}
	}
	return custom, nil
}

func (d *Decoder) requiredSchema(literal gjson.Result, key, path string) (SchemaType, error) {
	member, ok := objectMember(literal, key)
	if !ok {
		return nil, literalErrorf(path, "missing %q", key)
	}
	return d.decode(member, joinPath(path, key))
}

func (d *Decoder) requiredList(literal gjson.Result, key, path string) ([]SchemaType, error) {
	member, ok := objectMember(literal, key)
	if !ok {
		return nil, literalErrorf(path, "missing %q", key)
	}
	if kindOf(member) != kindArray {
		return nil, literalErrorf(joinPath(path, key), "expected an array but got %s", rawText(member))
	}
	return d.decodeList(arrayItems(member), joinPath(path, key))
}

func optionalBool(literal gjson.Result, key string, def bool, path string) (bool, error) {
	member, ok := objectMember(literal, key)
	if !ok || kindOf(member) == kindNull {
		return def, nil
	}
	if kindOf(member) != kindBool {
		return false, literalErrorf(joinPath(path, key), "expected a boolean but got %s", rawText(member))
	}
	return member.Bool(), nil
}

func optionalLength(literal gjson.Result, key string, path string) (*int, error) {
	member, ok := objectMember(literal, key)
	if !ok || kindOf(member) == kindNull {
		return nil, nil
	}
	if kindOf(member) == kindNumber {
		if n, isInt := parseInteger(member.Raw); isInt && n.fitsUnsigned(math.MaxInt) {
			length := int(n.magnitude)
			return &length, nil
		}
	}
	return nil, literalErrorf(joinPath(path, key), "expected a non-negative integer but got %s", rawText(member))
}

func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}

///////////////////////////////////////////////////////////////////////////////
// Package Functions
///////////////////////////////////////////////////////////////////////////////

var _gDecoder = NewDecoder(DecoderOpts{})

// ParseSchemaType decodes a JSON schema literal with the default registry.
func ParseSchemaType(data []byte) (SchemaType, error) {
	return _gDecoder.Decode(data)
}

// ParseSchemaTypeString decodes a JSON schema literal with the default
// registry.
func ParseSchemaTypeString(data string) (SchemaType, error) {
	return _gDecoder.DecodeString(data)
}

// MustParseSchemaType is like ParseSchemaTypeString but panics on error. It
// is meant for literals known at compile time.
func MustParseSchemaType(data string) SchemaType {
	schema, err := ParseSchemaTypeString(data)
	if err != nil {
		panic(fmt.Sprintf("jsonfields: MustParseSchemaType(%q): %v", data, err))
	}
	return schema
}
