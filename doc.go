// Package jsonfields validates untyped JSON values against schemas that are
// themselves data.
//
// A schema is a tree of [SchemaType] nodes. It can be composed in code or
// decoded from a JSON (or YAML) schema literal:
//
//	"string", "filledString", "u8", "uuid", ...       a BasicType
//	{"$": "string", "minLength": 2, "maxLength": 10}  an AdvancedStringType
//	{"$": "anyOf", "variants": [...]}                 an AnyOfType
//	{"$": "tuple", "items": [...]}                    a TupleType
//	{"$": "array", "items": ..., "requireFilled": b}  an ArrayType
//	{"$": "object", "object": {...}}                  an ObjectType
//	{"$": "optional", "type": ...}                    an OptionalType
//	{"$": "custom", "custom": "name", ...options}     a CustomType
//	{"?": ..., "label": "Name", "hint": "..."}        a Field
//	{"key": ..., ...}                                 an object shorthand
//	[...]                                             an array shorthand (one item)
//	[..., ...]                                        a tuple shorthand
//
// The array shorthand accepts empty arrays, while {"$": "array"} and
// {"$": "string"} require a filled value unless "requireFilled" is false.
//
// Candidates are [gjson.Result] values. Validation is fail-fast: the first
// violation is returned as a *[SchemaTypeValidationError] whose nested fields
// mirror the schema down to the failing node. Every error unwraps to one of
// the package's Err sentinels, so errors.Is works on any level:
//
//	schema := jsonfields.MustParseSchemaType(`{"name": "filledString", "tags": ["string"]}`)
//	err := jsonfields.ValidateString(schema, `{"name": "", "tags": []}`)
//	errors.Is(err, jsonfields.ErrEmptyString) // true
//
// Object schemas accept undeclared keys. Keys are checked in sorted order and a
// missing key whose schema is an OptionalType ends the object check
// successfully.
//
// Custom validators are plugged in with [Custom] in code, or by name through a
// [ValidatorRegistry] when decoding. The default registry knows the "pattern",
// "enum" and "cel" validators.
//
// [Middleware] and [ValidateRequest] apply a schema to HTTP request bodies.
package jsonfields
