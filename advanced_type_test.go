package jsonfields

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvancedStringType(t *testing.T) {
	t.Run("DefaultRequiresFilled", func(t *testing.T) {
		st := NewAdvancedStringType()
		err := st.Validate(j(`""`))

		var stringErr *StringValidationError
		require.ErrorAs(t, err, &stringErr)
		assert.Equal(t, ErrRequireFilled, stringErr.Reason)
		assert.NoError(t, st.Validate(j(`"a"`)))
	})

	t.Run("NotFilled", func(t *testing.T) {
		assert.NoError(t, AdvancedStringType{}.Validate(j(`""`)))
	})

	t.Run("NotAString", func(t *testing.T) {
		for _, v := range []string{"null", "10", "[]", "{}", "true"} {
			assert.ErrorIs(t, NewAdvancedStringType().Validate(j(v)), ErrNotAString, v)
		}
	})

	t.Run("MinLength", func(t *testing.T) {
		st := NewAdvancedStringType().WithMinLength(5)
		err := st.Validate(j(`"abcd"`))
		assert.ErrorIs(t, err, ErrStringTooShort)

		var stringErr *StringValidationError
		require.ErrorAs(t, err, &stringErr)
		assert.Equal(t, 4, stringErr.Length)
		assert.Equal(t, 5, stringErr.Limit)

		assert.NoError(t, st.Validate(j(`"abcde"`)))
		assert.NoError(t, st.Validate(j(`"abcdef"`)))
	})

	t.Run("MaxLength", func(t *testing.T) {
		st := NewAdvancedStringType().WithMaxLength(5)
		assert.ErrorIs(t, st.Validate(j(`"abcdef"`)), ErrStringTooLong)
		assert.NoError(t, st.Validate(j(`"abcde"`)))
		assert.NoError(t, st.Validate(j(`"a"`)))
	})

	t.Run("CheckOrder", func(t *testing.T) {
		st := NewAdvancedStringType().WithMinLength(3).WithMaxLength(1)
		assert.ErrorIs(t, st.Validate(j(`""`)), ErrRequireFilled)
		assert.ErrorIs(t, st.Validate(j(`"ab"`)), ErrStringTooLong)

		st.RequireFilled = false
		assert.ErrorIs(t, st.Validate(j(`""`)), ErrStringTooShort)
	})

	t.Run("LengthIsBytes", func(t *testing.T) {
		st := NewAdvancedStringType().WithMaxLength(2)
		assert.ErrorIs(t, st.Validate(j(`"é€"`)), ErrStringTooLong)
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "filled string", NewAdvancedStringType().String())
		assert.Equal(t, "string", AdvancedStringType{}.String())
	})
}

func TestAnyOfType(t *testing.T) {
	anyOf := NewAnyOfType(String, Number)

	t.Run("Matches", func(t *testing.T) {
		assert.NoError(t, anyOf.Validate(j(`""`)))
		assert.NoError(t, anyOf.Validate(j(`10`)))
	})

	t.Run("NoMatch", func(t *testing.T) {
		err := anyOf.Validate(j(`null`))

		var anyOfErr *AnyOfTypeError
		require.ErrorAs(t, err, &anyOfErr)
		assert.Equal(t, []SchemaType{String, Number}, anyOfErr.Variants)
		assert.ErrorIs(t, err, ErrNoMatchingVariant)
		assert.EqualError(t, err, "no matching variant, expected one of: string, number")
	})

	t.Run("Nested", func(t *testing.T) {
		nested := NewAnyOfType(NewAnyOfType(Boolean, Null), NewTupleType(String, String))
		assert.NoError(t, nested.Validate(j(`null`)))
		assert.NoError(t, nested.Validate(j(`["a", "b"]`)))

		err := nested.Validate(j(`["a"]`))
		var anyOfErr *AnyOfTypeError
		require.ErrorAs(t, err, &anyOfErr)
		assert.Len(t, anyOfErr.Variants, 2)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.ErrorIs(t, AnyOfType{}.Validate(j(`1`)), ErrNoMatchingVariant)
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "any of: string, number", anyOf.String())
	})
}

func TestTupleType(t *testing.T) {
	tuple := NewTupleType(String, Number)

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, tuple.Validate(j(`["", 10]`)))
	})

	t.Run("ItemError", func(t *testing.T) {
		err := tuple.Validate(j(`["", ""]`))

		var tupleErr *TupleTypeError
		require.ErrorAs(t, err, &tupleErr)
		assert.Equal(t, 1, tupleErr.Index)
		require.NotNil(t, tupleErr.Cause)
		require.NotNil(t, tupleErr.Cause.Basic)
		assert.Equal(t, Number, tupleErr.Cause.Basic.Expected)
		assert.ErrorIs(t, err, ErrIncorrectType)
	})

	t.Run("IncorrectLength", func(t *testing.T) {
		var tupleErr *TupleTypeError

		require.ErrorAs(t, tuple.Validate(j(`[""]`)), &tupleErr)
		assert.Equal(t, ErrIncorrectLength, tupleErr.Reason)
		assert.Equal(t, 1, tupleErr.Actual)
		assert.Equal(t, 2, tupleErr.Expected)

		require.ErrorAs(t, tuple.Validate(j(`["", 10, ""]`)), &tupleErr)
		assert.Equal(t, 3, tupleErr.Actual)
		assert.Equal(t, 2, tupleErr.Expected)
	})

	t.Run("NotAnArray", func(t *testing.T) {
		assert.ErrorIs(t, tuple.Validate(j(`{}`)), ErrNotAnArray)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, TupleType{}.Validate(j(`[]`)))
		assert.ErrorIs(t, TupleType{}.Validate(j(`[1]`)), ErrIncorrectLength)
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "tuple with items: string, number", tuple.String())
	})
}

func TestArrayType(t *testing.T) {
	t.Run("RequireFilled", func(t *testing.T) {
		array := NewArrayType(String)
		assert.ErrorIs(t, array.Validate(j(`[]`)), ErrRequireFilled)
		assert.NoError(t, array.Validate(j(`[""]`)))
	})

	t.Run("NotRequireFilled", func(t *testing.T) {
		assert.NoError(t, ArrayType{Items: String}.Validate(j(`[]`)))
	})

	t.Run("NotAnArray", func(t *testing.T) {
		assert.ErrorIs(t, NewArrayType(String).Validate(j(`""`)), ErrNotAnArray)
	})

	t.Run("FirstFailingItem", func(t *testing.T) {
		err := NewArrayType(Number).Validate(j(`[1, 2, "x", "y"]`))

		var arrayErr *ArrayTypeError
		require.ErrorAs(t, err, &arrayErr)
		assert.Equal(t, 2, arrayErr.Index)
		assert.Equal(t, `"x"`, arrayErr.Cause.Basic.Value)
		assert.EqualError(t, err, `array item 2: incorrect type provided, expected 'number' but got '"x"'`)
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "array with items: filled string", NewArrayType(FilledString).String())
	})
}

func TestObjectType(t *testing.T) {
	object := NewObjectType(map[string]SchemaType{"name": String, "age": Number})

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, object.Validate(j(`{"name": "Alice", "age": 42}`)))
	})

	t.Run("UnknownKeysAccepted", func(t *testing.T) {
		assert.NoError(t, object.Validate(j(`{"name": "Alice", "age": 42, "admin": true}`)))
	})

	t.Run("NotAnObject", func(t *testing.T) {
		assert.ErrorIs(t, object.Validate(j(`""`)), ErrNotAnObject)
		assert.ErrorIs(t, object.Validate(j(`[]`)), ErrNotAnObject)
	})

	t.Run("MissingKey", func(t *testing.T) {
		err := object.Validate(j(`{"age": 42}`))

		var objectErr *ObjectTypeError
		require.ErrorAs(t, err, &objectErr)
		assert.Equal(t, ErrMissingObjectKey, objectErr.Reason)
		assert.Equal(t, "name", objectErr.Key)
		assert.EqualError(t, err, "missing object key: 'name'")
	})

	t.Run("InvalidValue", func(t *testing.T) {
		err := object.Validate(j(`{"name": 1, "age": 42}`))

		var objectErr *ObjectTypeError
		require.ErrorAs(t, err, &objectErr)
		assert.Equal(t, "name", objectErr.Key)
		assert.ErrorIs(t, err, ErrIncorrectType)
	})

	t.Run("SpecialCharacterKeys", func(t *testing.T) {
		dotted := NewObjectType(map[string]SchemaType{"a.b": Number})
		assert.NoError(t, dotted.Validate(j(`{"a.b": 1}`)))
		assert.ErrorIs(t, dotted.Validate(j(`{"a": {"b": 1}}`)), ErrMissingObjectKey)
	})

	t.Run("LaterDuplicateWins", func(t *testing.T) {
		assert.NoError(t, object.Validate(j(`{"name": 1, "name": "Alice", "age": 42}`)))
		assert.ErrorIs(t, object.Validate(j(`{"name": "Alice", "age": 42, "age": "x"}`)), ErrIncorrectType)
	})

	t.Run("ManyMembers", func(t *testing.T) {
		declared := make(map[string]SchemaType)
		candidate := make(map[string]any)
		for i := 0; i < 500; i++ {
			key := fmt.Sprintf("k%03d", i)
			declared[key] = U16
			candidate[key] = i
		}
		candidate["k499"] = "x"

		err := ValidateValue(NewObjectType(declared), candidate)
		var schemaErr *SchemaTypeValidationError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"k499"}, schemaErr.Path())
	})

	t.Run("MissingOptionalEndsCheck", func(t *testing.T) {
		withOptional := NewObjectType(map[string]SchemaType{
			"a": NewOptionalType(String),
			"b": Number,
		})

		// "a" sorts first, so its absence ends the check before "b" is visited.
		assert.NoError(t, withOptional.Validate(j(`{}`)))
		assert.NoError(t, withOptional.Validate(j(`{}`)))

		assert.ErrorIs(t, withOptional.Validate(j(`{"a": null}`)), ErrMissingObjectKey)
		assert.ErrorIs(t, withOptional.Validate(j(`{"a": 1, "b": 1}`)), ErrIncorrectType)
	})

	t.Run("RequiredKeyVisitedFirst", func(t *testing.T) {
		withOptional := NewObjectType(map[string]SchemaType{
			"a": Number,
			"b": NewOptionalType(String),
		})
		assert.ErrorIs(t, withOptional.Validate(j(`{}`)), ErrMissingObjectKey)
		assert.NoError(t, withOptional.Validate(j(`{"a": 1}`)))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "object", object.String())
	})
}

func TestOptionalType(t *testing.T) {
	optional := NewOptionalType(String)

	t.Run("Null", func(t *testing.T) {
		assert.NoError(t, optional.Validate(j(`null`)))
	})

	t.Run("Value", func(t *testing.T) {
		assert.NoError(t, optional.Validate(j(`"x"`)))
	})

	t.Run("ForwardsInnerError", func(t *testing.T) {
		err := optional.Validate(j(`10`))

		var schemaErr *SchemaTypeValidationError
		require.ErrorAs(t, err, &schemaErr)
		require.NotNil(t, schemaErr.Basic)
		assert.Equal(t, String, schemaErr.Basic.Expected)
		assert.Equal(t, String.Validate(j(`10`)).Error(), err.Error())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "optional string", optional.String())
	})
}

func TestAdvancedTypeDispatch(t *testing.T) {
	tests := []struct {
		name    string
		schema  AdvancedType
		value   string
		tag     string
		boxedIn func(*AdvancedTypeValidationError) bool
	}{
		{"String", NewAdvancedStringType(), `1`, StringTag,
			func(e *AdvancedTypeValidationError) bool { return e.String != nil }},
		{"AnyOf", NewAnyOfType(Null), `1`, AnyOfTag,
			func(e *AdvancedTypeValidationError) bool { return e.AnyOf != nil }},
		{"Tuple", NewTupleType(Null), `1`, TupleTag,
			func(e *AdvancedTypeValidationError) bool { return e.Tuple != nil }},
		{"Array", NewArrayType(Null), `1`, ArrayTag,
			func(e *AdvancedTypeValidationError) bool { return e.Array != nil }},
		{"Object", NewObjectType(nil), `1`, ObjectTag,
			func(e *AdvancedTypeValidationError) bool { return e.Object != nil }},
		{"Optional", NewOptionalType(Null), `1`, OptionalTag,
			func(e *AdvancedTypeValidationError) bool { return e.Optional != nil }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.tag, test.schema.Tag())

			err := ValidateAdvanced(test.schema, j(test.value))
			var advErr *AdvancedTypeValidationError
			require.ErrorAs(t, err, &advErr)
			assert.True(t, test.boxedIn(advErr))

			rootErr := Validate(test.schema, j(test.value))
			var schemaErr *SchemaTypeValidationError
			require.ErrorAs(t, rootErr, &schemaErr)
			require.NotNil(t, schemaErr.Advanced)
			assert.Equal(t, advErr, schemaErr.Advanced)
		})
	}
}

func TestAdvancedTypePointers(t *testing.T) {
	t.Run("Dispatch", func(t *testing.T) {
		array := NewArrayType(String)
		optional := NewOptionalType(U8)
		schemas := []AdvancedType{
			&array,
			&optional,
			&AdvancedStringType{RequireFilled: true},
			&AnyOfType{Variants: []SchemaType{Null}},
			&TupleType{Items: []SchemaType{Null}},
			&ObjectType{Object: map[string]SchemaType{}},
		}

		for _, schema := range schemas {
			assert.NotPanics(t, func() { _ = ValidateAdvanced(schema, j(`"x"`)) })
		}

		err := ValidateAdvanced(&array, j(`[]`))
		assert.ErrorIs(t, err, ErrRequireFilled)
		assert.Equal(t, ValidateAdvanced(array, j(`[]`)), err)

		assert.NoError(t, ValidateAdvanced(&optional, j(`null`)))
		assert.ErrorIs(t, ValidateAdvanced(&optional, j(`256`)), ErrNotAU8)
	})

	t.Run("MissingOptionalKey", func(t *testing.T) {
		schema := ObjectShorthand{"a": &OptionalType{Type: String}}
		assert.NoError(t, Validate(schema, j(`{}`)))
		assert.NoError(t, Validate(NewObjectType(schema), j(`{}`)))
	})

	t.Run("NilPointerPanics", func(t *testing.T) {
		var array *ArrayType
		assert.PanicsWithValue(t, "jsonfields: nil *jsonfields.ArrayType in schema tree", func() {
			_ = ValidateAdvanced(array, j(`[]`))
		})

		var optional *OptionalType
		schema := ObjectShorthand{"a": optional}
		assert.False(t, isOptional(optional))
		assert.ErrorIs(t, Validate(schema, j(`{}`)), ErrMissingObjectKey)
	})
}
