package jsonfields

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

///////////////////////////////////////////////////////////////////////////////
// JSON kinds
///////////////////////////////////////////////////////////////////////////////

// jsonKind is the structural kind of a candidate value.
type jsonKind uint8

const (
	kindNull jsonKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// kindOf classifies value. A result that does not exist is treated as null.
func kindOf(value gjson.Result) jsonKind {
	switch value.Type {
	case gjson.True, gjson.False:
		return kindBool
	case gjson.Number:
		return kindNumber
	case gjson.String:
		return kindString
	case gjson.JSON:
		if value.IsArray() {
			return kindArray
		}
		return kindObject
	default:
		return kindNull
	}
}

// rawText returns value as compact diagnostic JSON text.
func rawText(value gjson.Result) string {
	raw := strings.TrimSpace(value.Raw)
	if raw == "" {
		return "null"
	}
	return raw
}

// arrayItems returns the elements of an array value in order.
func arrayItems(value gjson.Result) []gjson.Result {
	var items []gjson.Result
	value.ForEach(func(_, item gjson.Result) bool {
		items = append(items, item)
		return true
	})
	return items
}

// objectMember looks up key in an object value without interpreting key as a
// gjson path, so keys containing '.', '*' or '?' are matched literally.
func objectMember(object gjson.Result, key string) (gjson.Result, bool) {
	var (
		member gjson.Result
		found  bool
	)
	object.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			// later duplicates win, as with encoding/json
			member, found = v, true
		}
		return true
	})
	return member, found
}

// objectMembers indexes the members of an object value by literal key in a
// single pass. Later duplicates win.
func objectMembers(object gjson.Result) map[string]gjson.Result {
	members := make(map[string]gjson.Result)
	object.ForEach(func(k, v gjson.Result) bool {
		members[k.Str] = v
		return true
	})
	return members
}

///////////////////////////////////////////////////////////////////////////////
// Integer helpers
///////////////////////////////////////////////////////////////////////////////

// integer is an exact integral JSON number split into sign and magnitude so
// that the whole u64 and i64 ranges can be represented.
type integer struct {
	negative  bool
	magnitude uint64
}

// parseInteger reads the raw text of a number as an integer. Numbers written
// with a fraction or an exponent, and integers beyond 64 bits of magnitude,
// are not integers.
func parseInteger(raw string) (integer, bool) {
	raw = strings.TrimSpace(raw)
	negative := strings.HasPrefix(raw, "-")
	digits := strings.TrimPrefix(raw, "-")
	if digits == "" || strings.ContainsAny(digits, ".eE+-") {
		return integer{}, false
	}

	magnitude, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return integer{}, false
	}

	if magnitude == 0 {
		negative = false
	}
	return integer{negative: negative, magnitude: magnitude}, true
}

// fitsUnsigned reports whether i lies in [0, max].
func (i integer) fitsUnsigned(max uint64) bool {
	return !i.negative && i.magnitude <= max
}

// fitsSigned reports whether i lies in the two's complement range of a
// signed integer with the given bit size.
func (i integer) fitsSigned(bits int) bool {
	limit := uint64(1) << (bits - 1)
	if i.negative {
		return i.magnitude <= limit
	}
	return i.magnitude < limit
}

// signedBits maps the signed basic integer types to their bit sizes.
func signedBits(t BasicType) int {
	switch t {
	case I8:
		return 8
	case I16:
		return 16
	case I32:
		return 32
	default:
		return 64
	}
}

// unsignedMax maps the unsigned basic integer types to their maximum value.
func unsignedMax(t BasicType) uint64 {
	switch t {
	case U8:
		return math.MaxUint8
	case U16:
		return math.MaxUint16
	case U32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}
