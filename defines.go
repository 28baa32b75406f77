package jsonfields

// constants for the discriminant keys of object shaped schema literals
const (
	AdvancedTypeTagKey = "$"
	FieldTagKey        = "?"
	CustomNameKey      = "custom"
)

// constants for the "$" discriminant values of advanced schema literals
const (
	StringTag   = "string"
	AnyOfTag    = "anyOf"
	TupleTag    = "tuple"
	ArrayTag    = "array"
	ObjectTag   = "object"
	OptionalTag = "optional"
	CustomTag   = "custom"
)

// constants for the members of advanced and field schema literals
const (
	RequireFilledKey = "requireFilled"
	MinLengthKey     = "minLength"
	MaxLengthKey     = "maxLength"
	VariantsKey      = "variants"
	ItemsKey         = "items"
	ObjectKey        = "object"
	TypeKey          = "type"
	LabelKey         = "label"
	HintKey          = "hint"
)

// Mime Type constants for content types accepted by the HTTP adapter.
const (
	ContentTypeApplicationJSON string = "application/json"
	ContentTypeDelimiter              = ";"
	ContentTypeJSONSuffix             = "+json"
)
