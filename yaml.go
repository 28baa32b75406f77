package jsonfields

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a schema literal written in YAML. The document is
// converted to JSON first, so the literal grammar is the same.
func (d *Decoder) DecodeYAML(data []byte) (SchemaType, error) {
	literal, err := yamlToJSON(data)
	if err != nil {
		return nil, &LiteralError{Err: err}
	}
	return d.Decode(literal)
}

// ParseSchemaTypeYAML decodes a YAML schema literal with the default
// registry.
func ParseSchemaTypeYAML(data []byte) (SchemaType, error) {
	return _gDecoder.DecodeYAML(data)
}

// ValidateYAML parses data as a YAML document and validates it against
// schema as if it were the equivalent JSON value.
func ValidateYAML(schema SchemaType, data []byte) error {
	candidate, err := yamlToJSON(data)
	if err != nil {
		return err
	}
	return ValidateBytes(schema, candidate)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshaling YAML data: %w", err)
	}

	normalized, err := normalizeYAML(doc)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("error converting YAML to JSON: %w", err)
	}
	return out, nil
}

// normalizeYAML rewrites the generic YAML representation into one
// encoding/json accepts: mappings get string keys.
func normalizeYAML(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			n, err := normalizeYAML(value)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			n, err := normalizeYAML(value)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(key)] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			n, err := normalizeYAML(value)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}
