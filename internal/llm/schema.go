package llm

import (
	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the object a model should return for cfg. Every field
// may be null; required fields must be present. Object lists are tolerated for
// any field.
func BuildRecordJSONSchema(cfg entity.ParserConfig) map[string]any {
	props := map[string]any{}
	var required []string
	for _, key := range cfg.Keys() {
		f, _ := cfg.FieldByKey(key)
		props[key] = fieldProp(f)
		if f.Required {
			required = append(required, key)
		}
	}

	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldProp(f entity.Field) map[string]any {
	objectList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "object"},
	}
	var shape map[string]any
	switch f.Type {
	case constants.FieldTextList:
		shape = map[string]any{
			"type":  "array",
			"items": map[string]any{"type": []any{"string", "object"}},
		}
	case constants.FieldNumber:
		shape = map[string]any{"type": "number"}
	case constants.FieldBoolean:
		shape = map[string]any{"type": "boolean"}
	case constants.FieldDate:
		shape = map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
	default:
		shape = map[string]any{"type": "string"}
	}
	return map[string]any{
		"description": f.Description,
		"anyOf": []any{
			shape,
			objectList,
			map[string]any{"type": "null"},
		},
	}
}
