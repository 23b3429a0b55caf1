package llm

import (
	"strings"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// BuildExtractionPrompt lists every distinct field key with its description
// and expected value shape exactly once, then asks for a bare JSON object.
// With duplicate keys the last definition is the one described.
func BuildExtractionPrompt(cfg entity.ParserConfig) string {
	var fields strings.Builder
	for _, key := range cfg.Keys() {
		f, _ := cfg.FieldByKey(key)
		fields.WriteString(`"`)
		fields.WriteString(key)
		fields.WriteString(`": `)
		fields.WriteString(strings.TrimSpace(f.Description))
		fields.WriteString(" (")
		fields.WriteString(shapeLabel(f.Type))
		if f.Required {
			fields.WriteString(", required")
		}
		fields.WriteString(")\n")
	}

	parts := []string{
		"Analyze the attached PDF document and extract the following fields. Return them as one JSON object.",
		"",
		"Fields:",
		strings.TrimRight(fields.String(), "\n"),
		"",
		"Rules:",
		"- Use exactly the keys listed above and no others.",
		"- Array fields must be JSON arrays of strings.",
		"- Number fields must be JSON numbers without units, currency symbols or thousands separators.",
		"- Boolean fields must be true or false.",
		"- Date fields must be strings formatted as YYYY-MM-DD.",
		"- Use null when a value cannot be found in the document.",
		"Important: return only the JSON object, without any explanation or commentary.",
	}
	return strings.Join(parts, "\n")
}

func shapeLabel(t constants.FieldType) string {
	switch t {
	case constants.FieldTextList:
		return "array"
	case constants.FieldNumber:
		return "number"
	case constants.FieldBoolean:
		return "boolean"
	case constants.FieldDate:
		return "date"
	default:
		return "text"
	}
}
