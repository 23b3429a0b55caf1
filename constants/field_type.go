package constants

import (
	"fmt"
	"strings"
)

// FieldType is the semantic type of one schema field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextList FieldType = "text-list"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldDate     FieldType = "date"
)

var allFieldTypes = []FieldType{
	FieldText,
	FieldTextList,
	FieldNumber,
	FieldBoolean,
	FieldDate,
}

func FieldTypes() []string {
	result := make([]string, len(allFieldTypes))
	for i, ft := range allFieldTypes {
		result[i] = string(ft)
	}
	return result
}

// CanonicalFieldType maps user or config input onto a FieldType.
// The browser-era spellings ("string", "string[]") are accepted as synonyms.
func CanonicalFieldType(input string) (FieldType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return FieldText, false
	}

	for _, ft := range allFieldTypes {
		if string(ft) == normalized {
			return ft, true
		}
	}

	synonyms := map[string]FieldType{
		"string":   FieldText,
		"str":      FieldText,
		"string[]": FieldTextList,
		"[]string": FieldTextList,
		"list":     FieldTextList,
		"array":    FieldTextList,
		"int":      FieldNumber,
		"float":    FieldNumber,
		"decimal":  FieldNumber,
		"bool":     FieldBoolean,
		"datetime": FieldDate,
	}
	if ft, ok := synonyms[normalized]; ok {
		return ft, true
	}
	return FieldText, false
}

// IsList reports whether values of this type are arrays.
func (t FieldType) IsList() bool {
	return t == FieldTextList
}

// UnmarshalText lets JSON and YAML inputs use any accepted spelling.
func (t *FieldType) UnmarshalText(text []byte) error {
	ft, ok := CanonicalFieldType(string(text))
	if !ok {
		return fmt.Errorf("unknown field type %q", string(text))
	}
	*t = ft
	return nil
}
