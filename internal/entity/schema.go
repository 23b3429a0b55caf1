package entity

import (
	"slices"
	"time"

	"github.com/joseph-ayodele/pdf-extractor/constants"
)

// Field is one named, typed extraction target.
type Field struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Key         string              `json:"key" yaml:"key"`
	Type        constants.FieldType `json:"type" yaml:"type"`
	Description string              `json:"description" yaml:"description"`
	Required    bool                `json:"required" yaml:"required"`
}

// ParserConfig is a named, ordered list of fields describing what to extract
// from a document.
type ParserConfig struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Fields    []Field   `json:"fields" yaml:"fields"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	IsDefault bool      `json:"isDefault" yaml:"isDefault"`
}

// FieldByKey returns the field registered under key. With duplicate keys the
// last definition wins.
func (c ParserConfig) FieldByKey(key string) (Field, bool) {
	for i := len(c.Fields) - 1; i >= 0; i-- {
		if c.Fields[i].Key == key {
			return c.Fields[i], true
		}
	}
	return Field{}, false
}

// Keys lists distinct field keys in schema order (first occurrence position).
func (c ParserConfig) Keys() []string {
	keys := make([]string, 0, len(c.Fields))
	seen := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		if _, ok := seen[f.Key]; ok {
			continue
		}
		seen[f.Key] = struct{}{}
		keys = append(keys, f.Key)
	}
	return keys
}

// DuplicateKeys reports keys declared by more than one field.
func (c ParserConfig) DuplicateKeys() []string {
	counts := make(map[string]int, len(c.Fields))
	var dups []string
	for _, f := range c.Fields {
		counts[f.Key]++
		if counts[f.Key] == 2 {
			dups = append(dups, f.Key)
		}
	}
	return dups
}

// Clone deep-copies the field list so callers cannot mutate registry state.
func (c ParserConfig) Clone() ParserConfig {
	c.Fields = slices.Clone(c.Fields)
	return c
}
