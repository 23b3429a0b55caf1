package export

import (
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// SchemaLookup resolves a schema id while reading an export back.
type SchemaLookup func(id string) (entity.ParserConfig, bool)

// JSON writes the records as a 2-space indented array.
func JSON(records []*entity.Record) ([]byte, error) {
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json export: %w", err)
	}
	return b, nil
}

// DecodeJSON reads a JSON export back. When lookup knows a record's schema the
// values are re-shaped by it, so dates come back as dates.
func DecodeJSON(data []byte, lookup SchemaLookup) ([]*entity.Record, error) {
	var records []*entity.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("json import: %w", err)
	}
	conformAll(records, lookup)
	return records, nil
}

func conformAll(records []*entity.Record, lookup SchemaLookup) {
	if lookup == nil {
		return
	}
	for _, r := range records {
		if cfg, ok := lookup(r.SchemaID); ok {
			entity.ConformRecord(cfg, r)
		}
	}
}
