package export

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// packedRecord keeps field order, which a msgpack map would lose.
type packedRecord struct {
	ID       string   `msgpack:"id"`
	FileName string   `msgpack:"fileName"`
	SchemaID string   `msgpack:"schemaId"`
	Keys     []string `msgpack:"keys"`
	Values   []any    `msgpack:"values"`
	Issues   []string `msgpack:"issues,omitempty"`
}

// MsgPack writes a compact binary snapshot of the records.
func MsgPack(records []*entity.Record) ([]byte, error) {
	packed := make([]packedRecord, len(records))
	for i, r := range records {
		keys := r.Keys()
		values := make([]any, len(keys))
		for j, k := range keys {
			values[j] = r.Get(k).Any()
		}
		packed[i] = packedRecord{
			ID:       r.ID,
			FileName: r.FileName,
			SchemaID: r.SchemaID,
			Keys:     keys,
			Values:   values,
			Issues:   r.Issues,
		}
	}
	b, err := msgpack.Marshal(packed)
	if err != nil {
		return nil, fmt.Errorf("msgpack export: %w", err)
	}
	return b, nil
}

// DecodeMsgPack reverses MsgPack.
func DecodeMsgPack(data []byte, lookup SchemaLookup) ([]*entity.Record, error) {
	var packed []packedRecord
	if err := msgpack.Unmarshal(data, &packed); err != nil {
		return nil, fmt.Errorf("msgpack import: %w", err)
	}
	records := make([]*entity.Record, len(packed))
	for i, p := range packed {
		if len(p.Keys) != len(p.Values) {
			return nil, fmt.Errorf("msgpack import: record %s has %d keys and %d values", p.ID, len(p.Keys), len(p.Values))
		}
		r := entity.NewRecord(p.ID, p.FileName, p.SchemaID)
		r.Issues = p.Issues
		for j, k := range p.Keys {
			r.Set(k, entity.ValueFromAny(p.Values[j]))
		}
		records[i] = r
	}
	conformAll(records, lookup)
	return records, nil
}
