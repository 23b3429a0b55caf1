package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Reserved record keys. Field keys that collide with these are shadowed in
// the flat JSON form.
const (
	KeyID       = "id"
	KeyFileName = "fileName"
	KeySchemaID = "schemaId"
	KeyIssues   = "issues"
)

// Record is one document's extracted values, tagged with its source file and
// the schema that produced it.
type Record struct {
	ID       string
	FileName string
	SchemaID string
	Issues   []string

	values map[string]Value
	order  []string
}

func NewRecord(id, fileName, schemaID string) *Record {
	return &Record{
		ID:       id,
		FileName: fileName,
		SchemaID: schemaID,
		values:   map[string]Value{},
	}
}

// Set stores a value; re-setting an existing key keeps its original position.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = map[string]Value{}
	}
	if _, ok := r.values[key]; !ok {
		r.order = append(r.order, key)
	}
	r.values[key] = v
}

// Get returns the stored value, or null when the key is absent.
func (r *Record) Get(key string) Value {
	if v, ok := r.values[key]; ok {
		return v
	}
	return NullValue()
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns value keys in insertion order.
func (r *Record) Keys() []string {
	return slices.Clone(r.order)
}

func (r *Record) AddIssue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// Flatten converts the record to a plain map, metadata included.
func (r *Record) Flatten() map[string]any {
	out := make(map[string]any, len(r.values)+3)
	for k, v := range r.values {
		out[k] = v.Any()
	}
	out[KeyID] = r.ID
	out[KeyFileName] = r.FileName
	out[KeySchemaID] = r.SchemaID
	if len(r.Issues) > 0 {
		out[KeyIssues] = slices.Clone(r.Issues)
	}
	return out
}

// Fields returns only the extracted values as plain data.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v.Any()
	}
	return out
}

// ReservedKeys are the metadata keys of the flat record form. Field keys may
// not use them.
func ReservedKeys() []string {
	return []string{KeyID, KeyFileName, KeySchemaID, KeyIssues}
}

func IsReservedKey(key string) bool {
	return slices.Contains(ReservedKeys(), key)
}

// MarshalJSON writes a flat object: metadata first, then values in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("record %s key %q: %w", r.ID, key, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return nil
	}

	if err := write(KeyID, r.ID); err != nil {
		return nil, err
	}
	if err := write(KeyFileName, r.FileName); err != nil {
		return nil, err
	}
	if err := write(KeySchemaID, r.SchemaID); err != nil {
		return nil, err
	}
	for _, k := range r.order {
		if IsReservedKey(k) {
			continue
		}
		if err := write(k, r.values[k]); err != nil {
			return nil, err
		}
	}
	if len(r.Issues) > 0 {
		if err := write(KeyIssues, r.Issues); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the flat form back, keeping value key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	*r = Record{values: map[string]Value{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("record key %q: %w", key, err)
		}
		switch key {
		case KeyID:
			r.ID, _ = raw.(string)
		case KeyFileName:
			r.FileName, _ = raw.(string)
		case KeySchemaID:
			r.SchemaID, _ = raw.(string)
		case KeyIssues:
			if list, ok := raw.([]any); ok {
				for _, it := range list {
					if s, ok := it.(string); ok {
						r.Issues = append(r.Issues, s)
					}
				}
			}
		default:
			r.Set(key, ValueFromAny(raw))
		}
	}
	_, err = dec.Token()
	return err
}
