package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_JSONOrderAndRoundTrip(t *testing.T) {
	rec := NewRecord("r1", "a.pdf", "resume")
	rec.Set("name", TextValue("Ada"))
	rec.Set("education", TextListValue([]string{"MIT", "Cambridge"}))
	rec.Set("years", NumberValue(7))
	rec.Set("remote", BoolValue(true))
	rec.Set("missing", NullValue())
	rec.Set("jobs", ObjectListValue([]map[string]any{{"company": "ACME", "years": float64(2)}}))

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r1","fileName":"a.pdf","schemaId":"resume","name":"Ada",
		"education":["MIT","Cambridge"],"years":7,"remote":true,"missing":null,
		"jobs":[{"company":"ACME","years":2}]}`, string(b))
	assert.Regexp(t, `^\{"id":"r1","fileName":"a.pdf","schemaId":"resume","name"`, string(b))

	var back Record
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, rec.Keys(), back.Keys())
	assert.Equal(t, rec.Flatten(), back.Flatten())
}

func TestRecord_SetKeepsPosition(t *testing.T) {
	rec := NewRecord("r1", "a.pdf", "s")
	rec.Set("a", TextValue("1"))
	rec.Set("b", TextValue("2"))
	rec.Set("a", TextValue("3"))

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, "3", rec.Get("a").Text)
	assert.True(t, rec.Get("zzz").IsNull())
}

func TestRecord_MetadataKeysAreReserved(t *testing.T) {
	for _, key := range []string{"id", "fileName", "schemaId", "issues"} {
		assert.True(t, IsReservedKey(key), key)
	}
	assert.False(t, IsReservedKey("ID"))
	assert.False(t, IsReservedKey("invoiceNumber"))

	rec := NewRecord("r1", "a.pdf", "s")
	rec.Set("id", TextValue("model-id"))
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r1","fileName":"a.pdf","schemaId":"s"}`, string(b))
}

func TestValueFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want ValueKind
	}{
		{"nil", nil, KindNull},
		{"string", "x", KindText},
		{"number", float64(3), KindNumber},
		{"bool", false, KindBoolean},
		{"strings", []any{"a", "b"}, KindTextList},
		{"empty list", []any{}, KindTextList},
		{"objects", []any{map[string]any{"k": "v"}}, KindObjectList},
		{"single object", map[string]any{"k": "v"}, KindObjectList},
		{"mixed list", []any{"a", float64(1), map[string]any{"k": "v"}}, KindTextList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueFromAny(tt.in).Kind)
		})
	}

	mixed := ValueFromAny([]any{"a", float64(1.5), true})
	assert.Equal(t, []string{"a", "1.5", "true"}, mixed.Items)
}

func TestParserConfig_DuplicateKeysLastWins(t *testing.T) {
	cfg := ParserConfig{Fields: []Field{
		{ID: "1", Key: "name", Type: "text", Description: "first"},
		{ID: "2", Key: "age", Type: "number"},
		{ID: "3", Key: "name", Type: "date", Description: "second"},
	}}

	f, ok := cfg.FieldByKey("name")
	assert.True(t, ok)
	assert.Equal(t, "second", f.Description)
	assert.Equal(t, []string{"name", "age"}, cfg.Keys())
	assert.Equal(t, []string{"name"}, cfg.DuplicateKeys())
}
