package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

func invoiceSchema() entity.ParserConfig {
	return entity.ParserConfig{ID: "invoice", Name: "Invoices", Fields: []entity.Field{
		{Key: "invoiceNumber", Type: constants.FieldText},
		{Key: "date", Type: constants.FieldDate},
		{Key: "amount", Type: constants.FieldNumber},
		{Key: "items", Type: constants.FieldTextList},
		{Key: "lines", Type: constants.FieldText},
		{Key: "buyer", Type: constants.FieldText},
	}}
}

func sampleRecords() []*entity.Record {
	a := entity.NewRecord("r1", "a.pdf", "invoice")
	a.Set("invoiceNumber", entity.TextValue(`INV "001"`))
	a.Set("date", entity.DateValue(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
	a.Set("amount", entity.NumberValue(1234.5))
	a.Set("items", entity.TextListValue([]string{"纸", "笔"}))
	a.Set("lines", entity.ObjectListValue([]map[string]any{{"sku": "A1", "qty": float64(2)}}))
	a.Set("buyer", entity.NullValue())

	b := entity.NewRecord("r2", "b.pdf", "invoice")
	b.Set("invoiceNumber", entity.TextValue("INV-002"))
	b.AddIssue("amount: missing required field")
	return []*entity.Record{a, b}
}

func lookup(id string) (entity.ParserConfig, bool) {
	if id == "invoice" {
		return invoiceSchema(), true
	}
	return entity.ParserConfig{}, false
}

func newTestService() *Service {
	s := NewService(common.ExportConfig{FilePrefix: "简历解析结果", SheetName: "Results"}, nil)
	s.now = func() time.Time { return time.Date(2024, time.June, 7, 8, 9, 10, 0, time.UTC) }
	return s
}

func TestHeader(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "fileName", "schemaId", "invoiceNumber", "date", "amount", "items", "lines", "buyer", "issues"},
		Header(sampleRecords()))
	assert.Equal(t, []string{"id", "fileName", "schemaId"}, Header([]*entity.Record{entity.NewRecord("x", "x.pdf", "s")}))
}

func TestExport_EmptyIsNoop(t *testing.T) {
	s := newTestService()
	for _, f := range Formats() {
		_, err := s.Export(Format(f), nil)
		assert.ErrorIs(t, err, ErrNothingToExport, f)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	for name, records := range map[string][]*entity.Record{
		"with results": sampleRecords(),
		"empty list":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newTestService().Export("pdf", records)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidInput))
			assert.False(t, errors.Is(err, ErrNothingToExport))
		})
	}
}

func TestExport_FileName(t *testing.T) {
	art, err := newTestService().Export(FormatJSON, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "简历解析结果_20240607080910.json", art.FileName)
	assert.Equal(t, "application/json; charset=utf-8", art.ContentType)

	defaults := NewService(common.ExportConfig{}, nil)
	defaults.now = newTestService().now
	assert.Equal(t, "extraction_results_20240607080910.csv", defaults.FileName(FormatCSV))
}

func TestJSON_PrettyAndRoundTrip(t *testing.T) {
	records := sampleRecords()
	data, err := JSON(records)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"id\": \"r1\""), string(data))

	back, err := DecodeJSON(data, lookup)
	require.NoError(t, err)
	assert.Equal(t, records, back)

	// structurally equal as plain JSON too
	var want, got any
	require.NoError(t, json.Unmarshal(data, &want))
	again, err := JSON(back)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(again, &got))
	assert.Equal(t, want, got)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"not":"a list"}`), nil)
	assert.Error(t, err)
}

func TestMsgPack_RoundTrip(t *testing.T) {
	records := sampleRecords()
	data, err := MsgPack(records)
	require.NoError(t, err)

	back, err := DecodeMsgPack(data, lookup)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestCSV(t *testing.T) {
	data, err := CSV(sampleRecords())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\xef\xbb\xbf")), "BOM prefix")

	text := string(data[3:])
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"id","fileName","schemaId","invoiceNumber","date","amount","items","lines","buyer","issues"`, lines[0])
	assert.Equal(t, `"r1","a.pdf","invoice","INV ""001""","2024-03-05","1234.5","纸、笔","{""qty"":2,""sku"":""A1""}","",""`, lines[1])

	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "b.pdf", "invoice", "INV-002", "", "", "", "", "", "amount: missing required field"}, rows[2])
}

func TestXLSX(t *testing.T) {
	art, err := newTestService().Export(FormatXLSX, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "简历解析结果_20240607080910.xlsx", art.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(art.Data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Results"}, f.GetSheetList())
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header(sampleRecords()), rows[0])
	assert.Equal(t, "INV \"001\"", rows[1][3])
	assert.Equal(t, "1234.5", rows[1][5])
	assert.Equal(t, "纸、笔", rows[1][6])
}
