package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

func invoiceConfig() entity.ParserConfig {
	return entity.ParserConfig{
		ID:   "invoice",
		Name: "Invoices",
		Fields: []entity.Field{
			{Key: "invoiceNumber", Type: constants.FieldText, Required: true},
			{Key: "date", Type: constants.FieldDate, Required: true},
			{Key: "amount", Type: constants.FieldNumber, Required: true},
			{Key: "items", Type: constants.FieldTextList},
			{Key: "paid", Type: constants.FieldBoolean},
		},
	}
}

func TestNormalizeAndSanitize(t *testing.T) {
	cfg := invoiceConfig()
	obj := map[string]any{
		"invoiceNumber": "INV-1",
		"Date":          "2024/05/06",
		"amount":        "1,200.00",
		"items":         []any{"pens", "paper"},
		"comment":       "model chatter",
	}
	rec := entity.NewRecord("r1", "a.pdf", cfg.ID)

	issues := NormalizeAndSanitize(cfg, obj, rec, nil)

	assert.Equal(t, []string{"invoiceNumber", "date", "amount", "items", "paid"}, rec.Keys())
	assert.Equal(t, "INV-1", rec.Get("invoiceNumber").Text)
	assert.Equal(t, entity.KindDate, rec.Get("date").Kind)
	assert.Equal(t, "2024-05-06", rec.Get("date").Text)
	assert.Equal(t, 1200.0, rec.Get("amount").Number)
	assert.Equal(t, []string{"pens", "paper"}, rec.Get("items").Items)
	assert.True(t, rec.Get("paid").IsNull())

	assert.Contains(t, issues, "renamed Date->date")
	assert.Contains(t, issues, "dropped unknown key comment")
	assert.NotContains(t, issues, "paid: missing required field")
	assert.Equal(t, issues, rec.Issues)
}

func TestNormalizeAndSanitize_MissingRequired(t *testing.T) {
	cfg := invoiceConfig()
	rec := entity.NewRecord("r1", "a.pdf", cfg.ID)

	issues := NormalizeAndSanitize(cfg, map[string]any{"amount": nil}, rec, nil)
	assert.Contains(t, issues, "invoiceNumber: missing required field")
	assert.Contains(t, issues, "amount: required field is null")
}

func TestValidateAgainstSchema(t *testing.T) {
	schema := BuildRecordJSONSchema(invoiceConfig())

	valid := map[string]any{
		"invoiceNumber": "INV-1",
		"date":          "2024-05-06",
		"amount":        12.5,
		"items":         []any{"pens", map[string]any{"name": "paper", "qty": float64(2)}},
		"paid":          nil,
	}
	require.NoError(t, ValidateAgainstSchema(schema, valid))

	invalid := map[string]any{
		"date":   "May 6",
		"amount": "12.50",
		"extra":  true,
	}
	err := ValidateAgainstSchema(schema, invalid)
	require.Error(t, err)

	violations := SchemaViolations(err)
	assert.NotEmpty(t, violations)
	joined := ""
	for _, v := range violations {
		joined += v + "\n"
	}
	assert.Contains(t, joined, "/amount")
	assert.Contains(t, joined, "/date")
}

func TestValidateJSONAgainstSchema_BadJSON(t *testing.T) {
	err := ValidateJSONAgainstSchema(BuildRecordJSONSchema(invoiceConfig()), []byte("{"))
	assert.Error(t, err)
	assert.Len(t, SchemaViolations(err), 1)
}
