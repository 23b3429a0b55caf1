package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

func TestService_Defaults(t *testing.T) {
	s := NewService(nil)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, ResumeID, list[0].ID)
	assert.Equal(t, InvoiceID, list[1].ID)
	assert.True(t, list[0].IsDefault)
	assert.Equal(t, []string{"name", "education", "companies"}, list[0].Keys())

	invoice, err := s.Get(InvoiceID)
	require.NoError(t, err)
	amount, ok := invoice.FieldByKey("amount")
	require.True(t, ok)
	assert.Equal(t, constants.FieldNumber, amount.Type)
}

func TestService_BuiltinsAreReadOnly(t *testing.T) {
	s := NewService(nil)

	err := s.Delete(ResumeID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = s.Update(ResumeID, "renamed", []entity.Field{{Key: "x"}})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = s.AddField(InvoiceID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	resume, _ := s.Get(ResumeID)
	assert.Equal(t, "默认配置-基础简历解析", resume.Name)
}

func TestService_CreateValidation(t *testing.T) {
	s := NewService(nil)

	tests := []struct {
		name    string
		cfgName string
		fields  []entity.Field
		wantErr string
	}{
		{"blank name", "   ", []entity.Field{{Key: "a"}}, "'name'"},
		{"no fields", "Contracts", nil, "at least 1 item"},
		{"bad type", "Contracts", []entity.Field{{Key: "a", Type: "blob"}}, "fields[0].type"},
		{"metadata key", "Invoices", []entity.Field{{Key: "total"}, {Key: "id"}}, "fields[1].key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.cfgName, tt.fields)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Len(t, s.List(), 2)
}

func TestService_CRUD(t *testing.T) {
	s := NewService(nil)

	cfg, err := s.Create(" Contracts ", []entity.Field{{Key: "party", Name: "Party"}})
	require.NoError(t, err)
	assert.Equal(t, "Contracts", cfg.Name)
	assert.NotEmpty(t, cfg.ID)
	assert.NotEmpty(t, cfg.Fields[0].ID)
	assert.Equal(t, constants.FieldText, cfg.Fields[0].Type)
	assert.False(t, cfg.CreatedAt.IsZero())

	updated, err := s.Update(cfg.ID, "Contracts v2", []entity.Field{
		{Key: "party", Type: constants.FieldTextList},
		{Key: "signed", Type: constants.FieldDate},
	})
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, updated.ID)
	assert.Equal(t, cfg.CreatedAt, updated.CreatedAt)
	assert.Len(t, updated.Fields, 2)

	field, err := s.AddField(cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.FieldText, field.Type)
	assert.False(t, field.Required)

	key, req := "amount", true
	typ := constants.FieldNumber
	patched, err := s.UpdateField(cfg.ID, field.ID, FieldPatch{Key: &key, Type: &typ, Required: &req})
	require.NoError(t, err)
	assert.Equal(t, "amount", patched.Key)
	assert.True(t, patched.Required)

	require.NoError(t, s.RemoveField(cfg.ID, field.ID))
	got, _ := s.Get(cfg.ID)
	assert.Len(t, got.Fields, 2)

	err = s.RemoveField(cfg.ID, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Delete(cfg.ID))
	_, err = s.Get(cfg.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_RemovingLastFieldRejected(t *testing.T) {
	s := NewService(nil)
	cfg, err := s.Create("One", []entity.Field{{Key: "a"}})
	require.NoError(t, err)

	err = s.RemoveField(cfg.ID, cfg.Fields[0].ID)
	assert.ErrorIs(t, err, common.ErrValidation)

	got, _ := s.Get(cfg.ID)
	assert.Len(t, got.Fields, 1)
}

func TestService_MetadataKeysRejectedEverywhere(t *testing.T) {
	s := NewService(nil)
	cfg, err := s.Create("Invoices", []entity.Field{{Key: "total"}})
	require.NoError(t, err)

	for _, key := range entity.ReservedKeys() {
		t.Run(key, func(t *testing.T) {
			_, err := s.UpdateField(cfg.ID, cfg.Fields[0].ID, FieldPatch{Key: &key})
			assert.ErrorIs(t, err, common.ErrValidation)

			_, err = s.Update(cfg.ID, "Invoices", []entity.Field{{Key: key}})
			assert.ErrorIs(t, err, common.ErrValidation)

			err = s.Import([]entity.ParserConfig{{ID: "seeded-" + key, Name: "Seeded", Fields: []entity.Field{{Key: key}}}})
			assert.ErrorIs(t, err, common.ErrValidation)
			_, err = s.Get("seeded-" + key)
			assert.ErrorIs(t, err, common.ErrNotFound)
		})
	}

	got, _ := s.Get(cfg.ID)
	assert.Equal(t, []string{"total"}, got.Keys())
}

func TestService_DuplicateKeysAccepted(t *testing.T) {
	s := NewService(nil)
	cfg, err := s.Create("Dups", []entity.Field{
		{Key: "name", Description: "first"},
		{Key: "name", Description: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, cfg.DuplicateKeys())
}

func TestService_ReturnsCopies(t *testing.T) {
	s := NewService(nil)
	cfg, _ := s.Get(ResumeID)
	cfg.Fields[0].Key = "mutated"

	again, _ := s.Get(ResumeID)
	assert.Equal(t, "name", again.Fields[0].Key)
}

func TestLoadFromReader_Import(t *testing.T) {
	doc := `
schemas:
  - id: contract
    name: Contracts
    fields:
      - key: party
        name: Party
        type: string[]
        description: Contracting parties
        required: true
      - key: signedOn
        name: Signed
        type: date
`
	configs, err := LoadFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, constants.FieldTextList, configs[0].Fields[0].Type)

	s := NewService(nil)
	require.NoError(t, s.Import(configs))
	got, err := s.Get("contract")
	require.NoError(t, err)
	assert.Equal(t, "Contracts", got.Name)
	assert.False(t, got.IsDefault)
	assert.Len(t, s.List(), 3)

	err = s.Import([]entity.ParserConfig{{ID: ResumeID, Name: "x", Fields: []entity.Field{{Key: "a"}}}})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestLoadFromReader_BadType(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("schemas:\n  - name: x\n    fields:\n      - key: a\n        type: blob\n"))
	assert.Error(t, err)
}
