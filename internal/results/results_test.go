package results

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

func TestRenderer_Cell(t *testing.T) {
	zh := NewRenderer("zh-CN")
	en := NewRenderer("en-US")
	date := entity.DateValue(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		r    *Renderer
		v    entity.Value
		want string
	}{
		{"null", zh, entity.NullValue(), "-"},
		{"zero value", zh, entity.Value{}, "-"},
		{"text", zh, entity.TextValue("张三"), "张三"},
		{"list", zh, entity.TextListValue([]string{"北京大学", "清华大学"}), "北京大学、清华大学"},
		{"empty list", zh, entity.TextListValue(nil), ""},
		{"integer", zh, entity.NumberValue(1234567), "1,234,567"},
		{"integer en", en, entity.NumberValue(1234567), "1,234,567"},
		{"fraction en", en, entity.NumberValue(1234.5), "1,234.5"},
		{"bool zh", zh, entity.BoolValue(true), "是"},
		{"bool en", en, entity.BoolValue(false), "no"},
		{"date zh", zh, date, "2024-03-05"},
		{"date en", en, date, "Mar 5, 2024"},
		{"objects", zh, entity.ObjectListValue([]map[string]any{
			{"school": "MIT", "year": float64(2020)},
			{"school": "CMU"},
		}), "school:MIT year:2020、school:CMU"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Cell(tt.v))
		})
	}
}

func TestNewRenderer_BadLocaleFallsBack(t *testing.T) {
	r := NewRenderer("not a locale!!")
	assert.Equal(t, "zh-Hans", r.Locale())
	assert.Equal(t, "是", r.Cell(entity.BoolValue(true)))
}

func TestStore(t *testing.T) {
	s := NewStore()
	a := entity.NewRecord("a", "a.pdf", "resume")
	b := entity.NewRecord("b", "a.pdf", "resume")
	s.Append(a, nil)
	s.Append(b)

	assert.Equal(t, 2, s.Count())
	list := s.List()
	require.Len(t, list, 2)
	assert.Same(t, a, list[0])
	assert.Same(t, b, list[1])

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = s.Get("zzz")
	assert.False(t, ok)

	list[0] = nil
	assert.Same(t, a, s.List()[0], "List returns a snapshot")

	assert.Equal(t, 2, s.Clear())
	assert.Zero(t, s.Count())
}

func TestBuild_GroupsBySchema(t *testing.T) {
	resume := entity.ParserConfig{ID: "resume", Name: "Resumes", Fields: []entity.Field{
		{Name: "姓名", Key: "name", Type: constants.FieldText},
		{Name: "教育经历", Key: "education", Type: constants.FieldTextList},
	}}
	invoice := entity.ParserConfig{ID: "invoice", Name: "Invoices", Fields: []entity.Field{
		{Key: "amount", Type: constants.FieldNumber},
	}}
	lookup := func(id string) (entity.ParserConfig, bool) {
		switch id {
		case "resume":
			return resume, true
		case "invoice":
			return invoice, true
		}
		return entity.ParserConfig{}, false
	}

	r1 := entity.NewRecord("r1", "cv.pdf", "resume")
	r1.Set("name", entity.TextValue("Ada"))
	r1.Set("education", entity.TextListValue([]string{"MIT", "CMU"}))
	i1 := entity.NewRecord("i1", "bill.pdf", "invoice")
	i1.Set("amount", entity.NumberValue(9800))
	r2 := entity.NewRecord("r2", "cv2.pdf", "resume")
	r2.AddIssue("name: missing required field")
	orphan := entity.NewRecord("o1", "old.pdf", "deleted-schema")
	orphan.Set("foo", entity.TextValue("bar"))

	table := NewRenderer("zh-CN").Build([]*entity.Record{r1, i1, r2, orphan}, lookup)
	assert.Equal(t, 4, table.Total)
	require.Len(t, table.Groups, 3)

	g := table.Groups[0]
	assert.Equal(t, "resume", g.SchemaID)
	assert.Equal(t, []Column{{"fileName", "上传文件名"}, {"name", "姓名"}, {"education", "教育经历"}}, g.Columns)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, map[string]string{"fileName": "cv.pdf", "name": "Ada", "education": "MIT、CMU"}, g.Rows[0].Cells)
	assert.Equal(t, "-", g.Rows[1].Cells["name"])
	assert.Equal(t, []string{"name: missing required field"}, g.Rows[1].Issues)

	assert.Equal(t, "9,800", table.Groups[1].Rows[0].Cells["amount"])
	assert.Equal(t, []Column{{"fileName", "上传文件名"}, {"amount", "amount"}}, table.Groups[1].Columns)

	assert.Equal(t, "deleted-schema", table.Groups[2].SchemaName)
	assert.Equal(t, "bar", table.Groups[2].Rows[0].Cells["foo"])
}

func TestFieldText(t *testing.T) {
	rec := entity.NewRecord("r1", "cv.pdf", "resume")
	rec.Set("education", entity.TextListValue([]string{"MIT", "CMU"}))
	rec.Set("phone", entity.NullValue())
	r := NewRenderer("zh-CN")

	got, ok := r.FieldText(rec, "education")
	require.True(t, ok)
	assert.Equal(t, "MIT、CMU", got)

	got, ok = r.FieldText(rec, "phone")
	require.True(t, ok)
	assert.Equal(t, "-", got)

	got, ok = r.FieldText(rec, "fileName")
	require.True(t, ok)
	assert.Equal(t, "cv.pdf", got)

	_, ok = r.FieldText(rec, "missing")
	assert.False(t, ok)
}
