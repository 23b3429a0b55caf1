package results

import (
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// Column is one table header. The first column of every group is the file name.
type Column struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Row is one record rendered for display.
type Row struct {
	RecordID string            `json:"recordId"`
	Cells    map[string]string `json:"cells"`
	Issues   []string          `json:"issues,omitempty"`
}

// Group holds the rows produced by one schema, with that schema's columns.
type Group struct {
	SchemaID   string   `json:"schemaId"`
	SchemaName string   `json:"schemaName"`
	Columns    []Column `json:"columns"`
	Rows       []Row    `json:"rows"`
}

// Table is the full result view.
type Table struct {
	Locale string  `json:"locale"`
	Total  int     `json:"total"`
	Groups []Group `json:"groups"`
}

// SchemaLookup resolves the schema that produced a record.
type SchemaLookup func(id string) (entity.ParserConfig, bool)

// Build groups records by their producing schema, in first-seen order, and
// derives each group's columns from that schema. Records whose schema is gone
// fall back to their own keys.
func (r *Renderer) Build(records []*entity.Record, lookup SchemaLookup) Table {
	table := Table{Locale: r.Locale(), Total: len(records), Groups: []Group{}}
	index := map[string]int{}

	for _, rec := range records {
		gi, ok := index[rec.SchemaID]
		if !ok {
			table.Groups = append(table.Groups, r.newGroup(rec, lookup))
			gi = len(table.Groups) - 1
			index[rec.SchemaID] = gi
		}
		g := &table.Groups[gi]
		g.Rows = append(g.Rows, r.row(rec, g.Columns))
	}
	return table
}

func (r *Renderer) newGroup(rec *entity.Record, lookup SchemaLookup) Group {
	g := Group{SchemaID: rec.SchemaID, Columns: []Column{{Key: entity.KeyFileName, Title: r.fileNameTitle()}}}

	var cfg entity.ParserConfig
	found := false
	if lookup != nil {
		cfg, found = lookup(rec.SchemaID)
	}
	if !found {
		g.SchemaName = rec.SchemaID
		for _, k := range rec.Keys() {
			if k == entity.KeyFileName {
				continue
			}
			g.Columns = append(g.Columns, Column{Key: k, Title: k})
		}
		return g
	}

	g.SchemaName = cfg.Name
	for _, k := range cfg.Keys() {
		if k == entity.KeyFileName {
			continue
		}
		f, _ := cfg.FieldByKey(k)
		title := f.Name
		if title == "" {
			title = k
		}
		g.Columns = append(g.Columns, Column{Key: k, Title: title})
	}
	return g
}

func (r *Renderer) row(rec *entity.Record, cols []Column) Row {
	row := Row{RecordID: rec.ID, Cells: make(map[string]string, len(cols)), Issues: rec.Issues}
	for _, c := range cols {
		if c.Key == entity.KeyFileName {
			row.Cells[c.Key] = rec.FileName
			continue
		}
		row.Cells[c.Key] = r.Cell(rec.Get(c.Key))
	}
	return row
}

// FieldText is the copy-to-clipboard text of one field of a record.
func (r *Renderer) FieldText(rec *entity.Record, key string) (string, bool) {
	if key == entity.KeyFileName {
		return rec.FileName, true
	}
	if !rec.Has(key) {
		return "", false
	}
	return r.Cell(rec.Get(key)), true
}

func (r *Renderer) fileNameTitle() string {
	base, _ := r.tag.Base()
	if base.String() == "zh" {
		return "上传文件名"
	}
	return "File name"
}
