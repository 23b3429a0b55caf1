package export

import (
	"bytes"
	"strings"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// utf8BOM lets spreadsheet apps detect the encoding.
const utf8BOM = "\ufeff"

// CSV writes UTF-8 with a BOM. Every cell is quoted and list values share one
// cell, joined with entity.ListSeparator.
func CSV(records []*entity.Record) ([]byte, error) {
	header := Header(records)

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	writeCSVRow(&buf, header)
	cells := make([]string, len(header))
	for _, r := range records {
		for i, key := range header {
			cells[i] = flatCell(r, key)
		}
		writeCSVRow(&buf, cells)
	}
	return buf.Bytes(), nil
}

func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(c, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
