package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// XLSX writes a single-sheet workbook, one row per record.
func (s *Service) XLSX(records []*entity.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := s.sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	header := Header(records)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, bold)
	}

	for ri, r := range records {
		row := ri + 2
		for ci, key := range header {
			cell, _ := excelize.CoordinatesToCellName(ci+1, row)
			if v := r.Get(key); v.Kind == entity.KindNumber && !isMeta(key) {
				_ = f.SetCellValue(sheet, cell, v.Number)
				continue
			}
			_ = f.SetCellValue(sheet, cell, flatCell(r, key))
		}
	}

	// id columns are narrow, value columns wide enough for joined lists
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "C", 24)
	if len(header) > 3 {
		_ = f.SetColWidth(sheet, "D", lastCol, 30)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func isMeta(key string) bool {
	switch key {
	case entity.KeyID, entity.KeyFileName, entity.KeySchemaID, entity.KeyIssues:
		return true
	}
	return false
}
