package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// ErrNothingToExport is returned for an empty result list; callers skip the download.
var ErrNothingToExport = errors.New("nothing to export")

type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatMsgPack Format = "msgpack"
)

func Formats() []string {
	return []string{string(FormatXLSX), string(FormatJSON), string(FormatCSV), string(FormatMsgPack)}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMsgPack:
		return "application/msgpack"
	}
	return "application/octet-stream"
}

// Artifact is one ready-to-download export.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Service serializes result lists into download artifacts.
type Service struct {
	prefix string
	sheet  string
	logger *slog.Logger
	now    func() time.Time
}

func NewService(cfg common.ExportConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	prefix := cfg.FilePrefix
	if prefix == "" {
		prefix = "extraction_results"
	}
	sheet := cfg.SheetName
	if sheet == "" {
		sheet = "Results"
	}
	return &Service{prefix: prefix, sheet: sheet, logger: logger, now: time.Now}
}

// FileName builds "<prefix>_<YYYYMMDDHHMMSS>.<ext>".
func (s *Service) FileName(f Format) string {
	return fmt.Sprintf("%s_%s.%s", s.prefix, s.now().Format("20060102150405"), f)
}

// Export renders records in the requested format.
func (s *Service) Export(f Format, records []*entity.Record) (Artifact, error) {
	if !slices.Contains(Formats(), string(f)) {
		return Artifact{}, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("format %q not supported, use one of %s", f, strings.Join(Formats(), ", ")), common.ErrInvalidInput)
	}
	if len(records) == 0 {
		return Artifact{}, ErrNothingToExport
	}
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatXLSX:
		data, err = s.XLSX(records)
	case FormatJSON:
		data, err = JSON(records)
	case FormatCSV:
		data, err = CSV(records)
	case FormatMsgPack:
		data, err = MsgPack(records)
	}
	if err != nil {
		s.logger.Error("export.failed", "format", string(f), "error", err)
		return Artifact{}, err
	}

	s.logger.Info("export."+string(f)+".ok",
		"rows", len(records),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Artifact{FileName: s.FileName(f), ContentType: f.ContentType(), Data: data}, nil
}

// Header is the union of the records' flat keys in first-seen order:
// id, fileName, schemaId, the field keys, then issues when any record has them.
func Header(records []*entity.Record) []string {
	header := []string{entity.KeyID, entity.KeyFileName, entity.KeySchemaID}
	seen := map[string]bool{entity.KeyID: true, entity.KeyFileName: true, entity.KeySchemaID: true, entity.KeyIssues: true}
	hasIssues := false
	for _, r := range records {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
		if len(r.Issues) > 0 {
			hasIssues = true
		}
	}
	if hasIssues {
		header = append(header, entity.KeyIssues)
	}
	return header
}

// flatCell is the export text of one header column for a record. Nulls and
// missing keys are empty.
func flatCell(r *entity.Record, key string) string {
	switch key {
	case entity.KeyID:
		return r.ID
	case entity.KeyFileName:
		return r.FileName
	case entity.KeySchemaID:
		return r.SchemaID
	case entity.KeyIssues:
		return strings.Join(r.Issues, entity.ListSeparator)
	}
	v := r.Get(key)
	switch v.Kind {
	case entity.KindText, entity.KindDate:
		return v.Text
	case entity.KindTextList:
		return strings.Join(v.Items, entity.ListSeparator)
	case entity.KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case entity.KindBoolean:
		return strconv.FormatBool(v.Bool)
	case entity.KindObjectList:
		parts := make([]string, 0, len(v.Objects))
		for _, o := range v.Objects {
			b, err := json.Marshal(o)
			if err != nil {
				parts = append(parts, fmt.Sprint(o))
				continue
			}
			parts = append(parts, string(b))
		}
		return strings.Join(parts, entity.ListSeparator)
	default:
		return ""
	}
}
