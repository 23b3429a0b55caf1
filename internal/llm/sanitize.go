package llm

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// NormalizeAndSanitize fills rec from a recovered model object:
//   - coerces each value into its field's declared shape
//   - sets missing fields to null, noting required ones
//   - trims keys and matches them case-insensitively when no exact key exists
//   - drops keys the schema does not declare
//
// Returned issues describe every adjustment; they are also appended to rec.
func NormalizeAndSanitize(cfg entity.ParserConfig, obj map[string]any, rec *entity.Record, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	// 1) index the model's keys so near-misses ("Name ", "NAME") still land
	byFold := make(map[string]string, len(obj))
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		fk := strings.ToLower(strings.TrimSpace(k))
		if _, taken := byFold[fk]; !taken {
			byFold[fk] = k
		}
	}

	var issues []string
	used := make(map[string]struct{}, len(obj))

	// 2) one value per distinct schema key, in schema order
	for _, key := range cfg.Keys() {
		f, _ := cfg.FieldByKey(key)

		src, ok := key, false
		if _, exact := obj[key]; exact {
			ok = true
		} else if alt, found := byFold[strings.ToLower(key)]; found {
			src, ok = alt, true
			issues = append(issues, "renamed "+alt+"->"+key)
		}

		if !ok {
			rec.Set(key, entity.NullValue())
			if f.Required {
				issues = append(issues, key+": missing required field")
			}
			continue
		}
		used[src] = struct{}{}

		v, issue := entity.Conform(f, obj[src])
		if issue != "" {
			issues = append(issues, key+": "+issue)
		}
		if v.IsNull() && f.Required {
			issues = append(issues, key+": required field is null")
		}
		rec.Set(key, v)
	}

	// 3) remove unknown keys
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if _, ok := used[k]; !ok {
			issues = append(issues, "dropped unknown key "+k)
		}
	}

	if len(issues) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "file", rec.FileName, "issues", issues)
		rec.Issues = append(rec.Issues, issues...)
	}
	return issues
}
