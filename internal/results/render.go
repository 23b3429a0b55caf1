package results

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// EmptyCell is shown for null values.
const EmptyCell = "-"

// Renderer turns values into display strings for one locale.
type Renderer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewRenderer accepts a BCP 47 tag such as "zh-CN" or "en-US". Unknown tags
// fall back to zh-CN.
func NewRenderer(locale string) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.SimplifiedChinese
	}
	return &Renderer{tag: tag, printer: message.NewPrinter(tag)}
}

func (r *Renderer) Locale() string { return r.tag.String() }

// Cell renders one value.
func (r *Renderer) Cell(v entity.Value) string {
	switch v.Kind {
	case entity.KindText:
		return v.Text
	case entity.KindTextList:
		return strings.Join(v.Items, entity.ListSeparator)
	case entity.KindNumber:
		return r.Number(v.Number)
	case entity.KindBoolean:
		return r.boolean(v.Bool)
	case entity.KindDate:
		return r.date(v)
	case entity.KindObjectList:
		parts := make([]string, 0, len(v.Objects))
		for _, obj := range v.Objects {
			parts = append(parts, objectPairs(obj))
		}
		return strings.Join(parts, entity.ListSeparator)
	default:
		return EmptyCell
	}
}

// Number formats with the locale's grouping separators.
func (r *Renderer) Number(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Sprint(f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return r.printer.Sprintf("%d", int64(f))
	}
	return r.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(6)))
}

func (r *Renderer) boolean(b bool) string {
	base, _ := r.tag.Base()
	if base.String() == "zh" {
		if b {
			return "是"
		}
		return "否"
	}
	if b {
		return "yes"
	}
	return "no"
}

func (r *Renderer) date(v entity.Value) string {
	t, ok := v.Time()
	if !ok {
		return v.Text
	}
	base, _ := r.tag.Base()
	if base.String() == "en" {
		return t.Format("Jan 2, 2006")
	}
	return t.Format(entity.DateLayout)
}

// objectPairs renders {"school":"MIT","year":2020} as "school:MIT year:2020",
// keys sorted for a stable display.
func objectPairs(obj map[string]any) string {
	keys := slices.Sorted(maps.Keys(obj))
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+plain(obj[k]))
	}
	return strings.Join(pairs, " ")
}

func plain(v any) string {
	switch t := v.(type) {
	case nil:
		return EmptyCell
	case []any:
		items := make([]string, len(t))
		for i, it := range t {
			items[i] = plain(it)
		}
		return strings.Join(items, entity.ListSeparator)
	case map[string]any:
		return "{" + objectPairs(t) + "}"
	case float64:
		if t == math.Trunc(t) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}
