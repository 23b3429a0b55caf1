package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/pdf-extractor/constants"
)

// ListSeparator joins list items wherever a list must collapse into one string.
const ListSeparator = "、"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006年1月2日",
	"2006年01月02日",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02/01/2006",
}

// Conform coerces a decoded JSON value into the shape the field declares.
// issue is non-empty when the value had to be coerced or could not be; the
// returned Value is always usable.
func Conform(field Field, raw any) (Value, string) {
	if raw == nil {
		return NullValue(), ""
	}
	// Object lists are a legal shape for any field.
	if v := ValueFromAny(raw); v.Kind == KindObjectList {
		return v, ""
	}

	switch field.Type {
	case constants.FieldTextList:
		return conformList(raw)
	case constants.FieldNumber:
		return conformNumber(raw)
	case constants.FieldBoolean:
		return conformBool(raw)
	case constants.FieldDate:
		return conformDate(raw)
	default:
		return conformText(raw)
	}
}

func conformText(raw any) (Value, string) {
	switch t := raw.(type) {
	case string:
		return TextValue(strings.TrimSpace(t)), ""
	case []any:
		list := ValueFromAny(t)
		return TextValue(strings.Join(list.Items, ListSeparator)), "expected text, joined array"
	default:
		return TextValue(scalarString(t)), fmt.Sprintf("expected text, got %T", raw)
	}
}

func conformList(raw any) (Value, string) {
	switch t := raw.(type) {
	case []any:
		v := ValueFromAny(t)
		for i := range v.Items {
			v.Items[i] = strings.TrimSpace(v.Items[i])
		}
		return v, ""
	case []string:
		return TextListValue(t), ""
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return TextListValue(nil), ""
		}
		return TextListValue([]string{s}), "expected array, wrapped single text"
	default:
		return TextListValue([]string{scalarString(t)}), fmt.Sprintf("expected array, got %T", raw)
	}
}

func conformNumber(raw any) (Value, string) {
	switch t := raw.(type) {
	case float64:
		return NumberValue(t), ""
	case int:
		return NumberValue(float64(t)), ""
	case string:
		if f, ok := parseLooseNumber(t); ok {
			return NumberValue(f), ""
		}
		return TextValue(strings.TrimSpace(t)), fmt.Sprintf("expected number, got %q", t)
	default:
		return TextValue(scalarString(t)), fmt.Sprintf("expected number, got %T", raw)
	}
}

// parseLooseNumber accepts "1,234.50", "¥ 99", "$12" and similar.
func parseLooseNumber(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+', r == 'e', r == 'E':
			return r
		case r == ',' || r == ' ' || r == '_':
			return -1
		case strings.ContainsRune("$¥￥€£元", r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	return f, err == nil
}

func conformBool(raw any) (Value, string) {
	switch t := raw.(type) {
	case bool:
		return BoolValue(t), ""
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "是":
			return BoolValue(true), ""
		case "false", "no", "n", "0", "否":
			return BoolValue(false), ""
		}
		return TextValue(t), fmt.Sprintf("expected boolean, got %q", t)
	case float64:
		return BoolValue(t != 0), ""
	default:
		return TextValue(scalarString(t)), fmt.Sprintf("expected boolean, got %T", raw)
	}
}

func conformDate(raw any) (Value, string) {
	s, ok := raw.(string)
	if !ok {
		return TextValue(scalarString(raw)), fmt.Sprintf("expected date, got %T", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return NullValue(), ""
	}
	if t, ok := ParseDate(s); ok {
		return DateValue(t), ""
	}
	return TextValue(s), fmt.Sprintf("expected date, got %q", s)
}

// ParseDate tries the layouts models commonly emit.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ConformRecord re-applies a schema to a record decoded without one, e.g. after
// reading an export back. Keys unknown to the schema are left untouched.
func ConformRecord(cfg ParserConfig, rec *Record) {
	for _, key := range rec.Keys() {
		f, ok := cfg.FieldByKey(key)
		if !ok {
			continue
		}
		v, _ := Conform(f, rec.Get(key).Any())
		rec.Set(key, v)
	}
}
