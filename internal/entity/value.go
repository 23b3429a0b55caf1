package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ValueKind tags which member of Value is populated.
type ValueKind string

const (
	KindNull       ValueKind = "null"
	KindText       ValueKind = "text"
	KindTextList   ValueKind = "text-list"
	KindNumber     ValueKind = "number"
	KindBoolean    ValueKind = "boolean"
	KindDate       ValueKind = "date"
	KindObjectList ValueKind = "object-list"
)

// DateLayout is the canonical encoding for date values.
const DateLayout = "2006-01-02"

// Value is one extracted cell. Exactly one member is meaningful, chosen by Kind.
type Value struct {
	Kind    ValueKind
	Text    string // text, or an ISO date for KindDate
	Items   []string
	Number  float64
	Bool    bool
	Objects []map[string]any
}

func NullValue() Value            { return Value{Kind: KindNull} }
func TextValue(s string) Value    { return Value{Kind: KindText, Text: s} }
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }
func BoolValue(b bool) Value      { return Value{Kind: KindBoolean, Bool: b} }

func TextListValue(items []string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{Kind: KindTextList, Items: items}
}

func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Text: t.Format(DateLayout)}
}

func ObjectListValue(objs []map[string]any) Value {
	if objs == nil {
		objs = []map[string]any{}
	}
	return Value{Kind: KindObjectList, Objects: objs}
}

func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == ""
}

// Time parses a date value. ok is false for other kinds.
func (v Value) Time() (time.Time, bool) {
	if v.Kind != KindDate {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, v.Text)
	return t, err == nil
}

// Any converts the value to plain Go data as produced by encoding/json.
func (v Value) Any() any {
	switch v.Kind {
	case KindText, KindDate:
		return v.Text
	case KindTextList:
		out := make([]any, len(v.Items))
		for i, s := range v.Items {
			out[i] = s
		}
		return out
	case KindNumber:
		return v.Number
	case KindBoolean:
		return v.Bool
	case KindObjectList:
		out := make([]any, len(v.Objects))
		for i, o := range v.Objects {
			out[i] = o
		}
		return out
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ValueFromAny(raw)
	return nil
}

// ValueFromAny infers a Value from decoded JSON without a schema. Dates come
// back as text; ConformValue upgrades them when the schema says so.
func ValueFromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return NullValue()
	case string:
		return TextValue(t)
	case float64:
		return NumberValue(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return TextValue(t.String())
		}
		return NumberValue(f)
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case bool:
		return BoolValue(t)
	case map[string]any:
		return ObjectListValue([]map[string]any{t})
	case []any:
		return listFromAny(t)
	case []string:
		return TextListValue(t)
	default:
		return TextValue(fmt.Sprint(t))
	}
}

func listFromAny(items []any) Value {
	allObjects := len(items) > 0
	for _, it := range items {
		if _, ok := it.(map[string]any); !ok {
			allObjects = false
			break
		}
	}
	if allObjects {
		objs := make([]map[string]any, len(items))
		for i, it := range items {
			objs[i] = it.(map[string]any)
		}
		return ObjectListValue(objs)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, scalarString(it))
	}
	return TextListValue(out)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
