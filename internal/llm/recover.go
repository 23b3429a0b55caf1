package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
)

// Strategy names the recovery step that produced an object.
type Strategy string

const (
	StrategyDirect Strategy = "direct"
	StrategyFenced Strategy = "fenced"
	StrategyBraces Strategy = "braces"
)

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// UnparseableError is returned when no strategy yields a JSON object. Raw is
// the model text exactly as received.
type UnparseableError struct {
	Kind  constants.FailureKind
	Raw   string
	Cause error
}

func (e *UnparseableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *UnparseableError) Unwrap() error {
	return common.ErrUnparseable
}

// RecoverJSON coerces free model text into a JSON object:
//  1. the whole text,
//  2. the first ``` fenced block (optionally tagged json),
//  3. the span from the first '{' to the last '}'.
//
// The first strategy that decodes to an object wins.
func RecoverJSON(raw string) (map[string]any, Strategy, error) {
	obj, err := decodeObject(raw)
	if err == nil {
		return obj, StrategyDirect, nil
	}
	lastErr := err

	if m := codeFenceRe.FindStringSubmatch(raw); m != nil {
		obj, err := decodeObject(m[1])
		if err == nil {
			return obj, StrategyFenced, nil
		}
		lastErr = err
	}

	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		obj, err := decodeObject(raw[start : end+1])
		if err == nil {
			return obj, StrategyBraces, nil
		}
		lastErr = err
	}

	return nil, "", &UnparseableError{
		Kind:  constants.FailureUnparseable,
		Raw:   raw,
		Cause: lastErr,
	}
}

func decodeObject(s string) (map[string]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty text")
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return obj, nil
}
