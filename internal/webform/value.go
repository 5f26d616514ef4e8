package webform

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedInput indicates the input is not a traversable JSON document.
// It is the only fatal error the extractor produces; every other "missing"
// condition surfaces as a zero-count Finding.
var ErrMalformedInput = errors.New("malformed input: not a JSON document")

// ParseDocument decodes raw bytes into the untyped JSON value the extractor
// traverses. Webform exports have no fixed top-level schema, so the result is
// kept as the generic encoding/json representation (map[string]any, []any,
// string, float64, bool, nil).
func ParseDocument(data []byte) (any, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return root, nil
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

func asArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asNumber(v any) (float64, bool) {
	n, ok := v.(float64)
	return n, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// hasString reports whether obj[key] exists and is a string.
func hasString(obj map[string]any, key string) bool {
	_, ok := asString(obj[key])
	return ok
}

// hasNumber reports whether obj[key] exists and is a number.
func hasNumber(obj map[string]any, key string) bool {
	_, ok := asNumber(obj[key])
	return ok
}

// hasBool reports whether obj[key] exists and is a boolean.
func hasBool(obj map[string]any, key string) bool {
	_, ok := asBool(obj[key])
	return ok
}

// hasArray reports whether obj[key] exists and is an array.
func hasArray(obj map[string]any, key string) bool {
	_, ok := asArray(obj[key])
	return ok
}

// hasObject reports whether obj[key] exists and is an object.
func hasObject(obj map[string]any, key string) bool {
	_, ok := asObject(obj[key])
	return ok
}

func stringAt(obj map[string]any, key string) string {
	s, _ := asString(obj[key])
	return s
}

func intAt(obj map[string]any, key string) int {
	n, _ := asNumber(obj[key])
	return int(n)
}

func boolAt(obj map[string]any, key string) bool {
	b, _ := asBool(obj[key])
	return b
}
