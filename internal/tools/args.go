package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Args holds validated tool arguments. Accessors fall back to the schema
// default, then to the zero value.
type Args struct {
	values map[string]any
	schema Schema
}

// NewArgs wraps values for schema. It does not validate.
func NewArgs(schema Schema, values map[string]any) Args {
	if values == nil {
		values = map[string]any{}
	}
	return Args{values: values, schema: schema}
}

func (a Args) get(name string) (any, bool) {
	if v, ok := a.values[name]; ok && v != nil {
		return v, true
	}
	return a.schema.defaultOf(name)
}

// Has reports whether the caller supplied name.
func (a Args) Has(name string) bool {
	v, ok := a.values[name]
	return ok && v != nil
}

// String returns a string argument.
func (a Args) String(name string) string {
	v, _ := a.get(name)
	s, _ := v.(string)
	return s
}

// Bool returns a boolean argument.
func (a Args) Bool(name string) bool {
	v, _ := a.get(name)
	b, _ := v.(bool)
	return b
}

// Int returns an integer argument.
func (a Args) Int(name string) int {
	v, _ := a.get(name)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}

// Strings returns a list-of-strings argument.
func (a Args) Strings(name string) []string {
	v, _ := a.get(name)
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// StringMap returns a string-to-string object argument.
func (a Args) StringMap(name string) map[string]string {
	v, _ := a.get(name)
	switch m := v.(type) {
	case map[string]string:
		return m
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, item := range m {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

// CoerceFlags converts key=value command-line arguments to typed values
// using the tool's schema: integers and booleans are parsed, lists are
// comma-separated and objects are comma-separated k=v pairs.
func CoerceFlags(schema Schema, flags map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(flags))
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := flags[key]
		switch schema.propertyType(key) {
		case "integer":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &ArgumentError{Message: fmt.Sprintf("argument %q must be an integer, got %q", key, raw)}
			}
			out[key] = n
		case "boolean":
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, &ArgumentError{Message: fmt.Sprintf("argument %q must be true or false, got %q", key, raw)}
			}
			out[key] = b
		case "array":
			items := []any{}
			for _, item := range splitList(raw) {
				items = append(items, item)
			}
			out[key] = items
		case "object":
			m := map[string]any{}
			for _, pair := range splitList(raw) {
				k, v, ok := strings.Cut(pair, "=")
				if !ok || k == "" {
					return nil, &ArgumentError{Message: fmt.Sprintf("argument %q expects key=value pairs, got %q", key, pair)}
				}
				m[k] = v
			}
			out[key] = m
		default:
			out[key] = raw
		}
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
