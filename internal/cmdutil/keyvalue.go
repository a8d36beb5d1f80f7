package cmdutil

import (
	"strings"
)

// KeyValue is a parsed key=value pair from a repeatable flag.
type KeyValue struct {
	Key   string
	Value string
}

// ParseKeyValues parses raw values of the named flag into KeyValue pairs.
// Each string must be "key=value" format, split on the first "=" only
// (the value may contain additional "=" characters). The key must not
// be empty, but the value may be empty.
func ParseKeyValues(flag string, raw []string) ([]KeyValue, error) {
	pairs := make([]KeyValue, 0, len(raw))
	for _, r := range raw {
		key, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, FlagErrorf("invalid --%s format: %q (expected key=value)", flag, r)
		}
		if key == "" {
			return nil, FlagErrorf("invalid --%s: empty key in %q", flag, r)
		}
		pairs = append(pairs, KeyValue{Key: key, Value: value})
	}
	return pairs, nil
}

// ValidateKeys checks that every pair's key is in validKeys.
// Returns a FlagError listing valid keys if an unknown key is found.
func ValidateKeys(flag string, pairs []KeyValue, validKeys []string) error {
	valid := make(map[string]struct{}, len(validKeys))
	for _, k := range validKeys {
		valid[k] = struct{}{}
	}
	for _, p := range pairs {
		if _, ok := valid[p.Key]; !ok {
			if len(validKeys) == 0 {
				return FlagErrorf("invalid --%s key %q; this command takes no arguments", flag, p.Key)
			}
			return FlagErrorf("invalid --%s key %q; valid keys: %s", flag, p.Key, strings.Join(validKeys, ", "))
		}
	}
	return nil
}

// KeyValueMap collects pairs into a map. Later pairs override earlier ones.
func KeyValueMap(pairs []KeyValue) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}
