package cmdutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    []KeyValue
		wantErr string
	}{
		{
			name: "single pair",
			raw:  []string{"tail=20"},
			want: []KeyValue{{Key: "tail", Value: "20"}},
		},
		{
			name: "multiple pairs",
			raw:  []string{"container_identifier=web", "force=true"},
			want: []KeyValue{
				{Key: "container_identifier", Value: "web"},
				{Key: "force", Value: "true"},
			},
		},
		{
			name: "value contains equals",
			raw:  []string{"labels=env=prod"},
			want: []KeyValue{{Key: "labels", Value: "env=prod"}},
		},
		{
			name: "empty value is valid",
			raw:  []string{"ipv4_address="},
			want: []KeyValue{{Key: "ipv4_address", Value: ""}},
		},
		{
			name: "nil input",
			raw:  nil,
			want: []KeyValue{},
		},
		{
			name:    "missing equals sign",
			raw:     []string{"invalid"},
			wantErr: `invalid --arg format: "invalid" (expected key=value)`,
		},
		{
			name:    "empty key",
			raw:     []string{"=value"},
			wantErr: `invalid --arg: empty key in "=value"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyValues("arg", tt.raw)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				var flagErr *FlagError
				assert.True(t, errors.As(err, &flagErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateKeys(t *testing.T) {
	pairs := []KeyValue{{Key: "tail", Value: "5"}, {Key: "since", Value: "1h"}}

	err := ValidateKeys("arg", pairs, []string{"container_identifier", "tail"})
	require.EqualError(t, err, `invalid --arg key "since"; valid keys: container_identifier, tail`)

	err = ValidateKeys("arg", pairs, nil)
	require.EqualError(t, err, `invalid --arg key "tail"; this command takes no arguments`)

	assert.NoError(t, ValidateKeys("arg", pairs, []string{"since", "tail"}))
	assert.NoError(t, ValidateKeys("arg", nil, nil))
}

func TestKeyValueMap(t *testing.T) {
	got := KeyValueMap([]KeyValue{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "a", Value: "3"}})
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, got)
}
