package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/iostreams/iostreamstest"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		buildDate string
		want      string
	}{
		{
			name:    "version only",
			version: "1.2.3",
			want:    "dockmcp version 1.2.3\n",
		},
		{
			name:      "version with date",
			version:   "1.2.3",
			buildDate: "2026-02-11",
			want:      "dockmcp version 1.2.3 (2026-02-11)\n",
		},
		{
			name:    "dev version",
			version: "DEV",
			want:    "dockmcp version DEV\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.version, tt.buildDate)
			if got != tt.want {
				t.Errorf("Format(%q, %q) = %q, want %q", tt.version, tt.buildDate, got, tt.want)
			}
		})
	}
}

func TestNewCmdVersion(t *testing.T) {
	ios := iostreamstest.New()
	f := &cmdutil.Factory{IOStreams: ios.IOStreams, Commit: "abc123"}

	cmd := NewCmdVersion(f, "v0.4.0", "2026-10-01")
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "dockmcp version 0.4.0 (2026-10-01)\n", ios.OutBuf.String())

	ios.OutBuf.Reset()
	f.Debug = true
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "dockmcp version 0.4.0 (2026-10-01)\ncommit abc123\n", ios.OutBuf.String())
}
