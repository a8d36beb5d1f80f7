package dockmcp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/schmitthub/dockmcp/internal/config"
	"github.com/schmitthub/dockmcp/internal/dockmcp"
)

// TestMain lets scripts exec the dockmcp binary in-process.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"dockmcp": dockmcp.Main,
	}))
}

// TestScripts runs the CLI scripts under testdata/script. None of them
// need a Docker daemon.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(e *testscript.Env) error {
			e.Setenv(config.ConfigDirEnv, filepath.Join(e.WorkDir, ".dockmcp"))
			e.Setenv("NO_COLOR", "1")
			return nil
		},
		UpdateScripts:       os.Getenv("UPDATE_GOLDEN") == "1",
		RequireExplicitExec: true,
		RequireUniqueNames:  true,
	})
}
