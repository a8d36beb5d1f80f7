package compose

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/project"
)

// overrideFiles are merged over the marker file by compose itself.
var overrideFiles = []string{
	"docker-compose.override.yml",
	"docker-compose.override.yaml",
	"compose.override.yml",
	"compose.override.yaml",
}

// projectFile is the subset of a compose file needed to name its services.
type projectFile struct {
	Services map[string]yaml.Node `yaml:"services"`
}

// ServiceNames returns the sorted service names declared by the project's
// compose file and any override file beside it. ok is false when a file
// could not be parsed, in which case callers should not validate against
// the result.
func ServiceNames(fs afero.Fs, loc *project.Location) (names []string, ok bool) {
	files := []string{loc.Marker}
	for _, name := range overrideFiles {
		if exists, _ := afero.Exists(fs, filepath.Join(loc.Dir, name)); exists {
			files = append(files, name)
		}
	}

	seen := map[string]bool{}
	for _, name := range files {
		path := filepath.Join(loc.Dir, name)
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			logger.Debug().Err(err).Str("file", path).Msg("skipping service validation")
			return nil, false
		}
		var pf projectFile
		if err := yaml.Unmarshal(data, &pf); err != nil {
			logger.Debug().Err(err).Str("file", path).Msg("skipping service validation")
			return nil, false
		}
		for svc := range pf.Services {
			seen[svc] = true
		}
	}

	names = make([]string, 0, len(seen))
	for svc := range seen {
		names = append(names, svc)
	}
	sort.Strings(names)
	return names, true
}

// validateServices rejects requested services the project does not declare.
// Validation is skipped when the compose files cannot be read or parsed, or
// declare no services at all.
func (r *Runner) validateServices(loc *project.Location, requested []string) error {
	if len(requested) == 0 || r.Locator == nil || r.Locator.Fs == nil {
		return nil
	}
	known, ok := ServiceNames(r.Locator.Fs, loc)
	if !ok || len(known) == 0 {
		return nil
	}
	var unknown []string
	for _, svc := range requested {
		if !slices.Contains(known, svc) {
			unknown = append(unknown, svc)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return &ArgumentError{Message: fmt.Sprintf(
		"Unknown service(s) %s in %s. Available: %s",
		strings.Join(unknown, ", "), loc.Marker, strings.Join(known, ", "),
	)}
}
