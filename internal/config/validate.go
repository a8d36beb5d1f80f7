package config

import (
	"fmt"
	"strings"
)

// ValidationError lists every invalid field found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks values that would otherwise fail late, mid-request.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Timeouts.Probe > 0, "timeouts.probe must be positive, got %s", c.Timeouts.Probe)
	check(c.Timeouts.Operation > 0, "timeouts.operation must be positive, got %s", c.Timeouts.Operation)
	check(c.Timeouts.Logs > 0, "timeouts.logs must be positive, got %s", c.Timeouts.Logs)
	check(len(c.Project.Markers) > 0, "project.markers must not be empty")
	for _, m := range c.Project.Markers {
		check(m != "" && !strings.ContainsAny(m, `/\`), "project.markers entry %q must be a plain file name", m)
	}
	check(strings.TrimSpace(c.Backup.Image) != "", "backup.image must not be empty")
	check(c.Logging.MaxSizeMB >= 0, "logging.max_size_mb must not be negative")

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
