package compose

import (
	"bufio"
	"encoding/json"
	"strings"
)

// Service is one row of compose ps output. Raw holds a line that was not
// JSON, in which case every other field is empty.
type Service struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Service string      `json:"service"`
	Status  string      `json:"status"`
	Ports   []Publisher `json:"ports"`
	Raw     string      `json:"-"`
}

// Publisher is a published port as reported by compose.
type Publisher struct {
	URL           string `json:"URL"`
	TargetPort    int    `json:"TargetPort"`
	PublishedPort int    `json:"PublishedPort"`
	Protocol      string `json:"Protocol"`
}

// MarshalJSON emits {"raw": line} for unparsed rows.
func (s Service) MarshalJSON() ([]byte, error) {
	if s.Raw != "" {
		return json.Marshal(map[string]string{"raw": s.Raw})
	}
	type plain Service
	p := plain(s)
	if p.Ports == nil {
		p.Ports = []Publisher{}
	}
	return json.Marshal(p)
}

// psEntry is the shape of `compose ps --format json` objects.
type psEntry struct {
	ID         string      `json:"ID"`
	Name       string      `json:"Name"`
	Service    string      `json:"Service"`
	State      string      `json:"State"`
	Publishers []Publisher `json:"Publishers"`
}

func (e psEntry) service() Service {
	return Service{ID: e.ID, Name: e.Name, Service: e.Service, Status: e.State, Ports: e.Publishers}
}

// ParsePs parses compose ps output. Newer releases print one JSON object per
// line; older v2 releases print a single JSON array. Lines that are neither
// become raw rows.
func ParsePs(out string) []Service {
	services := []Service{}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return services
	}

	if strings.HasPrefix(trimmed, "[") {
		var entries []psEntry
		if err := json.Unmarshal([]byte(trimmed), &entries); err == nil {
			for _, e := range entries {
				services = append(services, e.service())
			}
			return services
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e psEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			services = append(services, Service{Raw: line})
			continue
		}
		services = append(services, e.service())
	}
	return services
}
