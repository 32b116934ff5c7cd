package config

import (
	"fmt"
	"os"
	"strings"

	"flight-price-bot/models"

	"gopkg.in/yaml.v3"
)

// DefaultRoutes returns the compiled-in route list
func DefaultRoutes() []models.Route {
	return []models.Route{
		{Origin: "MOW", Destination: "LED", Date: "2025-09-10"},
		{Origin: "LED", Destination: "MOW", Date: "2025-09-15"},
	}
}

type routesFile struct {
	Routes []models.Route `yaml:"routes"`
}

// LoadRoutes reads a YAML route list, normalising airport codes to upper case
func LoadRoutes(path string) ([]models.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	var rf routesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse routes file %s: %w", path, err)
	}

	for i := range rf.Routes {
		rf.Routes[i].Origin = strings.ToUpper(strings.TrimSpace(rf.Routes[i].Origin))
		rf.Routes[i].Destination = strings.ToUpper(strings.TrimSpace(rf.Routes[i].Destination))
		rf.Routes[i].Date = strings.TrimSpace(rf.Routes[i].Date)
	}
	return rf.Routes, nil
}

// ValidateRoutes rejects an empty list, malformed codes or dates, and duplicates
func ValidateRoutes(routes []models.Route) error {
	if len(routes) == 0 {
		return fmt.Errorf("no routes configured")
	}

	seen := make(map[models.Route]struct{}, len(routes))
	for i, r := range routes {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("route %d: %w", i+1, err)
		}
		if _, dup := seen[r]; dup {
			return fmt.Errorf("route %d: duplicate route %s", i+1, r)
		}
		seen[r] = struct{}{}
	}
	return nil
}
