package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date format used for travel dates
const DateLayout = "2006-01-02"

var iataRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Route is a tracked (origin, destination, travel date) triple
type Route struct {
	Origin      string `yaml:"origin" json:"origin"`
	Destination string `yaml:"destination" json:"destination"`
	Date        string `yaml:"date" json:"date"` // YYYY-MM-DD
}

// Key returns a stable identifier for the route
func (r Route) Key() string {
	return r.Origin + "|" + r.Destination + "|" + r.Date
}

// Validate checks for IATA airport codes, distinct airports and an ISO date
func (r Route) Validate() error {
	if !iataRegex.MatchString(r.Origin) {
		return fmt.Errorf("origin %q is not an IATA code", r.Origin)
	}
	if !iataRegex.MatchString(r.Destination) {
		return fmt.Errorf("destination %q is not an IATA code", r.Destination)
	}
	if r.Origin == r.Destination {
		return fmt.Errorf("origin and destination are both %s", r.Origin)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD", r.Date)
	}
	return nil
}

func (r Route) String() string {
	return fmt.Sprintf("%s → %s (%s)", r.Origin, r.Destination, r.Date)
}

// Observation is one timestamped price reading for a route
type Observation struct {
	CapturedAt time.Time
	Route      Route
	Price      decimal.Decimal
}

// HistoryGroup holds every observation of one route, oldest first
type HistoryGroup struct {
	Route        Route
	Observations []Observation
}

// RouteSummary holds computed figures for one history group
type RouteSummary struct {
	Route     Route
	Count     int
	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	LastPrice decimal.Decimal
	FirstSeen time.Time
	LastSeen  time.Time
}

// Chart is a rendered image ready to be sent
type Chart struct {
	Path    string
	Caption string
}
