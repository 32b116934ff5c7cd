package storage

import (
	"sort"

	"flight-price-bot/models"
)

// GroupObservations groups observations by route. Groups are ordered by
// origin, destination and date; observations inside a group by capture time.
func GroupObservations(obs []models.Observation) []models.HistoryGroup {
	index := make(map[models.Route]int)
	var groups []models.HistoryGroup

	for _, o := range obs {
		i, ok := index[o.Route]
		if !ok {
			i = len(groups)
			index[o.Route] = i
			groups = append(groups, models.HistoryGroup{Route: o.Route})
		}
		groups[i].Observations = append(groups[i].Observations, o)
	}

	for i := range groups {
		g := groups[i].Observations
		sort.SliceStable(g, func(a, b int) bool {
			return g[a].CapturedAt.Before(g[b].CapturedAt)
		})
	}

	sort.Slice(groups, func(a, b int) bool {
		ra, rb := groups[a].Route, groups[b].Route
		if ra.Origin != rb.Origin {
			return ra.Origin < rb.Origin
		}
		if ra.Destination != rb.Destination {
			return ra.Destination < rb.Destination
		}
		return ra.Date < rb.Date
	})
	return groups
}
