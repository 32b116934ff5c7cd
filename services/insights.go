package services

import (
	"flight-price-bot/models"
)

// Summarize computes per-route figures from the grouped history
func Summarize(groups []models.HistoryGroup) []models.RouteSummary {
	summaries := make([]models.RouteSummary, 0, len(groups))

	for _, g := range groups {
		if len(g.Observations) == 0 {
			continue
		}
		first := g.Observations[0]
		last := g.Observations[len(g.Observations)-1]

		s := models.RouteSummary{
			Route:     g.Route,
			Count:     len(g.Observations),
			MinPrice:  first.Price,
			MaxPrice:  first.Price,
			LastPrice: last.Price,
			FirstSeen: first.CapturedAt,
			LastSeen:  last.CapturedAt,
		}
		for _, o := range g.Observations[1:] {
			if o.Price.LessThan(s.MinPrice) {
				s.MinPrice = o.Price
			}
			if o.Price.GreaterThan(s.MaxPrice) {
				s.MaxPrice = o.Price
			}
		}
		summaries = append(summaries, s)
	}

	return summaries
}
