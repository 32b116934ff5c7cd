package services

import (
	"fmt"
	"io"
	"strings"

	"flight-price-bot/models"
)

// PrintHistoryReport formats the per-route summary for the terminal
func PrintHistoryReport(w io.Writer, summaries []models.RouteSummary, symbol string) {
	const width = 55
	border := strings.Repeat("═", width)
	thin := strings.Repeat("─", width)

	fmt.Fprintf(w, "\n╔%s╗\n║%-*s║\n╚%s╝\n", border, width, "  FLIGHT PRICE HISTORY", border)

	if len(summaries) == 0 {
		fmt.Fprintf(w, "\n  No observations recorded yet.\n\n")
		return
	}

	total := 0
	for _, s := range summaries {
		total += s.Count
	}
	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Routes tracked          : %d\n", len(summaries))
	fmt.Fprintf(w, "  Observations recorded   : %d\n", total)

	for _, s := range summaries {
		fmt.Fprintf(w, "\n %s\n%s\n", s.Route, thin)
		fmt.Fprintf(w, "  Observations : %d\n", s.Count)
		fmt.Fprintf(w, "  Lowest       : %s%s\n", s.MinPrice, symbol)
		fmt.Fprintf(w, "  Highest      : %s%s\n", s.MaxPrice, symbol)
		fmt.Fprintf(w, "  Latest       : %s%s\n", s.LastPrice, symbol)
		fmt.Fprintf(w, "  Period       : %s — %s\n",
			s.FirstSeen.Format("2006-01-02 15:04"), s.LastSeen.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}
