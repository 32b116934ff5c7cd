package services

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"flight-price-bot/models"
	"flight-price-bot/utils"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ChartRenderer draws one price-over-time PNG per route
type ChartRenderer struct {
	dir      string
	symbol   string
	location *time.Location
	logger   *utils.Logger
}

// NewChartRenderer creates a renderer writing into dir
func NewChartRenderer(dir, symbol string, loc *time.Location, logger *utils.Logger) *ChartRenderer {
	if loc == nil {
		loc = time.Local
	}
	return &ChartRenderer{dir: dir, symbol: symbol, location: loc, logger: logger}
}

// ChartPath returns the file a route's chart is written to. It depends only
// on the route, so regenerating overwrites the previous image. Only valid
// routes map to distinct, path-safe names.
func (r *ChartRenderer) ChartPath(route models.Route) string {
	return filepath.Join(r.dir, fmt.Sprintf("plot_%s_%s_%s.png", route.Origin, route.Destination, route.Date))
}

// Render writes a chart for every non-empty group with a valid route. A group
// that fails to render is skipped and its error returned alongside the charts
// that worked.
func (r *ChartRenderer) Render(groups []models.HistoryGroup) ([]models.Chart, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	var (
		charts []models.Chart
		errs   []error
	)
	for _, g := range groups {
		if len(g.Observations) == 0 {
			continue
		}
		if err := g.Route.Validate(); err != nil {
			r.logger.Warn("Skipping chart for malformed history route %q: %v", g.Route.Key(), err)
			errs = append(errs, fmt.Errorf("%s: %w", g.Route.Key(), err))
			continue
		}
		path := r.ChartPath(g.Route)
		if err := r.renderGroup(g, path); err != nil {
			r.logger.Error("Chart for %s failed: %v", g.Route, err)
			errs = append(errs, fmt.Errorf("%s: %w", g.Route, err))
			continue
		}
		charts = append(charts, models.Chart{Path: path, Caption: chartCaption(g.Route)})
	}

	r.logger.Info("Rendered %d charts into %s", len(charts), r.dir)
	return charts, errors.Join(errs...)
}

func (r *ChartRenderer) renderGroup(g models.HistoryGroup, path string) error {
	p := plot.New()
	p.Title.Text = g.Route.String()
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Price, " + r.symbol
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "01-02\n15:04",
		Time:   plot.UnixTimeIn(r.location),
	}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(g.Observations))
	for i, o := range g.Observations {
		pts[i].X = float64(o.CapturedAt.Unix())
		pts[i].Y = o.Price.InexactFloat64()
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("build series: %w", err)
	}
	line.LineStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Color = line.LineStyle.Color
	p.Add(line, points)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
