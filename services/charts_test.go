package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flight-price-bot/models"
	"flight-price-bot/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() []models.HistoryGroup {
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	store := &memoryStore{}
	for i, p := range []int64{10000, 9500, 9800, 9000} {
		store.obs = append(store.obs, models.Observation{
			CapturedAt: base.Add(time.Duration(i) * 20 * time.Minute),
			Route:      mowLed,
			Price:      decimal.NewFromInt(p),
		})
	}
	store.obs = append(store.obs, models.Observation{CapturedAt: base, Route: ledMow, Price: decimal.NewFromInt(7000)})
	groups, _ := store.ReadAll(context.Background())
	return groups
}

func TestChartRendererOneFilePerGroup(t *testing.T) {
	dir := t.TempDir()
	r := NewChartRenderer(dir, "₽", time.UTC, utils.NopLogger())

	charts, err := r.Render(sampleHistory())
	require.NoError(t, err)
	require.Len(t, charts, 2)

	assert.Equal(t, filepath.Join(dir, "plot_LED_MOW_2025-09-15.png"), charts[0].Path)
	assert.Equal(t, "Price dynamics LED → MOW (2025-09-15)", charts[0].Caption)
	assert.Equal(t, filepath.Join(dir, "plot_MOW_LED_2025-09-10.png"), charts[1].Path)

	for _, c := range charts {
		data, err := os.ReadFile(c.Path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "%s is not a PNG", c.Path)
	}
}

func TestChartRendererIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	r := NewChartRenderer(dir, "₽", time.UTC, utils.NopLogger())
	history := sampleHistory()

	first, err := r.Render(history)
	require.NoError(t, err)
	before, err := os.ReadFile(first[1].Path)
	require.NoError(t, err)

	second, err := r.Render(history)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	after, err := os.ReadFile(second[1].Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestChartRendererEmptyHistory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	charts, err := NewChartRenderer(dir, "₽", time.UTC, utils.NopLogger()).Render(nil)
	require.NoError(t, err)
	assert.Empty(t, charts)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestChartRendererSkipsMalformedRoutes(t *testing.T) {
	dir := t.TempDir()
	r := NewChartRenderer(dir, "₽", time.UTC, utils.NopLogger())
	at := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	groups := []models.HistoryGroup{
		{Route: models.Route{Origin: "MOW", Destination: "LED", Date: "2025/09/10"},
			Observations: []models.Observation{{CapturedAt: at, Price: decimal.NewFromInt(1)}}},
		{Route: models.Route{Origin: "MOW", Destination: "LED", Date: "2025.09.10"},
			Observations: []models.Observation{{CapturedAt: at, Price: decimal.NewFromInt(2)}}},
		{Route: models.Route{Origin: "../X", Destination: "LED", Date: "2025-09-10"},
			Observations: []models.Observation{{CapturedAt: at, Price: decimal.NewFromInt(3)}}},
		{Route: mowLed,
			Observations: []models.Observation{{CapturedAt: at, Route: mowLed, Price: decimal.NewFromInt(4)}}},
	}

	charts, err := r.Render(groups)
	require.Error(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, filepath.Join(dir, "plot_MOW_LED_2025-09-10.png"), charts[0].Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type stubRenderer struct {
	charts []models.Chart
	err    error
	calls  int
}

func (s *stubRenderer) Render([]models.HistoryGroup) ([]models.Chart, error) {
	s.calls++
	return s.charts, s.err
}

func TestChartReporterEmptyHistorySendsNothing(t *testing.T) {
	n := &recordingNotifier{}
	rend := &stubRenderer{}
	c := NewChartReporter(&memoryStore{}, rend, n, utils.NopLogger(), nil)

	sent, err := c.SendCharts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, rend.calls)
	assert.Empty(t, n.photos)
}

func TestChartReporterSendsEveryChart(t *testing.T) {
	store := &memoryStore{}
	require.NoError(t, store.Append(context.Background(), models.Observation{Route: mowLed, Price: decimal.NewFromInt(1)}))
	rend := &stubRenderer{
		charts: []models.Chart{{Path: "a.png", Caption: "A"}, {Path: "b.png", Caption: "B"}},
		err:    errors.New("third chart broke"),
	}
	n := &recordingNotifier{}

	sent, err := NewChartReporter(store, rend, n, utils.NopLogger(), nil).SendCharts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []photo{{"a.png", "A"}, {"b.png", "B"}}, n.photos)
}

func TestChartReporterDeliveryFailureContinues(t *testing.T) {
	store := &memoryStore{}
	require.NoError(t, store.Append(context.Background(), models.Observation{Route: mowLed, Price: decimal.NewFromInt(1)}))
	rend := &stubRenderer{charts: []models.Chart{{Path: "a.png"}, {Path: "b.png"}}}
	n := &recordingNotifier{err: errors.New("network")}

	sent, err := NewChartReporter(store, rend, n, utils.NopLogger(), nil).SendCharts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, n.photos, 2)
}

func TestChartReporterReadFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("disk gone")}
	_, err := NewChartReporter(store, &stubRenderer{}, &recordingNotifier{}, utils.NopLogger(), nil).SendCharts(context.Background())
	assert.Error(t, err)
}
