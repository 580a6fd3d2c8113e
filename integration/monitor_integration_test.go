package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/iyhunko/price-monitor/internal/clock"
	"github.com/iyhunko/price-monitor/internal/extraction"
	"github.com/iyhunko/price-monitor/internal/metrics"
	reposql "github.com/iyhunko/price-monitor/internal/repository/sql"
	"github.com/iyhunko/price-monitor/internal/service"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_RunOnce_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()
	repo := reposql.NewCatalogRepository(testDB.DB)

	transport := httpmock.NewMockTransport()
	fetcher := extraction.NewFetcher(time.Second)
	fetcher.WithTransport(transport)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	monitor := service.NewMonitor(repo, fetcher, clock.NewFakeClock(now), service.MonitorConfig{
		Interval: time.Hour,
		Backoff:  5 * time.Minute,
	})

	t.Run("empty catalog backs off", func(t *testing.T) {
		testDB.TruncateTables(t)

		result := monitor.RunOnce(ctx)

		assert.Equal(t, metrics.ScanOutcomeEmptyCatalog, result.Outcome)
		assert.Equal(t, 5*time.Minute, result.Next)
	})

	t.Run("one broken product does not stop the batch", func(t *testing.T) {
		// given
		testDB.TruncateTables(t)
		ok := newWidget(nil)
		ok.URLPrice = "https://vendor/api/price/1"
		broken := newWidget(nil)
		broken.URLPrice = "https://vendor/api/price/2"
		okID, err := repo.AddProduct(ctx, ok)
		require.NoError(t, err)
		brokenID, err := repo.AddProduct(ctx, broken)
		require.NoError(t, err)

		transport.RegisterResponder("GET", ok.URLPrice,
			httpmock.NewStringResponder(http.StatusOK, `{"body":{"materialPrices":[{"price":{"salePrice":1999}}]}}`))
		transport.RegisterResponder("GET", broken.URLPrice,
			httpmock.NewStringResponder(http.StatusOK, `{"body":{"materialPrices":[]}}`))

		// when
		result := monitor.RunOnce(ctx)

		// then
		assert.Equal(t, metrics.ScanOutcomeCompleted, result.Outcome)
		assert.Equal(t, 1, result.Recorded)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, time.Hour, result.Next)

		history, err := repo.PriceHistory(ctx, okID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, 1999.0, history[0].Price)
		assert.True(t, history[0].RecordedAt.Equal(now))

		history, err = repo.PriceHistory(ctx, brokenID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
