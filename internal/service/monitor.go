package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/price-monitor/internal/clock"
	"github.com/iyhunko/price-monitor/internal/extraction"
	"github.com/iyhunko/price-monitor/internal/metrics"
	"github.com/iyhunko/price-monitor/internal/repository"
)

type MonitorState string

const (
	StateIdle     MonitorState = "idle"
	StateScanning MonitorState = "scanning"
)

// MonitorConfig controls the scan cadence.
type MonitorConfig struct {
	// Interval is the wait after a completed batch.
	Interval time.Duration
	// Backoff is the wait after an empty catalog or a failed listing.
	Backoff time.Duration
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval: time.Hour,
		Backoff:  5 * time.Minute,
	}
}

func (c MonitorConfig) withDefaults() MonitorConfig {
	def := DefaultMonitorConfig()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.Backoff <= 0 {
		c.Backoff = def.Backoff
	}
	return c
}

// ScanResult summarizes one scan.
type ScanResult struct {
	RunID    string
	Outcome  string
	Recorded int
	Failed   int
	Next     time.Duration
}

// Monitor periodically records the current price of every product in the catalog.
type Monitor struct {
	store   repository.CatalogStore
	fetcher DocumentFetcher
	clock   clock.Clock
	cfg     MonitorConfig

	scanning atomic.Bool
}

func NewMonitor(store repository.CatalogStore, fetcher DocumentFetcher, clk clock.Clock, cfg MonitorConfig) *Monitor {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Monitor{
		store:   store,
		fetcher: fetcher,
		clock:   clk,
		cfg:     cfg.withDefaults(),
	}
}

func (m *Monitor) State() MonitorState {
	if m.scanning.Load() {
		return StateScanning
	}
	return StateIdle
}

// Start scans immediately and then after every delay reported by the previous scan, until ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	slog.Info("Monitor started", slog.Duration("interval", m.cfg.Interval), slog.Duration("backoff", m.cfg.Backoff))

	for {
		result := m.RunOnce(ctx)
		if ctx.Err() != nil {
			slog.Info("Monitor stopped by context")
			return
		}

		select {
		case <-ctx.Done():
			slog.Info("Monitor stopped by context")
			return
		case <-m.clock.After(result.Next):
		}
	}
}

// RunOnce performs a single scan over the catalog.
func (m *Monitor) RunOnce(ctx context.Context) ScanResult {
	m.setScanning(true)
	defer m.setScanning(false)

	result := ScanResult{RunID: uuid.NewString()}
	logger := slog.With(slog.String("run_id", result.RunID))

	products, err := m.store.ListProducts(ctx)
	if err != nil {
		logger.Error("failed to list products", slog.Any("err", err))
		result.Outcome = metrics.ScanOutcomeListFailed
		result.Next = m.cfg.Backoff
		metrics.ScanCycles.WithLabelValues(result.Outcome).Inc()
		return result
	}
	if len(products) == 0 {
		logger.Info("no products under monitoring")
		result.Outcome = metrics.ScanOutcomeEmptyCatalog
		result.Next = m.cfg.Backoff
		metrics.ScanCycles.WithLabelValues(result.Outcome).Inc()
		return result
	}

	logger.Info("scan started", slog.Int("products", len(products)))
	for _, product := range products {
		if ctx.Err() != nil {
			logger.Info("scan interrupted", slog.Int("recorded", result.Recorded), slog.Int("failed", result.Failed))
			result.Outcome = metrics.ScanOutcomeInterrupted
			result.Next = m.cfg.Backoff
			metrics.ScanCycles.WithLabelValues(result.Outcome).Inc()
			return result
		}

		price, err := m.currentPrice(ctx, product.URLPrice)
		if err != nil {
			kind := extraction.Kind(err)
			metrics.ExtractionFailures.WithLabelValues(kind).Inc()
			logger.Warn("failed to extract price",
				slog.Int64("product_id", product.ID),
				slog.String("kind", kind),
				slog.Any("err", err))
			result.Failed++
			continue
		}

		if _, err := m.store.AppendPriceSample(ctx, product.ID, price, m.clock.Now()); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				logger.Info("product removed during scan", slog.Int64("product_id", product.ID))
			} else {
				logger.Error("failed to record price", slog.Int64("product_id", product.ID), slog.Any("err", err))
			}
			result.Failed++
			continue
		}

		metrics.PriceSamplesRecorded.Inc()
		result.Recorded++
	}

	result.Outcome = metrics.ScanOutcomeCompleted
	result.Next = m.cfg.Interval
	metrics.ScanCycles.WithLabelValues(result.Outcome).Inc()
	logger.Info("scan finished",
		slog.Int("recorded", result.Recorded),
		slog.Int("failed", result.Failed),
		slog.Duration("next", result.Next))
	return result
}

func (m *Monitor) currentPrice(ctx context.Context, url string) (float64, error) {
	doc, err := m.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return 0, err
	}
	return extraction.ExtractPrice(doc)
}

func (m *Monitor) setScanning(scanning bool) {
	m.scanning.Store(scanning)
	if scanning {
		metrics.MonitorState.Set(1)
	} else {
		metrics.MonitorState.Set(0)
	}
}
