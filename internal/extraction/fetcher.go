package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/iyhunko/price-monitor/internal/metrics"
)

const (
	// UserAgent is the mobile browser profile sent with every vendor request.
	UserAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Mobile Safari/537.36"

	// RegionCookie pins the vendor's regional catalogue.
	RegionCookie = "MVID_CITY_ID=CityCZ_975; MVID_REGION_ID=1; MVID_REGION_SHOP=S002; MVID_TIMEZONE_OFFSET=3;"

	DefaultTimeout = 30 * time.Second
)

// Fetcher issues single GET requests to the vendor API.
type Fetcher struct {
	collector *colly.Collector
}

// NewFetcher builds a Fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	collector := colly.NewCollector(
		colly.UserAgent(UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(timeout)
	// the region cookie is sent verbatim; vendor Set-Cookie headers must not leak into later requests
	collector.DisableCookies()

	return &Fetcher{collector: collector}
}

// WithTransport replaces the HTTP transport used for every request.
func (f *Fetcher) WithTransport(transport http.RoundTripper) {
	f.collector.WithTransport(transport)
}

// FetchDocument downloads rawURL and parses the response as JSON. No retries are made.
func (f *Fetcher) FetchDocument(ctx context.Context, rawURL string) (Document, error) {
	if err := ValidateURL(rawURL); err != nil {
		return Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return Document{}, ConnectionError{URL: rawURL, Err: err}
	}

	var (
		doc      Document
		fetchErr error
		received bool
	)

	// callbacks are per collector, so each fetch gets its own clone sharing the backend
	c := f.collector.Clone()
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Cookie", RegionCookie)
		slog.Debug("vendor request", slog.String("url", r.URL.String()))
	})
	c.OnResponse(func(r *colly.Response) {
		received = true
		if r.StatusCode != http.StatusOK {
			fetchErr = classifyStatus(rawURL, r.StatusCode)
			return
		}
		parsed, err := ParseDocument(r.Body)
		if err != nil {
			fetchErr = FormatError{URL: rawURL, StatusCode: r.StatusCode, Err: errInvalidJSON}
			return
		}
		doc = parsed
	})
	c.OnError(func(r *colly.Response, err error) {
		received = true
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		if statusCode == 0 {
			fetchErr = ConnectionError{URL: rawURL, Err: err}
		} else {
			fetchErr = classifyStatus(rawURL, statusCode)
		}
		slog.Warn("vendor request failed",
			slog.String("url", rawURL),
			slog.Int("status", statusCode),
			slog.String("kind", Kind(fetchErr)),
			slog.Any("err", err),
		)
	})

	start := time.Now()
	visitErr := c.Visit(rawURL)
	if received {
		metrics.VendorFetchDuration.Observe(time.Since(start).Seconds())
	}
	switch {
	case fetchErr != nil:
		return Document{}, fetchErr
	case visitErr != nil && !received:
		return Document{}, MalformedURLError{URL: rawURL, Err: visitErr}
	case !received:
		if err := ctx.Err(); err != nil {
			return Document{}, ConnectionError{URL: rawURL, Err: err}
		}
		return Document{}, ConnectionError{URL: rawURL, Err: errors.New("request was not sent")}
	}
	return doc, nil
}

func classifyStatus(rawURL string, statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AuthError{URL: rawURL, StatusCode: statusCode}
	default:
		return FormatError{URL: rawURL, StatusCode: statusCode}
	}
}

// ValidateURL accepts only absolute http(s) URLs with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return MalformedURLError{URL: rawURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return MalformedURLError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return MalformedURLError{URL: rawURL, Err: errors.New("missing host")}
	}
	return nil
}
