// Package toto fetches the Toto Formule 1 outrights page and turns its
// rendered text into market snapshots for reconciliation.
package toto

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookie/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// userAgent mirrors a desktop browser; the feed serves a cut-down page to
// unknown clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ErrFetchThrottled is returned when Fetch is called again before the
// configured minimum interval has passed.
var ErrFetchThrottled = errors.New("feed fetch throttled")

// Client fetches and parses the Toto outrights page. It satisfies the sync
// worker's snapshot fetcher contract.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a feed client for the given URL. minInterval throttles
// fetches so a manually triggered sync cannot hammer the feed; a Fetch
// inside the window fails with ErrFetchThrottled. A non-positive interval
// disables the throttle.
func NewClient(url string, minInterval time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Fetch downloads the feed page and parses it into market snapshots
func (c *Client) Fetch(ctx context.Context) ([]models.MarketSnapshot, error) {
	if !c.limiter.Allow() {
		return nil, ErrFetchThrottled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	snapshot, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"url":     c.url,
		"markets": len(snapshot),
	}).Debug("Fetched feed snapshot")

	return snapshot, nil
}
