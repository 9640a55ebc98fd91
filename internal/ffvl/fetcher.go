// Package ffvl fetches and scrapes flight pages from the FFVL results
// website, and crawls id ranges into the flight index.
package ffvl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultRootURL is the public FFVL results site.
const DefaultRootURL = "https://parapente.ffvl.fr"

// maxBodyBytes caps response bodies. Flight pages are tens of kilobytes and
// IGC files a few megabytes; anything near the cap is not what we asked for.
const maxBodyBytes = 20 << 20

// Fetcher retrieves flight pages and IGC files over HTTP.
type Fetcher struct {
	rootURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for the given site root. An empty rootURL
// selects the public FFVL site.
func NewFetcher(rootURL string, logger *slog.Logger) *Fetcher {
	if rootURL == "" {
		rootURL = DefaultRootURL
	}
	return &Fetcher{
		rootURL: rootURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// RootURL returns the configured site root.
func (f *Fetcher) RootURL() string {
	return f.rootURL
}

// FlightPage fetches the results page for one FFVL flight id.
func (f *Fetcher) FlightPage(ctx context.Context, flightID int) ([]byte, error) {
	return f.get(ctx, fmt.Sprintf("%s/cfd/liste/vol/%d", f.rootURL, flightID))
}

// Download fetches an IGC file by URL (as scraped from a flight page).
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response from %s exceeds %d byte limit", url, maxBodyBytes)
	}

	return body, nil
}
