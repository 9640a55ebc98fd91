package ffvl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jujumo/paragliding-flight-crawler/internal/index"
	"github.com/jujumo/paragliding-flight-crawler/internal/metrics"
	"github.com/jujumo/paragliding-flight-crawler/internal/trackio"
)

// CrawlConfig holds crawler tuning.
type CrawlConfig struct {
	Workers     int  // concurrent page fetches (default 10)
	Checkpoint  int  // save the index every N ids (default 500)
	Force       bool // ignore the resume point and re-crawl the full range
	DownloadIGC bool // also fetch and store the IGC file of each flight
}

// Crawler walks a range of FFVL flight ids, scrapes each results page, and
// folds the flights into the index, checkpointing as it goes. Flights
// without an IGC link are not indexed: they are useless to the polar
// pipeline downstream.
type Crawler struct {
	fetcher   *Fetcher
	idx       *index.Index
	indexPath string
	store     *trackio.Store // nil unless DownloadIGC
	config    CrawlConfig
	logger    *slog.Logger

	mu     sync.Mutex // guards idx across workers
	lastID atomic.Int64
}

// NewCrawler creates a crawler over an already-loaded index. store may be nil
// when IGC download is disabled.
func NewCrawler(fetcher *Fetcher, idx *index.Index, indexPath string, store *trackio.Store, config CrawlConfig, logger *slog.Logger) *Crawler {
	if config.Workers < 1 {
		config.Workers = 10
	}
	if config.Checkpoint < 1 {
		config.Checkpoint = 500
	}
	return &Crawler{
		fetcher:   fetcher,
		idx:       idx,
		indexPath: indexPath,
		store:     store,
		config:    config,
		logger:    logger,
	}
}

// Progress is a point-in-time snapshot for the status listener.
type Progress struct {
	LastFlightID int `json:"last_flight_id"`
	Indexed      int `json:"indexed"`
}

// Progress returns the crawl progress snapshot. Safe to call concurrently
// with Run.
func (c *Crawler) Progress() Progress {
	c.mu.Lock()
	indexed := c.idx.Len()
	c.mu.Unlock()
	return Progress{
		LastFlightID: int(c.lastID.Load()),
		Indexed:      indexed,
	}
}

// Run crawls ids in [first, last). Unless Force is set, the range start is
// advanced past the highest id already indexed, so interrupted crawls resume
// where they left off. The index is checkpointed after every batch and once
// more on the way out.
func (c *Crawler) Run(ctx context.Context, first, last int) error {
	if first >= last {
		return fmt.Errorf("empty flight id range [%d, %d)", first, last)
	}

	if !c.config.Force {
		if resume := c.idx.MaxFFVLID() + 1; resume > first {
			c.logger.Info("resuming crawl", "from_flight_id", resume)
			first = resume
		}
	}

	for start := first; start < last; start += c.config.Checkpoint {
		end := start + c.config.Checkpoint
		if end > last {
			end = last
		}

		if err := c.crawlBatch(ctx, start, end); err != nil {
			// Save what the interrupted batch collected before bailing out.
			if saveErr := c.saveIndex(); saveErr != nil {
				c.logger.Error("checkpoint save failed during shutdown", "error", saveErr)
			}
			return err
		}

		if err := c.saveIndex(); err != nil {
			return fmt.Errorf("checkpoint at flight %d: %w", end, err)
		}
		c.lastID.Store(int64(end - 1))
		metrics.SetLastFlightID(end - 1)
		c.logger.Info("checkpoint saved", "through_flight_id", end-1, "indexed", c.idx.Len())
	}

	return nil
}

// crawlBatch fetches one checkpoint-sized slice of the id range with a
// bounded worker pool. Page-level failures are logged and skipped; only
// context cancellation aborts the batch.
func (c *Crawler) crawlBatch(ctx context.Context, start, end int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)

	for id := start; id < end; id++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.crawlOne(ctx, id)
			return nil
		})
	}

	return g.Wait()
}

func (c *Crawler) crawlOne(ctx context.Context, id int) {
	fetchStart := time.Now()
	page, err := c.fetcher.FlightPage(ctx, id)
	if err != nil {
		metrics.RecordPageFetch("error", time.Since(fetchStart))
		c.logger.Warn("flight page fetch failed", "flight_id", id, "error", err)
		return
	}

	fl, err := ParseFlightPage(page, c.fetcher.RootURL(), id)
	if errors.Is(err, ErrNoFlight) {
		metrics.RecordPageFetch("empty", time.Since(fetchStart))
		c.logger.Debug("no data for flight", "flight_id", id)
		return
	}
	if err != nil {
		metrics.RecordPageFetch("error", time.Since(fetchStart))
		c.logger.Warn("flight page scrape failed", "flight_id", id, "error", err)
		return
	}
	metrics.RecordPageFetch("ok", time.Since(fetchStart))

	if fl.IGC == "" {
		c.logger.Debug("flight has no IGC file, skipping", "flight_id", id)
		return
	}

	if c.config.DownloadIGC && c.store != nil {
		c.downloadIGC(ctx, id, fl.IGC)
	}

	c.mu.Lock()
	c.idx.Put(*fl)
	size := c.idx.Len()
	c.mu.Unlock()

	metrics.AddFlightsIndexed(1)
	metrics.SetIndexSize(size)
}

func (c *Crawler) downloadIGC(ctx context.Context, id int, url string) {
	if c.store.Has(id) && !c.config.Force {
		return
	}

	body, err := c.fetcher.Download(ctx, resolveURL(c.fetcher.RootURL(), url))
	if err != nil {
		c.logger.Warn("IGC download failed", "flight_id", id, "url", url, "error", err)
		return
	}
	if err := c.store.Write(id, body); err != nil {
		c.logger.Warn("IGC store write failed", "flight_id", id, "error", err)
		return
	}
	metrics.AddIGCDownloadBytes(len(body))
}

func (c *Crawler) saveIndex() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.Save(c.indexPath)
}

// resolveURL turns a site-relative IGC href into an absolute URL.
func resolveURL(rootURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return rootURL + "/" + strings.TrimPrefix(href, "/")
}
