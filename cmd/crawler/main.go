package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jujumo/paragliding-flight-crawler/internal/ffvl"
	"github.com/jujumo/paragliding-flight-crawler/internal/index"
	"github.com/jujumo/paragliding-flight-crawler/internal/metrics"
	"github.com/jujumo/paragliding-flight-crawler/internal/status"
	"github.com/jujumo/paragliding-flight-crawler/internal/trackio"
)

func main() {
	first := flag.Int("first", 0, "first flight id to crawl")
	last := flag.Int("last", 0, "one past the last flight id to crawl")
	indexPath := flag.String("index", "flights.csv", "flight index CSV path")
	igcDir := flag.String("igc-dir", "igc", "directory for downloaded IGC files")
	download := flag.Bool("download", false, "download IGC files alongside the index")
	workers := flag.Int("workers", 0, "concurrent page fetches (default 10)")
	checkpoint := flag.Int("checkpoint", 0, "save the index every N ids (default 500)")
	force := flag.Bool("force", false, "re-crawl ids already present in the index")
	rootURL := flag.String("root", "", "FFVL site root URL (default "+ffvl.DefaultRootURL+")")
	statusAddr := flag.String("status-addr", "", "serve /healthz, /metrics and progress on this address (empty = disabled)")
	verbosity := flag.Int("v", 0, "verbosity: 0=warn 1=info 2=debug")
	logfile := flag.String("logfile", "", "write logs to this file with rotation instead of stderr")
	flag.Parse()

	logger := newLogger(*verbosity, *logfile)

	if *first <= 0 || *last <= 0 {
		fmt.Fprintln(os.Stderr, "missing required -first/-last flight id range")
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadCrawlConfig(logger, *workers, *checkpoint)
	cfg.Force = *force
	cfg.DownloadIGC = *download

	root := *rootURL
	if root == "" {
		root = os.Getenv("POLARGO_FFVL_ROOT")
	}
	if root == "" {
		root = ffvl.DefaultRootURL
	}

	idx, err := index.Load(*indexPath)
	if err != nil {
		logger.Error("loading flight index", "path", *indexPath, "error", err)
		os.Exit(1)
	}
	metrics.SetIndexSize(idx.Len())

	var store *trackio.Store
	if cfg.DownloadIGC {
		store = trackio.NewStore(*igcDir)
	}

	fetcher := ffvl.NewFetcher(root, logger)
	crawler := ffvl.NewCrawler(fetcher, idx, *indexPath, store, cfg, logger)

	// Graceful shutdown on SIGINT/SIGTERM; the crawler checkpoints the index
	// before returning.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *status.Server
	if *statusAddr != "" {
		srv = status.NewServer(*statusAddr, logger, crawler.Progress)
		go func() {
			logger.Info("starting status listener", "addr", *statusAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status listener error", "error", err)
				os.Exit(1)
			}
		}()
	}

	logger.Info("starting crawl",
		"first", *first,
		"last", *last,
		"workers", cfg.Workers,
		"checkpoint", cfg.Checkpoint,
		"download_igc", cfg.DownloadIGC,
		"root", root,
	)

	crawlErr := crawler.Run(ctx, *first, *last)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
			logger.Error("status listener shutdown error", "error", err)
		}
	}

	if crawlErr != nil {
		if errors.Is(crawlErr, context.Canceled) {
			logger.Info("crawl interrupted", "progress", crawler.Progress())
			return
		}
		logger.Error("crawl failed", "error", crawlErr)
		os.Exit(1)
	}

	logger.Info("crawl complete", "indexed", idx.Len())
}

func loadCrawlConfig(logger *slog.Logger, workers, checkpoint int) ffvl.CrawlConfig {
	cfg := ffvl.CrawlConfig{Workers: workers, Checkpoint: checkpoint}

	if cfg.Workers == 0 {
		if v := os.Getenv("POLARGO_CRAWL_WORKERS"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				logger.Warn("invalid POLARGO_CRAWL_WORKERS value, using default", "value", v, "default", 10)
			} else {
				cfg.Workers = n
			}
		}
	}

	if cfg.Checkpoint == 0 {
		if v := os.Getenv("POLARGO_CRAWL_CHECKPOINT"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				logger.Warn("invalid POLARGO_CRAWL_CHECKPOINT value, using default", "value", v, "default", 500)
			} else {
				cfg.Checkpoint = n
			}
		}
	}

	return cfg
}

func newLogger(verbosity int, logfile string) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if logfile != "" {
		out = &lumberjack.Logger{
			Filename:   logfile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
