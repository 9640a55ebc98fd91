package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jujumo/paragliding-flight-crawler/internal/polar"
	"github.com/jujumo/paragliding-flight-crawler/internal/trackio"
)

func main() {
	cfg := polar.DefaultConfig()

	input := flag.String("i", "", "input track file (.igc or .track)")
	output := flag.String("o", "", "output prefix (default: input path without extension)")
	window := flag.Int("k", cfg.Window, "moving-average window size in samples")
	startIndex := flag.Int("start-index", 0, "restrict: first sample index")
	endIndex := flag.Int("end-index", 0, "restrict: one past the last sample index (0 = end)")
	startTime := flag.Float64("start-time", 0, "restrict: earliest epoch timestamp to keep")
	endTime := flag.Float64("end-time", 0, "restrict: epoch timestamp to stop before")
	maxH := flag.Float64("max-horizontal", cfg.MaxHorizontal, "drop samples at or above this horizontal speed (m/s)")
	maxV := flag.Float64("max-vertical", cfg.MaxVertical, "drop samples at or above this vertical speed magnitude (m/s)")
	verbosity := flag.Int("v", 0, "verbosity: 0=warn 1=info 2=debug")
	logfile := flag.String("logfile", "", "write logs to this file with rotation instead of stderr")
	flag.Parse()

	logger := newLogger(*verbosity, *logfile)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "missing required -i input file")
		flag.Usage()
		os.Exit(2)
	}

	cfg.Window = windowFromEnv(logger, *window)
	cfg.MaxHorizontal = *maxH
	cfg.MaxVertical = *maxV
	cfg.Restrict = polar.Restrict{
		StartIndex: *startIndex,
		EndIndex:   *endIndex,
		StartTime:  *startTime,
		EndTime:    *endTime,
	}

	prefix := *output
	if prefix == "" {
		prefix = strings.TrimSuffix(*input, filepath.Ext(*input))
	}

	if err := run(*input, prefix, cfg, logger); err != nil {
		logger.Error("polar derivation failed", "input", *input, "error", err)
		os.Exit(1)
	}
}

func run(input, prefix string, cfg polar.Config, logger *slog.Logger) error {
	pipeline := polar.NewPipeline(cfg, logger)

	var result *polar.Result
	switch filepath.Ext(input) {
	case ".track":
		track, err := trackio.ReadFile(input)
		if err != nil {
			return fmt.Errorf("loading track artifact: %w", err)
		}
		result, err = pipeline.RunTrack(track)
		if err != nil {
			return err
		}
	default:
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		result, err = pipeline.Run(f)
		if err != nil {
			return err
		}
	}

	trackPath := prefix + "_track.csv"
	polarPath := prefix + "_polar.csv"

	if err := writeCSV(trackPath, func(w io.Writer) error {
		return polar.WriteTrackCSV(w, result.Smoothed)
	}); err != nil {
		return fmt.Errorf("writing %s: %w", trackPath, err)
	}
	if err := writeCSV(polarPath, func(w io.Writer) error {
		return polar.WritePolarCSV(w, result.Polar)
	}); err != nil {
		return fmt.Errorf("writing %s: %w", polarPath, err)
	}

	logger.Info("polar written",
		"track_csv", trackPath,
		"polar_csv", polarPath,
		"smoothed_samples", len(result.Smoothed),
		"polar_samples", len(result.Polar),
	)
	return nil
}

func writeCSV(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// windowFromEnv lets POLARGO_WINDOW override the default when the flag was
// left at its default value.
func windowFromEnv(logger *slog.Logger, flagValue int) int {
	if flagValue != polar.DefaultConfig().Window {
		return flagValue
	}
	if v := os.Getenv("POLARGO_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid POLARGO_WINDOW value, using default", "value", v, "default", flagValue)
		} else {
			return n
		}
	}
	return flagValue
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
