package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jujumo/paragliding-flight-crawler/internal/igc"
	"github.com/jujumo/paragliding-flight-crawler/internal/trackio"
)

func main() {
	input := flag.String("i", "", "input IGC file")
	output := flag.String("o", "", "output track artifact (default: input with .track extension)")
	verbosity := flag.Int("v", 0, "verbosity: 0=warn 1=info 2=debug")
	logfile := flag.String("logfile", "", "write logs to this file with rotation instead of stderr")
	flag.Parse()

	logger := newLogger(*verbosity, *logfile)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "missing required -i input file")
		flag.Usage()
		os.Exit(2)
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(*input, filepath.Ext(*input)) + ".track"
	}

	if err := convert(*input, out, logger); err != nil {
		logger.Error("conversion failed", "input", *input, "error", err)
		os.Exit(1)
	}
}

func convert(input, output string, logger *slog.Logger) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	track, err := igc.Parse(f, logger)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", input, err)
	}

	if err := trackio.WriteFile(output, track); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	logger.Info("track converted", "input", input, "output", output, "fixes", len(track))
	return nil
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
