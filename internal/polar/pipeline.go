package polar

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jujumo/paragliding-flight-crawler/internal/geom"
	"github.com/jujumo/paragliding-flight-crawler/internal/igc"
)

// Pipeline runs the full polar derivation: decode → project → restrict →
// smooth → differentiate → filter. Every stage is a whole-track transform;
// none runs before its predecessor's complete output is available, because
// smoothing and differencing are windowed operations.
type Pipeline struct {
	config Config
	logger *slog.Logger
}

// Result is what the pipeline hands to a renderer: the smoothed local track
// (altitude-vs-time display) and the polar dataset (speed scatter display),
// time-aligned on the smoothed time base.
type Result struct {
	Smoothed geom.LocalTrack
	Polar    Dataset
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(config Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{config: config, logger: logger}
}

// Run decodes raw IGC records from r and derives the flight polar.
func (p *Pipeline) Run(r io.Reader) (*Result, error) {
	track, err := igc.Parse(r, p.logger)
	if err != nil {
		return nil, fmt.Errorf("decoding track: %w", err)
	}
	return p.RunTrack(track)
}

// RunTrack derives the flight polar from an already-decoded track, e.g. one
// loaded from a serialized track artifact.
func (p *Pipeline) RunTrack(track igc.Track) (*Result, error) {
	local, err := geom.Project(track)
	if err != nil {
		return nil, fmt.Errorf("projecting track: %w", err)
	}

	local = restrict(local, p.config.Restrict)

	smoothed, err := Smooth(local, p.config.Window)
	if err != nil {
		return nil, fmt.Errorf("smoothing track: %w", err)
	}

	speeds, err := Speeds(smoothed)
	if err != nil {
		return nil, fmt.Errorf("differentiating track: %w", err)
	}

	filtered := FilterOutliers(speeds, p.config.MaxHorizontal, p.config.MaxVertical)

	p.logger.Debug("polar derived",
		"fixes", len(track),
		"restricted", len(local),
		"smoothed", len(smoothed),
		"speed_samples", len(speeds),
		"outliers_dropped", len(speeds)-len(filtered),
	)

	return &Result{Smoothed: smoothed, Polar: filtered}, nil
}

// restrict narrows the local track to the configured index and timestamp
// bounds. Applied before smoothing, since narrowing the window changes which
// samples get averaged together.
func restrict(track geom.LocalTrack, r Restrict) geom.LocalTrack {
	lo, hi := 0, len(track)

	if r.StartIndex > lo {
		lo = r.StartIndex
	}
	if r.EndIndex > 0 && r.EndIndex < hi {
		hi = r.EndIndex
	}
	if lo > hi {
		lo = hi
	}
	track = track[lo:hi]

	if r.StartTime > 0 {
		for len(track) > 0 && track[0].T < r.StartTime {
			track = track[1:]
		}
	}
	if r.EndTime > 0 {
		for len(track) > 0 && track[len(track)-1].T >= r.EndTime {
			track = track[:len(track)-1]
		}
	}

	return track
}
