// Package polar derives a flight's speed polar from a decoded track:
// smooth the local-frame trajectory, differentiate it into instantaneous
// speeds, and reject physically implausible samples.
package polar

import "errors"

// Sentinel errors for structural pipeline failures. Callers receive them
// wrapped with the stage name and, where relevant, the offending index.
var (
	// ErrInsufficientSamples is returned when the smoothing window is wider
	// than the track it is applied to.
	ErrInsufficientSamples = errors.New("insufficient samples for smoothing window")

	// ErrNonMonotonicTime is returned when differentiation encounters a zero
	// or negative time delta. That indicates corrupted input or a
	// misconfigured smoothing window, never something to divide by.
	ErrNonMonotonicTime = errors.New("non-monotonic timestamps")
)

// SpeedSample is one point of the flight polar, derived from a consecutive
// pair of smoothed track samples.
type SpeedSample struct {
	T          float64 // timestamp of the earlier sample of the pair (Unix seconds)
	Horizontal float64 // m/s, always >= 0
	Vertical   float64 // m/s, signed, positive = climbing
}

// Dataset is the ordered sequence of speed samples after outlier rejection.
type Dataset []SpeedSample

// Config holds the tunable parameters of the pipeline. The speed bounds are
// domain parameters for the vehicle class, not physics: a paraglider polar
// uses the defaults, anything faster needs retuning.
type Config struct {
	Window        int     // moving-average width in samples (>= 1)
	MaxHorizontal float64 // strict upper bound on horizontal speed, m/s
	MaxVertical   float64 // strict upper bound on |vertical speed|, m/s
	Restrict      Restrict
}

// Restrict optionally narrows the local track before smoothing. Index bounds
// are applied first, then timestamp bounds. Zero values leave the
// corresponding side open.
type Restrict struct {
	StartIndex int     // first sample to keep
	EndIndex   int     // one past the last sample to keep; 0 = end of track
	StartTime  float64 // drop samples before this Unix timestamp; 0 = open
	EndTime    float64 // drop samples at or after this Unix timestamp; 0 = open
}

// DefaultConfig returns the paraglider tuning: 30-sample window, 30 m/s
// (108 km/h) horizontal ceiling, 20 m/s vertical ceiling.
func DefaultConfig() Config {
	return Config{
		Window:        30,
		MaxHorizontal: 30.0,
		MaxVertical:   20.0,
	}
}
