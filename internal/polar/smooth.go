package polar

import (
	"fmt"

	"github.com/jujumo/paragliding-flight-crawler/internal/geom"
)

// Smooth applies a moving average of width k independently to each of the
// four track channels (time, east, north, up). Only fully overlapping windows
// are emitted (valid-convolution semantics), so the output has length
// len(track) - k + 1 and carries no edge artifacts into differentiation.
//
// Timestamps are averaged along with positions so the time base stays
// consistent with the smoothed spatial samples. k = 1 is the identity.
func Smooth(track geom.LocalTrack, k int) (geom.LocalTrack, error) {
	if k < 1 {
		return nil, fmt.Errorf("smoothing window must be >= 1, got %d", k)
	}
	if len(track) < k {
		return nil, fmt.Errorf("track has %d samples, window is %d: %w", len(track), k, ErrInsufficientSamples)
	}

	out := make(geom.LocalTrack, len(track)-k+1)
	inv := 1.0 / float64(k)

	// Each window is summed directly rather than kept as a running sum: a
	// sliding sum accumulates rounding error over long tracks, and k is small.
	for i := range out {
		var sumT, sumE, sumN, sumU float64
		for j := i; j < i+k; j++ {
			sumT += track[j].T
			sumE += track[j].East
			sumN += track[j].North
			sumU += track[j].Up
		}
		out[i] = geom.LocalPoint{
			T:     sumT * inv,
			East:  sumE * inv,
			North: sumN * inv,
			Up:    sumU * inv,
		}
	}

	return out, nil
}
