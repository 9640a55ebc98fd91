package polar

import (
	"fmt"
	"math"

	"github.com/jujumo/paragliding-flight-crawler/internal/geom"
)

// Speeds computes per-step horizontal and vertical speed via first-order
// finite differences of consecutive smoothed samples. Sample i describes the
// interval between track samples i and i+1 and carries the earlier sample's
// timestamp.
//
// A zero or negative time delta fails with ErrNonMonotonicTime wrapped with
// the offending index; it is never divided by.
func Speeds(track geom.LocalTrack) (Dataset, error) {
	if len(track) < 2 {
		return nil, fmt.Errorf("need at least 2 samples to differentiate, got %d", len(track))
	}

	out := make(Dataset, len(track)-1)
	for i := 0; i < len(track)-1; i++ {
		a, b := track[i], track[i+1]

		dt := b.T - a.T
		if dt <= 0 {
			return nil, fmt.Errorf("sample %d: dt = %v s: %w", i, dt, ErrNonMonotonicTime)
		}

		de := b.East - a.East
		dn := b.North - a.North
		du := b.Up - a.Up

		out[i] = SpeedSample{
			T:          a.T,
			Horizontal: math.Sqrt(de*de+dn*dn) / dt,
			Vertical:   du / dt,
		}
	}

	return out, nil
}
