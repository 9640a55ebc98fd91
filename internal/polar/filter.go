package polar

import "math"

// FilterOutliers drops samples whose speeds are physically implausible for
// the vehicle class: horizontal at or above maxH, or |vertical| at or above
// maxV (strict bounds, so a sample exactly on a bound is rejected). Such
// samples are differencing artifacts or decode glitches and are excluded
// rather than clamped. Order is preserved.
func FilterOutliers(ds Dataset, maxH, maxV float64) Dataset {
	out := make(Dataset, 0, len(ds))
	for _, s := range ds {
		if s.Horizontal < maxH && math.Abs(s.Vertical) < maxV {
			out = append(out, s)
		}
	}
	return out
}
