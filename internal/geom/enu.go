// Package geom projects geodetic tracks into a local East-North-Up frame.
//
// The projection goes geodetic → ECEF on the WGS-84 ellipsoid, then rotates
// the ECEF offset from the anchor point into the local tangent plane. The
// anchor is the track's first fix, so the first local sample is exactly the
// origin.
package geom

import (
	"errors"
	"math"

	"github.com/jujumo/paragliding-flight-crawler/internal/igc"
)

// WGS-84 ellipsoid parameters.
const (
	wgs84A  = 6378137.0             // semi-major axis (meters)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// ErrEmptyTrack is returned when a projection is requested for a track with
// no fixes: the local frame origin would be undefined.
var ErrEmptyTrack = errors.New("empty track")

// LocalPoint is one track sample in the local tangent-plane frame,
// in meters relative to the anchor fix.
type LocalPoint struct {
	T     float64 // Unix seconds
	East  float64
	North float64
	Up    float64
}

// LocalTrack is an ordered sequence of local-frame samples with the same
// length and index correspondence as the geodetic track it came from.
type LocalTrack []LocalPoint

// geodeticToECEF converts geodetic coordinates (degrees, meters above the
// ellipsoid) to ECEF meters.
func geodeticToECEF(latDeg, lonDeg, altM float64) (x, y, z float64) {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	// Radius of curvature in the prime vertical.
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	x = (N + altM) * cosLat * cosLon
	y = (N + altM) * cosLat * sinLon
	z = (N*(1-wgs84E2) + altM) * sinLat
	return x, y, z
}

// Project converts a geodetic track into a local ENU track anchored at the
// first fix. Fails with ErrEmptyTrack when the track has no fixes.
func Project(track igc.Track) (LocalTrack, error) {
	if len(track) == 0 {
		return nil, ErrEmptyTrack
	}

	anchor := track[0]
	ax, ay, az := geodeticToECEF(anchor.Latitude, anchor.Longitude, anchor.Altitude)

	lat := anchor.Latitude * math.Pi / 180.0
	lon := anchor.Longitude * math.Pi / 180.0
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	local := make(LocalTrack, len(track))
	for i, fix := range track {
		x, y, z := geodeticToECEF(fix.Latitude, fix.Longitude, fix.Altitude)
		dx := x - ax
		dy := y - ay
		dz := z - az

		// Rotate the ECEF offset into the anchor's tangent plane.
		local[i] = LocalPoint{
			T:     fix.Timestamp,
			East:  -sinLon*dx + cosLon*dy,
			North: -sinLat*cosLon*dx - sinLat*sinLon*dy + cosLat*dz,
			Up:    cosLat*cosLon*dx + cosLat*sinLon*dy + sinLat*dz,
		}
	}

	return local, nil
}
