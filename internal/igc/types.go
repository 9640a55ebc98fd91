package igc

// Fix is one decoded positional record from a flight recorder log.
type Fix struct {
	Timestamp float64 `msgpack:"timestamp"` // Unix seconds
	Longitude float64 `msgpack:"longitude"` // decimal degrees, east positive
	Latitude  float64 `msgpack:"latitude"`  // decimal degrees, north positive
	Altitude  float64 `msgpack:"altitude"`  // GNSS altitude, meters
	Pressure  float64 `msgpack:"pressure"`  // pressure altitude, meters
}

// Track is an ordered sequence of fixes. Time order equals arrival order in
// the source log; monotonicity is a property of well-formed recordings, not
// something the decoder enforces.
type Track []Fix
