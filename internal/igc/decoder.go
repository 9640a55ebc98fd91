// Package igc decodes line-oriented IGC flight recorder logs into tracks.
//
// Only two record kinds carry information the pipeline needs: H records
// (headers, of which HFDTE gives the flight date) and B records (positional
// fixes). Everything else in the file is passed over silently.
//
// B record layout (fixed-width, 0-indexed byte offsets):
//
//	B HHMMSS DDMMmmm[N|S] DDDMMmmm[E|W] [A|V] PPPPP GGGGG
//	0 1....6 7.........14 15.........23 24    25..29 30..34
//
// Latitude and longitude are degrees, integer minutes, and thousandths of a
// minute; the decimal value is deg + min.mmm/60, negated for the S and W
// hemispheres.
package igc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for structural decode failures. Per-field parse failures
// are reported as ordinary wrapped errors and are skippable.
var (
	// ErrMissingDateContext is returned when a B record is seen before any
	// HFDTE header: the fix's calendar date would be undefined.
	ErrMissingDateContext = errors.New("fix record before date header")
)

// minimum B record length covering the GNSS altitude field. Real files often
// carry extension bytes past this offset; they are ignored.
const bRecordMinLen = 35

// bRecord holds the raw decoded fields of a B record before the assembler
// attaches a calendar date.
type bRecord struct {
	secondsOfDay int
	latitude     float64
	longitude    float64
	altitude     float64
	pressure     float64
}

// parseBRecord decodes one stripped B record line into its typed fields.
// The line must start with 'B'.
func parseBRecord(line string) (bRecord, error) {
	if len(line) < bRecordMinLen {
		return bRecord{}, fmt.Errorf("B record too short: %d bytes, want at least %d", len(line), bRecordMinLen)
	}

	hours, err := parseDigits(line[1:3], "hours")
	if err != nil {
		return bRecord{}, err
	}
	minutes, err := parseDigits(line[3:5], "minutes")
	if err != nil {
		return bRecord{}, err
	}
	seconds, err := parseDigits(line[5:7], "seconds")
	if err != nil {
		return bRecord{}, err
	}

	latDeg, err := parseDigits(line[7:9], "latitude degrees")
	if err != nil {
		return bRecord{}, err
	}
	latMin, err := parseDigits(line[9:11], "latitude minutes")
	if err != nil {
		return bRecord{}, err
	}
	latDec, err := parseDigits(line[11:14], "latitude decimals")
	if err != nil {
		return bRecord{}, err
	}
	latHemi := line[14]
	if latHemi != 'N' && latHemi != 'S' {
		return bRecord{}, fmt.Errorf("invalid latitude hemisphere %q", latHemi)
	}

	lonDeg, err := parseDigits(line[15:18], "longitude degrees")
	if err != nil {
		return bRecord{}, err
	}
	lonMin, err := parseDigits(line[18:20], "longitude minutes")
	if err != nil {
		return bRecord{}, err
	}
	lonDec, err := parseDigits(line[20:23], "longitude decimals")
	if err != nil {
		return bRecord{}, err
	}
	lonHemi := line[23]
	if lonHemi != 'E' && lonHemi != 'W' {
		return bRecord{}, fmt.Errorf("invalid longitude hemisphere %q", lonHemi)
	}

	if v := line[24]; v != 'A' && v != 'V' {
		return bRecord{}, fmt.Errorf("invalid fix validity flag %q", v)
	}

	pressure, err := parseDigits(line[25:30], "pressure altitude")
	if err != nil {
		return bRecord{}, err
	}
	altitude, err := parseDigits(line[30:35], "GNSS altitude")
	if err != nil {
		return bRecord{}, err
	}

	lat := minutesToDegrees(latDeg, latMin, latDec)
	if latHemi == 'S' {
		lat = -lat
	}
	lon := minutesToDegrees(lonDeg, lonMin, lonDec)
	if lonHemi == 'W' {
		lon = -lon
	}

	return bRecord{
		secondsOfDay: (hours*60+minutes)*60 + seconds,
		latitude:     lat,
		longitude:    lon,
		altitude:     float64(altitude),
		pressure:     float64(pressure),
	}, nil
}

// DecodeFix decodes one stripped B record line into a Fix, using date (a UTC
// midnight) as the calendar day of the fix.
func DecodeFix(line string, date time.Time) (Fix, error) {
	rec, err := parseBRecord(line)
	if err != nil {
		return Fix{}, err
	}
	return rec.fix(date), nil
}

// fix attaches a calendar date (UTC midnight) to the raw record fields.
func (r bRecord) fix(date time.Time) Fix {
	return Fix{
		Timestamp: float64(date.Unix() + int64(r.secondsOfDay)),
		Longitude: r.longitude,
		Latitude:  r.latitude,
		Altitude:  r.altitude,
		Pressure:  r.pressure,
	}
}

// DecodeHeaderDate decodes an H record line. If the record carries the flight
// date (HFDTE subtype), it returns the date as a UTC midnight and ok=true.
// Other header subtypes return ok=false with no error: they are legitimate
// records the pipeline has no use for.
func DecodeHeaderDate(line string) (time.Time, bool, error) {
	if len(line) < 5 {
		return time.Time{}, false, nil
	}
	if line[1:5] != "FDTE" {
		return time.Time{}, false, nil
	}

	payload := line[5:]
	// Newer recorders write "HFDTEDATE:DDMMYY,NN"; older ones "HFDTEDDMMYY".
	payload = strings.TrimPrefix(payload, "DATE:")
	if len(payload) < 6 {
		return time.Time{}, false, fmt.Errorf("date header payload too short: %q", line[5:])
	}

	day, err := parseDigits(payload[0:2], "day")
	if err != nil {
		return time.Time{}, false, err
	}
	month, err := parseDigits(payload[2:4], "month")
	if err != nil {
		return time.Time{}, false, err
	}
	year, err := parseDigits(payload[4:6], "year")
	if err != nil {
		return time.Time{}, false, err
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false, fmt.Errorf("implausible flight date %02d%02d%02d", day, month, year)
	}

	return time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true, nil
}

// minutesToDegrees converts a degrees / integer-minutes / thousandths-of-minute
// triple to decimal degrees: deg + min.mmm / 60.
func minutesToDegrees(deg, min, thousandths int) float64 {
	minutes := float64(min) + float64(thousandths)/1000.0
	return float64(deg) + minutes/60.0
}

// parseDigits parses a fixed-width all-digit field. strconv.Atoi would accept
// signs and is slower; IGC fields are strictly ASCII digits.
func parseDigits(s, field string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid %s field %q", field, s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
