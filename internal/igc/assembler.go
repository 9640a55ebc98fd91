package igc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Parse reads IGC records from r and returns the decoded track.
//
// The flight date from the HFDTE header applies to every subsequent B record.
// A B record whose time of day is earlier than the previous fix's is taken as
// a midnight crossing and the date advances by one day.
//
// Malformed B and H records are skipped with a warning log; a B record before
// any date header fails the whole track with ErrMissingDateContext.
func Parse(r io.Reader, logger *slog.Logger) (Track, error) {
	scanner := bufio.NewScanner(r)

	var (
		track    Track
		date     time.Time
		haveDate bool
		lineNo   int
		skipped  int
	)
	lastSec := -1

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line == "" {
			continue
		}

		switch line[0] {
		case 'H':
			d, ok, err := DecodeHeaderDate(line)
			if err != nil {
				logger.Warn("skipping malformed header record", "line", lineNo, "error", err)
				skipped++
				continue
			}
			if ok {
				date = d
				haveDate = true
				lastSec = -1
			}

		case 'B':
			if !haveDate {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMissingDateContext)
			}
			rec, err := parseBRecord(line)
			if err != nil {
				logger.Warn("skipping malformed fix record", "line", lineNo, "error", err)
				skipped++
				continue
			}
			// Midnight rollover: time of day going backwards means the
			// flight crossed 00:00 UTC.
			if lastSec >= 0 && rec.secondsOfDay < lastSec {
				date = date.AddDate(0, 0, 1)
				logger.Debug("midnight rollover detected", "line", lineNo, "new_date", date.Format(time.DateOnly))
			}
			lastSec = rec.secondsOfDay
			track = append(track, rec.fix(date))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading IGC data: %w", err)
	}

	if skipped > 0 {
		logger.Warn("skipped malformed records", "count", skipped)
	}
	logger.Debug("track assembled", "fixes", len(track))

	return track, nil
}
