// Package index persists the crawled flight catalogue as a CSV file keyed by
// flight id. Merging keeps the last write for a duplicate id and rows are
// saved sorted, so repeated crawls converge to a stable file.
package index

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Flight is one row of the flight index. String fields are stored verbatim
// from the results website; empty means the page did not carry the value.
type Flight struct {
	FlightID string  // "ffvl/20321973"
	Pilot    string
	Date     string
	WingName string
	IGC      string  // IGC download URL
	FAIType  string
	Takeoff  string
	Landing  string
	Distance float64 // km, 0 if unknown
	Duration int     // minutes, 0 if unknown
	Points   float64
}

// header is the CSV column order. Kept stable: existing index files depend on it.
var header = []string{
	"flight_id", "pilot", "date", "wing_name", "igc",
	"fai_type", "takeoff", "landing", "distance", "duration", "points",
}

// Index is an in-memory flight catalogue. Not safe for concurrent use; the
// crawler serializes access.
type Index struct {
	flights map[string]Flight
}

// New returns an empty index.
func New() *Index {
	return &Index{flights: make(map[string]Flight)}
}

// Load reads the index from path. A missing file yields an empty index, so
// first runs need no special casing.
func Load(path string) (*Index, error) {
	ix := New()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ix, nil
		}
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	if len(rows) == 0 {
		return ix, nil
	}

	for i, row := range rows[1:] { // skip header
		fl, err := rowToFlight(row)
		if err != nil {
			return nil, fmt.Errorf("index row %d: %w", i+2, err)
		}
		ix.flights[fl.FlightID] = fl
	}

	return ix, nil
}

// Save writes the index to path, rows sorted by flight id. The write goes
// through a temp file and rename so a crash mid-checkpoint cannot truncate
// an existing index.
func (ix *Index) Save(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing index header: %w", err)
	}
	for _, fl := range ix.Flights() {
		if err := w.Write(flightToRow(fl)); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("writing index row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flushing index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing index: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing index: %w", err)
	}
	return nil
}

// Put inserts or replaces a flight (duplicates keep the last write).
func (ix *Index) Put(fl Flight) {
	ix.flights[fl.FlightID] = fl
}

// Get returns the flight with the given id.
func (ix *Index) Get(id string) (Flight, bool) {
	fl, ok := ix.flights[id]
	return fl, ok
}

// Len returns the number of indexed flights.
func (ix *Index) Len() int {
	return len(ix.flights)
}

// Flights returns all flights sorted by flight id.
func (ix *Index) Flights() []Flight {
	out := make([]Flight, 0, len(ix.flights))
	for _, fl := range ix.flights {
		out = append(out, fl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlightID < out[j].FlightID })
	return out
}

// MaxFFVLID returns the largest numeric FFVL id in the index, or 0 when the
// index is empty. Used to resume an interrupted crawl.
func (ix *Index) MaxFFVLID() int {
	max := 0
	for id := range ix.flights {
		_, num, ok := strings.Cut(id, "/")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

func flightToRow(fl Flight) []string {
	return []string{
		fl.FlightID,
		fl.Pilot,
		fl.Date,
		fl.WingName,
		fl.IGC,
		fl.FAIType,
		fl.Takeoff,
		fl.Landing,
		formatFloat(fl.Distance),
		formatInt(fl.Duration),
		formatFloat(fl.Points),
	}
}

func rowToFlight(row []string) (Flight, error) {
	distance, err := parseFloat(row[8], "distance")
	if err != nil {
		return Flight{}, err
	}
	duration, err := parseInt(row[9], "duration")
	if err != nil {
		return Flight{}, err
	}
	points, err := parseFloat(row[10], "points")
	if err != nil {
		return Flight{}, err
	}

	return Flight{
		FlightID: row[0],
		Pilot:    row[1],
		Date:     row[2],
		WingName: row[3],
		IGC:      row[4],
		FAIType:  row[5],
		Takeoff:  row[6],
		Landing:  row[7],
		Distance: distance,
		Duration: duration,
		Points:   points,
	}, nil
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func parseFloat(s, field string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}

func parseInt(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}
