package polar

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jujumo/paragliding-flight-crawler/internal/geom"
)

// WriteTrackCSV renders a smoothed local track as a CSV time series with
// columns t, east, north, up.
func WriteTrackCSV(w io.Writer, track geom.LocalTrack) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "east", "north", "up"}); err != nil {
		return err
	}
	for _, p := range track {
		row := []string{
			formatSeries(p.T),
			formatSeries(p.East),
			formatSeries(p.North),
			formatSeries(p.Up),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePolarCSV renders a speed dataset as a CSV time series with columns
// t, horizontal, vertical.
func WritePolarCSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "horizontal", "vertical"}); err != nil {
		return err
	}
	for _, s := range ds {
		row := []string{
			formatSeries(s.T),
			formatSeries(s.Horizontal),
			formatSeries(s.Vertical),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatSeries(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
