package polar

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/jujumo/paragliding-flight-crawler/internal/geom"
)

func TestWriteTrackCSV(t *testing.T) {
	track := geom.LocalTrack{
		{T: 1000, East: 0, North: 0, Up: 0},
		{T: 1001, East: 5.25, North: -3.5, Up: 1.125},
	}

	var buf strings.Builder
	if err := WriteTrackCSV(&buf, track); err != nil {
		t.Fatalf("WriteTrackCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	wantHeader := []string{"t", "east", "north", "up"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[2][1] != "5.25" || rows[2][2] != "-3.5" || rows[2][3] != "1.125" {
		t.Errorf("data row = %v", rows[2])
	}
}

func TestWritePolarCSV(t *testing.T) {
	ds := Dataset{
		{T: 1000, Horizontal: 10.5, Vertical: -1.25},
	}

	var buf strings.Builder
	if err := WritePolarCSV(&buf, ds); err != nil {
		t.Fatalf("WritePolarCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][0] != "1000" || rows[1][1] != "10.5" || rows[1][2] != "-1.25" {
		t.Errorf("data row = %v", rows[1])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf strings.Builder
	if err := WritePolarCSV(&buf, nil); err != nil {
		t.Fatalf("WritePolarCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("empty dataset wrote %d lines, want header only", got)
	}
}
