package igc

import (
	"math"
	"testing"
	"time"
)

func TestMinutesToDegrees(t *testing.T) {
	// 45 degrees 30.000 minutes is exactly 45.5 degrees.
	got := minutesToDegrees(45, 30, 0)
	if got != 45.5 {
		t.Errorf("minutesToDegrees(45, 30, 0) = %v, want 45.5", got)
	}

	// 7 degrees 03.450 minutes.
	got = minutesToDegrees(7, 3, 450)
	want := 7.0 + 3.450/60.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("minutesToDegrees(7, 3, 450) = %v, want %v", got, want)
	}
}

func TestDecodeFix(t *testing.T) {
	date := time.Date(2022, 4, 28, 0, 0, 0, 0, time.UTC)

	// 10:09:08, 45°30.000'N, 006°15.500'E, valid fix, pressure 01234, GNSS 01300.
	fix, err := DecodeFix("B1009084530000N00615500EA0123401300", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTS := float64(date.Unix() + (10*60+9)*60 + 8)
	if fix.Timestamp != wantTS {
		t.Errorf("Timestamp = %v, want %v", fix.Timestamp, wantTS)
	}
	if fix.Latitude != 45.5 {
		t.Errorf("Latitude = %v, want 45.5", fix.Latitude)
	}
	wantLon := 6.0 + 15.5/60.0
	if math.Abs(fix.Longitude-wantLon) > 1e-12 {
		t.Errorf("Longitude = %v, want %v", fix.Longitude, wantLon)
	}
	if fix.Pressure != 1234 {
		t.Errorf("Pressure = %v, want 1234", fix.Pressure)
	}
	if fix.Altitude != 1300 {
		t.Errorf("Altitude = %v, want 1300", fix.Altitude)
	}
}

func TestDecodeFixSouthernWesternHemisphere(t *testing.T) {
	date := time.Date(2022, 4, 28, 0, 0, 0, 0, time.UTC)

	fix, err := DecodeFix("B1009084530000S00615500WA0123401300", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Latitude != -45.5 {
		t.Errorf("Latitude = %v, want -45.5", fix.Latitude)
	}
	if fix.Longitude >= 0 {
		t.Errorf("Longitude = %v, want negative for W hemisphere", fix.Longitude)
	}
}

func TestDecodeFixMalformed(t *testing.T) {
	date := time.Date(2022, 4, 28, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		line string
	}{
		{"truncated", "B1009084530000N00615"},
		{"letters in time", "B10xx084530000N00615500EA0123401300"},
		{"bad hemisphere", "B1009084530000X00615500EA0123401300"},
		{"bad validity flag", "B1009084530000N00615500EZ0123401300"},
		{"letters in altitude", "B1009084530000N00615500EA01234013zz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeFix(tc.line, date); err == nil {
				t.Errorf("DecodeFix(%q) succeeded, want error", tc.line)
			}
		})
	}
}

func TestDecodeHeaderDate(t *testing.T) {
	d, ok, err := DecodeHeaderDate("HFDTE280422")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("HFDTE record not recognized")
	}
	want := time.Date(2022, 4, 28, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("date = %v, want %v", d, want)
	}
}

func TestDecodeHeaderDateLongForm(t *testing.T) {
	d, ok, err := DecodeHeaderDate("HFDTEDATE:280422,01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("HFDTEDATE record not recognized")
	}
	want := time.Date(2022, 4, 28, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("date = %v, want %v", d, want)
	}
}

func TestDecodeHeaderOtherSubtypesIgnored(t *testing.T) {
	for _, line := range []string{
		"HFPLTPILOTINCHARGE:JACQUES FOURNIER",
		"HFGTYGLIDERTYPE:OZONE ZENO",
		"HODTM100GPSDATUM:WGS-1984",
	} {
		_, ok, err := DecodeHeaderDate(line)
		if err != nil {
			t.Errorf("DecodeHeaderDate(%q) error: %v", line, err)
		}
		if ok {
			t.Errorf("DecodeHeaderDate(%q) ok = true, want false", line)
		}
	}
}

func TestDecodeHeaderDateMalformed(t *testing.T) {
	if _, _, err := DecodeHeaderDate("HFDTE2804"); err == nil {
		t.Error("short date payload accepted, want error")
	}
	if _, _, err := DecodeHeaderDate("HFDTE289922"); err == nil {
		t.Error("month 99 accepted, want error")
	}
}
