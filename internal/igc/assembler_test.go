package igc

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"AXCT4e18c61be564a6e0b743",
		"HFDTE280422",
		"HFPLTPILOTINCHARGE:JACQUES FOURNIER",
		"B1009084530000N00615500EA0123401300",
		"B1009094530010N00615510EA0123501301",
		"LXCT junk the assembler never looks at",
		"B1009104530020N00615520EA0123601302",
	}, "\r\n")

	track, err := Parse(strings.NewReader(input), testLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(track) != 3 {
		t.Fatalf("len(track) = %d, want 3", len(track))
	}

	for i := 1; i < len(track); i++ {
		if track[i].Timestamp <= track[i-1].Timestamp {
			t.Errorf("timestamps not increasing at %d: %v then %v", i, track[i-1].Timestamp, track[i].Timestamp)
		}
	}
	if got := track[1].Timestamp - track[0].Timestamp; got != 1 {
		t.Errorf("fix spacing = %v s, want 1", got)
	}
}

func TestParseSkipsMalformedLine(t *testing.T) {
	input := strings.Join([]string{
		"HFDTE280422",
		"B1009084530000N00615500EA0123401300",
		"B1009094530010N006155", // truncated mid-field
		"B1009104530020N00615520EA0123601302",
	}, "\n")

	track, err := Parse(strings.NewReader(input), testLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(track) != 2 {
		t.Fatalf("len(track) = %d, want 2 (malformed line skipped)", len(track))
	}
}

func TestParseFixBeforeDateHeader(t *testing.T) {
	input := "B1009084530000N00615500EA0123401300\nHFDTE280422\n"

	track, err := Parse(strings.NewReader(input), testLogger)
	if !errors.Is(err, ErrMissingDateContext) {
		t.Fatalf("err = %v, want ErrMissingDateContext", err)
	}
	if track != nil {
		t.Errorf("track = %v, want nil on fatal decode error", track)
	}
}

func TestParseMidnightRollover(t *testing.T) {
	input := strings.Join([]string{
		"HFDTE280422",
		"B2359584530000N00615500EA0123401300",
		"B2359594530010N00615510EA0123501301",
		"B0000004530020N00615520EA0123601302", // next day
		"B0000014530030N00615530EA0123701303",
	}, "\n")

	track, err := Parse(strings.NewReader(input), testLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(track) != 4 {
		t.Fatalf("len(track) = %d, want 4", len(track))
	}

	for i := 1; i < len(track); i++ {
		if got := track[i].Timestamp - track[i-1].Timestamp; got != 1 {
			t.Errorf("spacing at %d = %v s, want 1 (rollover not applied)", i, got)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	track, err := Parse(strings.NewReader(""), testLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(track) != 0 {
		t.Errorf("len(track) = %d, want 0", len(track))
	}
}
