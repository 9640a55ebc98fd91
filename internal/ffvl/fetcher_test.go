package ffvl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func TestFetcherFlightPage(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, testLogger)
	body, err := fetcher.FlightPage(context.Background(), 20321973)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/cfd/liste/vol/20321973" {
		t.Errorf("request path = %q, want /cfd/liste/vol/20321973", gotPath)
	}
	if string(body) != "<html></html>" {
		t.Errorf("body = %q", body)
	}
}

func TestFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, testLogger)
	if _, err := fetcher.FlightPage(context.Background(), 1); err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
}

func TestFetcherBodyLimit(t *testing.T) {
	// Server streams data until the client stops reading.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := strings.Repeat("A", 1024*1024)
		for i := 0; i < 24; i++ {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return // client closed connection
			}
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, testLogger)
	_, err := fetcher.Download(context.Background(), server.URL+"/huge.igc")
	if err == nil {
		t.Fatal("expected error for oversized response, got nil")
	}
	if !strings.Contains(err.Error(), "byte limit") {
		t.Errorf("expected body limit error, got: %v", err)
	}
}

func TestFetcherContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(server.URL, testLogger)
	if _, err := fetcher.FlightPage(ctx, 1); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestFetcherDefaultRoot(t *testing.T) {
	fetcher := NewFetcher("", testLogger)
	if fetcher.RootURL() != DefaultRootURL {
		t.Errorf("RootURL = %q, want %q", fetcher.RootURL(), DefaultRootURL)
	}
}
