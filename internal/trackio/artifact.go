// Package trackio persists decoded tracks so the pipeline can skip the IGC
// decode stage on repeat runs, and stores downloaded IGC files on disk.
//
// A track artifact is a gzip-compressed msgpack document: a version tag plus
// the fix array with named fields (timestamp, longitude, latitude, altitude,
// pressure). Named fields rather than column positions keep the on-disk
// format decoupled from struct layout.
package trackio

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jujumo/paragliding-flight-crawler/internal/igc"
)

// artifactVersion is bumped on incompatible layout changes.
const artifactVersion = 1

type artifact struct {
	Version int       `msgpack:"version"`
	Fixes   []igc.Fix `msgpack:"fixes"`
}

// Save writes the track to w as a compressed artifact.
func Save(w io.Writer, track igc.Track) error {
	zw := gzip.NewWriter(w)

	enc := msgpack.NewEncoder(zw)
	if err := enc.Encode(artifact{Version: artifactVersion, Fixes: track}); err != nil {
		return fmt.Errorf("encoding track artifact: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing track artifact: %w", err)
	}
	return nil
}

// Load reads a compressed track artifact from r.
func Load(r io.Reader) (igc.Track, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening track artifact: %w", err)
	}
	defer zr.Close()

	var a artifact
	if err := msgpack.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding track artifact: %w", err)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported track artifact version %d (supported: %d)", a.Version, artifactVersion)
	}

	return igc.Track(a.Fixes), nil
}

// WriteFile saves the track artifact to path.
func WriteFile(path string, track igc.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating track artifact: %w", err)
	}
	if err := Save(f, track); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing track artifact: %w", err)
	}
	return nil
}

// ReadFile loads a track artifact from path.
func ReadFile(path string) (igc.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track artifact: %w", err)
	}
	defer f.Close()
	return Load(f)
}
