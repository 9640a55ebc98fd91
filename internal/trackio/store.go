package trackio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Store manages downloaded IGC files on disk, one file per FFVL flight id.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created lazily on
// the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(flightID int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.igc", flightID))
}

// Has reports whether an IGC file for the flight is already stored.
func (s *Store) Has(flightID int) bool {
	_, err := os.Stat(s.path(flightID))
	return err == nil
}

// Write saves the raw IGC body for the flight.
func (s *Store) Write(flightID int, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating IGC store dir: %w", err)
	}
	if err := os.WriteFile(s.path(flightID), data, 0644); err != nil {
		return fmt.Errorf("writing IGC file for flight %d: %w", flightID, err)
	}
	return nil
}

// Read returns the stored IGC body for the flight.
func (s *Store) Read(flightID int) ([]byte, error) {
	data, err := os.ReadFile(s.path(flightID))
	if err != nil {
		return nil, fmt.Errorf("reading IGC file for flight %d: %w", flightID, err)
	}
	return data, nil
}

// List returns the flight ids with a stored IGC file, ascending.
func (s *Store) List() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing IGC store dir: %w", err)
	}

	var ids []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".igc") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(name, ".igc"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	sort.Ints(ids)
	return ids, nil
}
