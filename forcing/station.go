package forcing

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alanquits/parflow/config"
	"github.com/alanquits/parflow/databox"
)

// Station a meteorological station and the cells it forces
type Station struct {
	ID        int // indicator grid value
	Name      string
	Elevation float64
	File      string
	InSubgrid bool                  // covers at least one owned cell
	Interp    [nparam]Interpolation // [Param]
	Current   Record                // last record read

	f    *os.File
	sc   *bufio.Scanner
	line int
}

func stationKey(name, field string) string {
	return fmt.Sprintf("Solver.CLM.Stations.%s.%s", name, field)
}

// NewStation reads the definition of station name from db
func NewStation(db config.DB, name string, metgrid *databox.Databox) (*Station, error) {
	s := Station{Name: name}
	var err error
	if s.ID, err = db.GetInt(stationKey(name, "Index")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if s.Elevation, err = db.GetDouble(stationKey(name, "Elevation")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if s.File, err = db.GetString(stationKey(name, "File")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for _, p := range Params() {
		if s.Interp[p], err = NewInterpolation(db, name, p, metgrid); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// IsOpen returns true while the station file is open
func (s *Station) IsOpen() bool { return s.f != nil }

func (s *Station) open() error {
	if s.f != nil {
		return nil
	}
	f, err := os.Open(s.File)
	if err != nil {
		return fmt.Errorf("%w: station %s: %v", ErrIO, s.Name, err)
	}
	s.f, s.sc, s.line = f, bufio.NewScanner(f), 0
	return nil
}

// next reads the following non-blank line into Current
func (s *Station) next() error {
	if s.sc == nil {
		return fmt.Errorf("%w: station %s file '%s' is not open", ErrIO, s.Name, s.File)
	}
	for s.sc.Scan() {
		s.line++
		ln := s.sc.Text()
		if strings.TrimSpace(ln) == "" {
			continue
		}
		r, err := ParseRecord(ln)
		if err != nil {
			return fmt.Errorf("station %s '%s' line %d: %w", s.Name, s.File, s.line, err)
		}
		s.Current = r
		return nil
	}
	if err := s.sc.Err(); err != nil {
		return fmt.Errorf("%w: station %s '%s': %v", ErrIO, s.Name, s.File, err)
	}
	return fmt.Errorf("%w: station %s '%s' ended after %d lines", ErrData, s.Name, s.File, s.line)
}

// Close releases the station file
func (s *Station) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f, s.sc = nil, nil
	return err
}
