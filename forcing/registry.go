package forcing

import (
	"fmt"
	"math"

	"github.com/alanquits/parflow/config"
	"github.com/alanquits/parflow/databox"
)

// BuildStations constructs every named station and indexes them by id
func BuildStations(db config.DB, names []string, metgrid *databox.Databox) ([]*Station, *Index, error) {
	stations, idx := make([]*Station, 0, len(names)), NewIndex()
	for _, n := range names {
		s, err := NewStation(db, n, metgrid)
		if err != nil {
			return nil, nil, err
		}
		if err := idx.Insert(s); err != nil {
			return nil, nil, err
		}
		stations = append(stations, s)
	}
	return stations, idx, nil
}

// indicatorID the station id held by an indicator cell
func indicatorID(indicator *databox.Databox, i, j int) int {
	return int(math.Round(indicator.At(i, j, 0)))
}

// MarkSubgrid flags every station referenced by an owned indicator cell and
// returns them in id order. An id without a station is fatal.
func MarkSubgrid(idx *Index, indicator *databox.Databox, sub Subgrid) ([]*Station, error) {
	err := sub.Each(func(i, j int) error {
		id := indicatorID(indicator, i, j)
		s, err := idx.Lookup(id, true)
		if err != nil {
			return fmt.Errorf("indicator cell [%d,%d]: %w", i, j, err)
		}
		s.InSubgrid = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	local := []*Station{}
	idx.Ascend(func(s *Station) bool {
		if s.InSubgrid {
			local = append(local, s)
		}
		return true
	})
	return local, nil
}

// OpenStationFiles opens the files of stations in the subgrid; others are
// left closed. On failure, files opened here are closed again.
func OpenStationFiles(stations []*Station) error {
	for n, s := range stations {
		if !s.InSubgrid {
			continue
		}
		if err := s.open(); err != nil {
			for _, o := range stations[:n] {
				o.Close()
			}
			return err
		}
	}
	return nil
}
