// Package forcing distributes meteorological station records over a met
// grid. Every cell is forced by the station its indicator value names, each
// variable passing through the station's interpolation rule for it.
package forcing

import (
	"errors"
	"fmt"

	"github.com/alanquits/parflow/config"
	"github.com/alanquits/parflow/databox"
)

// Sentinel marks output cells no station has written
const Sentinel = 100.

type state int

const (
	initialized state = iota
	advanced
	populated
	closed
)

var stateNames = [...]string{"initialized", "advanced", "populated", "closed"}

func (s state) String() string { return stateNames[s] }

// Outputs the per-variable met grids of one timestep
type Outputs struct {
	SW, LW, U, V, Temp, Prcp, Patm, Qatm *databox.Databox
}

// Grid returns the output grid of p
func (o *Outputs) Grid(p Param) *databox.Databox {
	switch p {
	case DSWR:
		return o.SW
	case DLWR:
		return o.LW
	case APCP:
		return o.Prcp
	case Temp:
		return o.Temp
	case UGRD:
		return o.U
	case VGRD:
		return o.V
	case Press:
		return o.Patm
	case SPFH:
		return o.Qatm
	}
	return nil
}

func newOutputs(metgrid *databox.Databox) Outputs {
	g := func() *databox.Databox {
		d := databox.NewLike(metgrid)
		d.Fill(Sentinel)
		return d
	}
	return Outputs{SW: g(), LW: g(), U: g(), V: g(), Temp: g(), Prcp: g(), Patm: g(), Qatm: g()}
}

// Forcing station forcing engine
type Forcing struct {
	Kind           Kind
	Metgrid        *databox.Databox // layout of every grid below
	Sub            Subgrid
	DEM, Indicator *databox.Databox
	Stations       []*Station // all configured stations
	Local          []*Station // stations in the subgrid, by id
	Index          *Index
	Out            Outputs

	st state
}

const (
	namesKey     = "Solver.CLM.Stations.Names"
	demKey       = "Solver.CLM.Stations.DEM.FileName"
	indicatorKey = "Solver.CLM.Stations.Indicator.FileName"
)

// New builds the engine for the stations listed in the input database
func New(db config.DB, metgrid *databox.Databox, sub Subgrid) (*Forcing, error) {
	s, err := db.GetString(namesKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return NewWithNames(db, metgrid, sub, config.NameArray(s))
}

// NewWithNames builds the engine for the given stations: input grids are read
// onto the met grid layout, stations in sub have their files opened and every
// output cell is set to Sentinel.
func NewWithNames(db config.DB, metgrid *databox.Databox, sub Subgrid, names []string) (*Forcing, error) {
	k, err := KindFromConfig(db)
	if err != nil {
		return nil, err
	}
	if !sub.Within(metgrid) {
		return nil, fmt.Errorf("%w: subgrid %+v outside %v", ErrConfig, sub, metgrid)
	}
	f := Forcing{Kind: k, Metgrid: metgrid, Sub: sub}

	readGrid := func(key string) (*databox.Databox, error) {
		fp, err := db.GetString(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		fmt.Printf(" loading: %s\n", fp)
		d := databox.NewLike(metgrid)
		if err := databox.ReadPFB(fp, d); err != nil {
			return nil, fmt.Errorf("%w: <%s>: %w", ErrIO, key, err)
		}
		return d, nil
	}
	if f.DEM, err = readGrid(demKey); err != nil {
		return nil, err
	}
	if f.Indicator, err = readGrid(indicatorKey); err != nil {
		return nil, err
	}

	if f.Stations, f.Index, err = BuildStations(db, names, metgrid); err != nil {
		return nil, err
	}
	if f.Local, err = MarkSubgrid(f.Index, f.Indicator, sub); err != nil {
		return nil, err
	}
	if err := OpenStationFiles(f.Stations); err != nil {
		return nil, err
	}
	f.Out = newOutputs(metgrid)
	return &f, nil
}

func (f *Forcing) check(op string, allowed ...state) error {
	for _, s := range allowed {
		if f.st == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s called on %s engine", ErrState, op, f.st)
}

// AdvanceRecords reads the next record of every station in the subgrid
func (f *Forcing) AdvanceRecords() error {
	if err := f.check("AdvanceRecords", initialized, advanced, populated); err != nil {
		return err
	}
	for _, s := range f.Local {
		if err := s.next(); err != nil {
			return err
		}
	}
	f.st = advanced
	return nil
}

// PopulateOutputs writes the current records onto the owned cells. The
// returned grids are overwritten by the next call.
func (f *Forcing) PopulateOutputs() (*Outputs, error) {
	if err := f.check("PopulateOutputs", advanced, populated); err != nil {
		return nil, err
	}
	err := f.Sub.Each(func(i, j int) error {
		id := indicatorID(f.Indicator, i, j)
		s, err := f.Index.Lookup(id, true)
		if err != nil {
			return fmt.Errorf("indicator cell [%d,%d]: %w", i, j, err)
		}
		zcell := f.DEM.At(i, j, 0)
		for _, p := range Params() {
			v := s.Interp[p].Apply(s.Current.Value(p), s.Elevation, zcell, i, j)
			f.Out.Grid(p).Set(i, j, 0, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.st = populated
	return &f.Out, nil
}

// Close releases all station files; the engine cannot be used afterwards
func (f *Forcing) Close() error {
	if err := f.check("Close", initialized, advanced, populated); err != nil {
		return err
	}
	var errs []error
	for _, s := range f.Stations {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: station %s: %v", ErrIO, s.Name, err))
		}
	}
	f.st = closed
	return errors.Join(errs...)
}
