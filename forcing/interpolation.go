package forcing

import (
	"fmt"

	"github.com/alanquits/parflow/config"
	"github.com/alanquits/parflow/databox"
)

// Param a meteorological variable
type Param int

const (
	DSWR  Param = iota // downward shortwave radiation
	DLWR               // downward longwave radiation
	APCP               // precipitation
	Temp               // air temperature
	UGRD               // east-west wind
	VGRD               // south-north wind
	Press              // atmospheric pressure
	SPFH               // specific humidity
	nparam
)

var paramNames = [nparam]string{"DSWR", "DLWR", "APCP", "Temp", "UGRD", "VGRD", "Press", "SPFH"}

func (p Param) String() string {
	if p < 0 || p >= nparam {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return paramNames[p]
}

// Params lists every variable in output order
func Params() []Param {
	ps := make([]Param, nparam)
	for p := range ps {
		ps[p] = Param(p)
	}
	return ps
}

const interpolationKindNames = "None Linear Factor"

// Interpolation converts a raw station value into the value at cell (i,j)
// of elevation zcell. Implemented by None, Lapse and Factor only.
type Interpolation interface {
	Apply(raw, zsta, zcell float64, i, j int) float64
	kind() string
}

// None passes station values through unchanged
type None struct{}

// Lapse corrects station values linearly with elevation
type Lapse struct {
	Rate float64 // change per unit elevation, eg. °C/m
}

// Factor scales station values by a per-cell multiplier grid
type Factor struct {
	File string
	Grid *databox.Databox
}

func (None) Apply(raw, _, _ float64, _, _ int) float64 { return raw }

func (l Lapse) Apply(raw, zsta, zcell float64, _, _ int) float64 {
	return raw + l.Rate*(zcell-zsta)
}

func (f Factor) Apply(raw, _, _ float64, i, j int) float64 {
	return raw * f.Grid.At(i, j, 0)
}

func (None) kind() string   { return "None" }
func (Lapse) kind() string  { return "Linear" }
func (Factor) kind() string { return "Factor" }

func interpKey(station string, param Param, field string) string {
	return fmt.Sprintf("Solver.CLM.Stations.%s.Interpolation.%s.%s", station, param, field)
}

// NewInterpolation builds the rule configured for param of station. Factor
// grids are read as ParFlow binary onto the layout of metgrid.
func NewInterpolation(db config.DB, station string, param Param, metgrid *databox.Databox) (Interpolation, error) {
	key := interpKey(station, param, "Type")
	s, err := db.GetString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	switch config.NameToIndex(config.NameArray(interpolationKindNames), s) {
	case 0:
		return None{}, nil
	case 1:
		r, err := db.GetDouble(interpKey(station, param, "Lapse"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		return Lapse{Rate: r}, nil
	case 2:
		fp, err := db.GetString(interpKey(station, param, "Factors.File"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		g := databox.NewLike(metgrid)
		if err := databox.ReadPFB(fp, g); err != nil {
			return nil, fmt.Errorf("%w: factors of station %s %s: %w", ErrConfig, station, param, err)
		}
		return Factor{File: fp, Grid: g}, nil
	default:
		return nil, fmt.Errorf("%w: invalid value <%s> for key <%s>", ErrConfig, s, key)
	}
}
