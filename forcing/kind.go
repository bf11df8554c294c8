package forcing

import (
	"errors"
	"fmt"

	"github.com/alanquits/parflow/config"
)

// Kind the source of meteorological forcing
type Kind int

const (
	KindNone Kind = iota
	Kind1D
	Kind2D
	Kind3D
	KindNC
	KindStations
)

const forcingKindNames = "none 1D 2D 3D NC Stations"

func (k Kind) String() string {
	names := config.NameArray(forcingKindNames)
	if k < 0 || int(k) >= len(names) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

const metForcingKey = "Solver.CLM.MetForcing"

// KindFromConfig reads the forcing kind, Stations when the key is absent.
// Only station forcing is handled by this package.
func KindFromConfig(db config.DB) (Kind, error) {
	s, err := db.GetString(metForcingKey)
	if errors.Is(err, config.ErrMissingKey) {
		return KindStations, nil
	}
	if err != nil {
		return KindNone, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	k := config.NameToIndex(config.NameArray(forcingKindNames), s)
	if k < 0 {
		return KindNone, fmt.Errorf("%w: invalid value <%s> for key <%s>", ErrConfig, s, metForcingKey)
	}
	if Kind(k) != KindStations {
		return Kind(k), fmt.Errorf("%w: %s forcing is not supported", ErrConfig, Kind(k))
	}
	return KindStations, nil
}
