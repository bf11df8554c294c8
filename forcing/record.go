package forcing

import (
	"fmt"
	"strconv"
	"strings"
)

// Record one timestep of station data
type Record struct {
	SW, LW     float64 // shortwave, longwave radiation
	U, V       float64 // wind components
	Temp, Prcp float64
	Patm, Qatm float64 // pressure, specific humidity
}

// station files list fields in this order
var fileOrder = [nparam]Param{DSWR, DLWR, APCP, Temp, UGRD, VGRD, Press, SPFH}

// ParseRecord reads a whitespace-separated station line:
// sw lw prcp temp u v patm qatm. Fields past the eighth are ignored.
func ParseRecord(line string) (Record, error) {
	var r Record
	sp := strings.Fields(line)
	if len(sp) < int(nparam) {
		return r, fmt.Errorf("%w: %d of %d fields in '%s'", ErrData, len(sp), nparam, line)
	}
	for n, p := range fileOrder {
		v, err := strconv.ParseFloat(sp[n], 64)
		if err != nil {
			return r, fmt.Errorf("%w: field %d (%s) '%s' is not a number", ErrData, n+1, p, sp[n])
		}
		*r.field(p) = v
	}
	return r, nil
}

func (r *Record) field(p Param) *float64 {
	switch p {
	case DSWR:
		return &r.SW
	case DLWR:
		return &r.LW
	case APCP:
		return &r.Prcp
	case Temp:
		return &r.Temp
	case UGRD:
		return &r.U
	case VGRD:
		return &r.V
	case Press:
		return &r.Patm
	case SPFH:
		return &r.Qatm
	}
	panic(fmt.Sprintf("forcing.Record: unknown parameter %d", int(p)))
}

// Value returns the record value of p
func (r Record) Value(p Param) float64 { return *r.field(p) }
