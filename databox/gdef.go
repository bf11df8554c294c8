package databox

import (
	"fmt"

	"github.com/maseology/goHydro/grid"
)

// nodata value assigned to cells a raster leaves undefined
const nodata = -9999.

// LoadGDEF imports a 32-bit (bil) raster defined by a grid definition file.
// Rows of the raster are north-up; the returned Databox is south-up.
func LoadGDEF(gdefFP, bilFP string) (*Databox, error) {
	fmt.Printf(" loading: %s\n", bilFP)
	gd, err := grid.ReadGDEF(gdefFP, false)
	if err != nil {
		return nil, fmt.Errorf("%w: LoadGDEF: %v", ErrFile, err)
	}
	nr, nc := gd.Nrow, gd.Ncol
	if nr <= 0 || nc <= 0 {
		return nil, fmt.Errorf("%w: LoadGDEF: '%s' has no cells", ErrShape, gdefFP)
	}

	var g grid.Real
	g.NewGD32(bilFP, gd)

	d := New(nc, nr, 1, gd.Eorig, gd.Norig-float64(nr)*gd.Cwidth, 0., gd.Cwidth, gd.Cwidth, 1.)
	d.Fill(nodata)
	for cid, v := range g.A {
		if cid < 0 || cid >= nr*nc {
			return nil, fmt.Errorf("%w: LoadGDEF: cell id %d outside of '%s'", ErrShape, cid, gdefFP)
		}
		row, col := cid/nc, cid%nc
		d.Set(col, nr-1-row, 0, v)
	}
	return d, nil
}
