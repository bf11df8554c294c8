package topo

import (
	"math"

	"github.com/alanquits/parflow/databox"
)

// drainage holds the terrain fields a Flint's law reconstruction is built on
type drainage struct {
	dem, area, ds, child *databox.Databox
}

func newDrainage(dem *databox.Databox) *drainage {
	sx, sy := SlopeXUpwind(dem, dem.Dx), SlopeYUpwind(dem, dem.Dy)
	return &drainage{
		dem:   dem,
		area:  UpstreamArea(sx, sy),
		ds:    SegmentD8(dem),
		child: ChildD8(dem),
	}
}

// flint rebuilds elevations into demflint: every local minimum keeps its DEM
// elevation and each D8 parent upstream of it is placed c*A^p*ds above its
// child. Cells are assigned once, NoChild marks cells not yet reached.
func (dr *drainage) flint(demflint *databox.Databox, c, p float64) {
	demflint.Fill(NoChild)
	dem := dr.dem
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			if dr.child.At(i, j, 0) != NoChild {
				continue
			}
			demflint.Set(i, j, 0, dem.At(i, j, 0))
			stack := []Cell{{i, j}}
			for len(stack) > 0 {
				ch := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				zc := demflint.At(ch.I, ch.J, 0)
				for jj := ch.J - 1; jj <= ch.J+1; jj++ {
					for ii := ch.I - 1; ii <= ch.I+1; ii++ {
						if !dem.InGrid(ii, jj) || (ii == ch.I && jj == ch.J) || demflint.At(ii, jj, 0) != NoChild {
							continue
						}
						if ok, _ := TestParentD8(ch.I, ch.J, ii, jj, dem); !ok {
							continue
						}
						demflint.Set(ii, jj, 0, zc+c*math.Pow(dr.area.At(ii, jj, 0), p)*dr.ds.At(ii, jj, 0))
						stack = append(stack, Cell{ii, jj})
					}
				}
			}
		}
	}
}

// FlintsLaw estimates elevations from upstream area (in cells) assuming
// channel slope follows S = c*A^p along D8 drainage paths. Local minima keep
// their DEM elevation.
func FlintsLaw(dem *databox.Databox, c, p float64) *databox.Databox {
	demflint := databox.NewLike(dem)
	newDrainage(dem).flint(demflint, c, p)
	return demflint
}
