package topo

import (
	"math"

	"github.com/alanquits/parflow/databox"
)

// NoChild is assigned to cells without a D8 child (local minima) and to
// Flint's law cells not yet computed.
const NoChild = -9999.

type lowest struct {
	i, j int
	z    float64
}

// lowestNeighbour scans the 3x3 neighbourhood of (i,j), clipped to the grid,
// and returns the first cell of strictly lowest elevation.
func lowestNeighbour(dem *databox.Databox, i, j int, withSelf bool) lowest {
	l := lowest{-9999, -9999, math.Inf(1)}
	for jj := j - 1; jj <= j+1; jj++ {
		for ii := i - 1; ii <= i+1; ii++ {
			if !dem.InGrid(ii, jj) {
				continue
			}
			if !withSelf && ii == i && jj == j {
				continue
			}
			if z := dem.At(ii, jj, 0); z < l.z {
				l = lowest{ii, jj, z}
			}
		}
	}
	return l
}

// dist returns the distance between the centres of (i,j) and its neighbour (ii,jj)
func dist(dem *databox.Databox, i, j, ii, jj int) float64 {
	switch {
	case i == ii:
		return dem.Dy
	case j == jj:
		return dem.Dx
	default:
		return math.Hypot(dem.Dx, dem.Dy)
	}
}

// offgrid returns the inward neighbour an edge or corner cell is differenced
// against when it drains off the grid; ok is false for interior cells.
func offgrid(dem *databox.Databox, i, j int) (ii, jj int, ok bool) {
	w, e, s, n := i == 0, i == dem.Nx-1, j == 0, j == dem.Ny-1
	switch {
	case w && s:
		return i + 1, j + 1, true
	case e && s:
		return i - 1, j + 1, true
	case e && n:
		return i - 1, j - 1, true
	case w && n:
		return i + 1, j - 1, true
	case w:
		return i + 1, j, true
	case e:
		return i - 1, j, true
	case s:
		return i, j + 1, true
	case n:
		return i, j - 1, true
	}
	return i, j, false
}

// SlopeD8 computes the downwind slope from each cell to its D8 child, the
// lowest of its adjacent and diagonal neighbours. Interior local minima have
// zero slope; edge and corner minima drain off-grid at the slope to their
// inward neighbour.
func SlopeD8(dem *databox.Databox) *databox.Databox {
	slp := databox.NewLike(dem)
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			z := dem.At(i, j, 0)
			l := lowestNeighbour(dem, i, j, true)
			if l.z == z {
				if ii, jj, ok := offgrid(dem, i, j); ok && dem.InGrid(ii, jj) {
					slp.Set(i, j, 0, math.Abs(dem.At(ii, jj, 0)-z)/dist(dem, i, j, ii, jj))
				}
				continue
			}
			slp.Set(i, j, 0, math.Abs(z-l.z)/dist(dem, i, j, l.i, l.j))
		}
	}
	return slp
}

// SegmentD8 computes the length of the segment joining each cell centre to
// its D8 child: dx, dy or the diagonal. Edge and corner minima take the
// length of their off-grid segment, interior minima zero.
func SegmentD8(dem *databox.Databox) *databox.Databox {
	ds := databox.NewLike(dem)
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			l := lowestNeighbour(dem, i, j, true)
			if l.z == dem.At(i, j, 0) {
				if ii, jj, ok := offgrid(dem, i, j); ok {
					ds.Set(i, j, 0, dist(dem, i, j, ii, jj))
				}
				continue
			}
			ds.Set(i, j, 0, dist(dem, i, j, l.i, l.j))
		}
	}
	return ds
}

// ChildD8 returns the elevation of the cell each cell drains to, NoChild for
// local minima (edge or otherwise).
func ChildD8(dem *databox.Databox) *databox.Databox {
	child := databox.NewLike(dem)
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			l := lowestNeighbour(dem, i, j, true)
			if l.z == dem.At(i, j, 0) {
				child.Set(i, j, 0, NoChild)
				continue
			}
			child.Set(i, j, 0, l.z)
		}
	}
	return child
}
