package topo

import (
	"github.com/alanquits/parflow/databox"
)

// IsSink returns true if (i,j) has no upwind slope or, away from the grid
// edge, lies strictly lower than its 4 axis neighbours.
func IsSink(dem, sx, sy *databox.Databox, i, j int) bool {
	if slopeMagnitude(sx, sy, i, j) == 0. {
		return true
	}
	if i == 0 || j == 0 || i == dem.Nx-1 || j == dem.Ny-1 {
		return false
	}
	z := dem.At(i, j, 0)
	return z < dem.At(i-1, j, 0) && z < dem.At(i+1, j, 0) && z < dem.At(i, j-1, 0) && z < dem.At(i, j+1, 0)
}

// CountSinks returns the number of sinks in dem
func CountSinks(dem *databox.Databox) int {
	sx, sy := SlopeXUpwind(dem, dem.Dx), SlopeYUpwind(dem, dem.Dy)
	n := 0
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			if IsSink(dem, sx, sy, i, j) {
				n++
			}
		}
	}
	return n
}

// PitFill raises every sink of dem by dpit, in place, and returns the
// number of sinks remaining. A single pass; callers iterate.
func PitFill(dem *databox.Databox, dpit float64) int {
	sx, sy := SlopeXUpwind(dem, dem.Dx), SlopeYUpwind(dem, dem.Dy)
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			if IsSink(dem, sx, sy, i, j) {
				dem.Add(i, j, 0, dpit)
			}
		}
	}
	return CountSinks(dem)
}

// MovingAvg replaces every sink of dem, in place, with the mean of the other
// cells in the (2*wsize+1)² window centred on it, clipped to the grid, plus
// dem.Dz/100. Returns the number of sinks remaining.
func MovingAvg(dem *databox.Databox, wsize int) int {
	sx, sy := SlopeXUpwind(dem, dem.Dx), SlopeYUpwind(dem, dem.Dy)
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			if !IsSink(dem, sx, sy, i, j) {
				continue
			}
			li, ri := max(i-wsize, 0), min(i+wsize, dem.Nx-1)
			lj, rj := max(j-wsize, 0), min(j+wsize, dem.Ny-1)
			s, n := 0., 0
			for jj := lj; jj <= rj; jj++ {
				for ii := li; ii <= ri; ii++ {
					if ii == i && jj == j {
						continue
					}
					s += dem.At(ii, jj, 0)
					n++
				}
			}
			if n == 0 {
				continue
			}
			dem.Set(i, j, 0, s/float64(n)+dem.Dz/100.)
		}
	}
	return CountSinks(dem)
}
