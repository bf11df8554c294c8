// Package topo derives drainage topology from a digital elevation model:
// upwind and D8 slopes, parent/child relationships, upstream area, sink
// removal and Flint's law elevation reconstruction. Only the k=0 slice of a
// Databox is considered.
package topo

import (
	"math"

	"github.com/alanquits/parflow/databox"
)

// upwind selects the slope at a cell from its backward (s1) and forward (s2)
// differences: largest descent at a local maximum, zero at a local minimum,
// otherwise the slope on the downstream side.
func upwind(s1, s2 float64) float64 {
	switch {
	case s1 > 0. && s2 < 0.: // local maximum
		if math.Abs(s1) > math.Abs(s2) {
			return s1
		}
		return s2
	case s1 < 0. && s2 > 0.: // local minimum
		return 0.
	case s1 < 0. && s2 < 0.: // pass through (from left)
		return s1
	case s1 > 0. && s2 > 0.: // pass through (from right)
		return s2
	default:
		return 0.
	}
}

// SlopeXUpwind computes the first-order upwind topographic slope in x.
// Edge cells take a one-sided difference.
func SlopeXUpwind(dem *databox.Databox, dx float64) *databox.Databox {
	sx := databox.NewLike(dem)
	nx, ny := dem.Nx, dem.Ny
	if nx < 2 {
		return sx
	}
	z := func(i, j int) float64 { return dem.At(i, j, 0) }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			switch i {
			case 0:
				sx.Set(i, j, 0, (z(i+1, j)-z(i, j))/dx)
			case nx - 1:
				sx.Set(i, j, 0, (z(i, j)-z(i-1, j))/dx)
			default:
				s1 := (z(i, j) - z(i-1, j)) / dx
				s2 := (z(i+1, j) - z(i, j)) / dx
				sx.Set(i, j, 0, upwind(s1, s2))
			}
		}
	}
	return sx
}

// SlopeYUpwind computes the first-order upwind topographic slope in y.
// Edge cells take a one-sided difference.
func SlopeYUpwind(dem *databox.Databox, dy float64) *databox.Databox {
	sy := databox.NewLike(dem)
	nx, ny := dem.Nx, dem.Ny
	if ny < 2 {
		return sy
	}
	z := func(i, j int) float64 { return dem.At(i, j, 0) }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			switch j {
			case 0:
				sy.Set(i, j, 0, (z(i, j+1)-z(i, j))/dy)
			case ny - 1:
				sy.Set(i, j, 0, (z(i, j)-z(i, j-1))/dy)
			default:
				s1 := (z(i, j) - z(i, j-1)) / dy
				s2 := (z(i, j+1) - z(i, j)) / dy
				sy.Set(i, j, 0, upwind(s1, s2))
			}
		}
	}
	return sy
}

// slopeMagnitude returns sqrt(sx²+sy²) at (i,j)
func slopeMagnitude(sx, sy *databox.Databox, i, j int) float64 {
	return math.Hypot(sx.At(i, j, 0), sy.At(i, j, 0))
}
