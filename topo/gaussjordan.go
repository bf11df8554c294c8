package topo

import (
	"errors"
	"math"
)

// ErrSingular the Gauss-Jordan pivot search found a singular matrix;
// a and b hold no usable solution.
var ErrSingular = errors.New("singular matrix")

// GaussJordan solves a·x = b in place by Gauss-Jordan elimination with full
// pivoting. a is n×n, b is n×m; on return a holds the inverse and b the m
// solution vectors.
func GaussJordan(a, b [][]float64) error {
	n := len(a)
	m := 0
	if len(b) > 0 {
		m = len(b[0])
	}
	indxc, indxr, ipiv := make([]int, n), make([]int, n), make([]int, n)

	for i := 0; i < n; i++ {
		big, irow, icol := 0., -1, -1
		for j := 0; j < n; j++ {
			if ipiv[j] == 1 {
				continue
			}
			for k := 0; k < n; k++ {
				switch {
				case ipiv[k] == 0:
					if math.Abs(a[j][k]) >= big {
						big, irow, icol = math.Abs(a[j][k]), j, k
					}
				case ipiv[k] > 1:
					return ErrSingular
				}
			}
		}
		if icol < 0 {
			return ErrSingular
		}
		ipiv[icol]++
		if ipiv[icol] > 1 {
			return ErrSingular
		}

		if irow != icol {
			a[irow], a[icol] = a[icol], a[irow]
			b[irow], b[icol] = b[icol], b[irow]
		}
		indxr[i], indxc[i] = irow, icol
		if a[icol][icol] == 0. {
			return ErrSingular
		}

		pivinv := 1. / a[icol][icol]
		a[icol][icol] = 1.
		for l := 0; l < n; l++ {
			a[icol][l] *= pivinv
		}
		for l := 0; l < m; l++ {
			b[icol][l] *= pivinv
		}
		for ll := 0; ll < n; ll++ {
			if ll == icol {
				continue
			}
			dum := a[ll][icol]
			a[ll][icol] = 0.
			for l := 0; l < n; l++ {
				a[ll][l] -= a[icol][l] * dum
			}
			for l := 0; l < m; l++ {
				b[ll][l] -= b[icol][l] * dum
			}
		}
	}

	// unscramble the column interchanges
	for l := n - 1; l >= 0; l-- {
		if indxr[l] != indxc[l] {
			for k := 0; k < n; k++ {
				a[k][indxr[l]], a[k][indxc[l]] = a[k][indxc[l]], a[k][indxr[l]]
			}
		}
	}
	return nil
}
