package topo

import (
	"errors"
	"fmt"

	"github.com/alanquits/parflow/databox"
)

var (
	// ErrNotAdjacent cells tested for a two-direction parent relation do not share a face
	ErrNotAdjacent = errors.New("cells are not adjacent")
	// ErrNotNeighbour cells tested for a D8 parent relation are more than one step apart
	ErrNotNeighbour = errors.New("cells are not neighbours")
)

// TestParent returns true if (ii,jj) drains into (i,j) according to the
// upwind slopes sx and sy.
func TestParent(i, j, ii, jj int, sx, sy *databox.Databox) (bool, error) {
	if abs(i-ii)+abs(j-jj) != 1 {
		return false, fmt.Errorf("%w: TestParent [%d,%d] [%d,%d]", ErrNotAdjacent, i, j, ii, jj)
	}
	switch {
	case ii == i-1:
		return sx.At(ii, jj, 0) < 0., nil
	case ii == i+1:
		return sx.At(ii, jj, 0) > 0., nil
	case jj == j-1:
		return sy.At(ii, jj, 0) < 0., nil
	default: // jj == j+1
		return sy.At(ii, jj, 0) > 0., nil
	}
}

// TestParentD8 returns true if (i,j) is the D8 child of (ii,jj) and lies
// strictly lower than it.
func TestParentD8(i, j, ii, jj int, dem *databox.Databox) (bool, error) {
	if abs(i-ii) > 1 || abs(j-jj) > 1 {
		return false, fmt.Errorf("%w: TestParentD8 [%d,%d] [%d,%d]", ErrNotNeighbour, i, j, ii, jj)
	}
	l := lowestNeighbour(dem, ii, jj, false)
	return l.i == i && l.j == j && dem.At(i, j, 0) < dem.At(ii, jj, 0), nil
}

// Cell a column (I) and row (J) of the horizontal grid
type Cell struct{ I, J int }

// axis neighbour offsets, in 3x3 scan order
var axis = [4]Cell{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// ParentMap marks with 1. every cell of pm that drains, directly or through
// other cells, into (i,j), including (i,j) itself. Cells already marked are
// not revisited. It returns the cells it marked.
func ParentMap(i, j int, sx, sy, pm *databox.Databox) []Cell {
	marked := []Cell{}
	if pm.At(i, j, 0) == 1. {
		return marked
	}
	pm.Set(i, j, 0, 1.)
	marked = append(marked, Cell{i, j})
	stack := []Cell{{i, j}}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, o := range axis {
			ii, jj := c.I+o.I, c.J+o.J
			if !sx.InGrid(ii, jj) || pm.At(ii, jj, 0) == 1. {
				continue
			}
			if ok, _ := TestParent(c.I, c.J, ii, jj, sx, sy); ok {
				pm.Set(ii, jj, 0, 1.)
				marked = append(marked, Cell{ii, jj})
				stack = append(stack, Cell{ii, jj})
			}
		}
	}
	return marked
}

// UpstreamArea computes, for every cell, the number of cells draining into
// it (itself included) under the two-direction upwind model. Multiply by
// dx*dy for physical area.
func UpstreamArea(sx, sy *databox.Databox) *databox.Databox {
	area, pm := databox.NewLike(sx), databox.NewLike(sx)
	for j := 0; j < sx.Ny; j++ {
		for i := 0; i < sx.Nx; i++ {
			marked := ParentMap(i, j, sx, sy, pm)
			area.Set(i, j, 0, float64(len(marked)))
			for _, c := range marked {
				pm.Set(c.I, c.J, 0, 0.)
			}
		}
	}
	return area
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
