package forcing

import "github.com/alanquits/parflow/databox"

// Subgrid the rectangle of met grid cells owned by this process
type Subgrid struct {
	IX, IY int // lower-left cell
	NX, NY int
}

// WholeGrid a Subgrid covering every cell of d
func WholeGrid(d *databox.Databox) Subgrid {
	return Subgrid{NX: d.Nx, NY: d.Ny}
}

// Contains returns true if (i,j) is owned
func (s Subgrid) Contains(i, j int) bool {
	return i >= s.IX && j >= s.IY && i < s.IX+s.NX && j < s.IY+s.NY
}

// Within returns true if the subgrid lies on the horizontal extent of d
func (s Subgrid) Within(d *databox.Databox) bool {
	return s.IX >= 0 && s.IY >= 0 && s.NX >= 0 && s.NY >= 0 && s.IX+s.NX <= d.Nx && s.IY+s.NY <= d.Ny
}

// Each calls fn for every owned cell, stopping at the first error
func (s Subgrid) Each(fn func(i, j int) error) error {
	for j := s.IY; j < s.IY+s.NY; j++ {
		for i := s.IX; i < s.IX+s.NX; i++ {
			if err := fn(i, j); err != nil {
				return err
			}
		}
	}
	return nil
}
