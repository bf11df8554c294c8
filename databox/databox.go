package databox

import "fmt"

// Databox a regular 3D grid of values with an explicit origin and cell size.
// Element (i,j,k) is stored at V[(k*Ny+j)*Nx+i]; j increases northward.
type Databox struct {
	Nx, Ny, Nz int
	X, Y, Z    float64 // origin (lower-left-bottom corner)
	Dx, Dy, Dz float64 // cell size
	V          []float64
}

// New constructor, all values zero
func New(nx, ny, nz int, x, y, z, dx, dy, dz float64) *Databox {
	return &Databox{
		Nx: nx, Ny: ny, Nz: nz,
		X: x, Y: y, Z: z,
		Dx: dx, Dy: dy, Dz: dz,
		V: make([]float64, nx*ny*nz),
	}
}

// NewLike returns a zeroed Databox with the layout of d
func NewLike(d *Databox) *Databox {
	return New(d.Nx, d.Ny, d.Nz, d.X, d.Y, d.Z, d.Dx, d.Dy, d.Dz)
}

func (d *Databox) idx(i, j, k int) int { return (k*d.Ny+j)*d.Nx + i }

// At returns the value at (i,j,k)
func (d *Databox) At(i, j, k int) float64 { return d.V[d.idx(i, j, k)] }

// Set assigns v to (i,j,k)
func (d *Databox) Set(i, j, k int, v float64) { d.V[d.idx(i, j, k)] = v }

// Add increments (i,j,k) by v
func (d *Databox) Add(i, j, k int, v float64) { d.V[d.idx(i, j, k)] += v }

// Fill sets every value to v
func (d *Databox) Fill(v float64) {
	for n := range d.V {
		d.V[n] = v
	}
}

// Clone deep copy
func (d *Databox) Clone() *Databox {
	c := NewLike(d)
	copy(c.V, d.V)
	return c
}

// InGrid returns true if (i,j) lies on the horizontal extent of the grid
func (d *Databox) InGrid(i, j int) bool {
	return i >= 0 && j >= 0 && i < d.Nx && j < d.Ny
}

// SameLayout tests whether o can be compared cell-by-cell with d.
func (d *Databox) SameLayout(o *Databox) bool {
	return d.Nx == o.Nx && d.Ny == o.Ny && d.Dx == o.Dx && d.Dy == o.Dy
}

func (d *Databox) String() string {
	return fmt.Sprintf("databox %dx%dx%d (dx=%g dy=%g dz=%g)", d.Nx, d.Ny, d.Nz, d.Dx, d.Dy, d.Dz)
}
