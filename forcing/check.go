package forcing

import (
	"fmt"
	"io"
)

// Summary prints the station table and the interpolation rule of every variable
func (f *Forcing) Summary(w io.Writer) {
	fmt.Fprintln(w, "Forcing summary:")
	fmt.Fprintf(w, " %s forcing, %dx%d met grid, subgrid [%d,%d]+[%d,%d]\n", f.Kind, f.Metgrid.Nx, f.Metgrid.Ny, f.Sub.IX, f.Sub.IY, f.Sub.NX, f.Sub.NY)
	fmt.Fprintf(w, " %d stations, %d in subgrid\n", f.Index.Len(), len(f.Local))
	fmt.Fprintf(w, " %6s %-16s %10s %-6s", "index", "name", "elevation", "local")
	for _, p := range Params() {
		fmt.Fprintf(w, " %-6s", p)
	}
	fmt.Fprintln(w)
	f.Index.Ascend(func(s *Station) bool {
		fmt.Fprintf(w, " %6d %-16s %10.2f %-6t", s.ID, s.Name, s.Elevation, s.InSubgrid)
		for _, in := range s.Interp {
			fmt.Fprintf(w, " %-6s", in.kind())
		}
		fmt.Fprintln(w)
		return true
	})
}
