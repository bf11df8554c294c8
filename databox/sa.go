package databox

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// ReadSA reads a ParFlow simple-ASCII file: a "nx ny nz" line followed by
// one value per line, i fastest. Origin is zero and cell size unity.
func ReadSA(fp string) (*Databox, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("%w: '%s' not found", ErrFile, fp)
	}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("%w: ReadSA '%s': %v", ErrFile, fp, err)
	}
	if len(lns) == 0 {
		return nil, fmt.Errorf("%w: ReadSA '%s' is empty", ErrFile, fp)
	}

	sp := strings.Fields(lns[0])
	if len(sp) != 3 {
		return nil, fmt.Errorf("%w: ReadSA '%s' invalid header '%s'", ErrFile, fp, lns[0])
	}
	var n [3]int
	for i, s := range sp {
		if n[i], err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("%w: ReadSA '%s' invalid header '%s'", ErrFile, fp, lns[0])
		}
	}

	d := New(n[0], n[1], n[2], 0., 0., 0., 1., 1., 1.)
	c := 0
	for _, ln := range lns[1:] {
		for _, s := range strings.Fields(ln) {
			if c >= len(d.V) {
				return nil, fmt.Errorf("%w: ReadSA '%s' has more than %d values", ErrShape, fp, len(d.V))
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: ReadSA '%s' value %d: %v", ErrFile, fp, c, err)
			}
			d.V[c] = v
			c++
		}
	}
	if c != len(d.V) {
		return nil, fmt.Errorf("%w: ReadSA '%s' has %d values, expected %d", ErrShape, fp, c, len(d.V))
	}
	return d, nil
}

// WriteSA saves d as a ParFlow simple-ASCII file
func WriteSA(fp string, d *Databox) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %d %d\n", d.Nx, d.Ny, d.Nz)
	for _, v := range d.V {
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("%w: WriteSA failed: %v", ErrFile, err)
	}
	return nil
}
