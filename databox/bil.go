package databox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/maseology/mmio"
)

// WriteBil32 saves the k=0 slice of d as a north-up 32-bit raster with an
// accompanying .hdr, for checking outputs in a GIS.
func WriteBil32(fp string, d *Databox) error {
	f32 := func() []float32 {
		o := make([]float32, 0, d.Nx*d.Ny)
		for j := d.Ny - 1; j >= 0; j-- {
			for i := 0; i < d.Nx; i++ {
				o = append(o, float32(d.At(i, j, 0)))
			}
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("WriteBil32 failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: WriteBil32 failed: %v", ErrFile, err)
	}

	hdr := fmt.Sprintf("BYTEORDER I\nLAYOUT BIL\nNROWS %d\nNCOLS %d\nNBANDS 1\nNBITS 32\nPIXELTYPE FLOAT\nULXMAP %f\nULYMAP %f\nXDIM %f\nYDIM %f\nNODATA %v\n",
		d.Ny, d.Nx, d.X+d.Dx/2., d.Y+(float64(d.Ny)-.5)*d.Dy, d.Dx, d.Dy, nodata)
	if err := os.WriteFile(mmio.RemoveExtension(fp)+".hdr", []byte(hdr), 0644); err != nil {
		return fmt.Errorf("%w: WriteBil32 header failed: %v", ErrFile, err)
	}
	return nil
}
