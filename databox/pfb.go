package databox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/maseology/mmio"
)

var (
	// ErrFile the grid file is missing or unreadable
	ErrFile = errors.New("grid file error")
	// ErrShape the grid file does not match the target layout
	ErrShape = errors.New("grid shape mismatch")
)

type pfbHeader struct {
	X, Y, Z    float64
	NX, NY, NZ int32
	DX, DY, DZ float64
	NSubgrids  int32
}

// validDims returns false if any extent is negative
func validDims(nx, ny, nz int32) bool { return nx >= 0 && ny >= 0 && nz >= 0 }

type pfbSubgrid struct {
	IX, IY, IZ int32
	NX, NY, NZ int32
	RX, RY, RZ int32
}

// ReadPFB reads a ParFlow binary file into an existing Databox. The file must
// carry the same number of cells in every direction as into.
func ReadPFB(fp string, into *Databox) error {
	if _, ok := mmio.FileExists(fp); !ok {
		return fmt.Errorf("%w: '%s' not found", ErrFile, fp)
	}
	buf := mmio.OpenBinary(fp)

	var h pfbHeader
	if err := binary.Read(buf, binary.BigEndian, &h); err != nil {
		return fmt.Errorf("%w: ReadPFB header of '%s': %v", ErrFile, fp, err)
	}
	if !validDims(h.NX, h.NY, h.NZ) {
		return fmt.Errorf("%w: '%s' has extent %dx%dx%d", ErrShape, fp, h.NX, h.NY, h.NZ)
	}
	if int(h.NX) != into.Nx || int(h.NY) != into.Ny || int(h.NZ) != into.Nz {
		return fmt.Errorf("%w: '%s' is %dx%dx%d, expected %dx%dx%d", ErrShape, fp, h.NX, h.NY, h.NZ, into.Nx, into.Ny, into.Nz)
	}
	into.X, into.Y, into.Z = h.X, h.Y, h.Z
	into.Dx, into.Dy, into.Dz = h.DX, h.DY, h.DZ

	for s := int32(0); s < h.NSubgrids; s++ {
		var sg pfbSubgrid
		if err := binary.Read(buf, binary.BigEndian, &sg); err != nil {
			return fmt.Errorf("%w: ReadPFB subgrid %d of '%s': %v", ErrFile, s, fp, err)
		}
		if !validDims(sg.NX, sg.NY, sg.NZ) || sg.IX < 0 || sg.IY < 0 || sg.IZ < 0 ||
			int(sg.IX)+int(sg.NX) > into.Nx || int(sg.IY)+int(sg.NY) > into.Ny || int(sg.IZ)+int(sg.NZ) > into.Nz {
			return fmt.Errorf("%w: subgrid %d of '%s' extends beyond the grid", ErrShape, s, fp)
		}
		a := make([]float64, int(sg.NX)*int(sg.NY)*int(sg.NZ))
		if err := binary.Read(buf, binary.BigEndian, a); err != nil {
			return fmt.Errorf("%w: ReadPFB subgrid %d data of '%s': %v", ErrFile, s, fp, err)
		}
		n := 0
		for k := 0; k < int(sg.NZ); k++ {
			for j := 0; j < int(sg.NY); j++ {
				for i := 0; i < int(sg.NX); i++ {
					into.Set(int(sg.IX)+i, int(sg.IY)+j, int(sg.IZ)+k, a[n])
					n++
				}
			}
		}
	}
	return nil
}

// LoadPFB reads a ParFlow binary file, taking the layout from its header
func LoadPFB(fp string) (*Databox, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("%w: '%s' not found", ErrFile, fp)
	}
	var h pfbHeader
	if err := binary.Read(mmio.OpenBinary(fp), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: LoadPFB header of '%s': %v", ErrFile, fp, err)
	}
	if !validDims(h.NX, h.NY, h.NZ) {
		return nil, fmt.Errorf("%w: '%s' has extent %dx%dx%d", ErrShape, fp, h.NX, h.NY, h.NZ)
	}
	d := New(int(h.NX), int(h.NY), int(h.NZ), h.X, h.Y, h.Z, h.DX, h.DY, h.DZ)
	if err := ReadPFB(fp, d); err != nil {
		return nil, err
	}
	return d, nil
}

// WritePFB saves d as a ParFlow binary file with a single subgrid
func WritePFB(fp string, d *Databox) error {
	buf := new(bytes.Buffer)
	h := pfbHeader{
		X: d.X, Y: d.Y, Z: d.Z,
		NX: int32(d.Nx), NY: int32(d.Ny), NZ: int32(d.Nz),
		DX: d.Dx, DY: d.Dy, DZ: d.Dz,
		NSubgrids: 1,
	}
	sg := pfbSubgrid{NX: int32(d.Nx), NY: int32(d.Ny), NZ: int32(d.Nz), RX: 1, RY: 1, RZ: 1}
	for _, v := range []interface{}{h, sg, d.V} {
		if err := binary.Write(buf, binary.BigEndian, v); err != nil {
			return fmt.Errorf("WritePFB failed: %v", err)
		}
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: WritePFB failed: %v", ErrFile, err)
	}
	return nil
}
