package databox

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/maseology/mmio"
)

// SaveGob Databox to gob
func (d *Databox) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" databox.SaveGob %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(d); err != nil {
		return fmt.Errorf(" databox.SaveGob %v", err)
	}
	return nil
}

// LoadGob loads a Databox saved with SaveGob
func LoadGob(fp string) (*Databox, error) {
	var d Databox
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFile, err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: databox.LoadGob %v", ErrFile, err)
	}
	if len(d.V) != d.Nx*d.Ny*d.Nz {
		return nil, fmt.Errorf("%w: databox.LoadGob '%s' holds %d values for %dx%dx%d", ErrShape, fp, len(d.V), d.Nx, d.Ny, d.Nz)
	}
	return &d, nil
}

// Load reads a grid file, format chosen by extension (.pfb, .sa, .gob)
func Load(fp string) (*Databox, error) {
	switch ext := mmio.GetExtension(fp); ext {
	case ".pfb":
		return LoadPFB(fp)
	case ".sa":
		return ReadSA(fp)
	case ".gob":
		return LoadGob(fp)
	default:
		return nil, fmt.Errorf("%w: unsupported grid file type '%s'", ErrFile, ext)
	}
}

// Save writes a grid file, format chosen by extension (.pfb, .sa, .gob, .bil)
func Save(fp string, d *Databox) error {
	switch ext := mmio.GetExtension(fp); ext {
	case ".pfb":
		return WritePFB(fp, d)
	case ".sa":
		return WriteSA(fp, d)
	case ".gob":
		return d.SaveGob(fp)
	case ".bil":
		return WriteBil32(fp, d)
	default:
		return fmt.Errorf("%w: unsupported grid file type '%s'", ErrFile, ext)
	}
}
