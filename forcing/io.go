package forcing

import (
	"fmt"
	"strings"

	"github.com/alanquits/parflow/databox"
)

// SavePFB writes every output grid to <prfx><param>.pfb
func (o *Outputs) SavePFB(prfx string) error {
	for _, p := range Params() {
		if err := databox.WritePFB(prfx+strings.ToLower(p.String())+".pfb", o.Grid(p)); err != nil {
			return fmt.Errorf(" forcing.SavePFB %v", err)
		}
	}
	return nil
}

// ToBil writes every output grid as a north-up raster for checking in a GIS
func (o *Outputs) ToBil(prfx string) error {
	println(" > printing forcing rasters..")
	for _, p := range Params() {
		if err := databox.WriteBil32(prfx+"forcing."+strings.ToLower(p.String())+".bil", o.Grid(p)); err != nil {
			return fmt.Errorf(" forcing.ToBil %v", err)
		}
	}
	return nil
}
