package main

import (
	"fmt"
	"log"
	"os"

	"github.com/akamensky/argparse"
	"github.com/alanquits/parflow/config"
	"github.com/alanquits/parflow/databox"
	"github.com/alanquits/parflow/forcing"
	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
)

func main() {
	parser := argparse.NewParser("pfforcing", "Distributes meteorological station records over a ParFlow met grid")
	dbfp := parser.String("i", "input", &argparse.Options{Required: true, Help: "input database (.pfidb or instruction file)"})
	nstep := parser.Int("n", "steps", &argparse.Options{Default: 1, Help: "number of timesteps to force"})
	prfx := parser.String("o", "out", &argparse.Options{Help: "output prefix; grids of every step are written when set"})
	tobil := parser.Flag("", "bil", &argparse.Options{Help: "also write the last step as bil rasters"})
	ix := parser.Int("", "ix", &argparse.Options{Default: 0, Help: "first owned column"})
	iy := parser.Int("", "iy", &argparse.Options{Default: 0, Help: "first owned row"})
	nx := parser.Int("", "nx", &argparse.Options{Default: -1, Help: "owned columns (default all)"})
	ny := parser.Int("", "ny", &argparse.Options{Default: -1, Help: "owned rows (default all)"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap("\nRun complete.")

	db, err := loadDB(*dbfp)
	if err != nil {
		log.Fatalf(" pfforcing: %v", err)
	}

	// the met grid takes the layout of the station DEM
	demfp, err := db.GetString("Solver.CLM.Stations.DEM.FileName")
	if err != nil {
		log.Fatalf(" pfforcing: %v", err)
	}
	metgrid, err := databox.LoadPFB(demfp)
	if err != nil {
		log.Fatalf(" pfforcing: %v", err)
	}
	sub := forcing.Subgrid{IX: *ix, IY: *iy, NX: *nx, NY: *ny}
	if sub.NX < 0 {
		sub.NX = metgrid.Nx - sub.IX
	}
	if sub.NY < 0 {
		sub.NY = metgrid.Ny - sub.IY
	}

	frc, err := forcing.New(db, metgrid, sub)
	if err != nil {
		log.Fatalf(" pfforcing: %v", err)
	}
	frc.Summary(os.Stdout)
	tt.Print("Forcing initialized\n")

	uiprogress.Start()
	bar := uiprogress.AddBar(*nstep).AppendCompleted().PrependElapsed()
	var out *forcing.Outputs
	for step := 0; step < *nstep; step++ {
		if err := frc.AdvanceRecords(); err != nil {
			uiprogress.Stop()
			log.Fatalf(" pfforcing: step %d: %v", step, err)
		}
		if out, err = frc.PopulateOutputs(); err != nil {
			uiprogress.Stop()
			log.Fatalf(" pfforcing: step %d: %v", step, err)
		}
		if *prfx != "" {
			if err := out.SavePFB(fmt.Sprintf("%s%05d.", *prfx, step+1)); err != nil {
				uiprogress.Stop()
				log.Fatalf(" pfforcing: %v", err)
			}
		}
		bar.Incr()
	}
	uiprogress.Stop()

	if *tobil && out != nil {
		if err := out.ToBil(*prfx); err != nil {
			log.Fatalf(" pfforcing: %v", err)
		}
	}
	if err := frc.Close(); err != nil {
		log.Fatalf(" pfforcing: %v", err)
	}
}

func loadDB(fp string) (config.Database, error) {
	if mmio.GetExtension(fp) == ".pfidb" {
		return config.LoadPFIDB(fp)
	}
	return config.LoadInstruct(fp)
}
