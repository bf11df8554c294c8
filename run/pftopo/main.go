package main

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/akamensky/argparse"
	"github.com/alanquits/parflow/databox"
	"github.com/alanquits/parflow/topo"
	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
)

func main() {
	parser := argparse.NewParser("pftopo", "Terrain analysis of a ParFlow DEM: slopes, D8 drainage, upstream area, pit filling and Flint's law")
	demfp := parser.String("d", "dem", &argparse.Options{Required: true, Help: "DEM file (.pfb, .sa, .gob or .bil with --gdef)"})
	gdeffp := parser.String("g", "gdef", &argparse.Options{Help: "grid definition of a .bil DEM"})
	prfx := parser.String("o", "out", &argparse.Options{Default: "pftopo.", Help: "output file prefix"})
	ext := parser.Selector("f", "format", []string{"pfb", "sa", "gob", "bil"}, &argparse.Options{Default: "pfb", Help: "output format"})

	slopes := parser.NewCommand("slopes", "upwind slopes in x and y")
	d8 := parser.NewCommand("d8", "D8 slope, segment length and child elevation")
	area := parser.NewCommand("area", "upstream area in cells")
	nocache := area.Flag("", "nocache", &argparse.Options{Help: "recompute even when a cached area exists"})

	pitfill := parser.NewCommand("pitfill", "fill sinks by constant increments")
	dpit := pitfill.Float("", "dpit", &argparse.Options{Default: .01, Help: "increment added to sinks per pass"})
	pfiter := pitfill.Int("n", "maxiter", &argparse.Options{Default: 1000, Help: "maximum number of passes"})

	movingavg := parser.NewCommand("movingavg", "fill sinks by the moving average of their neighbours")
	wsize := movingavg.Int("w", "wsize", &argparse.Options{Default: 1, Help: "half-width of the averaging window"})
	maiter := movingavg.Int("n", "maxiter", &argparse.Options{Default: 1000, Help: "maximum number of passes"})

	flint := parser.NewCommand("flint", "elevations from Flint's law")
	c := flint.Float("c", "coef", &argparse.Options{Required: true, Help: "Flint's law coefficient"})
	p := flint.Float("p", "exp", &argparse.Options{Required: true, Help: "Flint's law exponent"})

	flintfit := parser.NewCommand("flintfit", "fit Flint's law to the DEM")
	c0 := flintfit.Float("c", "c0", &argparse.Options{Default: .01, Help: "initial coefficient"})
	p0 := flintfit.Float("p", "p0", &argparse.Options{Default: .5, Help: "initial exponent"})
	lmiter := flintfit.Int("n", "maxiter", &argparse.Options{Default: 100, Help: "maximum Levenberg-Marquardt iterations"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap("\nRun complete.")

	dem, err := loadDEM(*demfp, *gdeffp)
	if err != nil {
		log.Fatalf(" pftopo: %v", err)
	}
	tt.Print(fmt.Sprintf("DEM loaded: %v\n", dem))

	save := func(name string, d *databox.Databox) {
		fp := *prfx + name + "." + *ext
		if err := databox.Save(fp, d); err != nil {
			log.Fatalf(" pftopo: %v", err)
		}
		fmt.Printf(" written: %s\n", fp)
	}

	switch {
	case slopes.Happened():
		save("slopex", topo.SlopeXUpwind(dem, dem.Dx))
		save("slopey", topo.SlopeYUpwind(dem, dem.Dy))
	case d8.Happened():
		save("slope.d8", topo.SlopeD8(dem))
		save("segment.d8", topo.SegmentD8(dem))
		save("child.d8", topo.ChildD8(dem))
	case area.Happened():
		save("area", upstreamArea(dem, *prfx+"area.gob", *nocache))
	case pitfill.Happened():
		n, nsink := iterate(*pfiter, func() int { return topo.PitFill(dem, *dpit) })
		fmt.Printf(" pit fill: %d passes, %d sinks remaining\n", n, nsink)
		save("pitfill", dem)
	case movingavg.Happened():
		n, nsink := iterate(*maiter, func() int { return topo.MovingAvg(dem, *wsize) })
		fmt.Printf(" moving average: %d passes, %d sinks remaining\n", n, nsink)
		save("movingavg", dem)
	case flint.Happened():
		save("flint", topo.FlintsLaw(dem, *c, *p))
	case flintfit.Happened():
		demflint, fit := topo.FlintsLawFit(dem, *c0, *p0, *lmiter)
		fmt.Println(fit)
		save("flintfit", demflint)
	}
}

func loadDEM(fp, gdef string) (*databox.Databox, error) {
	if gdef != "" {
		return databox.LoadGDEF(gdef, fp)
	}
	fmt.Printf(" loading: %s\n", fp)
	return databox.Load(fp)
}

// upstreamArea returns the upstream area of dem, cached to gob at cachefp
func upstreamArea(dem *databox.Databox, cachefp string, nocache bool) *databox.Databox {
	if _, ok := mmio.FileExists(cachefp); ok && !nocache {
		fmt.Printf(" loading: %s\n", cachefp)
		a, err := databox.LoadGob(cachefp)
		switch {
		case err != nil:
			fmt.Printf(" cached area unusable (%v), recomputing\n", err)
		case !a.SameLayout(dem):
			fmt.Printf(" cached area is %v, recomputing\n", a)
		default:
			return a
		}
	}
	a := topo.UpstreamArea(topo.SlopeXUpwind(dem, dem.Dx), topo.SlopeYUpwind(dem, dem.Dy))
	if err := a.SaveGob(cachefp); err != nil {
		log.Fatalf(" pftopo: %v", err)
	}
	return a
}

// iterate repeats a sink-removal pass until no sinks remain or maxiter passes
func iterate(maxiter int, pass func() int) (n, nsink int) {
	var remaining atomic.Int64
	uiprogress.Start()
	bar := uiprogress.AddBar(maxiter).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%d sinks", remaining.Load())
	})
	for n < maxiter {
		nsink = pass()
		remaining.Store(int64(nsink))
		n++
		bar.Incr()
		if nsink == 0 {
			break
		}
	}
	uiprogress.Stop()
	return
}
