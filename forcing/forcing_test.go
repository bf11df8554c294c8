package forcing

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alanquits/parflow/config"
	"github.com/alanquits/parflow/databox"
)

const testTolerance = 1.e-8

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

func metgrid() *databox.Databox { return databox.New(3, 3, 1, 0., 0., 0., 10., 10., 1.) }

func writeGrid(t *testing.T, fp string, f func(i, j int) float64) {
	t.Helper()
	d := metgrid()
	for j := 0; j < d.Ny; j++ {
		for i := 0; i < d.Nx; i++ {
			d.Set(i, j, 0, f(i, j))
		}
	}
	if err := databox.WritePFB(fp, d); err != nil {
		t.Fatal(err)
	}
}

func setInterp(db config.Database, station, kind string) {
	for _, p := range Params() {
		db.Set(interpKey(station, p, "Type"), kind)
	}
}

// testDB two stations: A (id 1) forces columns 0 and 1, B (id 2) column 2.
// B's file does not exist.
func testDB(t *testing.T, aLines string) (config.Database, string) {
	t.Helper()
	dir := t.TempDir()
	writeGrid(t, filepath.Join(dir, "dem.pfb"), func(i, j int) float64 { return 100. + 10.*float64(j) })
	writeGrid(t, filepath.Join(dir, "ind.pfb"), func(i, j int) float64 {
		if i == 2 {
			return 2.
		}
		return 1.
	})
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte(aLines), 0644); err != nil {
		t.Fatal(err)
	}
	db := config.Database{
		"Solver.CLM.Stations.Names":              "A B",
		"Solver.CLM.Stations.DEM.FileName":       filepath.Join(dir, "dem.pfb"),
		"Solver.CLM.Stations.Indicator.FileName": filepath.Join(dir, "ind.pfb"),
		"Solver.CLM.Stations.A.Index":            "1",
		"Solver.CLM.Stations.A.Elevation":        "100.",
		"Solver.CLM.Stations.A.File":             filepath.Join(dir, "a.txt"),
		"Solver.CLM.Stations.B.Index":            "2",
		"Solver.CLM.Stations.B.Elevation":        "250.",
		"Solver.CLM.Stations.B.File":             filepath.Join(dir, "missing.txt"),
	}
	setInterp(db, "A", "None")
	setInterp(db, "B", "None")
	return db, dir
}

func TestEndToEnd(t *testing.T) {
	db, _ := testDB(t, "1 2 6 5 3 4 7 8\n")
	f, err := New(db, metgrid(), Subgrid{IX: 0, IY: 0, NX: 2, NY: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if len(f.Local) != 1 || f.Local[0].Name != "A" {
		t.Fatalf("local stations: %v", f.Local)
	}
	if b, _ := f.Index.Lookup(2, true); b.InSubgrid || b.IsOpen() {
		t.Error("station B should be outside the subgrid and closed")
	}

	if err := f.AdvanceRecords(); err != nil {
		t.Fatal(err)
	}
	out, err := f.PopulateOutputs()
	if err != nil {
		t.Fatal(err)
	}
	want := []*databox.Databox{out.SW, out.LW, out.U, out.V, out.Temp, out.Prcp, out.Patm, out.Qatm}
	for n, g := range want {
		for j := 0; j < 3; j++ {
			for i := 0; i < 3; i++ {
				v, w := g.At(i, j, 0), float64(n+1)
				if i == 2 {
					w = Sentinel
				}
				if v != w {
					t.Errorf("grid %d cell [%d,%d] = %f, want %f", n, i, j, v, w)
				}
			}
		}
	}
}

func TestLapseAndFactor(t *testing.T) {
	db, dir := testDB(t, "1 2 6 5 3 4 7 8\n")
	db.Set(interpKey("A", Temp, "Type"), "Linear")
	db.Set(interpKey("A", Temp, "Lapse"), "-0.0065")
	db.Set(interpKey("A", APCP, "Type"), "Factor")
	db.Set(interpKey("A", APCP, "Factors.File"), filepath.Join(dir, "fac.pfb"))
	writeGrid(t, filepath.Join(dir, "fac.pfb"), func(i, j int) float64 { return float64(i + 1) })

	f, err := New(db, metgrid(), Subgrid{NX: 2, NY: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := f.AdvanceRecords(); err != nil {
		t.Fatal(err)
	}
	out, err := f.PopulateOutputs()
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 3; j++ {
		for i := 0; i < 2; i++ {
			dz := 10. * float64(j)
			if absDifferent(out.Temp.At(i, j, 0), 5.-.0065*dz, testTolerance) {
				t.Errorf("temp [%d,%d] = %f", i, j, out.Temp.At(i, j, 0))
			}
			if out.Prcp.At(i, j, 0) != 6.*float64(i+1) {
				t.Errorf("prcp [%d,%d] = %f", i, j, out.Prcp.At(i, j, 0))
			}
		}
	}
}

func TestInterpolation(t *testing.T) {
	if v := (None{}).Apply(3., 100., 200., 0, 0); v != 3. {
		t.Errorf("None: %f", v)
	}
	if v := (Lapse{Rate: -.0065}).Apply(10., 100., 200., 0, 0); absDifferent(v, 9.35, testTolerance) {
		t.Errorf("Lapse: %f", v)
	}
	g := metgrid()
	g.Set(1, 2, 0, .5)
	if v := (Factor{Grid: g}).Apply(10., 0., 0., 1, 2); v != 5. {
		t.Errorf("Factor: %f", v)
	}

	db := config.Database{interpKey("s", Temp, "Type"): "Cubic"}
	if _, err := NewInterpolation(db, "s", Temp, g); !errors.Is(err, ErrConfig) || !strings.Contains(err.Error(), "Cubic") {
		t.Errorf("unknown kind: %v", err)
	}
	db.Set(interpKey("s", Temp, "Type"), "Linear")
	if _, err := NewInterpolation(db, "s", Temp, g); !errors.Is(err, ErrConfig) || !errors.Is(err, config.ErrMissingKey) {
		t.Errorf("missing lapse: %v", err)
	}
	db.Set(interpKey("s", Temp, "Type"), "Factor")
	db.Set(interpKey("s", Temp, "Factors.File"), filepath.Join(t.TempDir(), "none.pfb"))
	if _, err := NewInterpolation(db, "s", Temp, g); !errors.Is(err, ErrConfig) || !errors.Is(err, databox.ErrFile) {
		t.Errorf("missing factors: %v", err)
	}
	if _, err := NewInterpolation(config.Database{}, "s", Temp, g); !errors.Is(err, ErrConfig) {
		t.Errorf("missing type: %v", err)
	}
}

func TestFactorShape(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "fac.pfb")
	if err := databox.WritePFB(fp, databox.New(2, 2, 1, 0., 0., 0., 1., 1., 1.)); err != nil {
		t.Fatal(err)
	}
	db := config.Database{
		interpKey("s", SPFH, "Type"):         "Factor",
		interpKey("s", SPFH, "Factors.File"): fp,
	}
	if _, err := NewInterpolation(db, "s", SPFH, metgrid()); !errors.Is(err, ErrConfig) || !errors.Is(err, databox.ErrShape) {
		t.Errorf("expected shape error, got %v", err)
	}
}

func TestParseRecord(t *testing.T) {
	r, err := ParseRecord(" 1 2 6 5\t3 4 7 8 99")
	if err != nil {
		t.Fatal(err)
	}
	if r != (Record{SW: 1, LW: 2, U: 3, V: 4, Temp: 5, Prcp: 6, Patm: 7, Qatm: 8}) {
		t.Errorf("record %+v", r)
	}
	if _, err := ParseRecord("1 2 3 4 5 6 7"); !errors.Is(err, ErrData) {
		t.Errorf("short line: %v", err)
	}
	if _, err := ParseRecord("1 2 3 4 x 6 7 8"); !errors.Is(err, ErrData) {
		t.Errorf("bad field: %v", err)
	}
}

func TestIndex(t *testing.T) {
	idx := NewIndex()
	for _, s := range []*Station{{ID: 30, Name: "c"}, {ID: 4, Name: "a"}, {ID: 12, Name: "b"}} {
		if err := idx.Insert(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := idx.Insert(&Station{ID: 12, Name: "dup"}); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate id: %v", err)
	}
	if idx.Len() != 3 {
		t.Errorf("len = %d", idx.Len())
	}

	if s, err := idx.Lookup(12, true); err != nil || s.Name != "b" {
		t.Errorf("lookup 12: %v %v", s, err)
	}
	if s, err := idx.Lookup(5, false); s != nil || err != nil {
		t.Errorf("optional lookup: %v %v", s, err)
	}
	if _, err := idx.Lookup(5, true); !errors.Is(err, ErrLookup) {
		t.Errorf("required lookup: %v", err)
	}

	var ids []int
	idx.Ascend(func(s *Station) bool {
		ids = append(ids, s.ID)
		return true
	})
	if len(ids) != 3 || ids[0] != 4 || ids[1] != 12 || ids[2] != 30 {
		t.Errorf("ascend order %v", ids)
	}
}

func TestMarkSubgrid(t *testing.T) {
	idx := NewIndex()
	a, b := &Station{ID: 1, Name: "a"}, &Station{ID: 2, Name: "b"}
	idx.Insert(a)
	idx.Insert(b)

	ind := metgrid()
	ind.Fill(1.4)
	ind.Set(2, 2, 0, 1.6)
	local, err := MarkSubgrid(idx, ind, Subgrid{NX: 2, NY: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(local) != 1 || local[0] != a || b.InSubgrid {
		t.Errorf("local %v, b marked %v", local, b.InSubgrid)
	}

	ind.Set(0, 1, 0, 3.)
	if _, err := MarkSubgrid(idx, ind, WholeGrid(ind)); !errors.Is(err, ErrLookup) || !strings.Contains(err.Error(), "[0,1]") {
		t.Errorf("unknown id: %v", err)
	}
}

func TestOpenStationFiles(t *testing.T) {
	s := &Station{Name: "x", File: filepath.Join(t.TempDir(), "none.txt"), InSubgrid: true}
	if err := OpenStationFiles([]*Station{s}); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	s.InSubgrid = false
	if err := OpenStationFiles([]*Station{s}); err != nil {
		t.Errorf("station outside subgrid opened: %v", err)
	}
}

func TestStateMachine(t *testing.T) {
	db, _ := testDB(t, "1 2 6 5 3 4 7 8\n\n1 1 1 1 1 1 1 1\n")
	f, err := New(db, metgrid(), Subgrid{NX: 2, NY: 3})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.PopulateOutputs(); !errors.Is(err, ErrState) {
		t.Errorf("populate before advance: %v", err)
	}
	for step := 0; step < 2; step++ {
		if err := f.AdvanceRecords(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if _, err := f.PopulateOutputs(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
	if f.Out.Qatm.At(0, 0, 0) != 1. {
		t.Errorf("second record not applied: %f", f.Out.Qatm.At(0, 0, 0))
	}
	if err := f.AdvanceRecords(); !errors.Is(err, ErrData) {
		t.Errorf("read past end: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if f.Local[0].IsOpen() {
		t.Error("station file left open")
	}
	if err := f.AdvanceRecords(); !errors.Is(err, ErrState) {
		t.Errorf("advance after close: %v", err)
	}
	if err := f.Close(); !errors.Is(err, ErrState) {
		t.Errorf("second close: %v", err)
	}
}

func TestMalformedRecord(t *testing.T) {
	db, _ := testDB(t, "1 2 3\n")
	f, err := New(db, metgrid(), Subgrid{NX: 2, NY: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := f.AdvanceRecords(); !errors.Is(err, ErrData) || !strings.Contains(err.Error(), "station A") {
		t.Errorf("expected ErrData naming station, got %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	db, _ := testDB(t, "")
	db.Set("Solver.CLM.Stations.B.Index", "1")
	if _, err := New(db, metgrid(), WholeGrid(metgrid())); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate index: %v", err)
	}

	db, _ = testDB(t, "")
	delete(db, "Solver.CLM.Stations.A.Elevation")
	if _, err := New(db, metgrid(), WholeGrid(metgrid())); !errors.Is(err, ErrConfig) || !strings.Contains(err.Error(), "A.Elevation") {
		t.Errorf("missing elevation: %v", err)
	}

	db, _ = testDB(t, "")
	if _, err := New(db, metgrid(), WholeGrid(metgrid())); !errors.Is(err, ErrIO) {
		t.Errorf("station B file missing: %v", err)
	}

	db, dir := testDB(t, "")
	db.Set("Solver.CLM.Stations.DEM.FileName", filepath.Join(dir, "nodem.pfb"))
	if _, err := New(db, metgrid(), WholeGrid(metgrid())); !errors.Is(err, ErrIO) {
		t.Errorf("missing dem: %v", err)
	}

	db, _ = testDB(t, "")
	db.Set("Solver.CLM.MetForcing", "NC")
	if _, err := New(db, metgrid(), WholeGrid(metgrid())); !errors.Is(err, ErrConfig) {
		t.Errorf("unsupported kind: %v", err)
	}

	db, _ = testDB(t, "")
	if _, err := New(db, metgrid(), Subgrid{IX: 2, NX: 2, NY: 3}); !errors.Is(err, ErrConfig) {
		t.Errorf("subgrid outside grid: %v", err)
	}
}

func TestKindFromConfig(t *testing.T) {
	if k, err := KindFromConfig(config.Database{}); err != nil || k != KindStations {
		t.Errorf("default kind %v %v", k, err)
	}
	if _, err := KindFromConfig(config.Database{metForcingKey: "bogus"}); !errors.Is(err, ErrConfig) {
		t.Errorf("bogus kind: %v", err)
	}
	if k, err := KindFromConfig(config.Database{metForcingKey: "Stations"}); err != nil || k != KindStations {
		t.Errorf("stations kind %v %v", k, err)
	}
}

func TestSummary(t *testing.T) {
	db, _ := testDB(t, "1 2 6 5 3 4 7 8\n")
	f, err := New(db, metgrid(), Subgrid{NX: 2, NY: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var buf bytes.Buffer
	f.Summary(&buf)
	s := buf.String()
	for _, w := range []string{"Stations forcing", "2 stations, 1 in subgrid", "DSWR", " A ", " B "} {
		if !strings.Contains(s, w) {
			t.Errorf("summary missing '%s':\n%s", w, s)
		}
	}
}

func TestSavePFB(t *testing.T) {
	db, dir := testDB(t, "1 2 6 5 3 4 7 8\n")
	f, err := New(db, metgrid(), Subgrid{NX: 2, NY: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	f.AdvanceRecords()
	out, err := f.PopulateOutputs()
	if err != nil {
		t.Fatal(err)
	}
	prfx := filepath.Join(dir, "out.")
	if err := out.SavePFB(prfx); err != nil {
		t.Fatal(err)
	}
	d, err := databox.LoadPFB(prfx + "spfh.pfb")
	if err != nil {
		t.Fatal(err)
	}
	if d.At(0, 0, 0) != 8. || d.At(2, 0, 0) != Sentinel {
		t.Errorf("reloaded qatm %f %f", d.At(0, 0, 0), d.At(2, 0, 0))
	}
}

func TestToBil(t *testing.T) {
	db, dir := testDB(t, "1 2 6 5 3 4 7 8\n")
	f, err := New(db, metgrid(), Subgrid{NX: 2, NY: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	f.AdvanceRecords()
	out, err := f.PopulateOutputs()
	if err != nil {
		t.Fatal(err)
	}
	prfx := filepath.Join(dir, "out.")
	if err := out.ToBil(prfx); err != nil {
		t.Fatal(err)
	}
	for _, p := range Params() {
		fp := prfx + "forcing." + strings.ToLower(p.String()) + ".bil"
		b, err := os.ReadFile(fp)
		if err != nil {
			t.Fatal(err)
		}
		if len(b) != 9*4 {
			t.Errorf("%s: %d bytes, expected 36", fp, len(b))
		}
		hdr, err := os.ReadFile(prfx + "forcing." + strings.ToLower(p.String()) + ".hdr")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(hdr), "NROWS 3\n") {
			t.Errorf("%s header:\n%s", p, hdr)
		}
	}
}
