package dataio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/coreflow/internal/flow"
)

func TestReadDelimitedCSV(t *testing.T) {
	in := "# radius x time\n1, 2, 3\n4,5,6\n"
	grid, err := ReadDelimited(strings.NewReader(in), ',')
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(grid) != 2 || len(grid[0]) != 3 {
		t.Fatalf("expected 2x3 grid, got %v", grid)
	}
	if grid[1][2] != 6 {
		t.Errorf("expected 6, got %f", grid[1][2])
	}
}

func TestReadDelimitedWhitespace(t *testing.T) {
	in := "0.5   1.5\t2.5\n  -1 -2   -3\n\n"
	grid, err := ReadDelimited(strings.NewReader(in), ' ')
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(grid) != 2 || len(grid[1]) != 3 || grid[1][0] != -1 {
		t.Errorf("unexpected grid %v", grid)
	}
}

func TestReadDelimitedErrors(t *testing.T) {
	if _, err := ReadDelimited(strings.NewReader("1,2\n3\n"), ','); !errors.Is(err, flow.ErrShape) {
		t.Errorf("expected ErrShape for ragged rows, got %v", err)
	}
	if _, err := ReadDelimited(strings.NewReader("1,x\n"), ','); err == nil {
		t.Error("expected parse error")
	}
	if _, err := ReadDelimited(strings.NewReader("# only comments\n"), ','); !errors.Is(err, flow.ErrEmptyAxis) {
		t.Errorf("expected ErrEmptyAxis, got %v", err)
	}
}

func TestSaveAndLoadDelimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.csv")
	grid := [][]float64{{0.125, -2}, {3e-7, 4}}
	if err := SaveDelimited(path, grid); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	nr, nth, nt := f.Shape()
	if nr != 2 || nth != flow.DefaultThetaResolution || nt != 2 {
		t.Fatalf("unexpected shape (%d, %d, %d)", nr, nth, nt)
	}
	if f.At(1, 7, 0) != 3e-7 {
		t.Errorf("expected 3e-7, got %g", f.At(1, 7, 0))
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()

	bare := filepath.Join(dir, "bare.json")
	if err := os.WriteFile(bare, []byte(`[[[1,2]],[[3,4]]]`), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(bare)
	if err != nil {
		t.Fatalf("load bare failed: %v", err)
	}
	if _, _, nt := f.Shape(); nt != 2 {
		t.Errorf("expected 2 time samples, got %d", nt)
	}

	doc := filepath.Join(dir, "doc.json")
	if err := SaveJSON(doc, &Document{Time: []float64{0, 10}, Data: Sinusoid(3, 4, 2)}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	f, err = Load(doc)
	if err != nil {
		t.Fatalf("load doc failed: %v", err)
	}
	if f.TimeAt(1) != 10 {
		t.Errorf("expected time override 10, got %f", f.TimeAt(1))
	}
	if _, nth, _ := f.Shape(); nth != 4 {
		t.Errorf("expected 4 angle samples, got %d", nth)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("field.h5"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestSinusoid(t *testing.T) {
	data := Sinusoid(5, 4, 5)
	if len(data) != 5 || len(data[0]) != 4 || len(data[0][0]) != 5 {
		t.Fatal("unexpected shape")
	}
	// r = 0.25, θ = π/2, t = 0.25 gives 1.
	if got := data[1][1][1]; math.Abs(got-1) > 1e-12 {
		t.Errorf("expected peak 1, got %f", got)
	}
	if data[0][1][1] != 0 {
		t.Errorf("expected zero at r=0, got %f", data[0][1][1])
	}
}

func TestSinusoidGridMatchesSlice(t *testing.T) {
	full := Sinusoid(5, 4, 6)
	grid := SinusoidGrid(5, 6)
	for i := range grid {
		for k := range grid[i] {
			if math.Abs(grid[i][k]-full[i][1][k]) > 1e-12 {
				t.Errorf("(%d, %d): expected %f, got %f", i, k, full[i][1][k], grid[i][k])
			}
		}
	}
}

func TestLoadGridByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.dat")
	if err := os.WriteFile(path, []byte("1 2\n3 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	grid, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if grid[1][1] != 4 {
		t.Errorf("expected 4, got %f", grid[1][1])
	}
	if _, err := LoadGrid(filepath.Join(dir, "grid.json")); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestRandomIsSeeded(t *testing.T) {
	a, b := Random(3, 4, 7), Random(3, 4, 7)
	for i := range a {
		for k := range a[i] {
			if a[i][k] != b[i][k] {
				t.Fatal("expected equal grids for equal seeds")
			}
			if a[i][k] < 0 || a[i][k] >= 1 {
				t.Errorf("value %f outside [0, 1)", a[i][k])
			}
		}
	}
}

func TestResample(t *testing.T) {
	// f(r, t) = r + 2t is reproduced exactly by bilinear interpolation.
	grid := make([][]float64, 3)
	for i, r := range flow.Linspace(0, 1, 3) {
		grid[i] = make([]float64, 5)
		for k, tm := range flow.Linspace(0, 1, 5) {
			grid[i][k] = r + 2*tm
		}
	}

	out := Resample(grid, 5, 3)
	if len(out) != 5 || len(out[0]) != 3 {
		t.Fatalf("expected 5x3, got %dx%d", len(out), len(out[0]))
	}
	for i, r := range flow.Linspace(0, 1, 5) {
		for k, tm := range flow.Linspace(0, 1, 3) {
			if want := r + 2*tm; math.Abs(out[i][k]-want) > 1e-12 {
				t.Errorf("(%d, %d): expected %f, got %f", i, k, want, out[i][k])
			}
		}
	}

	if Resample(nil, 2, 2) != nil {
		t.Error("expected nil for empty grid")
	}
}
