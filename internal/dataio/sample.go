package dataio

import (
	"math"
	"math/rand"

	"github.com/san-kum/coreflow/internal/flow"
)

// Sinusoid returns sin(2πr)·sin(θ)·sin(2πt) sampled on r in [0, 1], θ in
// [0, 2π) and t in [0, 1], indexed [radius][angle][time].
func Sinusoid(nr, nth, nt int) [][][]float64 {
	r := flow.Linspace(0, 1, nr)
	th := flow.PeriodicAxis(nth)
	t := flow.Linspace(0, 1, nt)

	out := make([][][]float64, nr)
	for i := range out {
		out[i] = make([][]float64, nth)
		for j := range out[i] {
			out[i][j] = make([]float64, nt)
			for k := range out[i][j] {
				out[i][j][k] = math.Sin(2*math.Pi*r[i]) * math.Sin(th[j]) * math.Sin(2*math.Pi*t[k])
			}
		}
	}
	return out
}

// SinusoidGrid is the θ = π/2 slice of Sinusoid as a radius x time grid.
func SinusoidGrid(nr, nt int) [][]float64 {
	r := flow.Linspace(0, 1, nr)
	t := flow.Linspace(0, 1, nt)
	out := make([][]float64, nr)
	for i := range out {
		out[i] = make([]float64, nt)
		for k := range out[i] {
			out[i][k] = math.Sin(2*math.Pi*r[i]) * math.Sin(2*math.Pi*t[k])
		}
	}
	return out
}

// Random returns an nr x nt grid of uniform values in [0, 1).
func Random(nr, nt int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, nr)
	for i := range out {
		out[i] = make([]float64, nt)
		for k := range out[i] {
			out[i][k] = rng.Float64()
		}
	}
	return out
}

// Resample bilinearly regrids a radius x time grid onto nr x nt points, both
// axes spanning [0, 1] before and after.
func Resample(grid [][]float64, nr, nt int) [][]float64 {
	if len(grid) == 0 || len(grid[0]) == 0 || nr <= 0 || nt <= 0 {
		return nil
	}
	srcR := flow.Linspace(0, 1, len(grid))
	srcT := flow.Linspace(0, 1, len(grid[0]))
	dstT := flow.Linspace(0, 1, nt)

	// Interpolate along time first, then along radius.
	rows := make([][]float64, len(grid))
	for i, row := range grid {
		rows[i] = make([]float64, nt)
		for k, t := range dstT {
			rows[i][k] = flow.Interp(t, srcT, row)
		}
	}

	out := make([][]float64, nr)
	col := make([]float64, len(grid))
	for i, r := range flow.Linspace(0, 1, nr) {
		out[i] = make([]float64, nt)
		for k := 0; k < nt; k++ {
			for s := range rows {
				col[s] = rows[s][k]
			}
			out[i][k] = flow.Interp(r, srcR, col)
		}
	}
	return out
}
