package flow

import "math"

// Linspace returns n evenly spaced samples over [start, end], endpoints included.
// n == 1 yields just start, matching the usual numeric convention.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}

// PeriodicAxis returns n angles 2πk/n for k in [0, n).
func PeriodicAxis(n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = 2 * math.Pi * float64(k) / float64(n)
	}
	return out
}

// Interp is piecewise-linear interpolation of (xs, ys) at x. xs must be
// ascending. Outside the table the end values are held.
func Interp(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if x <= xs[0] || n == 1 {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	span := xs[hi] - xs[lo]
	if span == 0 {
		return ys[lo]
	}
	t := (x - xs[lo]) / span
	return ys[lo] + t*(ys[hi]-ys[lo])
}

// WrapAngle folds theta into [0, 2π).
func WrapAngle(theta float64) float64 {
	const twoPi = 2 * math.Pi
	theta = math.Mod(theta, twoPi)
	if theta < 0 {
		theta += twoPi
	}
	return theta
}

func strictlyMonotonic(xs []float64) bool {
	if len(xs) < 2 {
		return true
	}
	inc := xs[1] > xs[0]
	for i := 1; i < len(xs); i++ {
		if inc && !(xs[i] > xs[i-1]) {
			return false
		}
		if !inc && !(xs[i] < xs[i-1]) {
			return false
		}
	}
	return true
}
