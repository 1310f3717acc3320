package flow

import (
	"fmt"
	"math"
)

// DefaultThetaResolution is the number of angle samples an axisymmetric
// field is broadcast to.
const DefaultThetaResolution = 50

// Field is angular velocity sampled over (radius, angle, time).
type Field struct {
	nr, nth, nt int
	data        []float64 // (i*nth+j)*nt + k

	radius []float64
	theta  []float64
	time   []float64

	axisymmetric bool
}

// New builds a field from a [radius][angle][time] array. Every axis must be
// non-empty and the array rectangular. A single angle sample triggers the
// axisymmetric broadcast.
func New(data [][][]float64) (*Field, error) {
	nr := len(data)
	if nr == 0 {
		return nil, fmt.Errorf("radius axis: %w", ErrEmptyAxis)
	}
	nth := len(data[0])
	if nth == 0 {
		return nil, fmt.Errorf("angle axis: %w", ErrEmptyAxis)
	}
	nt := len(data[0][0])
	if nt == 0 {
		return nil, fmt.Errorf("time axis: %w", ErrEmptyAxis)
	}

	flat := make([]float64, 0, nr*nth*nt)
	for i, plane := range data {
		if len(plane) != nth {
			return nil, &ShapeError{Axis: "radius", Index: i, Got: len(plane), Expected: nth}
		}
		for j, series := range plane {
			if len(series) != nt {
				return nil, &ShapeError{Axis: "angle", Index: j, Got: len(series), Expected: nt}
			}
			flat = append(flat, series...)
		}
	}
	return FromFlat(nr, nth, nt, flat)
}

// NewAxisymmetric builds a field from a [radius][time] grid, treating it as
// a single angle sample.
func NewAxisymmetric(grid [][]float64) (*Field, error) {
	nr := len(grid)
	if nr == 0 {
		return nil, fmt.Errorf("radius axis: %w", ErrEmptyAxis)
	}
	nt := len(grid[0])
	if nt == 0 {
		return nil, fmt.Errorf("time axis: %w", ErrEmptyAxis)
	}
	flat := make([]float64, 0, nr*nt)
	for i, row := range grid {
		if len(row) != nt {
			return nil, &ShapeError{Axis: "radius", Index: i, Got: len(row), Expected: nt}
		}
		flat = append(flat, row...)
	}
	return FromFlat(nr, 1, nt, flat)
}

// FromFlat builds a field from values laid out radius-major, time-minor.
// The slice is copied.
func FromFlat(nr, nth, nt int, values []float64) (*Field, error) {
	if nr <= 0 || nth <= 0 || nt <= 0 {
		return nil, ErrEmptyAxis
	}
	if len(values) != nr*nth*nt {
		return nil, fmt.Errorf("%w: %d values for shape (%d, %d, %d)", ErrShape, len(values), nr, nth, nt)
	}

	f := &Field{
		nr:     nr,
		nth:    nth,
		nt:     nt,
		data:   append([]float64(nil), values...),
		radius: Linspace(0, 1, nr),
		theta:  PeriodicAxis(nth),
		time:   Linspace(1, float64(nt), nt),
	}

	if nth == 1 {
		f.axisymmetric = true
		f.broadcast(DefaultThetaResolution)
	}
	return f, nil
}

// Shape returns the number of radius, angle and time samples.
func (f *Field) Shape() (nr, nth, nt int) {
	return f.nr, f.nth, f.nt
}

// Axisymmetric reports whether the source data had a single angle sample.
func (f *Field) Axisymmetric() bool {
	return f.axisymmetric
}

// Radius returns a copy of the radius axis.
func (f *Field) Radius() []float64 { return append([]float64(nil), f.radius...) }

// Theta returns a copy of the angle axis.
func (f *Field) Theta() []float64 { return append([]float64(nil), f.theta...) }

// Time returns a copy of the time axis.
func (f *Field) Time() []float64 { return append([]float64(nil), f.time...) }

// TimeAt returns the time value of sample k.
func (f *Field) TimeAt(k int) float64 { return f.time[k] }

// SetTime overrides the time axis. The values must match the field's time
// length and be strictly monotonic.
func (f *Field) SetTime(values []float64) error {
	if len(values) != f.nt {
		return fmt.Errorf("%w: got %d values for %d samples", ErrTimeAxis, len(values), f.nt)
	}
	if !strictlyMonotonic(values) {
		return ErrTimeAxis
	}
	f.time = append([]float64(nil), values...)
	return nil
}

// SetTimeRange sets the time axis to nt evenly spaced values over [start, end].
func (f *Field) SetTimeRange(start, end float64) error {
	if f.nt > 1 && start == end {
		return fmt.Errorf("%w: empty range [%g, %g]", ErrTimeAxis, start, end)
	}
	return f.SetTime(Linspace(start, end, f.nt))
}

// At returns the value at radius i, angle j, time k. Indices are not checked.
func (f *Field) At(i, j, k int) float64 {
	return f.data[(i*f.nth+j)*f.nt+k]
}

// CheckTime returns ErrIndexOutOfRange if k is not a valid time index.
func (f *Field) CheckTime(k int) error {
	if k < 0 || k >= f.nt {
		return fmt.Errorf("%w: time index %d not in [0, %d)", ErrIndexOutOfRange, k, f.nt)
	}
	return nil
}

// MaxAbs returns the largest absolute value in the field.
func (f *Field) MaxAbs() float64 {
	m := 0.0
	for _, v := range f.data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// RingMean is the value of ring i (bounded by radius samples i and i+1) at
// angle j and time k: the mean of its two boundary samples.
func (f *Field) RingMean(i, j, k int) float64 {
	return (f.At(i, j, k) + f.At(i+1, j, k)) / 2
}

// RadialProfile returns the values along the radius axis at angle j, time k.
func (f *Field) RadialProfile(j, k int) []float64 {
	out := make([]float64, f.nr)
	for i := range out {
		out[i] = f.At(i, j, k)
	}
	return out
}

// InterpRadius linearly interpolates the radial profile at angle j, time k.
// Radii outside [0, 1] take the end values.
func (f *Field) InterpRadius(r float64, j, k int) float64 {
	return Interp(r, f.radius, f.RadialProfile(j, k))
}

// Series returns the values over time at radius i, angle j.
func (f *Field) Series(i, j int) []float64 {
	start := (i*f.nth + j) * f.nt
	return append([]float64(nil), f.data[start:start+f.nt]...)
}

// Sample bilinearly interpolates the time slice k at polar position (r, theta).
// The angle direction wraps periodically; r is clamped to [0, 1].
func (f *Field) Sample(r, theta float64, k int) float64 {
	ri, rt := f.locateRadius(r)
	ja, jb, jt := f.locateTheta(theta)

	v00 := f.At(ri, ja, k)
	v01 := f.At(ri, jb, k)
	if f.nr == 1 {
		return v00 + jt*(v01-v00)
	}
	v10 := f.At(ri+1, ja, k)
	v11 := f.At(ri+1, jb, k)
	a := v00 + jt*(v01-v00)
	b := v10 + jt*(v11-v10)
	return a + rt*(b-a)
}

// locateRadius returns the lower radius cell index and the fraction within it.
func (f *Field) locateRadius(r float64) (int, float64) {
	if f.nr == 1 {
		return 0, 0
	}
	cells := float64(f.nr - 1)
	x := r * cells
	if x <= 0 {
		return 0, 0
	}
	if x >= cells {
		return f.nr - 2, 1
	}
	i := int(x)
	return i, x - float64(i)
}

// locateTheta returns the two bracketing angle indices and the fraction.
func (f *Field) locateTheta(theta float64) (int, int, float64) {
	x := WrapAngle(theta) / (2 * math.Pi) * float64(f.nth)
	j := int(x)
	if j >= f.nth {
		j = f.nth - 1
	}
	return j, (j + 1) % f.nth, x - float64(j)
}

// SetThetaResolution re-grids the angle axis to n samples. Axisymmetric
// fields are broadcast again; others are interpolated periodically.
func (f *Field) SetThetaResolution(n int) error {
	if n <= 0 {
		return fmt.Errorf("angle axis: %w", ErrEmptyAxis)
	}
	if f.axisymmetric {
		f.broadcast(n)
		return nil
	}

	theta := PeriodicAxis(n)
	data := make([]float64, f.nr*n*f.nt)
	for i := 0; i < f.nr; i++ {
		for j, th := range theta {
			ja, jb, jt := f.locateTheta(th)
			for k := 0; k < f.nt; k++ {
				a, b := f.At(i, ja, k), f.At(i, jb, k)
				data[(i*n+j)*f.nt+k] = a + jt*(b-a)
			}
		}
	}
	f.data, f.nth, f.theta = data, n, theta
	return nil
}

// broadcast copies angle sample 0 into n identical angle samples.
func (f *Field) broadcast(n int) {
	data := make([]float64, f.nr*n*f.nt)
	for i := 0; i < f.nr; i++ {
		src := f.data[(i*f.nth)*f.nt : (i*f.nth)*f.nt+f.nt]
		for j := 0; j < n; j++ {
			copy(data[(i*n+j)*f.nt:], src)
		}
	}
	f.data, f.nth, f.theta = data, n, PeriodicAxis(n)
}
