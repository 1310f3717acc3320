// Package flow holds the scalar flow field that every view renders.
//
// A [Field] is a dense 3D array of angular velocity indexed by
// (radius, angle, time) together with its derived axes:
//
//   - radius: evenly spaced over [0, 1]
//   - angle:  evenly spaced over [0, 2π), θ_k = 2πk/n
//   - time:   1..N unless overridden with [Field.SetTime]
//
// # Axisymmetric Data
//
// A field with a single angle sample is declared angle-independent and is
// broadcast in place to [DefaultThetaResolution] samples so the contour view
// has something to interpolate across:
//
//	f, _ := flow.NewAxisymmetric(grid) // grid is radius × time
//	nr, nth, nt := f.Shape()           // nth == 50
//
// # Thread Safety
//
// Field is NOT safe for concurrent mutation. Read-only use from several
// goroutines is fine once construction and axis overrides are done.
package flow
