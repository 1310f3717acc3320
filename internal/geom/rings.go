// Package geom builds the outlines the cylinder views draw: concentric rings
// in polar form, projected shells for the pseudo-3D stack, and the texture
// points that ride on them.
package geom

import (
	"math"

	"github.com/san-kum/coreflow/internal/flow"
)

// Point is a Cartesian position in figure data units.
type Point struct {
	X, Y float64
}

// Polar is a position in (angle, radius) form. Angle 0 points up and grows
// clockwise when mapped to the screen.
type Polar struct {
	Theta, R float64
}

// Ring is the annulus between two neighbouring radius samples.
type Ring struct {
	Outer float64
	Inner float64
	// Index counts rings inside-out, matching the radius axis of the data.
	Index int
}

// Mid is the radius halfway across the ring.
func (r Ring) Mid() float64 {
	return (r.Outer + r.Inner) / 2
}

// Rings returns n rings covering the unit disc, outermost first. Drawing them
// in order as filled discs leaves each ring visible as an annulus.
func Rings(n int) []Ring {
	if n <= 0 {
		return nil
	}
	edges := flow.Linspace(1, 0, n+1)
	rings := make([]Ring, n)
	for k := range rings {
		rings[k] = Ring{Outer: edges[k], Inner: edges[k+1], Index: n - 1 - k}
	}
	return rings
}

// Boundary returns the closed outer circle of the ring as segments+1 polar
// points, the last repeating the first.
func (r Ring) Boundary(segments int) []Polar {
	if segments < 3 {
		segments = 3
	}
	out := make([]Polar, segments+1)
	for s := range out {
		out[s] = Polar{Theta: 2 * math.Pi * float64(s) / float64(segments), R: r.Outer}
	}
	return out
}

// DotCount is the number of texture points on ring i (innermost 0).
func DotCount(i int) int {
	return max(2, 2*(i+1)-1)
}

// Seed is one texture point: its ring, radius and starting angle.
type Seed struct {
	Ring  int
	R     float64
	Theta float64
}

// TextureSeeds places DotCount(i) evenly spaced points at the mid-radius of
// every ring bounded by consecutive entries of radius, innermost ring first.
func TextureSeeds(radius []float64) []Seed {
	var seeds []Seed
	for i := 0; i+1 < len(radius); i++ {
		r := (radius[i] + radius[i+1]) / 2
		for _, th := range flow.PeriodicAxis(DotCount(i)) {
			seeds = append(seeds, Seed{Ring: i, R: r, Theta: th})
		}
	}
	return seeds
}
