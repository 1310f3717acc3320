package geom

import (
	"math"

	"github.com/san-kum/coreflow/internal/flow"
)

const (
	// Aspect is the ratio of an ellipse's horizontal to vertical semi-axis.
	Aspect = 1.5
	// Shift raises the lower half of the stack so it reads as a sphere.
	Shift  = 0.3

	textureLift  = 0.01
	rimSamples   = 40
	frontSamples = 20
)

// Ellipse maps an angle onto a horizontal ellipse centred at (0, H).
type Ellipse struct {
	A, B, H float64
}

// At returns the point at angle theta. Angle 0 is the far side of the ellipse.
func (e Ellipse) At(theta float64) Point {
	return Point{X: e.A * math.Sin(theta), Y: e.B*math.Cos(theta) + e.H}
}

// Shell returns the closed outline of a cylinder of the given radius seen
// from slightly above: its full top rim at h2, the right wall down to h1, the
// front half of the bottom rim, and the left wall back up.
func Shell(radius, aspect, h1, h2 float64) []Point {
	top := Ellipse{A: radius, B: radius / aspect, H: h2}
	bottom := Ellipse{A: radius, B: radius / aspect, H: h1}

	pts := make([]Point, 0, rimSamples+frontSamples+4)
	for _, th := range flow.Linspace(math.Pi/2, 5*math.Pi/2, rimSamples) {
		pts = append(pts, top.At(th))
	}
	pts = append(pts, Point{radius, h2}, Point{radius, h1})
	for _, th := range flow.Linspace(math.Pi/2, 3*math.Pi/2, frontSamples) {
		pts = append(pts, bottom.At(th))
	}
	return append(pts, Point{-radius, h1}, Point{-radius, h2})
}

// ShellPair is the two shells standing for one ring, plus the ellipse its
// texture points move along.
type ShellPair struct {
	Index   int
	Top     []Point
	Bottom  []Point
	Texture Ellipse
	Dots    int
}

// LayerKind says which part of a ShellPair a layer draws.
type LayerKind int

const (
	LayerBottom LayerKind = iota
	LayerTop
	LayerTexture
)

// Layer is one step of the painter's order.
type Layer struct {
	Kind LayerKind
	Ring int
}

// Stack is the pseudo-3D lens of n rings. Pairs are indexed inside-out.
type Stack struct {
	Pairs []ShellPair
	Order []Layer
}

// ShellStack builds the stack for n rings. The lower half is painted inner
// ring first; the upper half outer ring first with each ring's texture right
// after its top shell.
func ShellStack(n int) Stack {
	if n <= 0 {
		return Stack{}
	}
	rho := flow.Linspace(0, 1, n+1)
	h := make([]float64, n+1)
	for k, p := range rho {
		h[k] = math.Sqrt(math.Max(0, 1-p*p))
	}

	st := Stack{Pairs: make([]ShellPair, n)}
	for j := range st.Pairs {
		outer := rho[j+1]
		top1 := h[j+1]
		if j == n-1 {
			top1 = -h[n-1] + Shift
		}
		mid := (rho[j] + rho[j+1]) / 2
		st.Pairs[j] = ShellPair{
			Index:   j,
			Top:     Shell(outer, Aspect, top1, h[j]),
			Bottom:  Shell(outer, Aspect, -h[j]+Shift, Shift),
			Texture: Ellipse{A: mid, B: mid / Aspect, H: h[j] + textureLift},
			Dots:    DotCount(j),
		}
	}

	for j := 0; j < n; j++ {
		st.Order = append(st.Order, Layer{LayerBottom, j})
	}
	for j := n - 1; j >= 0; j-- {
		st.Order = append(st.Order, Layer{LayerTop, j}, Layer{LayerTexture, j})
	}
	return st
}
