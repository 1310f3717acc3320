package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestRings(t *testing.T) {
	got := Rings(4)
	want := []Ring{
		{Outer: 1, Inner: 0.75, Index: 3},
		{Outer: 0.75, Inner: 0.5, Index: 2},
		{Outer: 0.5, Inner: 0.25, Index: 1},
		{Outer: 0.25, Inner: 0, Index: 0},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("rings mismatch (-want +got):\n%s", diff)
	}

	for k := 1; k < len(got); k++ {
		if !(got[k].Outer < got[k-1].Outer) {
			t.Errorf("expected strictly decreasing outer radii at %d", k)
		}
	}

	if Rings(0) != nil {
		t.Error("expected no rings for n=0")
	}
}

func TestRingBoundary(t *testing.T) {
	b := Ring{Outer: 0.5}.Boundary(4)
	want := []Polar{
		{0, 0.5},
		{math.Pi / 2, 0.5},
		{math.Pi, 0.5},
		{3 * math.Pi / 2, 0.5},
		{2 * math.Pi, 0.5},
	}
	if diff := cmp.Diff(want, b, approx); diff != "" {
		t.Errorf("boundary mismatch (-want +got):\n%s", diff)
	}
}

func TestDotCount(t *testing.T) {
	tests := []struct {
		ring, want int
	}{
		{0, 2},
		{1, 3},
		{2, 5},
		{5, 11},
	}
	for _, tt := range tests {
		if got := DotCount(tt.ring); got != tt.want {
			t.Errorf("ring %d: expected %d dots, got %d", tt.ring, tt.want, got)
		}
	}
}

func TestTextureSeeds(t *testing.T) {
	got := TextureSeeds([]float64{0, 0.5, 1})
	want := []Seed{
		{Ring: 0, R: 0.25, Theta: 0},
		{Ring: 0, R: 0.25, Theta: math.Pi},
		{Ring: 1, R: 0.75, Theta: 0},
		{Ring: 1, R: 0.75, Theta: 2 * math.Pi / 3},
		{Ring: 1, R: 0.75, Theta: 4 * math.Pi / 3},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("seeds mismatch (-want +got):\n%s", diff)
	}
}

func TestShell(t *testing.T) {
	pts := Shell(1, 1.5, 0, 1)
	if len(pts) != 64 {
		t.Fatalf("expected 64 points, got %d", len(pts))
	}

	checks := map[int]Point{
		0:  {1, 1},
		40: {1, 1},
		41: {1, 0},
		42: {1, 0},
		62: {-1, 0},
		63: {-1, 1},
	}
	// Index 52 is the 11th front sample: theta = π/2 + 10π/19.
	th := math.Pi/2 + 10*math.Pi/19
	checks[52] = Point{math.Sin(th), math.Cos(th) / 1.5}

	for i, want := range checks {
		if diff := cmp.Diff(want, pts[i], approx); diff != "" {
			t.Errorf("point %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEllipseAt(t *testing.T) {
	e := Ellipse{A: 0.75, B: 0.5, H: 0.2}
	tests := []struct {
		theta float64
		want  Point
	}{
		{0, Point{0, 0.7}},
		{math.Pi / 2, Point{0.75, 0.2}},
		{math.Pi, Point{0, -0.3}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, e.At(tt.theta), approx); diff != "" {
			t.Errorf("theta=%g mismatch (-want +got):\n%s", tt.theta, diff)
		}
	}
}

func TestShellStack(t *testing.T) {
	st := ShellStack(2)
	if len(st.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(st.Pairs))
	}
	h1 := math.Sqrt(0.75)

	inner := st.Pairs[0]
	if diff := cmp.Diff(Shell(0.5, Aspect, h1, 1), inner.Top, approx); diff != "" {
		t.Errorf("inner top mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(Shell(0.5, Aspect, -0.7, 0.3), inner.Bottom, approx); diff != "" {
		t.Errorf("inner bottom mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(Ellipse{0.25, 0.25 / 1.5, 1.01}, inner.Texture, approx); diff != "" {
		t.Errorf("inner texture mismatch:\n%s", diff)
	}

	outer := st.Pairs[1]
	if diff := cmp.Diff(Shell(1, Aspect, -h1+0.3, h1), outer.Top, approx); diff != "" {
		t.Errorf("outer top mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(Shell(1, Aspect, -h1+0.3, 0.3), outer.Bottom, approx); diff != "" {
		t.Errorf("outer bottom mismatch:\n%s", diff)
	}
	if outer.Dots != 3 || inner.Dots != 2 {
		t.Errorf("expected 2 and 3 dots, got %d and %d", inner.Dots, outer.Dots)
	}

	wantOrder := []Layer{
		{LayerBottom, 0},
		{LayerBottom, 1},
		{LayerTop, 1},
		{LayerTexture, 1},
		{LayerTop, 0},
		{LayerTexture, 0},
	}
	if diff := cmp.Diff(wantOrder, st.Order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
