// Package render rasterizes flow fields onto a figure: the colormap, the
// layout around the plot (title and colorbar) and the three views.
package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/san-kum/coreflow/internal/flow"
)

const (
	// NumLevels is the number of contour levels spanning [-c, c].
	NumLevels = 60
	// NumTicks is the number of labelled colorbar ticks.
	NumTicks  = 5

	lutSize = 256
)

type segment struct {
	x, y float64
}

// Piecewise-linear channel definitions of the jet colormap.
var (
	jetRed = []segment{{0, 0}, {0.35, 0}, {0.66, 1}, {0.89, 1}, {1, 0.5}}
	jetGrn = []segment{{0, 0}, {0.125, 0}, {0.375, 1}, {0.64, 1}, {0.91, 0}, {1, 0}}
	jetBlu = []segment{{0, 0.5}, {0.11, 1}, {0.34, 1}, {0.65, 0}, {1, 0}}
)

var jetLUT = buildLUT()

func buildLUT() [lutSize]gg.RGBA {
	var lut [lutSize]gg.RGBA
	for i := range lut {
		x := float64(i) / (lutSize - 1)
		lut[i] = gg.RGB(channel(jetRed, x), channel(jetGrn, x), channel(jetBlu, x))
	}
	return lut
}

func channel(segs []segment, x float64) float64 {
	for i := 1; i < len(segs); i++ {
		if x <= segs[i].x {
			a, b := segs[i-1], segs[i]
			return a.y + (x-a.x)/(b.x-a.x)*(b.y-a.y)
		}
	}
	return segs[len(segs)-1].y
}

// Jet maps x in [0, 1] to the jet colormap, quantized to 256 entries.
// Values outside the range take the end colors.
func Jet(x float64) gg.RGBA {
	if math.IsNaN(x) {
		return gg.RGBA{}
	}
	i := int(x * lutSize)
	if i < 0 {
		i = 0
	}
	if i >= lutSize {
		i = lutSize - 1
	}
	return jetLUT[i]
}

// Norm maps data values in [-Bound, Bound] onto [0, 1].
type Norm struct {
	Bound float64
}

func (n Norm) At(v float64) float64 {
	return 0.5 * (1 + v/n.Bound)
}

// Color is the colormap entry for a data value.
func (n Norm) Color(v float64) gg.RGBA {
	return Jet(n.At(v))
}

// Levels returns the contour levels for bound c.
func Levels(c float64) []float64 {
	return flow.Linspace(-c, c, NumLevels)
}

// Ticks returns the colorbar tick values for bound c.
func Ticks(c float64) []float64 {
	return flow.Linspace(-c, c, NumTicks)
}

// Band returns the index of the contour band containing v, or -1 when v lies
// outside the levels. The top level belongs to the last band.
func Band(levels []float64, v float64) int {
	n := len(levels)
	if n < 2 || math.IsNaN(v) || v < levels[0] || v > levels[n-1] {
		return -1
	}
	b := int((v - levels[0]) / (levels[n-1] - levels[0]) * float64(n-1))
	if b >= n-1 {
		b = n - 2
	}
	return b
}

// BandColors returns the fill color of each band: the colormap at the
// band's midpoint.
func BandColors(levels []float64, norm Norm) []gg.RGBA {
	if len(levels) < 2 {
		return nil
	}
	out := make([]gg.RGBA, len(levels)-1)
	for b := range out {
		out[b] = norm.Color((levels[b] + levels[b+1]) / 2)
	}
	return out
}
