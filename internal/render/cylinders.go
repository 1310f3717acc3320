package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/san-kum/coreflow/internal/config"
	"github.com/san-kum/coreflow/internal/flow"
	"github.com/san-kum/coreflow/internal/geom"
)

const (
	// advectionFactor scales field values into per-frame angle steps.
	advectionFactor = 100
	ringSegments    = 180
	dotPoints       = 3
)

// polar maps (theta, r) onto the plot area with theta = 0 at the top and
// angles growing clockwise.
func polar(area Rect, theta, r float64) (float64, float64) {
	cx, cy := area.Center()
	R := area.W / 2
	return cx + r*R*math.Sin(theta), cy - r*R*math.Cos(theta)
}

func strokeSpine(dc *gg.Context, area Rect, width float64) error {
	cx, cy := area.Center()
	dc.SetColor(gg.Black.Color())
	dc.SetLineWidth(width)
	dc.DrawCircle(cx, cy, area.W/2)
	return dc.Stroke()
}

// Cylinders shows the field as concentric rings seen from above, each ring
// colored by its mean value at angle index 0, with texture dots carried
// round by the local flow.
type Cylinders struct {
	field *flow.Field
	norm  Norm
	speed float64
	px    func(float64) float64

	rings  []geom.Ring
	colors []gg.RGBA
	dots   []geom.Seed
	radius []float64
	k      int
}

// NewCylinders creates the 2D ring view. px converts points to pixels.
func NewCylinders(field *flow.Field, s config.Settings, px func(float64) float64) *Cylinders {
	return &Cylinders{
		field:  field,
		norm:   Norm{Bound: s.ColorBound},
		speed:  s.Speed,
		px:     px,
		radius: field.Radius(),
	}
}

func (c *Cylinders) Setup(timeIdx int) error {
	if err := c.field.CheckTime(timeIdx); err != nil {
		return err
	}
	c.rings = geom.Rings(len(c.radius) - 1)
	c.colors = make([]gg.RGBA, len(c.rings))
	c.dots = geom.TextureSeeds(c.radius)
	c.recolor(timeIdx)
	return nil
}

func (c *Cylinders) Update(i int) {
	c.recolor(i)
	for d := range c.dots {
		v := c.field.InterpRadius(c.dots[d].R, 0, i)
		c.dots[d].Theta -= v * c.speed / advectionFactor
	}
}

func (c *Cylinders) recolor(k int) {
	c.k = k
	for n, ring := range c.rings {
		c.colors[n] = c.norm.Color(c.field.RingMean(ring.Index, 0, k))
	}
}

// RingColor returns the fill of the ring with inside-out index i.
func (c *Cylinders) RingColor(i int) gg.RGBA {
	return c.colors[len(c.rings)-1-i]
}

// Dots returns the current texture positions.
func (c *Cylinders) Dots() []geom.Seed {
	return append([]geom.Seed(nil), c.dots...)
}

func (c *Cylinders) Draw(dc *gg.Context, area Rect) error {
	edge := c.px(edgePoints)
	for n, ring := range c.rings {
		pts := ring.Boundary(ringSegments)
		for s, p := range pts {
			x, y := polar(area, p.Theta, p.R)
			if s == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.SetColor(c.colors[n].Color())
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetColor(gg.Black.Color())
		dc.SetLineWidth(edge)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	dc.SetColor(gg.Black.Color())
	radius := c.px(dotPoints) / 2
	for _, d := range c.dots {
		x, y := polar(area, d.Theta, d.R)
		dc.DrawCircle(x, y, radius)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return strokeSpine(dc, area, edge)
}
