package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/san-kum/coreflow/internal/config"
	"github.com/san-kum/coreflow/internal/flow"
	"github.com/san-kum/coreflow/internal/geom"
)

// Data limits of the shell view.
const (
	xMin, xMax = -1.01, 1.1
	yMin, yMax = -1.0, 1.4

	shellDotPoints = 2.3
)

// Cylinders3D shows each ring as a pair of projected shells stacked into a
// lens, with texture dots running round the top rim of each shell.
type Cylinders3D struct {
	field *flow.Field
	norm  Norm
	speed float64
	px    func(float64) float64

	stack  geom.Stack
	colors []gg.RGBA
	theta  [][]float64
	k      int
}

func NewCylinders3D(field *flow.Field, s config.Settings, px func(float64) float64) *Cylinders3D {
	return &Cylinders3D{
		field: field,
		norm:  Norm{Bound: s.ColorBound},
		speed: s.Speed,
		px:    px,
	}
}

func (c *Cylinders3D) Setup(timeIdx int) error {
	if err := c.field.CheckTime(timeIdx); err != nil {
		return err
	}
	nr, _, _ := c.field.Shape()
	c.stack = geom.ShellStack(nr - 1)
	c.colors = make([]gg.RGBA, len(c.stack.Pairs))
	c.theta = make([][]float64, len(c.stack.Pairs))
	for j, pair := range c.stack.Pairs {
		c.theta[j] = flow.PeriodicAxis(pair.Dots)
	}
	c.recolor(timeIdx)
	return nil
}

func (c *Cylinders3D) Update(i int) {
	c.recolor(i)
	for j := range c.theta {
		step := -c.field.RingMean(j, 0, i) * c.speed / advectionFactor
		for d := range c.theta[j] {
			c.theta[j][d] += step
		}
	}
}

func (c *Cylinders3D) recolor(k int) {
	c.k = k
	for j := range c.colors {
		c.colors[j] = c.norm.Color(c.field.RingMean(j, 0, k))
	}
}

// RingColor returns the fill shared by both shells of ring j (inside-out).
func (c *Cylinders3D) RingColor(j int) gg.RGBA {
	return c.colors[j]
}

// TextureAngles returns the current texture angles of ring j.
func (c *Cylinders3D) TextureAngles(j int) []float64 {
	return append([]float64(nil), c.theta[j]...)
}

// project maps data coordinates into the area keeping a square aspect.
func project(area Rect) func(geom.Point) (float64, float64) {
	scale := math.Min(area.W/(xMax-xMin), area.H/(yMax-yMin))
	ox := area.X + (area.W-scale*(xMax-xMin))/2
	oy := area.Y + (area.H-scale*(yMax-yMin))/2
	return func(p geom.Point) (float64, float64) {
		return ox + (p.X-xMin)*scale, oy + (yMax-p.Y)*scale
	}
}

func (c *Cylinders3D) Draw(dc *gg.Context, area Rect) error {
	to := project(area)
	edge := c.px(1)

	for _, layer := range c.stack.Order {
		pair := c.stack.Pairs[layer.Ring]
		switch layer.Kind {
		case geom.LayerBottom, geom.LayerTop:
			outline := pair.Bottom
			if layer.Kind == geom.LayerTop {
				outline = pair.Top
			}
			for s, p := range outline {
				x, y := to(p)
				if s == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
			dc.SetColor(c.colors[layer.Ring].Color())
			if err := dc.FillPreserve(); err != nil {
				return err
			}
			dc.SetColor(gg.Black.Color())
			dc.SetLineWidth(edge)
			if err := dc.Stroke(); err != nil {
				return err
			}
		case geom.LayerTexture:
			dc.SetColor(gg.Black.Color())
			r := c.px(shellDotPoints) / 2
			for _, th := range c.theta[layer.Ring] {
				x, y := to(pair.Texture.At(th))
				dc.DrawCircle(x, y, r)
				if err := dc.Fill(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
