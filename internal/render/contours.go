package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/san-kum/coreflow/internal/config"
	"github.com/san-kum/coreflow/internal/flow"
)

// Contours fills the disc with banded colors of the full (radius, angle)
// slice at the current time.
type Contours struct {
	field  *flow.Field
	levels []float64
	colors []gg.RGBA
	px     func(float64) float64
	k      int

	// Per-pixel polar coordinates of the disc, built on first draw and
	// reused while the plot area stays the same.
	area  Rect
	cells []cell
	bands []int16
}

type cell struct {
	x, y     int
	r, theta float64
}

func NewContours(field *flow.Field, s config.Settings, px func(float64) float64) *Contours {
	levels := Levels(s.ColorBound)
	return &Contours{
		field:  field,
		levels: levels,
		colors: BandColors(levels, Norm{Bound: s.ColorBound}),
		px:     px,
	}
}

func (c *Contours) Setup(timeIdx int) error {
	if err := c.field.CheckTime(timeIdx); err != nil {
		return err
	}
	c.k = timeIdx
	return nil
}

func (c *Contours) Update(i int) {
	c.k = i
}

func (c *Contours) grid(area Rect) {
	if c.cells != nil && c.area == area {
		return
	}
	c.area = area
	c.cells = c.cells[:0]
	R := area.W / 2
	cx, cy := area.Center()
	for py := int(area.Y); py < int(math.Ceil(area.Y+area.H)); py++ {
		for px := int(area.X); px < int(math.Ceil(area.X+area.W)); px++ {
			dx := float64(px) + 0.5 - cx
			dy := cy - float64(py) - 0.5
			r := math.Hypot(dx, dy) / R
			if r > 1 {
				continue
			}
			c.cells = append(c.cells, cell{x: px, y: py, r: r, theta: flow.WrapAngle(math.Atan2(dx, dy))})
		}
	}
	c.bands = make([]int16, len(c.cells))
}

// rebuild recomputes the band of every cell for the current time index.
func (c *Contours) rebuild() {
	for n, cl := range c.cells {
		c.bands[n] = int16(Band(c.levels, c.field.Sample(cl.r, cl.theta, c.k)))
	}
}

// BandAt returns the band index painted at polar (r, theta) for the current
// time index, or -1 when the value is outside the levels.
func (c *Contours) BandAt(r, theta float64) int {
	return Band(c.levels, c.field.Sample(r, theta, c.k))
}

func (c *Contours) Draw(dc *gg.Context, area Rect) error {
	c.grid(area)
	c.rebuild()
	for n, cl := range c.cells {
		if b := c.bands[n]; b >= 0 {
			dc.SetPixel(cl.x, cl.y, c.colors[b])
		}
	}
	return strokeSpine(dc, area, c.px(edgePoints))
}
