package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/san-kum/coreflow/internal/config"
)

const (
	titlePoints = 12
	labelPoints = 10
	edgePoints  = 0.8
)

var (
	fontOnce sync.Once
	fontSrc  *text.FontSource
	fontErr  error
)

func fontSource() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSrc, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSrc, fontErr
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the middle of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// View draws one visual rendition of a field. Setup builds the geometry and
// colors for a time index without advecting. Update moves the artwork to
// time index i. Draw paints the current state into the plot area.
type View interface {
	Setup(timeIdx int) error
	Update(i int)
	Draw(dc *gg.Context, area Rect) error
}

// Figure owns the canvas a session draws into and the layout around the
// plot area. One figure serves every frame of a session.
type Figure struct {
	dc       *gg.Context
	dpi      float64
	label    string
	norm     Norm
	levels   []float64
	titleFnt text.Face
	labelFnt text.Face
}

// NewFigure sizes a canvas from the settings (inches times DPI).
func NewFigure(s config.Settings) (*Figure, error) {
	src, err := fontSource()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	w, h := s.PixelSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("figure size %dx%d", w, h)
	}
	f := &Figure{
		dc:     gg.NewContext(w, h),
		dpi:    float64(s.DPI),
		label:  s.ColorbarTitle,
		norm:   Norm{Bound: s.ColorBound},
		levels: Levels(s.ColorBound),
	}
	f.titleFnt = src.Face(f.Px(titlePoints))
	f.labelFnt = src.Face(f.Px(labelPoints))
	return f, nil
}

// Px converts a length in points to pixels.
func (f *Figure) Px(points float64) float64 {
	return points * f.dpi / 72
}

func (f *Figure) Width() int  { return f.dc.Width() }
func (f *Figure) Height() int { return f.dc.Height() }

// Axes is the square plot area left of the colorbar.
func (f *Figure) Axes() Rect {
	w, h := float64(f.dc.Width()), float64(f.dc.Height())
	left, right := 0.06*w, 0.76*w
	top, bottom := 0.12*h, 0.92*h
	side := math.Min(right-left, bottom-top)
	return Rect{
		X: left + (right-left-side)/2,
		Y: top + (bottom-top-side)/2,
		W: side,
		H: side,
	}
}

func (f *Figure) colorbar() Rect {
	w, h := float64(f.dc.Width()), float64(f.dc.Height())
	return Rect{X: 0.82 * w, Y: 0.30 * h, W: 0.035 * w, H: 0.42 * h}
}

// Render clears the canvas and paints the view, the title and the colorbar.
func (f *Figure) Render(v View, title string) error {
	f.dc.ClearWithColor(gg.White)
	if err := v.Draw(f.dc, f.Axes()); err != nil {
		return err
	}
	f.drawTitle(title)
	return f.drawColorbar()
}

func (f *Figure) drawTitle(title string) {
	if title == "" {
		return
	}
	ax := f.Axes()
	cx, _ := ax.Center()
	f.dc.SetFont(f.titleFnt)
	f.dc.SetColor(gg.Black.Color())
	f.dc.DrawStringAnchored(title, cx, ax.Y-f.Px(6), 0.5, 0)
}

func (f *Figure) drawColorbar() error {
	cb := f.colorbar()
	colors := BandColors(f.levels, f.norm)
	n := float64(len(colors))

	// Bands run bottom (most negative) to top.
	for b, col := range colors {
		y0 := cb.Y + cb.H*(1-float64(b+1)/n)
		f.dc.SetColor(col.Color())
		f.dc.DrawRectangle(cb.X, y0, cb.W, cb.H/n+0.5)
		if err := f.dc.Fill(); err != nil {
			return err
		}
	}

	f.dc.SetColor(gg.Black.Color())
	f.dc.SetLineWidth(f.Px(edgePoints))
	f.dc.DrawRectangle(cb.X, cb.Y, cb.W, cb.H)
	if err := f.dc.Stroke(); err != nil {
		return err
	}

	f.dc.SetFont(f.labelFnt)
	tick := f.Px(3.5)
	for _, v := range Ticks(f.norm.Bound) {
		y := cb.Y + cb.H*(1-f.norm.At(v))
		f.dc.DrawLine(cb.X+cb.W, y, cb.X+cb.W+tick, y)
		if err := f.dc.Stroke(); err != nil {
			return err
		}
		f.dc.DrawStringAnchored(tickLabel(v), cb.X+cb.W+tick+f.Px(3), y, 0, 0.35)
	}

	lines := strings.Split(f.label, "\n")
	_, lh := f.dc.MeasureString("M")
	cx, _ := cb.Center()
	for i, line := range lines {
		y := cb.Y - f.Px(10) - float64(len(lines)-1-i)*lh
		f.dc.DrawStringAnchored(line, cx, y, 0.5, 0)
	}
	return nil
}

func tickLabel(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}

// Image returns a copy of the current canvas.
func (f *Figure) Image() *image.RGBA {
	_ = f.dc.FlushGPU()
	return f.dc.Image().(*image.RGBA)
}

// SavePNG writes the current canvas to path.
func (f *Figure) SavePNG(path string) error {
	return f.dc.SavePNG(path)
}

// EncodePNG writes the current canvas as PNG to w.
func (f *Figure) EncodePNG(w io.Writer) error {
	_ = f.dc.FlushGPU()
	return f.dc.EncodePNG(w)
}

func (f *Figure) Close() error {
	return f.dc.Close()
}
