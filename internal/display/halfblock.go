package display

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// upperHalf paints the top half of a cell in the foreground color and the
// bottom half in the background color, giving two pixels per cell.
const upperHalf = "▀"

// HalfBlock downsamples img to cols x rows terminal cells. Each cell averages
// the pixels under its upper and lower half. Runs of identical cells share one
// style so the escape codes stay short.
func HalfBlock(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	sx := float64(b.Dx()) / float64(cols)
	sy := float64(b.Dy()) / float64(rows*2)

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		var run strings.Builder
		var runFG, runBG string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(runFG)).
				Background(lipgloss.Color(runBG)).
				Render(run.String()))
			run.Reset()
		}
		for col := 0; col < cols; col++ {
			x0 := b.Min.X + int(float64(col)*sx)
			x1 := b.Min.X + int(float64(col+1)*sx)
			top := average(img, x0, x1, b.Min.Y+int(float64(2*row)*sy), b.Min.Y+int(float64(2*row+1)*sy))
			bot := average(img, x0, x1, b.Min.Y+int(float64(2*row+1)*sy), b.Min.Y+int(float64(2*row+2)*sy))
			fg, bg := hex(top), hex(bot)
			if fg != runFG || bg != runBG {
				flush()
				runFG, runBG = fg, bg
			}
			run.WriteString(upperHalf)
		}
		flush()
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// average returns the mean color of the pixel block [x0,x1) x [y0,y1). Empty
// blocks sample the single pixel at (x0, y0).
func average(img image.Image, x0, x1, y0, y1 int) color.RGBA {
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	var r, g, bl, n uint64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 0xff}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
