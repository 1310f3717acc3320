// Package plot draws a velocity field sampled on a cylinder as concentric
// rings, projected shells or filled contours, and shows or saves the result.
package plot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/coreflow/internal/anim"
	"github.com/san-kum/coreflow/internal/config"
	"github.com/san-kum/coreflow/internal/display"
	"github.com/san-kum/coreflow/internal/flow"
	"github.com/san-kum/coreflow/internal/render"
)

// Flow pairs a field with the settings used to draw it.
type Flow struct {
	field    *flow.Field
	settings config.Settings
	out      io.Writer
	player   display.Player
	log      *slog.Logger
}

type Option func(*Flow)

// WithSettings replaces the default settings. A zero color bound is derived
// from the field.
func WithSettings(s config.Settings) Option {
	return func(f *Flow) { f.settings = s }
}

// WithOutput sets where settings, progress and status lines go.
func WithOutput(w io.Writer) Option {
	return func(f *Flow) { f.out = w }
}

// WithDisplay sets the sink for the non-saving modes.
func WithDisplay(p display.Player) Option {
	return func(f *Flow) { f.player = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.log = l }
}

// New wraps field. Unless the settings carry a color bound, the bound is the
// largest absolute value in the field, or 1 for a field of zeros.
func New(field *flow.Field, opts ...Option) (*Flow, error) {
	f := &Flow{
		field:    field,
		settings: config.Default(),
		out:      os.Stdout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.settings.ColorBound == 0 {
		f.settings.ColorBound = field.MaxAbs()
		// An all-zero field still needs a usable scale.
		if f.settings.ColorBound == 0 {
			f.settings.ColorBound = 1
		}
	}
	if err := f.settings.Validate(); err != nil {
		return nil, err
	}
	if f.player == nil {
		f.player = display.TerminalPlayer{FPS: f.settings.FPS}
	}
	f.log.Debug("flow created", "color_bound", f.settings.ColorBound)
	return f, nil
}

func (f *Flow) Field() *flow.Field { return f.field }

// Settings returns a copy of the current settings.
func (f *Flow) Settings() config.Settings { return f.settings }

// Configure validates and installs s. Sessions already running keep the
// settings they started with.
func (f *Flow) Configure(s config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	f.settings = s
	if tp, ok := f.player.(display.TerminalPlayer); ok {
		tp.FPS = s.FPS
		f.player = tp
	}
	return nil
}

func (f *Flow) PrintSettings(w io.Writer) error {
	return f.settings.Print(w)
}

// PlotCylinders draws the field as concentric rings colored by their
// midpoint velocity, with dots that drift with the flow.
func (f *Flow) PlotCylinders(ctx context.Context, animate, save bool, timeIdx int) error {
	return f.plot(ctx, animate, save, timeIdx, func(fig *render.Figure) render.View {
		return render.NewCylinders(f.field, f.settings, fig.Px)
	})
}

// PlotCylinders3D draws the rings as a stack of shells seen from slightly
// above.
func (f *Flow) PlotCylinders3D(ctx context.Context, animate, save bool, timeIdx int) error {
	return f.plot(ctx, animate, save, timeIdx, func(fig *render.Figure) render.View {
		return render.NewCylinders3D(f.field, f.settings, fig.Px)
	})
}

// PlotContours fills the disc with contour bands over radius and angle.
func (f *Flow) PlotContours(ctx context.Context, animate, save bool, timeIdx int) error {
	return f.plot(ctx, animate, save, timeIdx, func(fig *render.Figure) render.View {
		return render.NewContours(f.field, f.settings, fig.Px)
	})
}

func (f *Flow) plot(ctx context.Context, animate, save bool, timeIdx int, build anim.ViewBuilder) error {
	if err := f.field.CheckTime(timeIdx); err != nil {
		return err
	}
	mode := anim.SelectMode(animate, save)
	s := f.settings
	f.log.Debug("plot", "mode", mode.String(), "time_idx", timeIdx)

	session, err := anim.NewSession(f.field, s, build, anim.WithOutput(f.out), anim.WithLogger(f.log))
	if err != nil {
		return err
	}
	defer session.Close()

	if mode.Animated() {
		fmt.Fprintln(f.out, "\nAnimating...")
	}
	if err := session.Setup(timeIdx); err != nil {
		return err
	}

	switch mode {
	case anim.ModeStaticSave:
		fmt.Fprintf(f.out, "Saving file %s at %ddpi\n", s.ImageFilename, s.DPI)
		if err := session.SaveImage(s.ImageFilename); err != nil {
			return err
		}
	case anim.ModeAnimatedSave:
		fmt.Fprintf(f.out, "Saving file %s at %ddpi and %dfps\n", s.MovieFilename, s.DPI, s.FPS)
		if err := session.Export(ctx, anim.NewEncoder(s)); err != nil {
			return err
		}
	default:
		return session.Show(ctx, f.player, mode.Animated())
	}
	fmt.Fprintln(f.out, "\nSAVED")
	return nil
}
