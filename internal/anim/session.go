package anim

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/san-kum/coreflow/internal/config"
	"github.com/san-kum/coreflow/internal/display"
	"github.com/san-kum/coreflow/internal/flow"
	"github.com/san-kum/coreflow/internal/render"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateSetup State = iota
	StateRunning
	StateDisplayed
	StateExported
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRunning:
		return "running"
	case StateDisplayed:
		return "displayed"
	case StateExported:
		return "exported"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrInvalidTransition = errors.New("anim: invalid state transition")
	ErrEncoder           = errors.New("anim: encoder failed")
)

// TransitionError records a rejected state change.
type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("anim: cannot go from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

var transitions = map[State][]State{
	StateSetup:   {StateRunning},
	StateRunning: {StateDisplayed, StateExported},
}

func (s *Session) transition(to State) error {
	for _, next := range transitions[s.state] {
		if next == to {
			s.state = to
			return nil
		}
	}
	return &TransitionError{From: s.state, To: to}
}

func (s *Session) require(want, to State) error {
	if s.state != want {
		return &TransitionError{From: s.state, To: to}
	}
	return nil
}

// ViewBuilder creates the view a session drives. It receives the figure so
// the view can size its marks in points.
type ViewBuilder func(fig *render.Figure) render.View

// Session owns the render state of one plot call: the figure, the view and
// its geometry. A session is used by one goroutine and ends in either the
// displayed or the exported state.
type Session struct {
	field    *flow.Field
	settings config.Settings
	fig      *render.Figure
	view     render.View
	out      io.Writer
	log      *slog.Logger

	state State
	cur   int
}

type Option func(*Session)

// WithOutput sets where progress lines are written.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession validates the settings and allocates the figure. The settings
// are copied; later changes by the caller do not reach the session.
func NewSession(field *flow.Field, settings config.Settings, build ViewBuilder, opts ...Option) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	fig, err := render.NewFigure(settings)
	if err != nil {
		return nil, err
	}
	s := &Session{
		field:    field,
		settings: settings,
		fig:      fig,
		out:      io.Discard,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.view = build(fig)
	return s, nil
}

func (s *Session) State() State { return s.state }

// Index is the time index of the frame currently on the canvas.
func (s *Session) Index() int { return s.cur }

// Figure exposes the canvas of the current frame.
func (s *Session) Figure() *render.Figure { return s.fig }

// Setup builds the geometry and draws the frame at timeIdx without advecting
// the texture.
func (s *Session) Setup(timeIdx int) error {
	if err := s.require(StateSetup, StateRunning); err != nil {
		return err
	}
	if err := s.field.CheckTime(timeIdx); err != nil {
		return err
	}
	if err := s.view.Setup(timeIdx); err != nil {
		return err
	}
	if err := s.transition(StateRunning); err != nil {
		return err
	}
	s.cur = timeIdx
	s.log.Debug("session setup", "time_idx", timeIdx)
	return s.draw()
}

// Frame moves the view to time index i and redraws.
func (s *Session) Frame(i int) error {
	if s.state != StateRunning {
		return &TransitionError{From: s.state, To: StateRunning}
	}
	if err := s.field.CheckTime(i); err != nil {
		return err
	}
	s.view.Update(i)
	s.cur = i
	return s.draw()
}

func (s *Session) draw() error {
	title := s.settings.FormatTitle(s.field.TimeAt(s.cur))
	if err := s.fig.Render(s.view, title); err != nil {
		return fmt.Errorf("render frame %d: %w", s.cur, err)
	}
	return nil
}

// SaveImage writes the current frame as a PNG.
func (s *Session) SaveImage(path string) error {
	if err := s.require(StateRunning, StateExported); err != nil {
		return err
	}
	if err := s.fig.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	s.log.Info("image saved", "path", path, "dpi", s.settings.DPI)
	return s.transition(StateExported)
}

// Export renders every time index once, in order, into enc.
func (s *Session) Export(ctx context.Context, enc MovieEncoder) (err error) {
	if err := s.require(StateRunning, StateExported); err != nil {
		return err
	}
	_, _, n := s.field.Shape()
	w, h := s.fig.Width(), s.fig.Height()
	if err := enc.Start(ctx, w, h); err != nil {
		return err
	}
	defer func() {
		if cerr := enc.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		if err == nil {
			err = s.transition(StateExported)
		}
	}()

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "\rSaving frame %d/%d", i+1, n)
		if err := s.Frame(i); err != nil {
			return err
		}
		if err := enc.WriteFrame(s.fig); err != nil {
			return err
		}
	}
	s.log.Debug("export finished", "frames", n)
	return nil
}

// Show hands the session to a player. Looping plays every time index from 0,
// whatever index the session was set up at; otherwise only the current frame
// is shown.
func (s *Session) Show(ctx context.Context, p display.Player, loop bool) error {
	if err := s.require(StateRunning, StateDisplayed); err != nil {
		return err
	}
	var src display.FrameSource = still{s.fig.Image()}
	if loop {
		if err := s.Frame(0); err != nil {
			return err
		}
		src = frames{s}
	}
	if err := p.Play(ctx, src, loop); err != nil {
		return err
	}
	return s.transition(StateDisplayed)
}

// Close releases the figure.
func (s *Session) Close() error {
	return s.fig.Close()
}

// frames adapts a running session to display.FrameSource.
type frames struct {
	s *Session
}

func (f frames) Len() int {
	_, _, n := f.s.field.Shape()
	return n
}

func (f frames) Current() image.Image { return f.s.fig.Image() }

func (f frames) Frame(i int) (image.Image, error) {
	if err := f.s.Frame(i); err != nil {
		return nil, err
	}
	return f.s.fig.Image(), nil
}

type still struct {
	img image.Image
}

func (s still) Len() int { return 1 }

func (s still) Current() image.Image { return s.img }

func (s still) Frame(int) (image.Image, error) { return s.img, nil }
