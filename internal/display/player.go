// Package display shows rendered frames in the terminal.
package display

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultCols = 80
	defaultRows = 24
	chromeRows  = 2
	defaultFPS  = 24
)

// FrameSource yields rendered frames. Frame(i) advances the underlying
// render state to time index i, so frames must be requested in play order.
// Current is the frame at index 0; playback asks for index 1 next.
type FrameSource interface {
	Len() int
	Current() image.Image
	Frame(i int) (image.Image, error)
}

// Player presents frames until the user quits or ctx is done. With loop set
// the frame index wraps back to 0 after the last frame.
type Player interface {
	Play(ctx context.Context, frames FrameSource, loop bool) error
}

// TerminalPlayer plays frames as half-block art through bubbletea.
type TerminalPlayer struct {
	FPS   int
	Title string

	// Input and Output override the terminal, mainly for tests.
	Input  io.Reader
	Output io.Writer
}

type tickMsg time.Time

type model struct {
	src      FrameSource
	loop     bool
	interval time.Duration
	title    string

	idx        int
	img        image.Image
	cols, rows int
	paused     bool
	finished   bool
	err        error
}

func newModel(src FrameSource, loop bool, fps int, title string) model {
	if fps <= 0 {
		fps = defaultFPS
	}
	return model{
		src:      src,
		loop:     loop,
		interval: time.Second / time.Duration(fps),
		title:    title,
		img:      src.Current(),
		cols:     defaultCols,
		rows:     defaultRows - chromeRows,
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	if m.src.Len() <= 1 {
		return nil
	}
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case tea.WindowSizeMsg:
		m.cols = max(1, msg.Width)
		m.rows = max(1, msg.Height-chromeRows)
	case tickMsg:
		if !m.paused && !m.finished {
			next := m.idx + 1
			if next >= m.src.Len() {
				if !m.loop {
					m.finished = true
					return m, m.tick()
				}
				next = 0
			}
			img, err := m.src.Frame(next)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.idx, m.img = next, img
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) View() string {
	var s strings.Builder
	if m.title != "" {
		s.WriteString(HeaderStyle().Render(m.title))
	}
	s.WriteString("\n")
	s.WriteString(HalfBlock(m.img, m.cols, m.rows))
	s.WriteString("\n")

	status := "PLAYING"
	if m.paused {
		status = "PAUSED"
	}
	if m.src.Len() > 1 {
		s.WriteString(statusStyle(m.paused).Render(fmt.Sprintf("%s %d/%d", status, m.idx+1, m.src.Len())))
		s.WriteString(MutedStyle().Render("  [space] pause  [q] quit"))
	} else {
		s.WriteString(MutedStyle().Render("[q] quit"))
	}
	return s.String()
}

func (p TerminalPlayer) Play(ctx context.Context, frames FrameSource, loop bool) error {
	if frames.Len() == 0 {
		return errors.New("display: no frames")
	}
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	}
	if p.Output != nil {
		opts = append(opts, tea.WithOutput(p.Output))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(newModel(frames, loop, p.FPS, p.Title), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
