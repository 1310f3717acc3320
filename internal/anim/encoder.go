package anim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/coreflow/internal/config"
)

// Canvas is what an encoder reads a frame from.
type Canvas interface {
	Image() *image.RGBA
	EncodePNG(w io.Writer) error
}

// MovieEncoder turns a sequence of frames into a movie file. Close must be
// called once Start has succeeded, whatever happens in between.
type MovieEncoder interface {
	Start(ctx context.Context, width, height int) error
	WriteFrame(c Canvas) error
	Close() error
}

// NewEncoder picks an encoder from the movie filename: GIF files are written
// directly, anything else goes through the configured external encoder.
func NewEncoder(s config.Settings) MovieEncoder {
	if strings.EqualFold(filepath.Ext(s.MovieFilename), ".gif") {
		return NewGIFEncoder(s.MovieFilename, s.FPS)
	}
	bin := s.Encoder
	if bin == "" {
		bin = config.DefaultEncoder
	}
	return NewFFmpegEncoder(bin, s.MovieFilename, s.FPS)
}

// GIFEncoder writes an animated GIF using the Plan 9 palette with
// Floyd-Steinberg dithering.
type GIFEncoder struct {
	path  string
	delay int
	file  *os.File
	anim  gif.GIF
}

func NewGIFEncoder(path string, fps int) *GIFEncoder {
	delay := 1
	if fps > 0 {
		delay = max(1, int(math.Round(100/float64(fps))))
	}
	return &GIFEncoder{path: path, delay: delay}
}

func (e *GIFEncoder) Start(context.Context, int, int) error {
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoder, err)
	}
	e.file = f
	e.anim = gif.GIF{LoopCount: 0}
	return nil
}

func (e *GIFEncoder) WriteFrame(c Canvas) error {
	src := c.Image()
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, src.Bounds(), src, image.Point{})
	e.anim.Image = append(e.anim.Image, dst)
	e.anim.Delay = append(e.anim.Delay, e.delay)
	return nil
}

// Frames is the number of frames written so far.
func (e *GIFEncoder) Frames() int { return len(e.anim.Image) }

func (e *GIFEncoder) Close() error {
	if e.file == nil {
		return nil
	}
	var encErr error
	if len(e.anim.Image) > 0 {
		encErr = gif.EncodeAll(e.file, &e.anim)
	}
	closeErr := e.file.Close()
	e.file = nil
	if err := errors.Join(encErr, closeErr); err != nil {
		return fmt.Errorf("%w: %w", ErrEncoder, err)
	}
	return nil
}

// FFmpegEncoder pipes PNG frames into an ffmpeg-compatible executable.
type FFmpegEncoder struct {
	bin  string
	path string
	fps  int

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

func NewFFmpegEncoder(bin, path string, fps int) *FFmpegEncoder {
	return &FFmpegEncoder{bin: bin, path: path, fps: fps}
}

// Args returns the command line passed to the encoder.
func (e *FFmpegEncoder) Args() []string {
	return []string{
		"-y",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-r", strconv.Itoa(e.fps),
		"-i", "-",
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		"-pix_fmt", "yuv420p",
		e.path,
	}
}

func (e *FFmpegEncoder) Start(ctx context.Context, _, _ int) error {
	path, err := exec.LookPath(e.bin)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoder, err)
	}
	cmd := exec.CommandContext(ctx, path, e.Args()...)
	cmd.Stderr = &e.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoder, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("%w: start %s: %w", ErrEncoder, e.bin, err)
	}
	e.cmd, e.stdin = cmd, stdin
	return nil
}

func (e *FFmpegEncoder) WriteFrame(c Canvas) error {
	if err := c.EncodePNG(e.stdin); err != nil {
		return fmt.Errorf("%w: write frame: %w", ErrEncoder, err)
	}
	return nil
}

func (e *FFmpegEncoder) Close() error {
	if e.cmd == nil {
		return nil
	}
	cerr := e.stdin.Close()
	err := e.cmd.Wait()
	e.cmd = nil
	if err != nil {
		msg := strings.TrimSpace(e.stderr.String())
		if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
			msg = msg[i+1:]
		}
		return errors.Join(fmt.Errorf("%w: %s: %w (%s)", ErrEncoder, e.bin, err, msg), cerr)
	}
	if cerr != nil {
		return fmt.Errorf("%w: close stdin: %w", ErrEncoder, cerr)
	}
	return nil
}
