package anim_test

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coreflow/internal/anim"
	"github.com/san-kum/coreflow/internal/config"
	"github.com/san-kum/coreflow/internal/display"
	"github.com/san-kum/coreflow/internal/flow"
	"github.com/san-kum/coreflow/internal/render"
)

type recordingPlayer struct {
	frames int
	loop   bool
	pulled int

	// index reports the time index on the canvas when set.
	index func() int
	seen  []int
}

func (p *recordingPlayer) Play(_ context.Context, src display.FrameSource, loop bool) error {
	p.frames, p.loop = src.Len(), loop
	p.record()
	for i := 1; i < src.Len(); i++ {
		if _, err := src.Frame(i); err != nil {
			return err
		}
		p.pulled++
		p.record()
	}
	return nil
}

func (p *recordingPlayer) record() {
	if p.index != nil {
		p.seen = append(p.seen, p.index())
	}
}

var (
	errWrite = errors.New("broken pipe")
	errClose = errors.New("encoder exited: unknown codec")
)

// failingEncoder fails on the first frame and again on close.
type failingEncoder struct{}

func (failingEncoder) Start(context.Context, int, int) error { return nil }

func (failingEncoder) WriteFrame(anim.Canvas) error { return errWrite }

func (failingEncoder) Close() error { return errClose }

func testField() *flow.Field {
	f, err := flow.NewAxisymmetric([][]float64{
		{0.1, 0.2, 0.3, 0.4},
		{-0.2, -0.1, 0.0, 0.1},
		{0.5, 0.25, -0.25, -0.5},
	})
	Expect(err).NotTo(HaveOccurred())
	return f
}

func testSettings() config.Settings {
	s := config.Default()
	s.DPI = 30
	s.FPS = 10
	s.ColorBound = 0.5
	return s
}

var _ = Describe("Session", func() {
	var (
		field    *flow.Field
		settings config.Settings
		session  *anim.Session
		out      *bytes.Buffer
		dir      string
	)

	BeforeEach(func() {
		field = testField()
		settings = testSettings()
		out = &bytes.Buffer{}

		var err error
		dir, err = os.MkdirTemp("", "coreflow-anim")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		session, err = anim.NewSession(field, settings, func(fig *render.Figure) render.View {
			return render.NewCylinders(field, settings, fig.Px)
		}, anim.WithOutput(out))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(session.Close)
	})

	It("starts in setup", func() {
		Expect(session.State()).To(Equal(anim.StateSetup))
	})

	It("rejects frames before setup", func() {
		err := session.Frame(0)
		Expect(err).To(MatchError(anim.ErrInvalidTransition))
	})

	It("rejects an out of range time index without leaving setup", func() {
		err := session.Setup(4)
		Expect(err).To(MatchError(flow.ErrIndexOutOfRange))
		Expect(session.State()).To(Equal(anim.StateSetup))
	})

	Context("once set up", func() {
		BeforeEach(func() {
			Expect(session.Setup(1)).To(Succeed())
		})

		It("is running at the requested index", func() {
			Expect(session.State()).To(Equal(anim.StateRunning))
			Expect(session.Index()).To(Equal(1))
		})

		It("cannot be set up twice", func() {
			err := session.Setup(0)
			var te *anim.TransitionError
			Expect(err).To(BeAssignableToTypeOf(te))
			Expect(err).To(MatchError(anim.ErrInvalidTransition))
		})

		It("saves a DPI-scaled image and ends exported", func() {
			path := filepath.Join(dir, "frame.png")
			Expect(session.SaveImage(path)).To(Succeed())
			Expect(session.State()).To(Equal(anim.StateExported))

			f, err := os.Open(path)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Width).To(Equal(192))
			Expect(cfg.Height).To(Equal(144))
		})

		It("rejects frames after reaching a terminal state", func() {
			Expect(session.SaveImage(filepath.Join(dir, "frame.png"))).To(Succeed())
			Expect(session.Frame(0)).To(MatchError(anim.ErrInvalidTransition))
		})

		It("exports every time sample exactly once", func() {
			path := filepath.Join(dir, "movie.gif")
			enc := anim.NewGIFEncoder(path, settings.FPS)

			Expect(session.Export(context.Background(), enc)).To(Succeed())
			Expect(session.State()).To(Equal(anim.StateExported))
			Expect(enc.Frames()).To(Equal(4))
			Expect(out.String()).To(HaveSuffix("\rSaving frame 4/4"))

			f, err := os.Open(path)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			g, err := gif.DecodeAll(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Image).To(HaveLen(4))
			Expect(g.Delay).To(HaveEach(10))
		})

		It("stops exporting when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := session.Export(ctx, anim.NewGIFEncoder(filepath.Join(dir, "movie.gif"), 10))
			Expect(err).To(MatchError(context.Canceled))
			Expect(session.State()).To(Equal(anim.StateRunning))
		})

		It("surfaces a missing encoder executable", func() {
			enc := anim.NewFFmpegEncoder("coreflow-no-such-encoder", filepath.Join(dir, "movie.mp4"), 10)
			err := session.Export(context.Background(), enc)
			Expect(err).To(MatchError(anim.ErrEncoder))
			Expect(session.State()).To(Equal(anim.StateRunning))
		})

		It("shows a single frame when not looping", func() {
			p := &recordingPlayer{}
			Expect(session.Show(context.Background(), p, false)).To(Succeed())
			Expect(p.frames).To(Equal(1))
			Expect(session.State()).To(Equal(anim.StateDisplayed))
		})

		It("feeds every frame to a looping player", func() {
			p := &recordingPlayer{}
			Expect(session.Show(context.Background(), p, true)).To(Succeed())
			Expect(p.frames).To(Equal(4))
			Expect(p.pulled).To(Equal(3))
			Expect(p.loop).To(BeTrue())
			Expect(session.Index()).To(Equal(3))
		})

		It("starts a looping player at index 0 whatever the setup index", func() {
			Expect(session.Index()).To(Equal(1))
			p := &recordingPlayer{index: session.Index}
			Expect(session.Show(context.Background(), p, true)).To(Succeed())
			Expect(p.seen).To(Equal([]int{0, 1, 2, 3}))
		})

		It("keeps the encoder close error when a frame write fails", func() {
			err := session.Export(context.Background(), failingEncoder{})
			Expect(err).To(MatchError(errWrite))
			Expect(err).To(MatchError(errClose))
			Expect(session.State()).To(Equal(anim.StateRunning))
		})
	})

	It("refuses invalid settings", func() {
		bad := testSettings()
		bad.FPS = 0
		_, err := anim.NewSession(field, bad, func(fig *render.Figure) render.View {
			return render.NewContours(field, bad, fig.Px)
		})
		Expect(err).To(MatchError(config.ErrInvalidSettings))
	})
})

var _ = DescribeTable("SelectMode",
	func(animate, save bool, want anim.Mode) {
		Expect(anim.SelectMode(animate, save)).To(Equal(want))
	},
	Entry("display", false, false, anim.ModeDisplay),
	Entry("static save", false, true, anim.ModeStaticSave),
	Entry("animated display", true, false, anim.ModeAnimatedDisplay),
	Entry("animated save", true, true, anim.ModeAnimatedSave),
)
