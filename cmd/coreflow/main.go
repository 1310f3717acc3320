package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/coreflow/internal/config"
	"github.com/san-kum/coreflow/internal/dataio"
	"github.com/san-kum/coreflow/internal/display"
	"github.com/san-kum/coreflow/internal/flow"
	"github.com/san-kum/coreflow/internal/plot"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	verbose    bool
	theme      string

	animate bool
	save    bool
	timeIdx int

	speed         float64
	title         string
	colorbarTitle string
	dpi           int
	fps           int
	movie         string
	image         string
	cScale        float64
	encoder       string

	timeStart float64
	timeEnd   float64
	thetaRes  int
	// Regrid a delimited input before plotting
	regridRadii int
	regridTimes int

	// sample command
	kind       string
	numRadii   int
	numAngles  int
	numTimes   int
	sampleSeed int64

	// profile command
	ring   int
	radial bool

	writeConfig string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "coreflow",
		Short:         "animate velocity fields in a cylindrical core",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			if theme != "" && !display.SetTheme(theme) {
				return fmt.Errorf("unknown theme: %s (available: %v)", theme, display.ThemeNames())
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "settings file (yaml or ini)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "terminal color theme")

	cylindersCmd := plotCommand("cylinders [data]", "concentric rings with drifting texture", (*plot.Flow).PlotCylinders)
	cylinders3DCmd := plotCommand("cylinders3d [data]", "stacked shells seen from above", (*plot.Flow).PlotCylinders3D)
	contoursCmd := plotCommand("contours [data]", "filled contours over radius and angle", (*plot.Flow).PlotContours)

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "print the resolved settings",
		Args:  cobra.NoArgs,
		RunE:  showSettings,
	}
	addSettingsFlags(settingsCmd)
	settingsCmd.Flags().StringVar(&writeConfig, "write", "", "also write the settings to this file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(display.HeaderStyle().Render("presets"))
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-12s %s\n", name, display.MutedStyle().Render(fmt.Sprintf("%ddpi %dfps %s", p.DPI, p.FPS, p.MovieFilename)))
			}
		},
	}

	sampleCmd := &cobra.Command{
		Use:   "sample [out]",
		Short: "write a sample field",
		Args:  cobra.ExactArgs(1),
		RunE:  writeSample,
	}
	sampleCmd.Flags().StringVar(&kind, "kind", "sinusoid", "sinusoid or random")
	sampleCmd.Flags().IntVar(&numRadii, "radii", 11, "radius samples")
	sampleCmd.Flags().IntVar(&numAngles, "angles", 50, "angle samples (json output only)")
	sampleCmd.Flags().IntVar(&numTimes, "times", 40, "time samples")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 1, "random seed")

	profileCmd := &cobra.Command{
		Use:   "profile [data]",
		Short: "chart a ring over time or the radial profile",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showProfile,
	}
	profileCmd.Flags().IntVar(&ring, "ring", 0, "ring index, innermost first")
	profileCmd.Flags().BoolVar(&radial, "radial", false, "plot the radial profile at --time-idx")
	profileCmd.Flags().IntVar(&timeIdx, "time-idx", 0, "time index for --radial")
	addFieldFlags(profileCmd)

	rootCmd.AddCommand(cylindersCmd, cylinders3DCmd, contoursCmd, settingsCmd, presetsCmd, sampleCmd, profileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)
}

type plotFunc func(f *plot.Flow, ctx context.Context, animate, save bool, timeIdx int) error

func plotCommand(use, short string, fn plotFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			field, err := loadField(cmd, args)
			if err != nil {
				return err
			}
			name := strings.Fields(cmd.Use)[0]
			f, err := plot.New(field,
				plot.WithSettings(settings),
				plot.WithDisplay(display.TerminalPlayer{FPS: settings.FPS, Title: name}),
			)
			if err != nil {
				return err
			}
			if verbose {
				if err := f.PrintSettings(os.Stdout); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return fn(f, ctx, animate, save, timeIdx)
		},
	}
	cmd.Flags().BoolVar(&animate, "animate", false, "step through every time sample")
	cmd.Flags().BoolVar(&save, "save", false, "write an image or movie instead of displaying")
	cmd.Flags().IntVar(&timeIdx, "time-idx", 0, "time index of the first frame")
	addSettingsFlags(cmd)
	addFieldFlags(cmd)
	return cmd
}

func addSettingsFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().Float64Var(&speed, "speed", d.Speed, "texture speed multiplier")
	cmd.Flags().StringVar(&title, "title", d.Title, "title template with one float verb")
	cmd.Flags().StringVar(&colorbarTitle, "colorbar-title", d.ColorbarTitle, "colorbar label")
	cmd.Flags().IntVar(&dpi, "dpi", d.DPI, "dots per inch")
	cmd.Flags().IntVar(&fps, "fps", d.FPS, "frames per second")
	cmd.Flags().StringVar(&movie, "movie", d.MovieFilename, "movie file (.gif or any ffmpeg container)")
	cmd.Flags().StringVar(&image, "image", d.ImageFilename, "image file")
	cmd.Flags().Float64Var(&cScale, "c-scale", 0, "symmetric color bound (0 derives it from the data)")
	cmd.Flags().StringVar(&encoder, "encoder", d.Encoder, "movie encoder executable")
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&timeStart, "time-start", 0, "first value of an evenly spaced time axis")
	cmd.Flags().Float64Var(&timeEnd, "time-end", 0, "last value of an evenly spaced time axis")
	cmd.Flags().IntVar(&thetaRes, "theta-res", 0, "regrid the angle axis to this many samples")
	cmd.Flags().IntVar(&regridRadii, "regrid-radii", 0, "regrid a delimited input to this many radii")
	cmd.Flags().IntVar(&regridTimes, "regrid-times", 0, "regrid a delimited input to this many time samples")
}

// resolveSettings layers defaults, the preset, the config file and finally
// any flag given on the command line.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	settings := config.Default()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return settings, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		settings = p
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return settings, fmt.Errorf("failed to load config: %w", err)
		}
		settings = cfg
		slog.Debug("config loaded", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		settings.Speed = speed
	}
	if flags.Changed("title") {
		settings.Title = title
	}
	if flags.Changed("colorbar-title") {
		settings.ColorbarTitle = colorbarTitle
	}
	if flags.Changed("dpi") {
		settings.DPI = dpi
	}
	if flags.Changed("fps") {
		settings.FPS = fps
	}
	if flags.Changed("movie") {
		settings.MovieFilename = movie
	}
	if flags.Changed("image") {
		settings.ImageFilename = image
	}
	if flags.Changed("c-scale") {
		settings.ColorBound = cScale
	}
	if flags.Changed("encoder") {
		settings.Encoder = encoder
	}
	return settings, nil
}

// loadField reads the data argument, or builds the sinusoidal sample when
// none is given, then applies the axis flags.
func loadField(cmd *cobra.Command, args []string) (*flow.Field, error) {
	var (
		field *flow.Field
		err   error
	)
	switch {
	case len(args) == 0:
		field, err = flow.New(dataio.Sinusoid(11, flow.DefaultThetaResolution, 40))
	case regridRadii > 0 || regridTimes > 0:
		field, err = loadRegridded(args[0])
	default:
		field, err = dataio.Load(args[0])
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("time-start") || flags.Changed("time-end") {
		if err := field.SetTimeRange(timeStart, timeEnd); err != nil {
			return nil, err
		}
	}
	if thetaRes > 0 {
		if err := field.SetThetaResolution(thetaRes); err != nil {
			return nil, err
		}
	}
	nr, nth, nt := field.Shape()
	slog.Debug("field loaded", "radii", nr, "angles", nth, "times", nt)
	return field, nil
}

func loadRegridded(path string) (*flow.Field, error) {
	grid, err := dataio.LoadGrid(path)
	if err != nil {
		return nil, err
	}
	nr, nt := regridRadii, regridTimes
	if nr <= 0 {
		nr = len(grid)
	}
	if nt <= 0 {
		nt = len(grid[0])
	}
	return flow.NewAxisymmetric(dataio.Resample(grid, nr, nt))
}

func showSettings(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	fmt.Println(display.HeaderStyle().Render("coreflow"))
	if err := settings.Print(os.Stdout); err != nil {
		return err
	}
	if writeConfig != "" {
		if err := config.Save(writeConfig, settings); err != nil {
			return err
		}
		fmt.Printf("settings written to %s\n", writeConfig)
	}
	return nil
}

func writeSample(cmd *cobra.Command, args []string) error {
	out := args[0]
	isJSON := strings.EqualFold(filepath.Ext(out), ".json")

	var (
		grid [][]float64
		data [][][]float64
	)
	switch kind {
	case "sinusoid":
		if isJSON {
			data = dataio.Sinusoid(numRadii, numAngles, numTimes)
		} else {
			grid = dataio.SinusoidGrid(numRadii, numTimes)
		}
	case "random":
		grid = dataio.Random(numRadii, numTimes, sampleSeed)
	default:
		return fmt.Errorf("unknown sample kind: %s (sinusoid, random)", kind)
	}

	var err error
	if isJSON {
		if data == nil {
			data = make([][][]float64, len(grid))
			for i, row := range grid {
				data[i] = [][]float64{row}
			}
		}
		err = dataio.SaveJSON(out, &dataio.Document{Data: data})
	} else {
		err = dataio.SaveDelimited(out, grid)
	}
	if err != nil {
		return err
	}
	slog.Debug("sample written", "path", out, "kind", kind)
	fmt.Printf("wrote %s (%d radii x %d times)\n", out, numRadii, numTimes)
	return nil
}

func showProfile(cmd *cobra.Command, args []string) error {
	field, err := loadField(cmd, args)
	if err != nil {
		return err
	}
	nr, _, nt := field.Shape()

	var (
		data    []float64
		caption string
	)
	if radial {
		if err := field.CheckTime(timeIdx); err != nil {
			return err
		}
		data = field.RadialProfile(0, timeIdx)
		caption = fmt.Sprintf("radial profile at t=%g", field.TimeAt(timeIdx))
	} else {
		if ring < 0 || ring >= nr-1 {
			return fmt.Errorf("ring %d: %w (have %d rings)", ring, flow.ErrIndexOutOfRange, nr-1)
		}
		data = make([]float64, nt)
		for k := range data {
			data[k] = field.RingMean(ring, 0, k)
		}
		caption = fmt.Sprintf("ring %d midpoint over time", ring)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()
	return nil
}
