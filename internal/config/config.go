package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSpeed         = 1.0
	DefaultColorbarTitle = "velocity"
	DefaultTitle         = "time: %3.1f years"
	DefaultMovieFilename = "output.mp4"
	DefaultImageFilename = "output.png"
	DefaultDPI           = 200
	DefaultFPS           = 24
	DefaultWidth         = 6.4
	DefaultHeight        = 4.8
	DefaultEncoder       = "ffmpeg"
)

// iniSection is the section INI files keep plot settings under.
const iniSection = "plot"

// Settings is the display configuration read by every plot call.
// ColorBound == 0 means "derive from the data".
type Settings struct {
	Speed         float64 `yaml:"speed"`
	ColorbarTitle string  `yaml:"colorbar_title"`
	Title         string  `yaml:"title"`
	MovieFilename string  `yaml:"movie_filename"`
	ImageFilename string  `yaml:"image_filename"`
	DPI           int     `yaml:"dpi"`
	FPS           int     `yaml:"fps"`
	ColorBound    float64 `yaml:"c_scale"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Encoder       string  `yaml:"encoder"`
}

func Default() Settings {
	return Settings{
		Speed:         DefaultSpeed,
		ColorbarTitle: DefaultColorbarTitle,
		Title:         DefaultTitle,
		MovieFilename: DefaultMovieFilename,
		ImageFilename: DefaultImageFilename,
		DPI:           DefaultDPI,
		FPS:           DefaultFPS,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Encoder:       DefaultEncoder,
	}
}

// Load reads settings from a YAML (.yaml, .yml) or INI (.ini) file. Keys the
// file leaves out keep their defaults.
func Load(path string) (Settings, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return loadINI(path)
	case ".yaml", ".yml", "":
		return loadYAML(path)
	default:
		return Settings{}, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
}

func loadYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

func loadINI(path string) (Settings, error) {
	file, err := ini.Load(path)
	if err != nil {
		return Settings{}, err
	}
	d := Default()
	sec := file.Section(iniSection)
	return Settings{
		Speed:         sec.Key("speed").MustFloat64(d.Speed),
		ColorbarTitle: unescape(sec.Key("colorbar_title").MustString(d.ColorbarTitle)),
		Title:         sec.Key("title").MustString(d.Title),
		MovieFilename: sec.Key("movie_filename").MustString(d.MovieFilename),
		ImageFilename: sec.Key("image_filename").MustString(d.ImageFilename),
		DPI:           sec.Key("dpi").MustInt(d.DPI),
		FPS:           sec.Key("fps").MustInt(d.FPS),
		ColorBound:    sec.Key("c_scale").MustFloat64(d.ColorBound),
		Width:         sec.Key("width").MustFloat64(d.Width),
		Height:        sec.Key("height").MustFloat64(d.Height),
		Encoder:       sec.Key("encoder").MustString(d.Encoder),
	}, nil
}

// unescape turns a literal "\n" in a single-line INI value into a newline so
// multi-line colorbar labels survive the format.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// Save writes settings to path in the format its extension selects.
func Save(path string, s Settings) error {
	if strings.ToLower(filepath.Ext(path)) == ".ini" {
		return saveINI(path, s)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func saveINI(path string, s Settings) error {
	file := ini.Empty()
	sec, err := file.NewSection(iniSection)
	if err != nil {
		return err
	}
	for _, e := range s.entries() {
		if _, err := sec.NewKey(e.Name, strings.ReplaceAll(e.raw, "\n", `\n`)); err != nil {
			return err
		}
	}
	return file.SaveTo(path)
}

// Entry is one named setting and its printable value.
type Entry struct {
	Name  string
	Value string
	raw   string
}

// Describe lists the user-facing settings in their fixed display order.
func (s Settings) Describe() []Entry {
	return s.entries()[:8]
}

func (s Settings) entries() []Entry {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []Entry{
		{Name: "speed", Value: f(s.Speed), raw: f(s.Speed)},
		{Name: "colorbar_title", Value: s.ColorbarTitle, raw: s.ColorbarTitle},
		{Name: "title", Value: s.Title, raw: s.Title},
		{Name: "movie_filename", Value: s.MovieFilename, raw: s.MovieFilename},
		{Name: "image_filename", Value: s.ImageFilename, raw: s.ImageFilename},
		{Name: "dpi", Value: strconv.Itoa(s.DPI), raw: strconv.Itoa(s.DPI)},
		{Name: "fps", Value: strconv.Itoa(s.FPS), raw: strconv.Itoa(s.FPS)},
		{Name: "c_scale", Value: f(s.ColorBound), raw: f(s.ColorBound)},
		{Name: "width", Value: f(s.Width), raw: f(s.Width)},
		{Name: "height", Value: f(s.Height), raw: f(s.Height)},
		{Name: "encoder", Value: s.Encoder, raw: s.Encoder},
	}
}

// Print writes the settings block shown by the settings command.
func (s Settings) Print(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "\nCURRENT SETTINGS ---------------"); err != nil {
		return err
	}
	for _, e := range s.Describe() {
		if _, err := fmt.Fprintf(w, "%s : %s\n", e.Name, e.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "--------------------------------")
	return err
}

// PixelSize is the figure size in pixels at the configured DPI.
func (s Settings) PixelSize() (int, int) {
	return int(s.Width*float64(s.DPI) + 0.5), int(s.Height*float64(s.DPI) + 0.5)
}

// FormatTitle applies the title template to a time value.
func (s Settings) FormatTitle(t float64) string {
	return fmt.Sprintf(s.Title, t)
}
