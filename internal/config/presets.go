package config

import "sort"

var Presets = map[string]Settings{
	"default": Default(),
	"preview": {
		Speed: 1, ColorbarTitle: DefaultColorbarTitle, Title: DefaultTitle,
		MovieFilename: "preview.gif", ImageFilename: "preview.png",
		DPI: 72, FPS: 12, Width: DefaultWidth, Height: DefaultHeight, Encoder: DefaultEncoder,
	},
	"publication": {
		Speed: 1, ColorbarTitle: DefaultColorbarTitle, Title: DefaultTitle,
		MovieFilename: DefaultMovieFilename, ImageFilename: DefaultImageFilename,
		DPI: 300, FPS: 30, Width: DefaultWidth, Height: DefaultHeight, Encoder: DefaultEncoder,
	},
	"torsional": {
		Speed: 5, ColorbarTitle: "Velocity\n(dimensionless)", Title: "%.2f years",
		MovieFilename: DefaultMovieFilename, ImageFilename: DefaultImageFilename,
		DPI: DefaultDPI, FPS: DefaultFPS, Width: DefaultWidth, Height: DefaultHeight, Encoder: DefaultEncoder,
	},
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (Settings, bool) {
	s, ok := Presets[name]
	return s, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
