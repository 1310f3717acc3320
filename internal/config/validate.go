package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// ErrInvalidSettings is returned by Validate for any rejected setting.
var ErrInvalidSettings = errors.New("config: invalid settings")

// ValidationError names the setting that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSettings
}

// verbPattern matches one fmt directive, including "%%".
var verbPattern = regexp.MustCompile(`%[-+# 0]*(\d+)?(\.\d*)?([a-zA-Z%])`)

// Validate checks the settings a render session depends on. A zero
// ColorBound is rejected; callers derive it from the data first.
func (s Settings) Validate() error {
	if math.IsNaN(s.Speed) || math.IsInf(s.Speed, 0) {
		return &ValidationError{"speed", "must be finite"}
	}
	if math.IsNaN(s.ColorBound) || math.IsInf(s.ColorBound, 0) || s.ColorBound <= 0 {
		return &ValidationError{"c_scale", "must be finite and positive"}
	}
	if s.DPI <= 0 {
		return &ValidationError{"dpi", "must be positive"}
	}
	if s.FPS <= 0 {
		return &ValidationError{"fps", "must be positive"}
	}
	if !(s.Width > 0) || !(s.Height > 0) {
		return &ValidationError{"width/height", "must be positive"}
	}
	if s.MovieFilename == "" {
		return &ValidationError{"movie_filename", "must not be empty"}
	}
	if s.ImageFilename == "" {
		return &ValidationError{"image_filename", "must not be empty"}
	}
	if err := checkTitle(s.Title); err != nil {
		return err
	}
	return nil
}

func checkTitle(title string) error {
	slots := 0
	for _, m := range verbPattern.FindAllStringSubmatch(title, -1) {
		switch m[3] {
		case "%":
		case "e", "E", "f", "F", "g", "G":
			slots++
		default:
			return &ValidationError{"title", fmt.Sprintf("has non-numeric directive %q", m[0])}
		}
	}
	if slots != 1 {
		return &ValidationError{"title", fmt.Sprintf("needs exactly one numeric slot, found %d", slots)}
	}
	return nil
}
