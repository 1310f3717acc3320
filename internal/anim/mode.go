package anim

// Mode is one of the four ways a plot call can end.
type Mode int

const (
	ModeDisplay Mode = iota
	ModeStaticSave
	ModeAnimatedDisplay
	ModeAnimatedSave
)

// SelectMode maps the (animate, save) flags of a plot call to a mode.
func SelectMode(animate, save bool) Mode {
	switch {
	case animate && save:
		return ModeAnimatedSave
	case animate:
		return ModeAnimatedDisplay
	case save:
		return ModeStaticSave
	default:
		return ModeDisplay
	}
}

func (m Mode) String() string {
	switch m {
	case ModeDisplay:
		return "display"
	case ModeStaticSave:
		return "static save"
	case ModeAnimatedDisplay:
		return "animated display"
	case ModeAnimatedSave:
		return "animated save"
	default:
		return "unknown"
	}
}

// Animated reports whether the mode steps through the time axis.
func (m Mode) Animated() bool {
	return m == ModeAnimatedDisplay || m == ModeAnimatedSave
}

// Saves reports whether the mode writes a file.
func (m Mode) Saves() bool {
	return m == ModeStaticSave || m == ModeAnimatedSave
}
