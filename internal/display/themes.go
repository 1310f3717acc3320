package display

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the player chrome and CLI headers.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0088ff"),
		Accent:  lipgloss.Color("#00ffcc"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#336688"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeJet = Theme{
		Name:    "jet",
		Primary: lipgloss.Color("#ff7f00"),
		Accent:  lipgloss.Color("#7fff7f"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#5f5f87"),
		Warning: lipgloss.Color("#ff0000"),
	}
)

var themes = []Theme{ThemeOcean, ThemeMinimal, ThemeJet}

// CurrentTheme is used by HeaderStyle and the terminal player.
var CurrentTheme = ThemeOcean

// SetTheme switches CurrentTheme by name and reports whether it exists.
func SetTheme(name string) bool {
	for _, t := range themes {
		if t.Name == name {
			CurrentTheme = t
			return true
		}
	}
	return false
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// HeaderStyle renders section headers in the current theme.
func HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Primary)
}

// MutedStyle renders hints and secondary text in the current theme.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func statusStyle(paused bool) lipgloss.Style {
	if paused {
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
}
