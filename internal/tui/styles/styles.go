package styles

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is a named color palette.
type Theme struct {
	Name string

	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color

	// Visualizer gradient, top to bottom
	BarTop    lipgloss.Color
	BarBottom lipgloss.Color
}

// Built-in themes
var (
	Winamp = Theme{
		Name:      "winamp",
		Primary:   lipgloss.Color("#00FF00"), // LCD green
		Accent:    lipgloss.Color("#00FF00"),
		Warning:   lipgloss.Color("#FFCC00"),
		Error:     lipgloss.Color("#FF4040"),
		Border:    lipgloss.Color("#404040"),
		Text:      lipgloss.Color("#FFFFFF"),
		TextMuted: lipgloss.Color("#A0A0A0"),
		TextDim:   lipgloss.Color("#666666"),
		BarTop:    lipgloss.Color("#00FF00"),
		BarBottom: lipgloss.Color("#008000"),
	}

	Classic = Theme{
		Name:      "classic",
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Accent:    lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#EF4444"), // Red
		Border:    lipgloss.Color("#4B5563"),
		Text:      lipgloss.Color("#F9FAFB"),
		TextMuted: lipgloss.Color("#9CA3AF"),
		TextDim:   lipgloss.Color("#6B7280"),
		BarTop:    lipgloss.Color("#10B981"),
		BarBottom: lipgloss.Color("#065F46"),
	}
)

// Themes lists the built-in themes by name.
var Themes = map[string]Theme{
	Winamp.Name:  Winamp,
	Classic.Name: Classic,
}

// ThemeNames returns the built-in theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current is the active theme.
var Current = Winamp

// Text styles, rebuilt by Apply
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	ErrorText lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles, rebuilt by Apply
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	Apply(Winamp.Name)
}

// Apply activates the named theme. Unknown names select the winamp theme
// and return false.
func Apply(name string) bool {
	theme, ok := Themes[name]
	if !ok {
		theme = Winamp
	}
	Current = theme

	Title = lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	Subtitle = lipgloss.NewStyle().Foreground(theme.TextMuted)
	Label = lipgloss.NewStyle().Foreground(theme.TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	Muted = lipgloss.NewStyle().Foreground(theme.TextMuted)
	Dim = lipgloss.NewStyle().Foreground(theme.TextDim)
	Playing = lipgloss.NewStyle().Foreground(theme.Accent)
	Paused = lipgloss.NewStyle().Foreground(theme.Warning)
	ErrorText = lipgloss.NewStyle().Foreground(theme.Error)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary)

	return ok
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)

	filledStyle := lipgloss.NewStyle().Foreground(Current.Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Current.Border)

	return filledStyle.Render(strings.Repeat(Icon(IconBarFull), filled)) +
		emptyStyle.Render(strings.Repeat(Icon(IconBarEmpty), width-filled))
}

// BarGradient returns the color for row of a bar of the given height,
// counting rows from the bottom. Colors blend from BarBottom to BarTop.
func BarGradient(row, height int) lipgloss.Color {
	if height <= 1 {
		return Current.BarBottom
	}
	bottom, err := colorful.Hex(string(Current.BarBottom))
	if err != nil {
		return Current.BarBottom
	}
	top, err := colorful.Hex(string(Current.BarTop))
	if err != nil {
		return Current.BarTop
	}
	t := float64(min(max(row, 0), height-1)) / float64(height-1)
	return lipgloss.Color(bottom.BlendRgb(top, t).Clamped().Hex())
}
