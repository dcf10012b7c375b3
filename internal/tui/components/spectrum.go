package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jamp/internal/tui/styles"
)

// Spectrum renders visualizer bar heights as a column chart.
type Spectrum struct{}

// NewSpectrum creates a new Spectrum component
func NewSpectrum() *Spectrum {
	return &Spectrum{}
}

// Render draws one column per bar, rows lines tall. heights are already
// scaled to rows.
func (s *Spectrum) Render(heights []int, rows int) string {
	if rows <= 0 || len(heights) == 0 {
		return ""
	}

	block := styles.Icon(styles.IconBlock)
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		// Row 0 is the bottom of the chart.
		row := rows - 1 - r
		style := lipgloss.NewStyle().Foreground(styles.BarGradient(row, rows))

		var b strings.Builder
		for _, h := range heights {
			if h > row {
				b.WriteString(block)
			} else {
				b.WriteString(" ")
			}
		}
		lines[r] = style.Render(b.String())
	}

	return strings.Join(lines, "\n")
}
