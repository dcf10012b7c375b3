package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jamp/internal/core"
)

// PickerModel is the bubbletea model for the album picker.
type PickerModel struct {
	albums   []core.Album
	cursor   int
	offset   int
	selected *core.Album
	width    int
	height   int
}

// Styles for the album picker
var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#00FF00"))

	pickerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pickerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	pickerMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// NewPickerModel creates a new album picker model.
func NewPickerModel(albums []core.Album) PickerModel {
	return PickerModel{
		albums: albums,
		width:  80,
		height: 20,
	}
}

// Init initializes the model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if len(m.albums) > 0 && m.cursor < len(m.albums) {
				m.selected = &m.albums[m.cursor]
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.albums)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = max(len(m.albums)-1, 0)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}

	return m, nil
}

func (m PickerModel) visibleRows() int {
	return max(m.height-6, 3)
}

// View renders the model.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render(fmt.Sprintf("💿 Select Album (%d)", len(m.albums))))
	b.WriteString("\n\n")

	if len(m.albums) == 0 {
		b.WriteString(pickerMutedStyle.Render("No albums found"))
		b.WriteString("\n")
	} else {
		end := min(m.offset+m.visibleRows(), len(m.albums))
		for i := m.offset; i < end; i++ {
			album := m.albums[i]
			if i == m.cursor {
				b.WriteString(pickerSelectedStyle.Render("▸ " + album.Label()))
			} else {
				b.WriteString(pickerItemStyle.Render("  " + album.Label()))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(pickerMutedStyle.Render("↑/↓ navigate • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected album, or nil if none.
func (m PickerModel) Selected() *core.Album {
	return m.selected
}

// RunPicker runs the album picker and returns the selected album.
func RunPicker(albums []core.Album) (*core.Album, error) {
	model := NewPickerModel(albums)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(PickerModel).Selected(), nil
}
