package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/jamp/internal/browser"
	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/tui/styles"
)

var errFeatureDisabled = errors.New("feature disabled")

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKeyPress(msg)
	}

	m.notice = ""

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		if !m.cfg.Features.Search {
			m.setError(fmt.Errorf("search: %w", errFeatureDisabled))
			return m, nil
		}
		m.filtering = true
		m.focusedPanel = PanelAlbums
		m.filterInput.SetValue(m.albums.Filter())
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()

	case "esc":
		m.albums.SetFilter("")
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case "r":
		m.albums.SetFilter("")
		return m, m.loadAlbums()

	case "a":
		return m.enqueueSelection()

	case "P":
		return m.playSelection()

	case "o":
		return m.openCover()

	case "y":
		return m.copyStreamURL()
	}

	if cmd, ok := m.handlePlaybackKey(msg.String()); ok {
		return m, cmd
	}

	return m.handlePanelKey(msg.String())
}

// handlePlaybackKey runs the transport and mixer keys on the controller.
func (m *Model) handlePlaybackKey(key string) (tea.Cmd, bool) {
	ctx, cancel := m.ctx()
	defer cancel()

	var err error
	switch key {
	case " ":
		err = m.controller.TogglePause(ctx)
	case "s":
		err = m.controller.Stop(ctx)
	case "n":
		err = m.controller.Next(ctx)
	case "p":
		err = m.controller.Prev(ctx)
	case "c":
		err = m.controller.Clear(ctx)
	case "z":
		if !m.cfg.Features.Shuffle {
			err = fmt.Errorf("shuffle: %w", errFeatureDisabled)
		} else if m.controller.Shuffle() {
			m.notice = "Shuffled upcoming tracks"
		}
	case "+", "=":
		err = m.adjustVolume(volumeStep)
	case "-":
		err = m.adjustVolume(-volumeStep)
	case "[":
		err = m.adjustBalance(-balanceStep)
	case "]":
		err = m.adjustBalance(balanceStep)
	default:
		return nil, false
	}

	m.setError(err)
	m.syncVisualizer()
	return nil, true
}

func (m *Model) adjustVolume(delta int) error {
	if !m.cfg.Features.VolumeControl {
		return fmt.Errorf("volume: %w", errFeatureDisabled)
	}
	ctx, cancel := m.ctx()
	defer cancel()
	return m.controller.SetVolume(ctx, m.controller.Volume()+delta)
}

func (m *Model) adjustBalance(delta int) error {
	if !m.cfg.Features.BalanceControl {
		return fmt.Errorf("balance: %w", errFeatureDisabled)
	}
	ctx, cancel := m.ctx()
	defer cancel()
	return m.controller.SetBalance(ctx, m.controller.Balance()+delta)
}

// handlePanelKey handles navigation within the focused panel.
func (m Model) handlePanelKey(key string) (tea.Model, tea.Cmd) {
	switch m.focusedPanel {
	case PanelAlbums:
		switch key {
		case "j", "down":
			m.albums.SelectNext()
		case "k", "up":
			m.albums.SelectPrev()
		case "enter":
			if album := m.albums.Current(); album != nil {
				m.focusedPanel = PanelTracks
				return m, m.loadTracks(*album, intentShow)
			}
		}

	case PanelTracks:
		switch key {
		case "j", "down":
			m.tracks.SelectNext()
		case "k", "up":
			m.tracks.SelectPrev()
		case "enter":
			if track := m.tracks.Current(); track != nil {
				ctx, cancel := m.ctx()
				m.setError(m.controller.PlayTrack(ctx, *track))
				cancel()
				m.syncVisualizer()
			}
		}

	case PanelQueue:
		n := len(m.controller.Snapshot().Queue)
		switch key {
		case "j", "down":
			m.queueView.SelectNext(n)
		case "k", "up":
			m.queueView.SelectPrev()
		case "enter":
			if n > 0 {
				ctx, cancel := m.ctx()
				m.setError(m.controller.PlayAt(ctx, m.queueView.Selected()))
				cancel()
				m.syncVisualizer()
			}
		}
	}

	return m, nil
}

// enqueueSelection appends the focused album or track to the queue.
func (m Model) enqueueSelection() (tea.Model, tea.Cmd) {
	if m.focusedPanel == PanelTracks {
		if track := m.tracks.Current(); track != nil {
			m.controller.Enqueue([]core.Track{*track})
			m.notice = "Added " + track.Title
		}
		return m, nil
	}

	album := m.albums.Current()
	if album == nil {
		return m, nil
	}
	if shown := m.tracks.Album(); shown != nil && shown.ID == album.ID && len(m.tracks.All()) > 0 {
		n := m.controller.Enqueue(m.tracks.All())
		m.notice = fmt.Sprintf("Added %d tracks to the queue", n)
		return m, nil
	}
	return m, m.loadTracks(*album, intentEnqueue)
}

// playSelection replaces the queue with the focused album and plays it.
func (m Model) playSelection() (tea.Model, tea.Cmd) {
	album := m.albums.Current()
	if m.focusedPanel == PanelTracks && m.tracks.Album() != nil {
		album = m.tracks.Album()
	}
	if album == nil {
		return m, nil
	}

	if shown := m.tracks.Album(); shown != nil && shown.ID == album.ID && len(m.tracks.All()) > 0 {
		m.applyTracks(album.ID, m.tracks.All(), intentPlay)
		return m, nil
	}
	return m, m.loadTracks(*album, intentPlay)
}

func (m Model) openCover() (tea.Model, tea.Cmd) {
	album := m.albums.Current()
	if m.focusedPanel == PanelTracks && m.tracks.Album() != nil {
		album = m.tracks.Album()
	}
	if !album.HasCover() {
		m.notice = "No cover art"
		return m, nil
	}

	url := album.CoverURL
	return m, func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

// copyStreamURL puts the playing track's stream URL on the clipboard.
func (m Model) copyStreamURL() (tea.Model, tea.Cmd) {
	track := m.controller.Snapshot().Track
	if track == nil || track.StreamURL == "" {
		m.notice = "Nothing playing"
		return m, nil
	}

	title, url := track.Title, track.StreamURL
	return m, func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return errMsg(fmt.Errorf("copy link: %w", err))
		}
		return copiedMsg(title)
	}
}

func (m Model) handleFilterKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.albums.SetFilter("")
		return m, nil

	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		query := strings.TrimSpace(m.filterInput.Value())
		// Nothing in the loaded list matches, so ask the server.
		if query != "" && m.albums.Len() == 0 {
			m.albums.SetFilter("")
			m.albums.SetLoading(true)
			return m, await(m.loader.SearchAlbums(query))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.albums.SetFilter(m.filterInput.Value())
	return m, cmd
}

// statusHelp is the one-line key summary.
func (m Model) statusHelp() string {
	keys := []string{"q:quit", "?:help", "enter:open/play", "a:add", "P:play album", "space:" + styles.Icon(styles.IconPlay) + "/" + styles.Icon(styles.IconPause), "n/p:next/prev"}
	if m.cfg.Features.Search {
		keys = append(keys, "/:filter")
	}
	keys = append(keys, "tab:panel")
	return strings.Join(keys, "  ")
}
