// Package tui implements the interactive dashboard.
package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tessro/jamp/internal/config"
	"github.com/tessro/jamp/internal/core"
	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/loader"
	"github.com/tessro/jamp/internal/player"
	"github.com/tessro/jamp/internal/tui/components"
	"github.com/tessro/jamp/internal/tui/styles"
	"github.com/tessro/jamp/internal/visualizer"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelAlbums Panel = iota
	PanelTracks
	PanelQueue
	PanelHistory
	panelCount
)

const (
	visualizerInterval = 100 * time.Millisecond
	errorDuration      = 5 * time.Second
	engineTimeout      = 5 * time.Second
	pollTimeout        = 500 * time.Millisecond
	volumeStep         = 5
	balanceStep        = 10
	spectrumRows       = 6
)

// tracksIntent says what to do with an album's tracks once they load.
type tracksIntent int

const (
	intentShow tracksIntent = iota
	intentEnqueue
	intentPlay
)

// Options wires the dashboard to its collaborators.
type Options struct {
	Config     *config.Config
	Controller *player.Controller
	Engine     core.Engine
	Loader     *loader.Loader
	Logger     *zap.Logger
	Rand       *rand.Rand
}

// Model is the main TUI model
type Model struct {
	cfg        *config.Config
	controller *player.Controller
	engine     core.Engine
	loader     *loader.Loader
	logger     *zap.Logger
	visualizer *visualizer.Visualizer

	refreshRate  time.Duration
	width        int
	height       int
	focusedPanel Panel

	// Components
	albums     *components.Albums
	tracks     *components.Tracks
	queueView  *components.Queue
	nowPlaying *components.NowPlaying
	spectrum   *components.Spectrum
	history    *components.History

	// pending maps a track load to what the user asked for.
	pending map[string]tracksIntent

	// Overlays
	showHelp bool

	// Filter state
	filtering   bool
	filterInput textinput.Model

	// Status line
	lastError   error
	errorExpiry time.Time
	notice      string

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	refresh := time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond
	if refresh <= 0 {
		refresh = time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "Filter albums..."
	ti.Prompt = "/"
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		cfg:         cfg,
		controller:  opts.Controller,
		engine:      opts.Engine,
		loader:      opts.Loader,
		logger:      logger.Named("tui"),
		visualizer:  visualizer.New(opts.Rand),
		refreshRate: refresh,
		albums:      components.NewAlbums(),
		tracks:      components.NewTracks(),
		queueView:   components.NewQueue(),
		nowPlaying: components.NewNowPlaying(components.NowPlayingOptions{
			ProgressBar: cfg.Features.ProgressBar,
			Volume:      cfg.Features.VolumeControl,
			Balance:     cfg.Features.BalanceControl,
		}),
		spectrum:    components.NewSpectrum(),
		history:     components.NewHistory(),
		pending:     make(map[string]tracksIntent),
		filterInput: ti,
	}
}

// Messages
type tickMsg time.Time
type visualizerTickMsg time.Time
type engineEventMsg core.EngineEvent
type engineClosedMsg struct{}
type loaderMsg struct{ future *loader.Future }
type errMsg error
type copiedMsg string

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func visualizerTick() tea.Cmd {
	return tea.Tick(visualizerInterval, func(t time.Time) tea.Msg {
		return visualizerTickMsg(t)
	})
}

// waitForEvent delivers the next engine event to the UI loop.
func waitForEvent(events <-chan core.EngineEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return engineClosedMsg{}
		}
		return engineEventMsg(ev)
	}
}

// await turns a loader future into a message once it resolves.
func await(f *loader.Future) tea.Cmd {
	return func() tea.Msg {
		<-f.Done()
		return loaderMsg{future: f}
	}
}

func (m Model) loadAlbums() tea.Cmd {
	m.albums.SetLoading(true)
	return await(m.loader.LoadAlbums())
}

func (m Model) loadTracks(album core.Album, intent tracksIntent) tea.Cmd {
	if intent == intentShow {
		m.tracks.SetLoading(&album)
	}
	f := m.loader.LoadTracks(album.ID)
	m.pending[f.ID] = intent
	return await(f)
}

// Init starts the tickers, the engine event pump and the first library load.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.tick(),
		await(m.loader.TestConnection()),
		m.loadAlbums(),
	}
	if m.engine != nil {
		cmds = append(cmds, waitForEvent(m.engine.Events()))
	}
	if m.cfg.Features.Visualizer {
		cmds = append(cmds, visualizerTick())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		err := m.controller.Poll(ctx)
		cancel()
		m.setError(err)
		m.expireError()
		m.syncVisualizer()
		return m, m.tick()

	case visualizerTickMsg:
		m.visualizer.Step()
		return m, visualizerTick()

	case engineEventMsg:
		ctx, cancel := m.ctx()
		err := m.controller.HandleEngineEvent(ctx, core.EngineEvent(msg))
		cancel()
		m.setError(err)
		m.syncVisualizer()
		return m, waitForEvent(m.engine.Events())

	case engineClosedMsg:
		m.logger.Warn("engine exited")
		ctx, cancel := m.ctx()
		err := m.controller.HandleEngineEvent(ctx, core.EngineEvent{Type: core.EngineError, Err: jerrors.ErrEngineClosed})
		cancel()
		m.setError(err)
		m.syncVisualizer()
		return m, nil

	case loaderMsg:
		return m.handleLoaderResult(msg.future)

	case errMsg:
		m.setError(msg)
		return m, nil

	case copiedMsg:
		m.notice = fmt.Sprintf("Copied link to %s", string(msg))
		return m, nil
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLoaderResult(f *loader.Future) (tea.Model, tea.Cmd) {
	res := f.Result()

	switch f.Kind {
	case loader.KindTestConnection:
		if res.Err != nil {
			m.setError(jerrors.WithSuggestion(
				fmt.Errorf("%w: %w", jerrors.ErrServerUnreachable, res.Err),
				jerrors.GetSuggestion(jerrors.ErrServerUnreachable)))
		}

	case loader.KindLoadAlbums, loader.KindSearchAlbums:
		if res.Err != nil {
			m.albums.SetLoading(false)
			m.setError(fmt.Errorf("load albums: %w", res.Err))
			break
		}
		m.albums.SetAlbums(res.Albums)
		if f.Kind == loader.KindSearchAlbums {
			m.notice = fmt.Sprintf("%d albums match %q", len(res.Albums), f.Query)
		}

	case loader.KindLoadTracks:
		intent := m.pending[f.ID]
		delete(m.pending, f.ID)
		if res.Err != nil {
			m.setError(fmt.Errorf("load tracks: %w", res.Err))
			if intent == intentShow {
				m.tracks.SetTracks(f.AlbumID, nil)
			}
			break
		}
		m.applyTracks(f.AlbumID, res.Tracks, intent)
	}

	return m, nil
}

func (m *Model) applyTracks(albumID string, tracks []core.Track, intent tracksIntent) {
	switch intent {
	case intentShow:
		m.tracks.SetTracks(albumID, tracks)
	case intentEnqueue:
		n := m.controller.Enqueue(tracks)
		m.notice = fmt.Sprintf("Added %d tracks to the queue", n)
	case intentPlay:
		ctx, cancel := m.ctx()
		defer cancel()
		m.setError(m.controller.PlayAlbum(ctx, tracks))
		m.syncVisualizer()
	}
}

// ctx bounds a single engine call made from the UI loop.
func (m Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), engineTimeout)
}

// setError shows err on the status line. A nil error leaves the line alone.
func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.logger.Debug("status error", zap.Error(err))
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorDuration)
}

func (m *Model) expireError() {
	if m.lastError != nil && time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

// syncVisualizer runs the visualizer only while a track is playing.
func (m *Model) syncVisualizer() {
	playing := m.controller.State() == core.StatePlaying
	switch {
	case playing && !m.visualizer.Running():
		m.visualizer.Start()
	case !playing && m.visualizer.Running():
		m.visualizer.Stop()
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(opts Options) error {
	if opts.Config != nil {
		styles.Apply(opts.Config.TUI.Theme)
		styles.SetASCII(opts.Config.TUI.ASCIIIcons)
	}

	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
