package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/jamp/internal/config"
	"github.com/tessro/jamp/internal/core"
	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/loader"
	"github.com/tessro/jamp/internal/player"
)

type fakeLibrary struct {
	albums   []core.Album
	tracks   map[string][]core.Track
	searched string
}

func (f *fakeLibrary) TestConnection(ctx context.Context) error { return nil }

func (f *fakeLibrary) ListAlbums(ctx context.Context) ([]core.Album, error) {
	return f.albums, nil
}

func (f *fakeLibrary) SearchAlbums(ctx context.Context, query string) ([]core.Album, error) {
	f.searched = query
	return []core.Album{{ID: "remote", Name: "Remote Hit"}}, nil
}

func (f *fakeLibrary) AlbumTracks(ctx context.Context, albumID string) ([]core.Track, error) {
	tracks, ok := f.tracks[albumID]
	if !ok {
		return nil, errors.New("not found")
	}
	return tracks, nil
}

type fakeEngine struct {
	generation uint64
	loaded     []string
	volume     int
	balance    int
	events     chan core.EngineEvent

	// pollBudget is the time left on the context of the last Elapsed call.
	pollBudget time.Duration
}

func (f *fakeEngine) Load(ctx context.Context, url string) (uint64, error) {
	f.generation++
	f.loaded = append(f.loaded, url)
	return f.generation, nil
}
func (f *fakeEngine) Pause(ctx context.Context) error  { return nil }
func (f *fakeEngine) Resume(ctx context.Context) error { return nil }
func (f *fakeEngine) Stop(ctx context.Context) error   { return nil }
func (f *fakeEngine) Elapsed(ctx context.Context) (time.Duration, error) {
	if dl, ok := ctx.Deadline(); ok {
		f.pollBudget = time.Until(dl)
	}
	return 0, nil
}
func (f *fakeEngine) Duration(ctx context.Context) (time.Duration, error) {
	return 0, nil
}
func (f *fakeEngine) SetVolume(ctx context.Context, percent int) error {
	f.volume = percent
	return nil
}
func (f *fakeEngine) SetBalance(ctx context.Context, balance int) error {
	f.balance = balance
	return nil
}
func (f *fakeEngine) Events() <-chan core.EngineEvent { return f.events }
func (f *fakeEngine) Close() error                    { return nil }

func albumTracks(album string, n int) []core.Track {
	out := make([]core.Track, n)
	for i := range out {
		out[i] = core.Track{
			ID:        fmt.Sprintf("%s-%d", album, i),
			Title:     fmt.Sprintf("Song %d", i+1),
			Number:    i + 1,
			Length:    "03:00",
			StreamURL: fmt.Sprintf("http://jf/%s/%d", album, i),
		}
	}
	return out
}

type harness struct {
	model   tea.Model
	engine  *fakeEngine
	library *fakeLibrary
	ctrl    *player.Controller
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	lib := &fakeLibrary{
		albums: []core.Album{
			{ID: "a1", Name: "Debut", Artist: "Björk", CoverURL: "http://jf/a1.jpg"},
			{ID: "a2", Name: "Post", Artist: "Björk"},
		},
		tracks: map[string][]core.Track{
			"a1": albumTracks("a1", 3),
			"a2": albumTracks("a2", 2),
		},
	}
	l := loader.New(lib, loader.Options{})
	t.Cleanup(func() { _ = l.Close() })

	engine := &fakeEngine{events: make(chan core.EngineEvent, 1)}
	ctrl := player.New(player.Options{
		Engine:      engine,
		Volume:      cfg.Playback.Volume,
		AutoAdvance: cfg.Playback.AutoAdvance,
	})

	h := &harness{
		model: NewModel(Options{
			Config:     cfg,
			Controller: ctrl,
			Engine:     engine,
			Loader:     l,
		}),
		engine:  engine,
		library: lib,
		ctrl:    ctrl,
	}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(h.model.(Model).loadAlbums())
	return h
}

// send delivers msg and returns the follow-up command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	return cmd
}

// run executes cmd and feeds its message back into the model.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if msg != nil {
			h.send(msg)
		}
	case <-time.After(2 * time.Second):
		panic("command did not finish")
	}
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) state() Model {
	return h.model.(Model)
}

func TestAlbumsLoadOnStart(t *testing.T) {
	h := newHarness(t, nil)
	if got := h.state().albums.Total(); got != 2 {
		t.Errorf("albums loaded = %d, want 2", got)
	}
}

func TestEnqueueAlbumDoesNotPlay(t *testing.T) {
	h := newHarness(t, nil)

	h.run(h.press("a"))

	snap := h.ctrl.Snapshot()
	if len(snap.Queue) != 3 {
		t.Fatalf("queue length = %d, want 3", len(snap.Queue))
	}
	if snap.Index != 0 || snap.State != core.StateStopped {
		t.Errorf("index = %d state = %v, want 0 stopped", snap.Index, snap.State)
	}
	if len(h.engine.loaded) != 0 {
		t.Errorf("engine loaded %v, want nothing", h.engine.loaded)
	}
}

func TestPlayAlbumKey(t *testing.T) {
	h := newHarness(t, nil)

	h.run(h.press("down", "P"))

	snap := h.ctrl.Snapshot()
	if snap.State != core.StatePlaying {
		t.Fatalf("state = %v, want playing", snap.State)
	}
	if len(snap.Queue) != 2 || h.engine.loaded[0] != "http://jf/a2/0" {
		t.Errorf("queue = %d tracks, loaded %v", len(snap.Queue), h.engine.loaded)
	}
	if !h.state().visualizer.Running() {
		t.Error("visualizer should run while playing")
	}
}

func TestEnterShowsTracksThenPlays(t *testing.T) {
	h := newHarness(t, nil)

	h.run(h.press("enter"))
	m := h.state()
	if m.focusedPanel != PanelTracks {
		t.Errorf("focused panel = %v, want tracks", m.focusedPanel)
	}
	if len(m.tracks.All()) != 3 {
		t.Fatalf("tracks shown = %d, want 3", len(m.tracks.All()))
	}

	h.press("down", "enter")
	snap := h.ctrl.Snapshot()
	if len(snap.Queue) != 1 || snap.Track.ID != "a1-1" {
		t.Errorf("queue = %v, want the selected track only", snap.Queue)
	}
}

func TestEngineEventAdvances(t *testing.T) {
	h := newHarness(t, nil)
	h.run(h.press("P"))

	h.send(engineEventMsg(core.EngineEvent{Type: core.EngineEndOfTrack, Generation: 1}))
	h.send(engineEventMsg(core.EngineEvent{Type: core.EngineEndOfTrack, Generation: 1}))

	if got := h.ctrl.Snapshot().Index; got != 1 {
		t.Errorf("index = %d, want 1 after one completion", got)
	}
	if len(h.engine.loaded) != 2 {
		t.Errorf("loads = %d, want 2", len(h.engine.loaded))
	}
}

func TestEngineClosedShowsError(t *testing.T) {
	h := newHarness(t, nil)
	h.run(h.press("P"))

	h.send(engineClosedMsg{})

	m := h.state()
	if !errors.Is(m.lastError, jerrors.ErrEngineClosed) {
		t.Errorf("lastError = %v, want engine closed", m.lastError)
	}
	snap := h.ctrl.Snapshot()
	if snap.State != core.StateStopped || snap.Index != 0 {
		t.Errorf("state %v index %d, want stopped at 0", snap.State, snap.Index)
	}
	if m.visualizer.Running() {
		t.Error("visualizer should stop with the engine")
	}
}

func TestTickPollIsShortBounded(t *testing.T) {
	h := newHarness(t, nil)
	h.run(h.press("P"))

	h.send(tickMsg(time.Now()))

	if h.engine.pollBudget <= 0 || h.engine.pollBudget > pollTimeout {
		t.Errorf("poll deadline = %v, want within %v", h.engine.pollBudget, pollTimeout)
	}
}

func TestVolumeAndBalanceKeys(t *testing.T) {
	h := newHarness(t, nil)

	h.press("+", "-", "-", "[", "[", "]")

	if h.engine.volume != 90 {
		t.Errorf("volume = %d, want 90", h.engine.volume)
	}
	if h.engine.balance != -balanceStep {
		t.Errorf("balance = %d, want %d", h.engine.balance, -balanceStep)
	}
}

func TestDisabledFeatures(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) {
		cfg.Features.Shuffle = false
		cfg.Features.VolumeControl = false
		cfg.Features.Search = false
	})

	for _, k := range []string{"z", "-", "/"} {
		h.press(k)
		m := h.state()
		if !errors.Is(m.lastError, errFeatureDisabled) {
			t.Errorf("key %q: lastError = %v, want feature disabled", k, m.lastError)
		}
		if m.filtering {
			t.Errorf("key %q opened the filter", k)
		}
	}
	if h.engine.volume != 0 {
		t.Errorf("volume changed to %d", h.engine.volume)
	}
}

func TestFilterFallsBackToServerSearch(t *testing.T) {
	h := newHarness(t, nil)

	h.press("/", "p", "o", "s")
	if got := h.state().albums.Len(); got != 1 {
		t.Fatalf("local filter matches = %d, want 1", got)
	}
	h.press("x")
	cmd := h.press("enter")
	h.run(cmd)

	if h.library.searched != "posx" {
		t.Errorf("server search = %q, want posx", h.library.searched)
	}
	m := h.state()
	if m.filtering || m.albums.Total() != 1 || m.albums.Current().ID != "remote" {
		t.Errorf("albums after search = %d, current %v", m.albums.Total(), m.albums.Current())
	}
}

func TestClearKey(t *testing.T) {
	h := newHarness(t, nil)
	h.run(h.press("P"))
	h.press("c")

	snap := h.ctrl.Snapshot()
	if snap.State != core.StateStopped || snap.Index != core.NoIndex || len(snap.Queue) != 0 {
		t.Errorf("after clear: state %v index %d queue %d", snap.State, snap.Index, len(snap.Queue))
	}
}

func TestViewRenders(t *testing.T) {
	h := newHarness(t, nil)
	h.run(h.press("P"))

	view := h.state().View()
	for _, want := range []string{"jamp - Jellyfin Player", "Debut", "Song 1", "Queue (3)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	h.press("?")
	if !strings.Contains(h.state().View(), "Keyboard Shortcuts") {
		t.Error("help overlay not shown")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, nil)
	if cmd := h.press("q"); cmd == nil {
		t.Error("q should return a quit command")
	}
	if h.state().View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestCopyWithNothingPlaying(t *testing.T) {
	h := newHarness(t, nil)
	if cmd := h.press("y"); cmd != nil {
		t.Error("y with nothing playing should not touch the clipboard")
	}
	if got := h.state().notice; got != "Nothing playing" {
		t.Errorf("notice = %q", got)
	}
}

func TestCopiedMsgSetsNotice(t *testing.T) {
	h := newHarness(t, nil)
	h.send(copiedMsg("Song 1"))
	if got := h.state().notice; got != "Copied link to Song 1" {
		t.Errorf("notice = %q", got)
	}
}
