// Package player owns the playback queue and drives the media engine.
//
// A Controller is not safe for concurrent use: every method except Snapshot
// and History must be called from the goroutine that owns it (the UI loop).
// Snapshot and History may be read from any goroutine.
package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/jamp/internal/core"
	jerrors "github.com/tessro/jamp/internal/errors"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultEndTolerance = time.Second
	DefaultHistorySize  = 50
)

// Options configures a Controller.
type Options struct {
	Engine core.Engine
	Logger *zap.Logger

	Volume      int
	Balance     int
	AutoAdvance bool
	// EndTolerance is how close to the end the poll fallback treats a
	// track as finished.
	EndTolerance time.Duration
	HistorySize  int

	// Rand drives Shuffle. A nil Rand uses the global source.
	Rand *rand.Rand
	// Now is the clock used for history timestamps.
	Now func() time.Time
}

// Controller is the playback queue state machine.
type Controller struct {
	engine core.Engine
	logger *zap.Logger
	rand   *rand.Rand
	now    func() time.Time

	queue       *core.Queue
	state       core.PlaybackState
	volume      int
	balance     int
	autoAdvance bool
	tolerance   time.Duration

	// generation is the engine load currently playing. finished is set once
	// that load has completed so late end signals are ignored.
	generation uint64
	finished   bool
	// observed is set after the engine reported a position for the current
	// load; until then a failed time read means "still loading".
	observed bool
	elapsed  time.Duration
	duration time.Duration

	mu          sync.RWMutex
	snap        core.Snapshot
	history     []core.HistoryEntry
	historySize int
}

// New creates a controller with an empty queue.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tolerance := opts.EndTolerance
	if tolerance <= 0 {
		tolerance = DefaultEndTolerance
	}
	historySize := opts.HistorySize
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Controller{
		engine:      opts.Engine,
		logger:      logger.Named("player"),
		rand:        opts.Rand,
		now:         now,
		queue:       core.NewQueue(),
		volume:      clamp(opts.Volume, 0, 100),
		balance:     clamp(opts.Balance, -100, 100),
		autoAdvance: opts.AutoAdvance,
		tolerance:   tolerance,
		historySize: historySize,
	}
	c.publish()
	return c
}

// ApplySettings pushes the remembered volume and balance to the engine.
func (c *Controller) ApplySettings(ctx context.Context) error {
	if err := c.engine.SetVolume(ctx, c.volume); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	if err := c.engine.SetBalance(ctx, c.balance); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// State returns the transport state.
func (c *Controller) State() core.PlaybackState {
	return c.state
}

// Enqueue appends tracks to the queue without starting playback. Adding to
// an empty queue selects its first track.
func (c *Controller) Enqueue(tracks []core.Track) int {
	if len(tracks) == 0 {
		return 0
	}
	wasEmpty := c.queue.IsEmpty()
	c.queue.Append(tracks...)
	if wasEmpty && c.queue.Index() == core.NoIndex {
		c.queue.Seek(0)
	}
	c.logger.Debug("enqueued", zap.Int("count", len(tracks)), zap.Int("queue_len", c.queue.Len()))
	c.publish()
	return len(tracks)
}

// PlayAlbum replaces the queue with tracks and plays the first one.
func (c *Controller) PlayAlbum(ctx context.Context, tracks []core.Track) error {
	if len(tracks) == 0 {
		return jerrors.ErrQueueEmpty
	}
	c.queue.Replace(tracks)
	return c.playCurrent(ctx)
}

// PlayTrack replaces the queue with a single track and plays it.
func (c *Controller) PlayTrack(ctx context.Context, track core.Track) error {
	return c.PlayAlbum(ctx, []core.Track{track})
}

// PlayAt jumps to queue position i and plays it. An invalid position is a
// no-op.
func (c *Controller) PlayAt(ctx context.Context, i int) error {
	if !c.queue.Seek(i) {
		return nil
	}
	return c.playCurrent(ctx)
}

// Play resumes a paused track or starts the track at the current position.
func (c *Controller) Play(ctx context.Context) error {
	if c.state == core.StatePaused {
		return c.Resume(ctx)
	}
	if c.queue.IsEmpty() {
		return jerrors.ErrQueueEmpty
	}
	if c.queue.Index() == core.NoIndex {
		c.queue.Seek(0)
	}
	return c.playCurrent(ctx)
}

// Pause pauses playback. It does nothing unless playing.
func (c *Controller) Pause(ctx context.Context) error {
	if c.state != core.StatePlaying {
		return nil
	}
	if err := c.engine.Pause(ctx); err != nil {
		c.logger.Warn("pause failed", zap.Error(err))
		return fmt.Errorf("pause: %w", err)
	}
	c.state = core.StatePaused
	c.publish()
	return nil
}

// Resume continues a paused track. It does nothing unless paused.
func (c *Controller) Resume(ctx context.Context) error {
	if c.state != core.StatePaused {
		return nil
	}
	if err := c.engine.Resume(ctx); err != nil {
		c.logger.Warn("resume failed", zap.Error(err))
		return fmt.Errorf("resume: %w", err)
	}
	c.state = core.StatePlaying
	c.publish()
	return nil
}

// TogglePause pauses when playing and plays otherwise.
func (c *Controller) TogglePause(ctx context.Context) error {
	if c.state == core.StatePlaying {
		return c.Pause(ctx)
	}
	return c.Play(ctx)
}

// Stop halts playback and keeps the current position.
func (c *Controller) Stop(ctx context.Context) error {
	wasActive := c.state.IsActive()
	c.halt()
	c.publish()

	if !wasActive {
		return nil
	}
	if err := c.engine.Stop(ctx); err != nil {
		c.logger.Warn("stop failed", zap.Error(err))
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// Clear empties the queue and stops playback.
func (c *Controller) Clear(ctx context.Context) error {
	c.queue.Clear()
	return c.Stop(ctx)
}

// Shuffle randomizes the tracks after the current position. Queues with
// fewer than two tracks are left alone.
func (c *Controller) Shuffle() bool {
	if c.queue.Len() <= 1 {
		return false
	}
	c.queue.ShuffleRemaining(c.rand)
	c.logger.Debug("shuffled", zap.Int("from", c.queue.Index()+1))
	c.publish()
	return true
}

// Next plays the following track. At the end of the queue it is a no-op.
func (c *Controller) Next(ctx context.Context) error {
	if !c.queue.Next() {
		return nil
	}
	return c.playCurrent(ctx)
}

// Prev plays the preceding track. At the start of the queue it is a no-op.
func (c *Controller) Prev(ctx context.Context) error {
	if !c.queue.Prev() {
		return nil
	}
	return c.playCurrent(ctx)
}

// SetVolume sets the output volume, clamped to 0-100.
func (c *Controller) SetVolume(ctx context.Context, percent int) error {
	c.volume = clamp(percent, 0, 100)
	c.publish()
	if err := c.engine.SetVolume(ctx, c.volume); err != nil {
		c.logger.Warn("set volume failed", zap.Error(err))
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

// SetBalance sets the stereo balance, clamped to -100 (left) to 100 (right).
func (c *Controller) SetBalance(ctx context.Context, balance int) error {
	c.balance = clamp(balance, -100, 100)
	c.publish()
	if err := c.engine.SetBalance(ctx, c.balance); err != nil {
		c.logger.Warn("set balance failed", zap.Error(err))
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// Volume returns the current volume.
func (c *Controller) Volume() int {
	return c.volume
}

// Balance returns the current balance.
func (c *Controller) Balance() int {
	return c.balance
}

// HandleEngineEvent applies an asynchronous engine notification. The
// returned error describes a playback failure for display; it is never
// fatal.
func (c *Controller) HandleEngineEvent(ctx context.Context, ev core.EngineEvent) error {
	switch ev.Type {
	case core.EngineEndOfTrack:
		return c.complete(ctx, ev.Generation, "event")

	case core.EngineError:
		if ev.Generation != 0 && ev.Generation != c.generation {
			return nil
		}
		c.logger.Warn("engine error", zap.Uint64("generation", ev.Generation), zap.Error(ev.Err))
		c.halt()
		c.publish()
		if ev.Err == nil {
			return fmt.Errorf("playback failed")
		}
		return fmt.Errorf("playback failed: %w", ev.Err)
	}
	return nil
}

// Poll refreshes the playback position and detects track completion when
// the engine's end event did not arrive.
func (c *Controller) Poll(ctx context.Context) error {
	if c.state != core.StatePlaying {
		return nil
	}

	elapsed, err := c.engine.Elapsed(ctx)
	if err == nil {
		var total time.Duration
		total, err = c.engine.Duration(ctx)
		if err == nil {
			c.observed = true
			c.elapsed = elapsed
			c.duration = total
			c.publish()

			if total > 0 && elapsed >= total-c.tolerance {
				return c.complete(ctx, c.generation, "poll")
			}
			return nil
		}
	}

	if errors.Is(err, jerrors.ErrEngineClosed) {
		c.logger.Warn("engine closed during playback", zap.Error(err))
		c.halt()
		c.publish()
		return fmt.Errorf("poll: %w", err)
	}
	if ctx.Err() != nil || !c.observed {
		return nil
	}
	// A position that was readable and no longer is means the file ended.
	c.logger.Debug("time unavailable, treating as end of track", zap.Error(err))
	return c.complete(ctx, c.generation, "poll")
}

// complete handles the end of load gen. Only the first signal for the
// current load has any effect.
func (c *Controller) complete(ctx context.Context, gen uint64, source string) error {
	if gen != 0 && gen != c.generation {
		c.logger.Debug("ignoring stale end of track", zap.Uint64("generation", gen), zap.Uint64("current", c.generation))
		return nil
	}
	if c.finished || !c.state.IsActive() {
		return nil
	}
	c.finished = true
	c.logger.Debug("track finished", zap.Uint64("generation", c.generation), zap.String("source", source))

	if c.autoAdvance && c.queue.Next() {
		return c.playCurrent(ctx)
	}

	c.halt()
	c.publish()
	if err := c.engine.Stop(ctx); err != nil {
		c.logger.Debug("stop after last track", zap.Error(err))
	}
	return nil
}

func (c *Controller) playCurrent(ctx context.Context) error {
	track := c.queue.Current()
	if track == nil {
		return jerrors.ErrQueueEmpty
	}

	gen, err := c.engine.Load(ctx, track.StreamURL)
	if err != nil {
		c.logger.Warn("load failed", zap.String("track", track.Title), zap.Error(err))
		c.halt()
		c.publish()
		return fmt.Errorf("play %q: %w", track.Title, err)
	}

	c.generation = gen
	c.finished = false
	c.observed = false
	c.state = core.StatePlaying
	c.elapsed = 0
	c.duration = track.Duration
	c.logger.Info("playing",
		zap.String("track", track.Title),
		zap.Int("index", c.queue.Index()),
		zap.Uint64("generation", gen))

	c.mu.Lock()
	c.history = append([]core.HistoryEntry{{Track: track, PlayedAt: c.now()}}, c.history...)
	if len(c.history) > c.historySize {
		c.history = c.history[:c.historySize]
	}
	c.mu.Unlock()

	c.publish()
	return nil
}

// halt moves to stopped and marks the current load finished.
func (c *Controller) halt() {
	c.state = core.StateStopped
	c.finished = true
	c.elapsed = 0
	c.duration = 0
}

// publish copies the state into the snapshot read by other goroutines.
func (c *Controller) publish() {
	snap := core.Snapshot{
		State:    c.state,
		Track:    c.queue.Current(),
		Index:    c.queue.Index(),
		Queue:    c.queue.Tracks(),
		Volume:   c.volume,
		Balance:  c.balance,
		Elapsed:  c.elapsed,
		Duration: c.duration,
	}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// Snapshot returns a copy of the current player state.
func (c *Controller) Snapshot() core.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := c.snap
	snap.Queue = append([]core.Track(nil), c.snap.Queue...)
	return snap
}

// History returns recently started tracks, newest first.
func (c *Controller) History() []core.HistoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
