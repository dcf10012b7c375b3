package tail

import (
	"context"
	"time"

	"github.com/tessro/jamp/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventStop
	EventVolumeChange
	EventBalanceChange
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Snapshot
	Current   *core.Snapshot
}

// StateSource provides player snapshots. It must be safe to call from the
// watcher's goroutine.
type StateSource interface {
	Snapshot() core.Snapshot
}

// Watcher polls a player for state changes and emits events.
type Watcher struct {
	source   StateSource
	interval time.Duration
	events   chan Event
	done     chan struct{}
	now      func() time.Time
}

// NewWatcher creates a new state watcher.
func NewWatcher(source StateSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes. It blocks until ctx is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev := w.source.Snapshot()
	w.emit(diffStates(nil, &prev, w.now()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			curr := w.source.Snapshot()
			w.emit(diffStates(&prev, &curr, w.now()))
			prev = curr
		}
	}
}

func (w *Watcher) emit(events []Event) {
	for _, e := range events {
		select {
		case w.events <- e:
		default:
			// Drop event if channel is full
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffStates compares two snapshots and returns detected events.
func diffStates(prev, curr *core.Snapshot, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	var events []Event
	add := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	// First poll - no previous state
	if prev == nil {
		if curr.HasTrack() && curr.State.IsActive() {
			add(EventTrackChange)
		}
		return events
	}

	changed := trackChanged(prev, curr)
	if changed && curr.HasTrack() && curr.State.IsActive() {
		switch {
		case prev.HasTrack() && prev.State.IsActive() && wasCompleted(prev):
			add(EventTrackComplete)
		case prev.HasTrack() && prev.State.IsActive():
			add(EventTrackSkip)
		default:
			add(EventTrackChange)
		}
	}

	switch {
	case prev.State.IsActive() && curr.State == core.StateStopped:
		if !changed && prev.HasTrack() && wasCompleted(prev) {
			add(EventTrackComplete)
		}
		add(EventStop)
	case prev.State == core.StatePlaying && curr.State == core.StatePaused:
		add(EventPause)
	case prev.State != core.StatePlaying && curr.State == core.StatePlaying && !changed:
		add(EventResume)
	}

	if prev.Volume != curr.Volume {
		add(EventVolumeChange)
	}
	if prev.Balance != curr.Balance {
		add(EventBalanceChange)
	}

	return events
}

// trackChanged returns true if a different queue entry is current.
func trackChanged(prev, curr *core.Snapshot) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.ID != curr.Track.ID || prev.Index != curr.Index
}

// wasCompleted returns true if the track likely completed naturally.
func wasCompleted(s *core.Snapshot) bool {
	if s.Duration <= 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	threshold := float64(s.Duration) * 0.95
	return float64(s.Elapsed) >= threshold
}
