package tail

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/jamp/internal/core"
)

var now = time.Date(2024, 6, 1, 20, 15, 0, 0, time.UTC)

func snap(state core.PlaybackState, index int, elapsed time.Duration) *core.Snapshot {
	queue := []core.Track{
		{ID: "t1", Title: "Help!", Album: "Help!", Number: 1, Length: "02:18"},
		{ID: "t2", Title: "The Night Before", Album: "Help!", Number: 2, Length: "02:34"},
	}
	s := &core.Snapshot{State: state, Index: index, Queue: queue, Volume: 80, Elapsed: elapsed}
	if index >= 0 {
		t := queue[index]
		s.Track = &t
		s.Duration = 2 * time.Minute
	}
	return s
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestDiffStates(t *testing.T) {
	tests := []struct {
		name string
		prev *core.Snapshot
		curr *core.Snapshot
		want []EventType
	}{
		{
			name: "first poll playing",
			prev: nil,
			curr: snap(core.StatePlaying, 0, 0),
			want: []EventType{EventTrackChange},
		},
		{
			name: "first poll stopped",
			prev: nil,
			curr: snap(core.StateStopped, 0, 0),
			want: nil,
		},
		{
			name: "start from stopped",
			prev: snap(core.StateStopped, 0, 0),
			curr: snap(core.StatePlaying, 1, 0),
			want: []EventType{EventTrackChange},
		},
		{
			name: "completed",
			prev: snap(core.StatePlaying, 0, 119*time.Second),
			curr: snap(core.StatePlaying, 1, 0),
			want: []EventType{EventTrackComplete},
		},
		{
			name: "skipped",
			prev: snap(core.StatePlaying, 0, 10*time.Second),
			curr: snap(core.StatePlaying, 1, 0),
			want: []EventType{EventTrackSkip},
		},
		{
			name: "pause",
			prev: snap(core.StatePlaying, 0, 0),
			curr: snap(core.StatePaused, 0, 0),
			want: []EventType{EventPause},
		},
		{
			name: "resume",
			prev: snap(core.StatePaused, 0, 0),
			curr: snap(core.StatePlaying, 0, 0),
			want: []EventType{EventResume},
		},
		{
			name: "last track finished",
			prev: snap(core.StatePlaying, 1, 118*time.Second),
			curr: snap(core.StateStopped, 1, 0),
			want: []EventType{EventTrackComplete, EventStop},
		},
		{
			name: "stopped early",
			prev: snap(core.StatePlaying, 1, 5*time.Second),
			curr: snap(core.StateStopped, 1, 0),
			want: []EventType{EventStop},
		},
		{
			name: "cleared",
			prev: snap(core.StatePlaying, 0, 5*time.Second),
			curr: &core.Snapshot{State: core.StateStopped, Index: core.NoIndex, Volume: 80},
			want: []EventType{EventStop},
		},
		{
			name: "volume",
			prev: snap(core.StatePlaying, 0, 0),
			curr: func() *core.Snapshot { s := snap(core.StatePlaying, 0, 0); s.Volume = 50; return s }(),
			want: []EventType{EventVolumeChange},
		},
		{
			name: "balance",
			prev: snap(core.StatePlaying, 0, 0),
			curr: func() *core.Snapshot { s := snap(core.StatePlaying, 0, 0); s.Balance = -30; return s }(),
			want: []EventType{EventBalanceChange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(diffStates(tt.prev, tt.curr, now))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("events = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

type fakeSource struct {
	mu   sync.Mutex
	snap core.Snapshot
}

func (f *fakeSource) Snapshot() core.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) set(s *core.Snapshot) {
	f.mu.Lock()
	f.snap = *s
	f.mu.Unlock()
}

func TestWatcherEmitsEvents(t *testing.T) {
	src := &fakeSource{snap: *snap(core.StatePlaying, 0, 0)}
	w := NewWatcher(src, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	first := <-w.Events()
	if first.Type != EventTrackChange {
		t.Fatalf("first event = %v, want track change", first.Type)
	}

	src.set(snap(core.StatePaused, 0, 0))
	select {
	case e := <-w.Events():
		if e.Type != EventPause {
			t.Errorf("event = %v, want pause", e.Type)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for pause")
	}

	w.Stop()
	for range w.Events() {
		// drain until closed
	}
}

func TestFormatLine(t *testing.T) {
	f := NewFormatter(WithEmoji(false))

	e := Event{Type: EventTrackChange, Timestamp: now, Current: snap(core.StatePlaying, 1, 0)}
	if got, want := f.Format(e), "Now playing: Help! - The Night Before [2/2]"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	e = Event{Type: EventBalanceChange, Timestamp: now, Current: &core.Snapshot{Balance: 40}}
	if got := f.Format(e); got != "Balance: R40" {
		t.Errorf("Format() = %q", got)
	}

	withTime := NewFormatter(WithEmoji(true), WithTimestamp(true))
	got := withTime.Format(Event{Type: EventStop, Timestamp: now})
	if got != "20:15:00 ⏹️ Stopped" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}}|{{.Number}}. {{.Title}} ({{.Length}})|{{.Position}}/{{.QueueLen}}"))
	e := Event{Type: EventTrackChange, Timestamp: now, Current: snap(core.StatePlaying, 0, 0)}

	if got, want := f.Format(e), "track_change|1. Help! (02:18)|1/2"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatTemplateAgo(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Ago}}"))
	e := Event{Type: EventPause, Timestamp: time.Now().Add(-3 * time.Minute)}
	if got := f.Format(e); !strings.Contains(got, "minutes ago") {
		t.Errorf("Format() = %q, want humanized time", got)
	}
}

func TestInvalidTemplateFallsBack(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Nope"), WithEmoji(false))
	if got := f.Format(Event{Type: EventPause}); got != "Paused" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatBalance(t *testing.T) {
	tests := map[int]string{-40: "L40", 0: "C", 25: "R25"}
	for in, want := range tests {
		if got := FormatBalance(in); got != want {
			t.Errorf("FormatBalance(%d) = %q, want %q", in, got, want)
		}
	}
}
