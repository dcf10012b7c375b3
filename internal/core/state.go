package core

import "time"

// PlaybackState is the player's transport state.
type PlaybackState int

const (
	StateStopped PlaybackState = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// IsActive returns true if a track is loaded (playing or paused).
func (s PlaybackState) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Snapshot is a read-only copy of the player state, safe to hand to other goroutines.
type Snapshot struct {
	State    PlaybackState `json:"state"`
	Track    *Track        `json:"track"`
	Index    int           `json:"index"`
	Queue    []Track       `json:"queue"`
	Volume   int           `json:"volume"`
	Balance  int           `json:"balance"`
	Elapsed  time.Duration `json:"elapsed"`
	Duration time.Duration `json:"duration"`
}

// HasTrack returns true if there is a current track.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// IsPlaying returns true if the snapshot was taken while playing.
func (s *Snapshot) IsPlaying() bool {
	return s != nil && s.State == StatePlaying
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *Snapshot) ProgressPercent() float64 {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	p := float64(s.Elapsed) / float64(s.Duration) * 100
	if p > 100 {
		return 100
	}
	return p
}

// HistoryEntry represents a track that was started.
type HistoryEntry struct {
	Track    *Track
	PlayedAt time.Time
}
