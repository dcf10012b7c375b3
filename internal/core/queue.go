package core

import "math/rand/v2"

// NoIndex is the queue position when nothing is selected.
const NoIndex = -1

// Queue is an ordered list of tracks with a current position.
// The index is always a valid position or NoIndex, and NoIndex whenever the queue is empty.
type Queue struct {
	tracks []Track
	index  int
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{index: NoIndex}
}

// Len returns the total number of tracks in the queue.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Index returns the current position, or NoIndex.
func (q *Queue) Index() int {
	if q == nil {
		return NoIndex
	}
	return q.index
}

// Current returns the track at the current position, or nil.
func (q *Queue) Current() *Track {
	if q == nil || q.index < 0 || q.index >= len(q.tracks) {
		return nil
	}
	t := q.tracks[q.index]
	return &t
}

// At returns a copy of the track at i, or nil if i is out of range.
func (q *Queue) At(i int) *Track {
	if q == nil || i < 0 || i >= len(q.tracks) {
		return nil
	}
	t := q.tracks[i]
	return &t
}

// Tracks returns a copy of all tracks.
func (q *Queue) Tracks() []Track {
	if q == nil {
		return nil
	}
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Upcoming returns a copy of the tracks after the current position.
func (q *Queue) Upcoming() []Track {
	if q == nil || q.index+1 >= len(q.tracks) {
		return nil
	}
	rest := q.tracks[q.index+1:]
	out := make([]Track, len(rest))
	copy(out, rest)
	return out
}

// HasNext returns true if Next would move.
func (q *Queue) HasNext() bool {
	return q.Len() > 0 && q.index < q.Len()-1
}

// HasPrev returns true if Prev would move.
func (q *Queue) HasPrev() bool {
	return q.Len() > 0 && q.index > 0
}

// Append adds tracks to the end. The current position is not changed.
func (q *Queue) Append(tracks ...Track) {
	q.tracks = append(q.tracks, tracks...)
}

// Replace swaps the queue contents and selects the first track.
func (q *Queue) Replace(tracks []Track) {
	q.tracks = make([]Track, len(tracks))
	copy(q.tracks, tracks)
	if len(q.tracks) == 0 {
		q.index = NoIndex
		return
	}
	q.index = 0
}

// Clear removes all tracks and resets the position.
func (q *Queue) Clear() {
	q.tracks = nil
	q.index = NoIndex
}

// Next moves to the following track. Past the last track it is a no-op.
func (q *Queue) Next() bool {
	if !q.HasNext() {
		return false
	}
	q.index++
	return true
}

// Prev moves to the preceding track. Before the first track it is a no-op.
func (q *Queue) Prev() bool {
	if !q.HasPrev() {
		return false
	}
	q.index--
	return true
}

// Seek moves to position i. An out of range position is a no-op.
func (q *Queue) Seek(i int) bool {
	if i < 0 || i >= q.Len() {
		return false
	}
	q.index = i
	return true
}

// ShuffleRemaining permutes the tracks after the current position.
// Tracks at or before the current position keep their places.
func (q *Queue) ShuffleRemaining(r *rand.Rand) {
	start := q.index + 1
	if start < 0 {
		start = 0
	}
	rest := q.tracks[start:]
	if len(rest) < 2 {
		return
	}
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
}
