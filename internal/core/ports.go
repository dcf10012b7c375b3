package core

import (
	"context"
	"time"
)

// Library defines read access to the remote music library.
type Library interface {
	TestConnection(ctx context.Context) error
	ListAlbums(ctx context.Context) ([]Album, error)
	SearchAlbums(ctx context.Context, query string) ([]Album, error)
	AlbumTracks(ctx context.Context, albumID string) ([]Track, error)
}

// EngineEventType identifies an asynchronous engine notification.
type EngineEventType int

const (
	EngineEndOfTrack EngineEventType = iota
	EngineError
)

// EngineEvent is published by an Engine on its event channel.
type EngineEvent struct {
	Type EngineEventType
	// Generation is the load counter the event belongs to, or 0 if unknown.
	Generation uint64
	Err        error
}

// Engine is the external audio decoding and streaming component.
type Engine interface {
	// Load replaces the current media and starts playing it.
	// The returned generation identifies this load in later events.
	Load(ctx context.Context, url string) (uint64, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error

	Elapsed(ctx context.Context) (time.Duration, error)
	Duration(ctx context.Context) (time.Duration, error)

	// SetVolume takes 0-100. SetBalance takes -100 (left) to 100 (right).
	SetVolume(ctx context.Context, percent int) error
	SetBalance(ctx context.Context, balance int) error

	Events() <-chan EngineEvent
	Close() error
}
