// Package loader runs library requests on a single background worker.
//
// Each request returns a Future that resolves exactly once. Requests run one
// at a time in submission order, so overlapping loads never race.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessro/jamp/internal/core"
)

// ErrClosed is the result of a request submitted after Close.
var ErrClosed = errors.New("loader closed")

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Kind identifies the work a task performs.
type Kind int

const (
	KindLoadAlbums Kind = iota
	KindSearchAlbums
	KindLoadTracks
	KindTestConnection
)

func (k Kind) String() string {
	switch k {
	case KindLoadAlbums:
		return "load-albums"
	case KindSearchAlbums:
		return "search-albums"
	case KindLoadTracks:
		return "load-tracks"
	case KindTestConnection:
		return "test-connection"
	default:
		return "unknown"
	}
}

// Result is the outcome of a task. Only the field matching the task kind is set.
type Result struct {
	Albums []core.Album
	Tracks []core.Track
	Err    error
}

// Future is a one-shot handle to a task's result.
type Future struct {
	ID      string
	Kind    Kind
	AlbumID string
	Query   string

	done   chan struct{}
	result Result
}

func newFuture(kind Kind) *Future {
	return &Future{
		ID:   uuid.NewString(),
		Kind: kind,
		done: make(chan struct{}),
	}
}

func (f *Future) resolve(r Result) {
	f.result = r
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the task outcome. It blocks until the task has finished.
func (f *Future) Result() Result {
	<-f.done
	return f.result
}

// Wait blocks until the task finishes or ctx is done.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, f.result.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Options configures a Loader.
type Options struct {
	Logger *zap.Logger
	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration
}

// Loader serializes library requests onto one worker goroutine.
type Loader struct {
	library core.Library
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending []*Future
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// New creates a loader and starts its worker.
func New(library core.Library, opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	l := &Loader{
		library: library,
		logger:  logger.Named("loader"),
		timeout: timeout,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// LoadAlbums fetches the full album list.
func (l *Loader) LoadAlbums() *Future {
	return l.submit(newFuture(KindLoadAlbums))
}

// SearchAlbums fetches albums matching query.
func (l *Loader) SearchAlbums(query string) *Future {
	f := newFuture(KindSearchAlbums)
	f.Query = query
	return l.submit(f)
}

// LoadTracks fetches the tracks of an album.
func (l *Loader) LoadTracks(albumID string) *Future {
	f := newFuture(KindLoadTracks)
	f.AlbumID = albumID
	return l.submit(f)
}

// TestConnection checks server connectivity.
func (l *Loader) TestConnection() *Future {
	return l.submit(newFuture(KindTestConnection))
}

func (l *Loader) submit(f *Future) *Future {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		f.resolve(Result{Err: ErrClosed})
		return f
	}
	l.pending = append(l.pending, f)
	depth := len(l.pending)
	l.mu.Unlock()

	l.logger.Debug("queued", zap.String("id", f.ID), zap.Stringer("kind", f.Kind), zap.Int("depth", depth))
	l.signal()
	return f
}

func (l *Loader) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Close stops accepting tasks, finishes the queued ones and waits for the
// worker to exit.
func (l *Loader) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.signal()
	<-l.stopped
	return nil
}

func (l *Loader) run() {
	defer close(l.stopped)
	for {
		f, ok := l.next()
		if !ok {
			return
		}
		l.execute(f)
	}
}

// next blocks for the next task. It returns false once closed and drained.
func (l *Loader) next() (*Future, bool) {
	for {
		l.mu.Lock()
		if len(l.pending) > 0 {
			f := l.pending[0]
			l.pending[0] = nil
			l.pending = l.pending[1:]
			l.mu.Unlock()
			return f, true
		}
		closed := l.closed
		l.mu.Unlock()

		if closed {
			return nil, false
		}
		<-l.wake
	}
}

func (l *Loader) execute(f *Future) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	start := time.Now()
	var r Result
	switch f.Kind {
	case KindLoadAlbums:
		r.Albums, r.Err = l.library.ListAlbums(ctx)
	case KindSearchAlbums:
		r.Albums, r.Err = l.library.SearchAlbums(ctx, f.Query)
	case KindLoadTracks:
		r.Tracks, r.Err = l.library.AlbumTracks(ctx, f.AlbumID)
	case KindTestConnection:
		r.Err = l.library.TestConnection(ctx)
	default:
		r.Err = errors.New("unknown task kind")
	}

	log := l.logger.With(
		zap.String("id", f.ID),
		zap.Stringer("kind", f.Kind),
		zap.Duration("took", time.Since(start)),
	)
	if r.Err != nil {
		log.Warn("task failed", zap.Error(r.Err))
	} else {
		log.Debug("task done", zap.Int("albums", len(r.Albums)), zap.Int("tracks", len(r.Tracks)))
	}
	f.resolve(r)
}
