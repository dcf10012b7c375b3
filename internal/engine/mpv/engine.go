// Package mpv drives an mpv process over its JSON IPC socket.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/jamp/internal/core"
	jerrors "github.com/tessro/jamp/internal/errors"
)

const eventBuffer = 16

// Engine implements core.Engine over an mpv IPC connection.
type Engine struct {
	conn   io.ReadWriteCloser
	logger *zap.Logger
	proc   *process

	writeMu sync.Mutex
	nextID  atomic.Int64

	mu      sync.Mutex
	pending map[int64]chan message
	// loads holds generations whose start-file event has not arrived yet.
	loads []uint64
	// entries maps mpv playlist entry ids to load generations.
	entries map[int64]uint64
	closed  bool

	generation atomic.Uint64

	events    chan core.EngineEvent
	done      chan struct{}
	closeOnce sync.Once
}

var _ core.Engine = (*Engine)(nil)

// Attach wraps an established IPC connection. The engine takes ownership
// of conn and closes it on Close.
func Attach(conn io.ReadWriteCloser, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		conn:    conn,
		logger:  logger.Named("mpv"),
		pending: make(map[int64]chan message),
		entries: make(map[int64]uint64),
		events:  make(chan core.EngineEvent, eventBuffer),
		done:    make(chan struct{}),
	}
	go e.readLoop()
	return e
}

// Load replaces the current file and starts playback.
func (e *Engine) Load(ctx context.Context, url string) (uint64, error) {
	gen := e.generation.Add(1)

	e.mu.Lock()
	e.loads = append(e.loads, gen)
	e.mu.Unlock()

	if _, err := e.command(ctx, "loadfile", url, "replace"); err != nil {
		e.mu.Lock()
		e.dropLoad(gen)
		e.mu.Unlock()
		return 0, err
	}
	// loadfile keeps the pause state, so clear it explicitly.
	if err := e.setProperty(ctx, "pause", false); err != nil {
		return gen, err
	}
	e.logger.Debug("loaded", zap.Uint64("generation", gen))
	return gen, nil
}

// Pause pauses playback.
func (e *Engine) Pause(ctx context.Context) error {
	return e.setProperty(ctx, "pause", true)
}

// Resume continues paused playback.
func (e *Engine) Resume(ctx context.Context) error {
	return e.setProperty(ctx, "pause", false)
}

// Stop stops playback and unloads the current file.
func (e *Engine) Stop(ctx context.Context) error {
	_, err := e.command(ctx, "stop")
	return err
}

// Elapsed returns the playback position of the current file.
func (e *Engine) Elapsed(ctx context.Context) (time.Duration, error) {
	return e.seconds(ctx, "time-pos")
}

// Duration returns the length of the current file.
func (e *Engine) Duration(ctx context.Context) (time.Duration, error) {
	return e.seconds(ctx, "duration")
}

// SetVolume sets the output volume, 0-100.
func (e *Engine) SetVolume(ctx context.Context, percent int) error {
	percent = min(max(percent, 0), 100)
	return e.setProperty(ctx, "volume", percent)
}

// SetBalance pans output between left (-100) and right (100).
func (e *Engine) SetBalance(ctx context.Context, balance int) error {
	balance = min(max(balance, -100), 100)
	_, err := e.command(ctx, "af", "set", BalanceFilter(balance))
	return err
}

// BalanceFilter returns the audio filter string for a balance value.
func BalanceFilter(balance int) string {
	return fmt.Sprintf("@balance:lavfi=[stereotools=balance_out=%.2f]", float64(balance)/100)
}

// Events returns the channel of asynchronous engine events. It is closed
// after the connection ends.
func (e *Engine) Events() <-chan core.EngineEvent {
	return e.events
}

// Done is closed when the IPC connection has ended.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Close shuts down mpv (if this engine started it) and the connection.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		if e.proc != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_, _ = e.command(ctx, "quit")
			cancel()
		}
		err = e.conn.Close()
		<-e.done
		if e.proc != nil {
			if perr := e.proc.wait(2 * time.Second); perr != nil {
				e.logger.Debug("mpv exit", zap.Error(perr))
			}
		}
	})
	return err
}

func (e *Engine) setProperty(ctx context.Context, name string, value any) error {
	_, err := e.command(ctx, "set_property", name, value)
	return err
}

func (e *Engine) seconds(ctx context.Context, property string) (time.Duration, error) {
	data, err := e.command(ctx, "get_property", property)
	if err != nil {
		return 0, err
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return 0, fmt.Errorf("mpv %s: %w", property, err)
	}
	if math.IsNaN(secs) || secs < 0 {
		secs = 0
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// command sends an IPC command and waits for its reply.
func (e *Engine) command(ctx context.Context, args ...any) (json.RawMessage, error) {
	id := e.nextID.Add(1)
	reply := make(chan message, 1)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, jerrors.ErrEngineClosed
	}
	e.pending[id] = reply
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
	}()

	line, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		return nil, err
	}
	line = append(line, '\n')

	e.writeMu.Lock()
	_, err = e.conn.Write(line)
	e.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("mpv write: %w", err)
	}

	name := fmt.Sprint(args[0])
	select {
	case msg := <-reply:
		if msg.Error != "" && msg.Error != "success" {
			return nil, &CommandError{Command: name, Message: msg.Error}
		}
		return msg.Data, nil
	case <-e.done:
		return nil, jerrors.ErrEngineClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) readLoop() {
	defer func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()
		close(e.done)
		close(e.events)
	}()

	scanner := bufio.NewScanner(e.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			e.logger.Debug("skipping malformed line", zap.Error(err))
			continue
		}
		if msg.isReply() {
			e.deliver(msg)
			continue
		}
		e.handleEvent(msg)
	}
	if err := scanner.Err(); err != nil && !isClosedErr(err) {
		e.logger.Warn("ipc read failed", zap.Error(err))
	}
}

func (e *Engine) deliver(msg message) {
	e.mu.Lock()
	reply, ok := e.pending[*msg.RequestID]
	e.mu.Unlock()
	if ok {
		reply <- msg
	}
}

func (e *Engine) handleEvent(msg message) {
	switch msg.Event {
	case "start-file":
		e.mu.Lock()
		if len(e.loads) > 0 {
			e.entries[msg.PlaylistEntryID] = e.loads[0]
			e.loads = e.loads[1:]
		}
		e.mu.Unlock()

	case "end-file":
		e.mu.Lock()
		gen, ok := e.entries[msg.PlaylistEntryID]
		delete(e.entries, msg.PlaylistEntryID)
		e.mu.Unlock()
		if !ok {
			// Not a file this engine loaded, or one whose load was abandoned.
			e.logger.Debug("ignoring end-file for unknown entry",
				zap.String("reason", msg.Reason), zap.Int64("entry", msg.PlaylistEntryID))
			return
		}

		log := e.logger.With(zap.String("reason", msg.Reason), zap.Uint64("generation", gen))
		switch msg.Reason {
		case reasonEOF:
			log.Debug("end of file")
			e.publish(core.EngineEvent{Type: core.EngineEndOfTrack, Generation: gen})
		case reasonError:
			log.Warn("playback error", zap.String("file_error", msg.FileError))
			e.publish(core.EngineEvent{
				Type:       core.EngineError,
				Generation: gen,
				Err:        fmt.Errorf("mpv playback error: %s", msg.FileError),
			})
		case reasonStop, reasonQuit, reasonRedirect:
			log.Debug("file ended")
		default:
			log.Debug("unknown end-file reason")
		}
	}
}

// publish never blocks the reader; a full buffer means nobody is listening.
func (e *Engine) publish(ev core.EngineEvent) {
	select {
	case e.events <- ev:
	default:
		e.logger.Warn("event dropped", zap.Int("type", int(ev.Type)))
	}
}

// dropLoad removes gen from the pending load list. Caller holds e.mu.
func (e *Engine) dropLoad(gen uint64) {
	for i, g := range e.loads {
		if g == gen {
			e.loads = append(e.loads[:i], e.loads[i+1:]...)
			return
		}
	}
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
