package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/tessro/jamp/internal/core"
	jerrors "github.com/tessro/jamp/internal/errors"
)

// fakeMPV answers IPC commands on the server side of a pipe.
type fakeMPV struct {
	t    *testing.T
	conn net.Conn

	mu       sync.Mutex
	commands [][]any
	props    map[string]any
	nextID   int64

	writeMu sync.Mutex
}

func newFakeMPV(t *testing.T) (*Engine, *fakeMPV) {
	t.Helper()
	client, server := net.Pipe()
	f := &fakeMPV{t: t, conn: server, props: map[string]any{}}
	go f.serve()

	e := Attach(client, nil)
	t.Cleanup(func() {
		_ = e.Close()
		_ = server.Close()
	})
	return e, f
}

func (f *fakeMPV) serve() {
	scanner := bufio.NewScanner(f.conn)
	for scanner.Scan() {
		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		reply := map[string]any{"request_id": req.RequestID, "error": "success"}
		switch req.Command[0] {
		case "get_property":
			if v, ok := f.props[req.Command[1].(string)]; ok {
				reply["data"] = v
			} else {
				reply["error"] = "property unavailable"
			}
		case "set_property":
			f.props[req.Command[1].(string)] = req.Command[2]
		case "loadfile":
			f.nextID++
			id := f.nextID
			f.mu.Unlock()
			f.send(reply)
			f.send(map[string]any{"event": "start-file", "playlist_entry_id": id})
			continue
		}
		f.mu.Unlock()
		f.send(reply)
	}
}

func (f *fakeMPV) send(v any) {
	data, _ := json.Marshal(v)
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	_, _ = f.conn.Write(append(data, '\n'))
}

func (f *fakeMPV) endFile(entryID int64, reason string) {
	f.send(map[string]any{"event": "end-file", "playlist_entry_id": entryID, "reason": reason, "file_error": "boom"})
}

func (f *fakeMPV) setProp(name string, v any) {
	f.mu.Lock()
	f.props[name] = v
	f.mu.Unlock()
}

func (f *fakeMPV) lastCommand() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.commands) == 0 {
		return nil
	}
	return f.commands[len(f.commands)-1]
}

func (f *fakeMPV) hasCommand(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.commands {
		if c[0] == name {
			return true
		}
	}
	return false
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

func nextEvent(t *testing.T, e *Engine) core.EngineEvent {
	t.Helper()
	select {
	case ev := <-e.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for engine event")
		return core.EngineEvent{}
	}
}

func TestLoadSendsLoadfileAndUnpauses(t *testing.T) {
	e, f := newFakeMPV(t)

	gen, err := e.Load(ctx(t), "http://jf/Items/t1/Download")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if gen != 1 {
		t.Errorf("generation = %d, want 1", gen)
	}
	if !f.hasCommand("loadfile") {
		t.Error("loadfile not sent")
	}
	if got := f.lastCommand(); fmt.Sprint(got) != "[set_property pause false]" {
		t.Errorf("last command = %v", got)
	}

	gen2, _ := e.Load(ctx(t), "http://jf/Items/t2/Download")
	if gen2 != 2 {
		t.Errorf("second generation = %d, want 2", gen2)
	}
}

func TestEndOfFileCarriesGeneration(t *testing.T) {
	e, f := newFakeMPV(t)

	if _, err := e.Load(ctx(t), "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Load(ctx(t), "b"); err != nil {
		t.Fatal(err)
	}

	// Replacing "a" ends it with reason stop, which is not published.
	f.endFile(1, reasonStop)
	f.endFile(2, reasonEOF)

	ev := nextEvent(t, e)
	if ev.Type != core.EngineEndOfTrack {
		t.Fatalf("event type = %v, want end of track", ev.Type)
	}
	if ev.Generation != 2 {
		t.Errorf("generation = %d, want 2", ev.Generation)
	}
}

func TestEndOfFileForUnknownEntryIgnored(t *testing.T) {
	e, f := newFakeMPV(t)

	if _, err := e.Load(ctx(t), "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Load(ctx(t), "b"); err != nil {
		t.Fatal(err)
	}

	f.endFile(42, reasonEOF)
	f.endFile(1, reasonEOF)

	ev := nextEvent(t, e)
	if ev.Generation != 1 {
		t.Errorf("generation = %d, want 1 from the known entry", ev.Generation)
	}
}

func TestPlaybackErrorEvent(t *testing.T) {
	e, f := newFakeMPV(t)

	if _, err := e.Load(ctx(t), "a"); err != nil {
		t.Fatal(err)
	}
	f.endFile(1, reasonError)

	ev := nextEvent(t, e)
	if ev.Type != core.EngineError || ev.Err == nil {
		t.Errorf("event = %+v, want error event", ev)
	}
}

func TestElapsedAndDuration(t *testing.T) {
	e, f := newFakeMPV(t)

	if _, err := e.Elapsed(ctx(t)); !IsPropertyUnavailable(err) {
		t.Errorf("Elapsed() while idle error = %v, want property unavailable", err)
	}

	f.setProp("time-pos", 12.5)
	f.setProp("duration", 200.0)

	elapsed, err := e.Elapsed(ctx(t))
	if err != nil {
		t.Fatalf("Elapsed() error = %v", err)
	}
	if elapsed != 12500*time.Millisecond {
		t.Errorf("Elapsed() = %v", elapsed)
	}
	total, err := e.Duration(ctx(t))
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if total != 200*time.Second {
		t.Errorf("Duration() = %v", total)
	}
}

func TestVolumeAndBalance(t *testing.T) {
	e, f := newFakeMPV(t)

	if err := e.SetVolume(ctx(t), 150); err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(f.lastCommand()); got != "[set_property volume 100]" {
		t.Errorf("volume command = %s", got)
	}

	if err := e.SetBalance(ctx(t), -50); err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(f.lastCommand()); got != "[af set @balance:lavfi=[stereotools=balance_out=-0.50]]" {
		t.Errorf("balance command = %s", got)
	}
}

func TestPauseResumeStop(t *testing.T) {
	e, f := newFakeMPV(t)

	if err := e.Pause(ctx(t)); err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(f.lastCommand()); got != "[set_property pause true]" {
		t.Errorf("pause command = %s", got)
	}
	if err := e.Resume(ctx(t)); err != nil {
		t.Fatal(err)
	}
	if err := e.Stop(ctx(t)); err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(f.lastCommand()); got != "[stop]" {
		t.Errorf("stop command = %s", got)
	}
}

func TestCommandsFailAfterConnectionEnds(t *testing.T) {
	e, f := newFakeMPV(t)
	_ = f.conn.Close()

	select {
	case <-e.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not notice closed connection")
	}

	if err := e.Pause(ctx(t)); !errors.Is(err, jerrors.ErrEngineClosed) {
		t.Errorf("Pause() error = %v, want ErrEngineClosed", err)
	}
	if _, ok := <-e.Events(); ok {
		t.Error("Events() channel still open")
	}
}

func TestBalanceFilter(t *testing.T) {
	tests := map[int]string{
		0:    "@balance:lavfi=[stereotools=balance_out=0.00]",
		100:  "@balance:lavfi=[stereotools=balance_out=1.00]",
		-100: "@balance:lavfi=[stereotools=balance_out=-1.00]",
	}
	for in, want := range tests {
		if got := BalanceFilter(in); got != want {
			t.Errorf("BalanceFilter(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(context.Background(), Options{Path: "jamp-no-such-mpv-binary"})
	if !errors.Is(err, jerrors.ErrEngineUnavailable) {
		t.Errorf("Start() error = %v, want ErrEngineUnavailable", err)
	}
}

func TestStartFailureRemovesGeneratedSocket(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	// Leaves a plain file where the socket should be, then exits.
	bin := filepath.Join(dir, "fake-mpv")
	script := "#!/bin/sh\nfor a; do case \"$a\" in --input-ipc-server=*) : > \"${a#*=}\";; esac; done\nexit 1\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := Start(context.Background(), Options{Path: bin, StartTimeout: 2 * time.Second})
	if !errors.Is(err, jerrors.ErrEngineUnavailable) {
		t.Fatalf("Start() error = %v, want ErrEngineUnavailable", err)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "jamp-mpv-*"))
	if len(leftovers) != 0 {
		t.Errorf("socket files left behind: %v", leftovers)
	}
}
