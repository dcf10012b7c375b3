package mpv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	jerrors "github.com/tessro/jamp/internal/errors"
)

// Options configures how mpv is started.
type Options struct {
	// Path is the mpv binary. Defaults to "mpv" on $PATH.
	Path string
	// Socket attaches to an already running mpv when set and reachable.
	// Otherwise a new process is started listening on it.
	Socket string
	// Args are extra command line arguments.
	Args []string
	// StartTimeout bounds how long to wait for the IPC socket.
	StartTimeout time.Duration
	Logger       *zap.Logger
}

type process struct {
	cmd    *exec.Cmd
	socket string
	exited chan error
}

func (p *process) wait(timeout time.Duration) error {
	defer os.Remove(p.socket)
	select {
	case err := <-p.exited:
		return err
	case <-time.After(timeout):
		_ = p.cmd.Process.Kill()
		return <-p.exited
	}
}

// Start connects to mpv, launching it when no running instance is listening
// on the configured socket.
func Start(ctx context.Context, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.StartTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if opts.Socket != "" {
		if conn, err := dial(opts.Socket); err == nil {
			logger.Info("attached to running mpv", zap.String("socket", opts.Socket))
			return Attach(conn, logger), nil
		}
	}

	path := opts.Path
	if path == "" {
		path = "mpv"
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jerrors.ErrEngineUnavailable, err)
	}

	socket := opts.Socket
	generated := socket == ""
	if generated {
		socket = filepath.Join(os.TempDir(), "jamp-mpv-"+uuid.NewString()+".sock")
	}

	args := append(BaseArgs(socket), opts.Args...)
	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", jerrors.ErrEngineUnavailable, err)
	}
	logger.Info("started mpv", zap.String("path", bin), zap.Int("pid", cmd.Process.Pid), zap.String("socket", socket))

	proc := &process{cmd: cmd, socket: socket, exited: make(chan error, 1)}
	go func() { proc.exited <- cmd.Wait() }()

	conn, err := waitForSocket(ctx, socket, timeout, proc.exited)
	if err != nil {
		_ = cmd.Process.Kill()
		if generated {
			_ = os.Remove(socket)
		}
		return nil, fmt.Errorf("%w: %w", jerrors.ErrEngineUnavailable, err)
	}

	e := Attach(conn, logger)
	e.proc = proc
	return e, nil
}

// BaseArgs returns the arguments jamp always passes to mpv.
func BaseArgs(socket string) []string {
	return []string{
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--input-ipc-server=" + socket,
	}
}

func waitForSocket(ctx context.Context, socket string, timeout time.Duration, exited <-chan error) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		conn, err := dial(socket)
		if err == nil {
			return conn, nil
		}
		select {
		case err := <-exited:
			if err == nil {
				err = errors.New("exited")
			}
			return nil, fmt.Errorf("mpv exited before opening %s: %w", socket, err)
		case <-ctx.Done():
			return nil, fmt.Errorf("mpv socket %s did not appear: %w", socket, ctx.Err())
		case <-ticker.C:
		}
	}
}

func dial(socket string) (net.Conn, error) {
	return net.DialTimeout("unix", socket, time.Second)
}
