package overlay

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"sync"
)

// Handle is one live overlay process. The supervisor owns at most one.
type Handle interface {
	Pid() int

	// Exited reports whether the process has terminated and, if so, its
	// exit code. It never blocks.
	Exited() (bool, int)

	// RequestShutdown asks the process to exit by writing a single newline
	// to its standard input. The run tool treats that as a quit command.
	RequestShutdown() error

	// Kill force-terminates the process.
	Kill() error

	// Output returns the combined stdout/stderr captured so far.
	Output() string
}

// Spawner starts the long-running overlay process with piped standard
// streams.
type Spawner interface {
	Spawn(ctx context.Context, bin string, args []string) (Handle, error)
}

// ExecSpawner spawns real processes with os/exec.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(ctx context.Context, bin string, args []string) (Handle, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	out := &lockedBuffer{}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}

	h := &execHandle{cmd: cmd, stdin: stdin, out: out}
	go h.reap()
	return h, nil
}

type execHandle struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *lockedBuffer

	mu       sync.Mutex
	exited   bool
	exitCode int
}

func (h *execHandle) reap() {
	err := h.cmd.Wait()

	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		code = -1
	}

	h.mu.Lock()
	h.exited = true
	h.exitCode = code
	h.mu.Unlock()
}

func (h *execHandle) Pid() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *execHandle) Exited() (bool, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exited, h.exitCode
}

func (h *execHandle) RequestShutdown() error {
	// Pipes are unbuffered; the write itself is the flush.
	_, err := io.WriteString(h.stdin, "\n")
	return err
}

func (h *execHandle) Kill() error {
	if h.cmd.Process == nil {
		return nil
	}
	return h.cmd.Process.Kill()
}

func (h *execHandle) Output() string {
	return h.out.String()
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
