package overlay

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"modlay/internal/logx"
	"modlay/internal/paths"
	"modlay/internal/tools"
)

// probeDelay is how long Start waits before checking whether the freshly
// spawned process already died, and how long Stop grants for a graceful exit.
const probeDelay = 500 * time.Millisecond

// StartError describes a failed overlay launch. ImmediateExit means the
// process died within the probe window instead of settling into its watch
// loop.
type StartError struct {
	Message           string
	ImmediateExit     bool
	ExitCode          int
	ProtectionBlocked bool
}

func (e *StartError) Error() string {
	if e.ImmediateExit {
		return fmt.Sprintf("overlay exited immediately (code %d): %s", e.ExitCode, e.Message)
	}
	return "overlay start failed: " + e.Message
}

// Supervisor owns the single long-running overlay process. All handle access
// goes through the mutex so concurrent starts or stops never leak a process.
type Supervisor struct {
	Layout paths.Layout
	Tools  tools.Tools
	Runner Spawner
	Table  ProcessTable
	Logger logx.Logger

	// Sleep is swapped out in tests; nil means time.Sleep.
	Sleep func(time.Duration)

	mu     sync.Mutex
	handle Handle
}

func (s *Supervisor) logf(format string, v ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Printf(format, v...)
}

func (s *Supervisor) sleep(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Start launches the overlay process over the built profile and waits a short
// probe window to catch immediate crashes. On success the previous handle, if
// any, is killed and replaced, and the running marker and pid file are
// persisted for later sessions.
func (s *Supervisor) Start(ctx context.Context, gamePath string) error {
	// The run tool requires the config file to exist even when empty.
	if err := os.WriteFile(s.Layout.ProfileConfigFile, nil, 0o644); err != nil {
		return &StartError{Message: "write profile config: " + err.Error()}
	}
	if err := WriteStatus(s.Layout.StatusFile, StatusReady); err != nil {
		return &StartError{Message: "write status marker: " + err.Error()}
	}

	// A missing bridge DLL degrades injection but the tool copes, so this
	// is informational only.
	if !s.Tools.HasBridge() {
		s.logf("start: bridge library missing at %s", s.Tools.BridgePath())
	}

	args := []string{
		"runoverlay",
		s.Layout.ProfileDir,
		s.Layout.ProfileConfigFile,
		"--game:" + gamePath,
		"--opts:none",
	}
	handle, err := s.Runner.Spawn(ctx, s.Tools.ModTools, args)
	if err != nil {
		return &StartError{Message: err.Error()}
	}
	s.logf("start: spawned overlay pid %d", handle.Pid())

	s.sleep(probeDelay)

	if exited, code := handle.Exited(); exited {
		output := strings.TrimSpace(handle.Output())
		blocked := BlockedExitCode(code) || ClassifyOutput(output).Blocked
		message := output
		if message == "" {
			message = fmt.Sprintf("exit code %d", code)
		}
		s.logf("start: overlay died during probe, code %d blocked=%v", code, blocked)
		return &StartError{
			Message:           message,
			ImmediateExit:     true,
			ExitCode:          code,
			ProtectionBlocked: blocked,
		}
	}

	s.mu.Lock()
	if s.handle != nil {
		s.logf("start: replacing previous overlay pid %d", s.handle.Pid())
		s.handle.Kill()
	}
	s.handle = handle
	s.mu.Unlock()

	if err := WritePid(s.Layout.PidFile, handle.Pid()); err != nil {
		s.logf("start: persist pid: %v", err)
	}
	if err := WriteStatus(s.Layout.StatusFile, StatusRunning); err != nil {
		s.logf("start: persist status: %v", err)
	}
	return nil
}

// Stop shuts down the tracked overlay process, preferring the graceful stdin
// quit before force-killing, then sweeps the process table for orphans from
// earlier sessions. Stopping when nothing runs is not an error. Built profile
// files are left in place so the next activation can reuse them.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	handle := s.handle
	s.handle = nil
	s.mu.Unlock()

	if handle != nil {
		s.logf("stop: shutting down overlay pid %d", handle.Pid())
		if err := handle.RequestShutdown(); err != nil {
			s.logf("stop: graceful request failed: %v", err)
		}
		s.sleep(probeDelay)
		if exited, _ := handle.Exited(); !exited {
			s.logf("stop: overlay still alive, killing")
			if err := handle.Kill(); err != nil {
				s.logf("stop: kill: %v", err)
			}
		}
	}

	if s.Table != nil {
		if n := s.Table.KillAll(tools.BinaryName()); n > 0 {
			s.logf("stop: swept %d orphaned overlay process(es)", n)
		}
	}

	if err := WriteStatus(s.Layout.StatusFile, StatusStopped); err != nil {
		return fmt.Errorf("write status marker: %w", err)
	}
	return nil
}

// Running reports whether an overlay process is live. The tracked handle is
// authoritative when present; otherwise the persisted marker is trusted only
// if the process table confirms a matching process, so a crash after the last
// session never reads as running.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	name := tools.BinaryName()

	if handle != nil {
		if exited, _ := handle.Exited(); !exited {
			return true
		}
		if s.Table != nil && s.Table.Alive(handle.Pid(), name) {
			return true
		}
		return false
	}

	status, ok := ReadStatus(s.Layout.StatusFile)
	if !ok || status != StatusRunning {
		return false
	}
	if s.Table == nil {
		return false
	}
	if pid, ok := ReadPid(s.Layout.PidFile); ok {
		return s.Table.Alive(pid, name)
	}
	return s.Table.AnyRunning(name)
}
