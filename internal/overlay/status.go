package overlay

import (
	"os"
	"strconv"
	"strings"
)

// Status is the persisted overlay state marker. It mirrors the supervisor's
// last known state so a restarted host can recover a best-effort view of
// liveness when no in-memory handle exists.
type Status string

const (
	StatusReady   Status = "ready"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// WriteStatus persists the marker. Best effort; the error is for logging.
func WriteStatus(path string, status Status) error {
	return os.WriteFile(path, []byte(status), 0o644)
}

// ReadStatus loads the marker, reporting ok=false when absent or empty.
func ReadStatus(path string) (Status, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", false
	}
	return Status(value), true
}

// WritePid persists the overlay process id.
func WritePid(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644)
}

// ReadPid loads the persisted process id, reporting ok=false when absent or
// malformed.
func ReadPid(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
