package overlay

import (
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessTable answers liveness questions against the OS process table. The
// supervisor consults it instead of trusting its in-memory handle alone, so a
// stale persisted marker never reports a crashed overlay as running.
type ProcessTable interface {
	// Alive reports whether the pid exists and runs the named executable.
	Alive(pid int, name string) bool

	// AnyRunning reports whether any process runs the named executable.
	AnyRunning(name string) bool

	// KillAll force-terminates every process running the named executable
	// and returns how many were signalled. Used to sweep orphans left by a
	// prior crash of the host.
	KillAll(name string) int
}

// SysProcessTable implements ProcessTable with gopsutil.
type SysProcessTable struct{}

func (SysProcessTable) Alive(pid int, name string) bool {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := p.IsRunning()
	if err != nil || !running {
		return false
	}
	procName, err := p.Name()
	if err != nil {
		// Pid exists but the name is unreadable; trust the pid.
		return true
	}
	return strings.EqualFold(procName, name)
}

func (SysProcessTable) AnyRunning(name string) bool {
	procs, err := process.Processes()
	if err != nil {
		return false
	}
	for _, p := range procs {
		if procName, err := p.Name(); err == nil && strings.EqualFold(procName, name) {
			return true
		}
	}
	return false
}

func (SysProcessTable) KillAll(name string) int {
	procs, err := process.Processes()
	if err != nil {
		return 0
	}
	killed := 0
	for _, p := range procs {
		procName, err := p.Name()
		if err != nil || !strings.EqualFold(procName, name) {
			continue
		}
		if err := p.Kill(); err == nil {
			killed++
		}
	}
	return killed
}

var _ ProcessTable = SysProcessTable{}
