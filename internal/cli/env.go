package cli

import (
	"io"

	"modlay/internal/config"
	"modlay/internal/logx"
	"modlay/internal/overlay"
	"modlay/internal/paths"
	"modlay/internal/tools"
)

// cmdEnv bundles the state every command resolves on startup: the on-disk
// layout, the loaded config and a per-command file logger.
type cmdEnv struct {
	Layout paths.Layout
	Config config.Config
	Logger logx.Logger

	closer io.Closer
}

// newCmdEnv resolves the layout from the --root flag, ensures the directory
// tree and opens the command's log file. Logging failures degrade to a noop
// logger rather than blocking the command.
func newCmdEnv(command string) (*cmdEnv, error) {
	l, err := paths.Resolve(stateRoot)
	if err != nil {
		return nil, err
	}
	if err := l.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(l.ConfigFile)
	if err != nil {
		return nil, err
	}

	env := &cmdEnv{Layout: l, Config: cfg, Logger: logx.Noop{}}
	if logger, closer, err := logx.New(l.LogsDir, command); err == nil {
		env.Logger = logger
		env.closer = closer
	}
	return env, nil
}

// Close releases the command log file.
func (e *cmdEnv) Close() {
	if e.closer != nil {
		e.closer.Close()
	}
}

// locateTools resolves the external helper binary, honoring the config
// override.
func (e *cmdEnv) locateTools() (tools.Tools, error) {
	return tools.Locate(e.Config.Tools.Dir)
}

// newSupervisor builds the overlay supervisor over the real process table.
func (e *cmdEnv) newSupervisor(t tools.Tools) *overlay.Supervisor {
	return &overlay.Supervisor{
		Layout: e.Layout,
		Tools:  t,
		Runner: overlay.ExecSpawner{},
		Table:  overlay.SysProcessTable{},
		Logger: e.Logger,
	}
}
