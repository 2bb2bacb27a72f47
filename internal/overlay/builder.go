package overlay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modlay/internal/logx"
	"modlay/internal/tools"
)

const (
	buildAttempts   = 3
	buildRetryDelay = 500 * time.Millisecond
)

// BuildError is the terminal outcome of an exhausted build. ProtectionBlocked
// is sticky: a driver fingerprint on any attempt marks the whole build, even
// if a later attempt failed differently.
type BuildError struct {
	Message           string
	Attempts          int
	ProtectionBlocked bool
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("overlay build failed after %d attempts: %s", e.Attempts, e.Message)
}

// Builder merges a set of installed artifacts into one overlay profile via
// the external build tool.
type Builder struct {
	Tools  tools.Tools
	Runner tools.Runner
	Logger logx.Logger

	// NoTFT and IgnoreConflict toggle the crash-prevention flags. Both
	// default to on via config.
	NoTFT          bool
	IgnoreConflict bool

	// Sleep is swapped out in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

func (b *Builder) logf(format string, v ...any) {
	if b == nil || b.Logger == nil {
		return
	}
	b.Logger.Printf(format, v...)
}

func (b *Builder) sleep(d time.Duration) {
	if b.Sleep != nil {
		b.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Build runs the overlay tool over the given cache keys, writing the merged
// profile in place. The profile directory is deliberately not cleared first:
// the tool overwrites existing files and reuses what it can, which keeps
// re-activation with a similar selection fast.
//
// Up to three attempts are made with a fixed pause between them. The first
// clean exit wins; exhausting all attempts returns a BuildError carrying the
// last failure and the sticky protection classification. Each attempt is a
// full synchronous run with no timeout beyond the tool's own.
func (b *Builder) Build(ctx context.Context, installedDir, profileDir, gamePath string, keys []string) error {
	args := []string{
		"mkoverlay",
		installedDir,
		profileDir,
		"--game:" + gamePath,
		"--mods:" + strings.Join(keys, "/"),
	}
	if b.NoTFT {
		args = append(args, "--noTFT")
	}
	if b.IgnoreConflict {
		args = append(args, "--ignoreConflict")
	}

	var (
		lastMessage string
		blocked     bool
	)

	for attempt := 1; attempt <= buildAttempts; attempt++ {
		if attempt > 1 {
			b.logf("build: retrying, attempt %d/%d", attempt, buildAttempts)
			b.sleep(buildRetryDelay)
		}

		result, err := b.Runner.Run(ctx, b.Tools.ModTools, args, tools.RunOptions{})
		if err == nil {
			b.logf("build: completed on attempt %d", attempt)
			return nil
		}

		output := string(result.Stderr)
		if verdict := ClassifyOutput(output + string(result.Stdout)); verdict.Blocked {
			blocked = true
			b.logf("build: protection signature %q on attempt %d", verdict.Signature, attempt)
		}

		lastMessage = strings.TrimSpace(output)
		if lastMessage == "" {
			lastMessage = err.Error()
		}
		b.logf("build: attempt %d failed: %s", attempt, lastMessage)
	}

	return &BuildError{
		Message:           lastMessage,
		Attempts:          buildAttempts,
		ProtectionBlocked: blocked,
	}
}
