// Package session ties the cache, importer, builder and supervisor together
// into the user-facing operations: activating a selection of mods, stopping
// the overlay, and reporting diagnostics.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"modlay/internal/logx"
	"modlay/internal/modcache"
	"modlay/internal/overlay"
	"modlay/internal/paths"
)

// Reporter receives progress callbacks during an activation so the CLI can
// render a live table. Callbacks arrive on the activating goroutine.
type Reporter interface {
	Importing(sel modcache.Selection)
	Imported(sel modcache.Selection, res modcache.ImportResult)
	Building(keys []string)
	Starting()
}

// NoopReporter discards all progress events.
type NoopReporter struct{}

func (NoopReporter) Importing(modcache.Selection)                       {}
func (NoopReporter) Imported(modcache.Selection, modcache.ImportResult) {}
func (NoopReporter) Building([]string)                                  {}
func (NoopReporter) Starting()                                          {}

// ActivationError is the single failure surface of Activate. Import problems
// never produce one; only an empty surviving selection, a failed build or a
// failed overlay start do.
type ActivationError struct {
	Stage             string // "import", "build" or "start"
	ProtectionBlocked bool
	Err               error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activation failed during %s: %v", e.Stage, e.Err)
}

func (e *ActivationError) Unwrap() error { return e.Err }

// ActivationResult summarizes a successful activation.
type ActivationResult struct {
	Results    []modcache.ImportResult
	ActiveKeys []string
	Skipped    int
	Hash       string
}

// Session executes activations over a fixed set of collaborators. Callers
// serialize calls to Activate; the supervisor's handle slot is the only
// internally locked state.
type Session struct {
	Layout     paths.Layout
	Importer   *modcache.Importer
	Builder    *overlay.Builder
	Supervisor *overlay.Supervisor
	Logger     logx.Logger
}

func (s *Session) logf(format string, v ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Printf(format, v...)
}

// Activate runs the full pipeline: reconcile the installed-artifacts
// directory, import every selection, merge the survivors into the overlay
// profile and launch the overlay process. Selections that fail to import are
// dropped and the rest continue; build and start failures abort. On success
// the selection hash is persisted so an unchanged selection can be recognized
// later.
func (s *Session) Activate(ctx context.Context, gamePath string, selections []modcache.Selection, rep Reporter) (*ActivationResult, error) {
	if rep == nil {
		rep = NoopReporter{}
	}

	idx, err := modcache.LoadIndex(s.Layout.IndexFile)
	if err != nil {
		return nil, &ActivationError{Stage: "import", Err: err}
	}

	// The directory scan reconciles trees that predate the index and clears
	// transients and duplicates before any import runs.
	for key, path := range modcache.ScanExisting(s.Layout.InstalledDir, s.Logger) {
		if _, ok := idx.Get(key); !ok {
			idx.Set(modcache.Entry{Key: key, Path: path, ImportedAt: time.Now().UTC()})
		}
	}

	result := &ActivationResult{}
	seen := map[string]bool{}

	for _, sel := range selections {
		rep.Importing(sel)
		res := s.Importer.EnsureImported(ctx, idx, sel, gamePath)
		rep.Imported(sel, res)
		result.Results = append(result.Results, res)

		if res.Status == modcache.ImportSkipped {
			result.Skipped++
			continue
		}
		// Two selections resolving to the same key activate once.
		if seen[res.Key] {
			continue
		}
		seen[res.Key] = true
		result.ActiveKeys = append(result.ActiveKeys, res.Key)
	}

	if err := modcache.SaveIndex(s.Layout.IndexFile, idx); err != nil {
		s.logf("activate: persist index: %v", err)
	}

	if len(result.ActiveKeys) == 0 {
		return nil, &ActivationError{
			Stage: "import",
			Err:   fmt.Errorf("no usable mods: all %d selection(s) were skipped", len(selections)),
		}
	}

	rep.Building(result.ActiveKeys)
	if err := s.Builder.Build(ctx, s.Layout.InstalledDir, s.Layout.ProfileDir, gamePath, result.ActiveKeys); err != nil {
		actErr := &ActivationError{Stage: "build", Err: err}
		var buildErr *overlay.BuildError
		if errors.As(err, &buildErr) {
			actErr.ProtectionBlocked = buildErr.ProtectionBlocked
		}
		return nil, actErr
	}

	rep.Starting()
	if err := s.Supervisor.Start(ctx, gamePath); err != nil {
		actErr := &ActivationError{Stage: "start", Err: err}
		var startErr *overlay.StartError
		if errors.As(err, &startErr) {
			actErr.ProtectionBlocked = startErr.ProtectionBlocked
		}
		return nil, actErr
	}

	result.Hash = SelectionHash(result.ActiveKeys)
	if err := os.WriteFile(s.Layout.SelectionHashFile, []byte(result.Hash), 0o644); err != nil {
		s.logf("activate: persist selection hash: %v", err)
	}

	s.logf("activate: %d active, %d skipped", len(result.ActiveKeys), result.Skipped)
	return result, nil
}

// Deactivate stops the overlay process. Artifacts and the built profile stay
// on disk for the next activation.
func (s *Session) Deactivate() error {
	return s.Supervisor.Stop()
}

// SelectionHash derives a stable fingerprint for an ordered set of active
// cache keys.
func SelectionHash(keys []string) string {
	sum := sha256.Sum256([]byte(strings.Join(keys, "/")))
	return hex.EncodeToString(sum[:])
}

// SavedSelectionHash reads the fingerprint persisted by the last successful
// activation, if any.
func SavedSelectionHash(l paths.Layout) (string, bool) {
	data, err := os.ReadFile(l.SelectionHashFile)
	if err != nil {
		return "", false
	}
	hash := strings.TrimSpace(string(data))
	return hash, hash != ""
}
