package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"modlay/internal/modcache"
	"modlay/internal/overlay"
	"modlay/internal/session"
	"modlay/internal/tools"
	"modlay/internal/tui"
)

func newActivateCmd() *cobra.Command {
	var (
		names      []string
		gameFlag   string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "activate <source>...",
		Short: "Import the given mods and launch the overlay",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivate(cmd, args, names, gameFlag, noProgress)
		},
	}

	cmd.Flags().StringArrayVar(&names, "name", nil, "Display name for the source at the same position")
	cmd.Flags().StringVar(&gameFlag, "game", "", "Game directory (overrides detection)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the interactive progress table")

	return cmd
}

func runActivate(cmd *cobra.Command, args, names []string, gameFlag string, noProgress bool) error {
	env, err := newCmdEnv("activate")
	if err != nil {
		return err
	}
	defer env.Close()

	t, err := env.locateTools()
	if err != nil {
		return fmt.Errorf("%w; place the helper binary in a managers directory or set tools.dir in %s",
			err, env.Layout.ConfigFile)
	}

	gamePath := gameFlag
	if gamePath == "" {
		detected, ok := session.DetectGamePath(env.Layout, env.Config, env.Logger)
		if !ok {
			return fmt.Errorf("game directory not found; run 'modlay game set <path>' or pass --game")
		}
		gamePath = detected
	}

	selections := buildSelections(args, names)
	s := newPipeline(env, t)

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)

	var result *session.ActivationResult
	var actErr error

	if mode == tui.ModeTUI {
		keys := make([]string, len(selections))
		rowNames := make([]string, len(selections))
		for i, sel := range selections {
			keys[i] = tui.RowKey(sel)
			rowNames[i] = sel.DisplayName
		}
		model := tui.NewActivationModel(keys, rowNames)

		runErr := tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
			result, actErr = s.Activate(cmd.Context(), gamePath, selections, tui.NewActivationReporter(send))
			if actErr != nil {
				send(tui.ErrorMsg{Err: actErr})
			}
		})
		if runErr != nil && actErr == nil {
			actErr = runErr
		}
	} else {
		result, actErr = s.Activate(cmd.Context(), gamePath, selections, nil)
	}

	if actErr != nil {
		return describeActivationError(actErr)
	}

	if outputJSON {
		return writeActivateJSON(cmd, gamePath, result)
	}
	if mode != tui.ModeTUI {
		writeActivateTable(cmd, result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Overlay running with %d mod(s), %d skipped.\n",
		len(result.ActiveKeys), result.Skipped)
	return nil
}

// buildSelections pairs positional sources with --name overrides, defaulting
// the display name to the file or directory name.
func buildSelections(args, names []string) []modcache.Selection {
	selections := make([]modcache.Selection, 0, len(args))
	for i, src := range args {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		if name == "" {
			base := filepath.Base(strings.ReplaceAll(src, `\`, "/"))
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		selections = append(selections, modcache.Selection{
			DisplayName: name,
			SourcePath:  src,
			IsCustom:    i < len(names) && names[i] != "",
		})
	}
	return selections
}

func newPipeline(env *cmdEnv, t tools.Tools) *session.Session {
	runner := tools.CmdRunner{}
	return &session.Session{
		Layout: env.Layout,
		Importer: &modcache.Importer{
			InstalledDir: env.Layout.InstalledDir,
			Tools:        t,
			Runner:       runner,
			Logger:       env.Logger,
		},
		Builder: &overlay.Builder{
			Tools:          t,
			Runner:         runner,
			Logger:         env.Logger,
			NoTFT:          env.Config.Overlay.NoTFTValue(),
			IgnoreConflict: env.Config.Overlay.IgnoreConflictValue(),
		},
		Supervisor: env.newSupervisor(t),
		Logger:     env.Logger,
	}
}

// describeActivationError turns a pipeline failure into an actionable message.
func describeActivationError(err error) error {
	var actErr *session.ActivationError
	if errors.As(err, &actErr) && actErr.ProtectionBlocked {
		return fmt.Errorf("%w\nthe game's protection driver blocked the overlay; close the game client fully and try again", err)
	}
	return err
}

func writeActivateTable(cmd *cobra.Command, result *session.ActivationResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "MOD\tSTATUS\tDETAIL")
	for _, res := range result.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", res.Key, res.Status, tui.NonEmptyOrDash(res.Reason))
	}
	w.Flush()
}

func writeActivateJSON(cmd *cobra.Command, gamePath string, result *session.ActivationResult) error {
	payload := struct {
		GamePath   string                  `json:"game_path"`
		ActiveKeys []string                `json:"active_keys"`
		Skipped    int                     `json:"skipped"`
		Hash       string                  `json:"selection_hash"`
		Results    []modcache.ImportResult `json:"results"`
	}{
		GamePath:   gamePath,
		ActiveKeys: result.ActiveKeys,
		Skipped:    result.Skipped,
		Hash:       result.Hash,
		Results:    result.Results,
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode activate json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
