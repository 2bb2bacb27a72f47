package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"modlay/internal/modcache"
	"modlay/internal/overlay"
	"modlay/internal/session"
	"modlay/internal/tools"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the overlay state and cached mods",
		RunE:  runStatus,
	}
}

type statusPayload struct {
	Root          string   `json:"root"`
	Overlay       string   `json:"overlay"`
	Running       bool     `json:"running"`
	GamePath      string   `json:"game_path,omitempty"`
	SelectionHash string   `json:"selection_hash,omitempty"`
	Installed     []string `json:"installed"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	env, err := newCmdEnv("status")
	if err != nil {
		return err
	}
	defer env.Close()

	t, err := env.locateTools()
	if err != nil {
		t = tools.Tools{}
	}
	sup := env.newSupervisor(t)

	payload := statusPayload{Root: env.Layout.Root, Overlay: "absent"}
	if status, ok := overlay.ReadStatus(env.Layout.StatusFile); ok {
		payload.Overlay = string(status)
	}
	payload.Running = sup.Running()
	if game, ok := session.SavedGamePath(env.Layout); ok {
		payload.GamePath = game
	}
	if hash, ok := session.SavedSelectionHash(env.Layout); ok {
		payload.SelectionHash = hash
	}
	for key := range modcache.ScanExisting(env.Layout.InstalledDir, env.Logger) {
		payload.Installed = append(payload.Installed, key)
	}
	sort.Strings(payload.Installed)

	if outputJSON {
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode status json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "State root: %s\n", payload.Root)

	running := "no"
	if payload.Running {
		running = "yes"
	}
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "Overlay:\t%s (running: %s)\n", payload.Overlay, running)
	if payload.GamePath != "" {
		fmt.Fprintf(w, "Game:\t%s\n", payload.GamePath)
	}
	fmt.Fprintf(w, "Installed mods:\t%d\n", len(payload.Installed))
	w.Flush()

	for _, key := range payload.Installed {
		fmt.Fprintf(out, "  - %s\n", key)
	}
	return nil
}
