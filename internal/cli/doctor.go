package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"modlay/internal/session"
	"modlay/internal/tools"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check overlay and cache health",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	env, err := newCmdEnv("doctor")
	if err != nil {
		return err
	}
	defer env.Close()

	t, toolErr := env.locateTools()
	if toolErr != nil {
		t = tools.Tools{}
	}
	d := session.CollectDiagnostics(env.Layout, env.Config, t, env.newSupervisor(t))

	checks := []healthCheck{
		checkTools(d, toolErr),
		checkBridge(d),
		checkGame(d),
		checkOverlay(d),
		checkCache(d),
	}

	return writeDoctorResult(cmd, env.Layout.Root, checks)
}

func checkTools(d session.Diagnostics, toolErr error) healthCheck {
	if !d.ToolFound {
		summary := "mod-tools binary not found"
		if toolErr != nil {
			summary = toolErr.Error()
		}
		return healthCheck{Name: "Tools", Status: "error", Summary: summary}
	}
	return healthCheck{Name: "Tools", Status: "ok", Summary: d.ToolPath}
}

func checkBridge(d session.Diagnostics) healthCheck {
	if !d.ToolFound {
		return healthCheck{Name: "Bridge", Status: "warning", Summary: "skipped, tools missing"}
	}
	if !d.Bridge {
		return healthCheck{Name: "Bridge", Status: "warning", Summary: tools.BridgeName + " missing; injection may fail"}
	}
	return healthCheck{Name: "Bridge", Status: "ok", Summary: tools.BridgeName}
}

func checkGame(d session.Diagnostics) healthCheck {
	if d.GamePath == "" {
		return healthCheck{Name: "Game", Status: "error", Summary: "no game path saved or configured"}
	}
	if !d.GamePathValid {
		return healthCheck{Name: "Game", Status: "error", Summary: "stale path: " + d.GamePath}
	}
	return healthCheck{Name: "Game", Status: "ok", Summary: d.GamePath}
}

func checkOverlay(d session.Diagnostics) healthCheck {
	switch {
	case d.OverlayRunning:
		return healthCheck{Name: "Overlay", Status: "ok", Summary: "running"}
	case d.OverlayStatus == "running":
		// Marker says running but nothing is; a crash left it behind.
		return healthCheck{Name: "Overlay", Status: "warning", Summary: "marker says running, process not found"}
	default:
		return healthCheck{Name: "Overlay", Status: "ok", Summary: d.OverlayStatus}
	}
}

func checkCache(d session.Diagnostics) healthCheck {
	summary := fmt.Sprintf("%d mod(s), %d profile file(s), %s",
		d.InstalledMods, d.ProfileFiles, formatSize(d.CacheSizeBytes+d.ProfileSizeBytes))
	return healthCheck{Name: "Cache", Status: "ok", Summary: summary}
}

func writeDoctorResult(cmd *cobra.Command, root string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("OVERLAY HEALTH:")+" "+root)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-10s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}
