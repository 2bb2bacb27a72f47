package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"modlay/internal/tools"
	"modlay/internal/tui"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running overlay process",
		RunE:  runStop,
	}
}

func runStop(cmd *cobra.Command, _ []string) error {
	env, err := newCmdEnv("stop")
	if err != nil {
		return err
	}
	defer env.Close()

	// The helper binary is not needed to stop; discovery failure leaves the
	// zero value and the supervisor still sweeps by executable name.
	t, err := env.locateTools()
	if err != nil {
		t = tools.Tools{}
	}
	sup := env.newSupervisor(t)

	var sw *tui.StatusWriter
	if tui.DetectMode(cmd.OutOrStdout(), false, outputJSON) == tui.ModeTUI {
		sw = tui.NewStatusWriter(cmd.OutOrStdout(), "stopping overlay")
	}
	stopErr := sup.Stop()
	if sw != nil {
		sw.Stop()
	}
	if stopErr != nil {
		return stopErr
	}

	if outputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), `{"status": "stopped"}`)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Overlay stopped.")
	return nil
}
