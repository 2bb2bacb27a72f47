package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	stateRoot  string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modlay",
		Short: "Mod activation and overlay lifecycle manager",
	}

	cmd.PersistentFlags().StringVar(&stateRoot, "root", "", "Path to the state root directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newActivateCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newGameCmd())

	return cmd
}
