package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"modlay/internal/session"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Manage the game installation path",
	}
	cmd.AddCommand(newGameDetectCmd())
	cmd.AddCommand(newGameSetCmd())
	cmd.AddCommand(newGameClearCmd())
	return cmd
}

func newGameDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Find the game installation and save its path",
		RunE:  runGameDetect,
	}
}

func runGameDetect(cmd *cobra.Command, _ []string) error {
	env, err := newCmdEnv("game-detect")
	if err != nil {
		return err
	}
	defer env.Close()

	path, ok := session.DetectGamePath(env.Layout, env.Config, env.Logger)
	if !ok {
		return fmt.Errorf("game not found; install it or run 'modlay game set <path>'")
	}

	return writeGamePath(cmd, path)
}

func newGameSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path>",
		Short: "Save the game installation path",
		Args:  cobra.ExactArgs(1),
		RunE:  runGameSet,
	}
}

func runGameSet(cmd *cobra.Command, args []string) error {
	env, err := newCmdEnv("game-set")
	if err != nil {
		return err
	}
	defer env.Close()

	if err := session.SetGamePath(env.Layout, args[0], env.Config.Game.ExeName); err != nil {
		return err
	}
	saved, _ := session.SavedGamePath(env.Layout)
	return writeGamePath(cmd, saved)
}

func newGameClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved game path",
		RunE:  runGameClear,
	}
}

func runGameClear(cmd *cobra.Command, _ []string) error {
	env, err := newCmdEnv("game-clear")
	if err != nil {
		return err
	}
	defer env.Close()

	if err := session.ClearGamePath(env.Layout); err != nil {
		return err
	}

	if outputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), `{"status": "cleared"}`)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Game path cleared.")
	return nil
}

func writeGamePath(cmd *cobra.Command, path string) error {
	if outputJSON {
		out, err := json.Marshal(struct {
			GamePath string `json:"game_path"`
		}{path})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Game path: %s\n", path)
	return nil
}
