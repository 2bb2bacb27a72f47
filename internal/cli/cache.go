package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"modlay/internal/modcache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the mod cache",
	}
	cmd.AddCommand(newCacheInfoCmd())
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheDeleteCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cached artifacts and their sizes",
		RunE:  runCacheInfo,
	}
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	env, err := newCmdEnv("cache-info")
	if err != nil {
		return err
	}
	defer env.Close()

	info := modcache.CollectInfo(env.Layout)

	if outputJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encode cache info json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cache: %s (%s in %d item(s))\n",
		info.Path, formatSize(info.TotalBytes), info.FileCount)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
	for _, f := range info.Files {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, formatSize(f.SizeBytes), f.Modified.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached mods and the built overlay",
		RunE:  runCacheClear,
	}
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	env, err := newCmdEnv("cache-clear")
	if err != nil {
		return err
	}
	defer env.Close()

	// Clearing under a live overlay would pull files out from under it.
	if t, terr := env.locateTools(); terr == nil {
		if sup := env.newSupervisor(t); sup.Running() {
			if err := sup.Stop(); err != nil {
				return fmt.Errorf("stop overlay before clearing: %w", err)
			}
		}
	}

	if err := modcache.ClearAll(env.Layout, env.Logger); err != nil {
		return err
	}

	if outputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), `{"status": "cleared"}`)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	return nil
}

func newCacheDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove one cached mod by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runCacheDelete,
	}
}

func runCacheDelete(cmd *cobra.Command, args []string) error {
	env, err := newCmdEnv("cache-delete")
	if err != nil {
		return err
	}
	defer env.Close()

	idx, err := modcache.LoadIndex(env.Layout.IndexFile)
	if err != nil {
		return err
	}

	removed := modcache.DeleteArtifact(env.Layout, idx, args[0], env.Logger)
	if removed > 0 {
		if err := modcache.SaveIndex(env.Layout.IndexFile, idx); err != nil {
			env.Logger.Printf("cache delete: persist index: %v", err)
		}
	}

	if outputJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "{\"removed\": %d}\n", removed)
		return nil
	}
	if removed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing cached under %q.\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached item(s) for %q.\n", removed, args[0])
	return nil
}

// formatSize renders a byte count for table output.
func formatSize(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
