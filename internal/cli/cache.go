package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the local response cache",
}

var cacheGCCmd = &cobra.Command{
	Use:   "gc",
	Short: "Reclaim space from expired cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		n, err := store.CollectGarbage()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %d value log file(s)\n", n)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop every cached response, keeping bookmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if err := store.PurgeCache(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache purged.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheGCCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
