package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List deals whose last check is older than the stale window",
	RunE:  runStale,
}

func init() {
	staleCmd.Flags().Float64("hours", 0, "Stale window in hours (defaults to STALE_AFTER_HOURS)")
	rootCmd.AddCommand(staleCmd)
}

func runStale(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	maxAge := cfg.StaleAfter
	if hours, _ := cmd.Flags().GetFloat64("hours"); hours > 0 {
		maxAge = time.Duration(hours * float64(time.Hour))
	}

	printDealsTable(st.Stale(maxAge))
	return nil
}
