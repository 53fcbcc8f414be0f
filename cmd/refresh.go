package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [id ...]",
	Short: "Re-check live prices and availability for stored deals",
	Long:  "Re-checks live prices for the given deal ids, or for every deal when none are given. Deals that cannot be refreshed keep their stored price.",
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx := context.Background()
	refresher, cleanup := newRefresher(ctx, st)
	defer cleanup()

	results, err := refresher.Refresh(ctx, args)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Fprintf(os.Stdout, "%s: %s\n", id, results[id])
	}
	fmt.Fprintf(os.Stdout, "\nChecked %d deal(s)\n", len(results))
	return nil
}
