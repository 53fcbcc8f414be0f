package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show aggregate analytics over the collection",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	s := st.Summarize(cfg.StaleAfter)

	fmt.Fprintf(os.Stdout, "Active deals:     %d\n", s.ActiveCount)
	fmt.Fprintf(os.Stdout, "Average discount: %.1f%%\n", s.AverageDiscount)
	fmt.Fprintf(os.Stdout, "Total savings:    %s\n", formatPrice(s.TotalSavings))
	fmt.Fprintf(os.Stdout, "Stale deals:      %d\n", s.StaleCount)

	if len(s.PerRetailer) > 0 {
		fmt.Fprintln(os.Stdout, "\nPer retailer:")
		retailers := make([]string, 0, len(s.PerRetailer))
		for r := range s.PerRetailer {
			retailers = append(retailers, r)
		}
		sort.Strings(retailers)
		for _, r := range retailers {
			fmt.Fprintf(os.Stdout, "  %-20s %d\n", r, s.PerRetailer[r])
		}
	}

	return nil
}
