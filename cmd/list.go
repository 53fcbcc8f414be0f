package cmd

import (
	"encoding/json"
	"os"

	"jvdveen/dealwatch/internal/deal"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored deals",
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("status", deal.StatusActive, "Filter by status: active, out_of_stock, all")
	listCmd.Flags().String("sort", "", "Sort key: discount_percentage, added_date, price")
	listCmd.Flags().Float64("min-discount", 0, "Minimum discount percentage")
	listCmd.Flags().StringSlice("retailer", nil, "Filter by retailer (repeatable)")
	listCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	sortKey, err := deal.ParseSortKey(sortFlag)
	if err != nil {
		return err
	}

	status, _ := cmd.Flags().GetString("status")
	if status == "all" {
		status = ""
	}
	minDiscount, _ := cmd.Flags().GetFloat64("min-discount")
	retailers, _ := cmd.Flags().GetStringSlice("retailer")

	deals := st.Filtered(deal.Filter{
		Status:      status,
		MinDiscount: minDiscount,
		Retailers:   retailers,
	}, sortKey)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(deals)
	default:
		printDealsTable(deals)
	}

	return nil
}
