package cmd

import (
	"fmt"
	"os"
	"strings"

	"jvdveen/dealwatch/internal/deal"
)

// printDealsTable prints deals in a human-friendly card layout.
func printDealsTable(deals []deal.Deal) {
	if len(deals) == 0 {
		fmt.Fprintln(os.Stdout, "No deals found")
		return
	}

	for i, d := range deals {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		name := d.ProductName
		if d.Status == deal.StatusOutOfStock {
			name += " [OUT OF STOCK]"
		}
		fmt.Fprintf(os.Stdout, " %d. %s - %s\n", i+1, d.Brand, name)

		// Price line with optional original price and discount
		priceLine := "    Price: " + formatPrice(d.CurrentPrice)
		if d.OriginalPrice != nil && d.DiscountPercentage != nil {
			priceLine += fmt.Sprintf("  (was %s, -%.1f%%)", formatPrice(*d.OriginalPrice), *d.DiscountPercentage)
		}
		priceLine += "  |  " + d.Retailer
		fmt.Fprintln(os.Stdout, priceLine)

		if len(d.SizesAvailable) > 0 {
			fmt.Fprintf(os.Stdout, "    Sizes: %s\n", strings.Join(d.SizesAvailable, ", "))
		}
		if d.Notes != "" {
			fmt.Fprintf(os.Stdout, "    Notes: %s\n", d.Notes)
		}
		fmt.Fprintf(os.Stdout, "    %s  (%s)\n", d.ProductURL, d.ID)
	}
}

// formatPrice formats a price as "€89.99".
func formatPrice(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}
