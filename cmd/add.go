package cmd

import (
	"fmt"
	"os"

	"jvdveen/dealwatch/internal/deal"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a manually curated deal",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().String("name", "", "Product name (required)")
	addCmd.Flags().String("brand", "", "Brand (required)")
	addCmd.Flags().String("retailer", "", "Retailer (required)")
	addCmd.Flags().Float64("price", 0, "Current price (required)")
	addCmd.Flags().Float64("original-price", 0, "Original price before discount")
	addCmd.Flags().String("url", "", "Product page URL (required)")
	addCmd.Flags().String("image-url", "", "Product image URL")
	addCmd.Flags().StringSlice("size", nil, "Available size (repeatable)")
	addCmd.Flags().String("category", "", "Category (defaults to Fashion)")
	addCmd.Flags().String("gender", "", "Gender (defaults to Unisex)")
	addCmd.Flags().String("notes", "", "Curator notes")
	addCmd.Flags().String("affiliate-link", "", "Affiliate link")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	brand, _ := cmd.Flags().GetString("brand")
	retailer, _ := cmd.Flags().GetString("retailer")
	price, _ := cmd.Flags().GetFloat64("price")
	url, _ := cmd.Flags().GetString("url")
	imageURL, _ := cmd.Flags().GetString("image-url")
	sizes, _ := cmd.Flags().GetStringSlice("size")
	category, _ := cmd.Flags().GetString("category")
	gender, _ := cmd.Flags().GetString("gender")
	notes, _ := cmd.Flags().GetString("notes")
	affiliateLink, _ := cmd.Flags().GetString("affiliate-link")

	d := deal.Deal{
		ProductName:    name,
		Brand:          brand,
		Retailer:       retailer,
		CurrentPrice:   price,
		ProductURL:     url,
		ImageURL:       imageURL,
		SizesAvailable: sizes,
		Category:       category,
		Gender:         gender,
		Notes:          notes,
		AffiliateLink:  affiliateLink,
	}
	if originalPrice, _ := cmd.Flags().GetFloat64("original-price"); originalPrice > 0 {
		d.OriginalPrice = &originalPrice
	}

	added, err := st.Add(d)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Added %s\n", added.ID)
	printDealsTable([]deal.Deal{added})
	return nil
}
