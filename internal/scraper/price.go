package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Per-retailer ordered CSS selector lists for the price element. Unknown
// retailers fall back to the generic list.
var priceSelectors = map[string][]string{
	"zalando": {
		`[data-testid="product-price"]`,
		".ui-text-price",
		`span[class*="price"]`,
	},
	"tommy_hilfiger": {
		".product-price",
		".price-current",
		`[data-testid="price"]`,
	},
	"bijenkorf": {
		".product-price",
		".price",
		`[class*="price"]`,
	},
}

var genericPriceSelectors = []string{
	`[class*="price"]`,
	`[id*="price"]`,
	".price",
	`span[class*="amount"]`,
}

// priceTokenPattern matches the leading numeric token of a price string
// after thousands separators are stripped.
var priceTokenPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// PriceSelectors returns the selector list for a retailer label
func PriceSelectors(retailer string) []string {
	if selectors, ok := priceSelectors[strings.ToLower(retailer)]; ok {
		return selectors
	}
	return genericPriceSelectors
}

// ExtractPrice walks the retailer's selector list over the page and
// returns the first parseable price. Any failure yields (0, false); this
// is a heuristic, not a reliable parser.
func ExtractPrice(page *Page, retailer string) (float64, bool) {
	if page == nil {
		return 0, false
	}

	doc, err := page.Document()
	if err != nil {
		return 0, false
	}

	for _, selector := range PriceSelectors(retailer) {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if price, ok := ParsePriceText(sel.Text()); ok {
			return price, true
		}
	}
	return 0, false
}

// ParsePriceText strips thousands separators and parses the first numeric
// token as a float
func ParsePriceText(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	token := priceTokenPattern.FindString(cleaned)
	if token == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
