package scraper

import (
	"net/http"
	"strings"
)

// Out-of-stock phrases, English and Dutch. Matching is plain substring
// containment over the lowercased body, no structural understanding.
var outOfStockPhrases = []string{
	"out of stock",
	"niet beschikbaar",
	"uitverkocht",
	"temporarily unavailable",
	"product not available",
	"sold out",
}

// Available reports whether the product on the page is purchasable. A
// phrase hit means unavailable; otherwise available iff the status was 200.
// A nil page (fetch failure) means unavailable.
func Available(page *Page) bool {
	if page == nil {
		return false
	}

	body := strings.ToLower(string(page.Body))
	for _, phrase := range outOfStockPhrases {
		if strings.Contains(body, phrase) {
			return false
		}
	}

	return page.StatusCode == http.StatusOK
}
