package deal

import (
	"fmt"
	"math"
	"time"
)

// Deal statuses
const (
	StatusActive     = "active"
	StatusOutOfStock = "out_of_stock"
)

// Defaults for operator-entered records
const (
	DefaultCategory = "Fashion"
	DefaultGender   = "Unisex"
)

// Deal represents a curated product listing with pricing and status metadata
type Deal struct {
	ID                 string   `json:"id"`
	ProductName        string   `json:"product_name"`
	Brand              string   `json:"brand"`
	Retailer           string   `json:"retailer"`
	CurrentPrice       float64  `json:"current_price"`
	OriginalPrice      *float64 `json:"original_price,omitempty"`
	ProductURL         string   `json:"product_url"`
	ImageURL           string   `json:"image_url,omitempty"`
	SizesAvailable     []string `json:"sizes_available,omitempty"`
	Category           string   `json:"category"`
	Gender             string   `json:"gender"`
	ManuallyAdded      bool     `json:"manually_added"`
	AddedDate          string   `json:"added_date"`
	LastChecked        string   `json:"last_checked"`
	Status             string   `json:"status"`
	Notes              string   `json:"notes"`
	AffiliateLink      string   `json:"affiliate_link,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage"`
}

// NewID derives a deal identifier from the retailer, the record's position
// in the collection and the creation time.
func NewID(retailer string, position int, now time.Time) string {
	return fmt.Sprintf("%s_%d_%d", retailer, position, now.Unix())
}

// CalculateDiscount returns the discount percentage rounded to one decimal,
// or nil when there is no original price or it does not exceed the current price.
func CalculateDiscount(originalPrice *float64, currentPrice float64) *float64 {
	if originalPrice == nil || *originalPrice <= currentPrice {
		return nil
	}
	pct := math.Round(((*originalPrice-currentPrice)/(*originalPrice))*1000) / 10
	return &pct
}

// RecomputeDiscount re-derives the discount percentage from the current
// price fields. Every price mutation must go through this.
func (d *Deal) RecomputeDiscount() {
	d.DiscountPercentage = CalculateDiscount(d.OriginalPrice, d.CurrentPrice)
}

// Discount returns the discount percentage with nil treated as zero
func (d *Deal) Discount() float64 {
	if d.DiscountPercentage == nil {
		return 0
	}
	return *d.DiscountPercentage
}

// Savings returns original minus current price, or zero without an original price
func (d *Deal) Savings() float64 {
	if d.OriginalPrice == nil {
		return 0
	}
	return *d.OriginalPrice - d.CurrentPrice
}

// Timestamp layouts accepted when parsing record fields. Files written by
// earlier tooling carry bare ISO timestamps without a zone.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// Now formats the current time the way record timestamps are stored
func Now() string {
	return time.Now().Format(time.RFC3339)
}

// ParseTimestamp parses a stored record timestamp
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// CheckedBefore reports whether the deal was last checked before the cutoff.
// A missing or unparsable last_checked counts as before (stale by default).
func (d *Deal) CheckedBefore(cutoff time.Time) bool {
	lastChecked, err := ParseTimestamp(d.LastChecked)
	if err != nil {
		return true
	}
	return lastChecked.Before(cutoff)
}
