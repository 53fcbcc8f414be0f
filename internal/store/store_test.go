package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jvdveen/dealwatch/internal/deal"
	"jvdveen/dealwatch/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "deals.json"))
	assert.NoError(t, err)
	return s
}

func newDeal(name, retailer string, price float64) deal.Deal {
	return deal.Deal{
		ProductName:  name,
		Brand:        "Testbrand",
		Retailer:     retailer,
		CurrentPrice: price,
		ProductURL:   "https://example.com/p/" + name,
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Count())
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deals.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeStore))
}

func TestAddAssignsDerivedFields(t *testing.T) {
	s := newTestStore(t)

	in := newDeal("Oxford Shirt", "Zalando", 39.99)
	in.OriginalPrice = floatPtr(79.99)

	added, err := s.Add(in)
	assert.NoError(t, err)
	assert.Contains(t, added.ID, "Zalando_0_")
	assert.True(t, added.ManuallyAdded)
	assert.Equal(t, deal.StatusActive, added.Status)
	assert.Equal(t, deal.DefaultCategory, added.Category)
	assert.Equal(t, deal.DefaultGender, added.Gender)
	assert.NotEmpty(t, added.AddedDate)
	assert.NotNil(t, added.DiscountPercentage)
	assert.InDelta(t, 50.0, *added.DiscountPercentage, 0.001)

	// Persisted to disk as a JSON array
	data, err := os.ReadFile(s.Path())
	assert.NoError(t, err)
	var onDisk []deal.Deal
	assert.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk, 1)
	assert.Equal(t, added.ID, onDisk[0].ID)
}

func TestAddValidation(t *testing.T) {
	s := newTestStore(t)

	testCases := []struct {
		name   string
		mutate func(*deal.Deal)
	}{
		{"missing product name", func(d *deal.Deal) { d.ProductName = "" }},
		{"missing brand", func(d *deal.Deal) { d.Brand = "" }},
		{"missing retailer", func(d *deal.Deal) { d.Retailer = "" }},
		{"missing url", func(d *deal.Deal) { d.ProductURL = "" }},
		{"zero price", func(d *deal.Deal) { d.CurrentPrice = 0 }},
		{"negative original price", func(d *deal.Deal) { d.OriginalPrice = floatPtr(-5) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDeal("Chinos", "Zalando", 25)
			tc.mutate(&d)
			_, err := s.Add(d)
			assert.True(t, errors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
	assert.Equal(t, 0, s.Count())
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Add(newDeal("Shirt", "Zalando", 30))
	assert.NoError(t, err)
	second, err := s.Add(newDeal("Jacket", "de Bijenkorf", 120))
	assert.NoError(t, err)

	assert.NoError(t, s.Remove(first.ID))

	_, err = s.Get(first.ID)
	assert.True(t, errors.IsNotFound(err))

	// Remaining ids are untouched
	kept, err := s.Get(second.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Jacket", kept.ProductName)

	// Removing an unknown id is a not-found error
	assert.True(t, errors.IsNotFound(s.Remove("nope")))
}

func TestReopenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deals.json")
	s, err := Open(path)
	assert.NoError(t, err)

	added, err := s.Add(newDeal("Sneakers", "Zalando", 89.95))
	assert.NoError(t, err)

	reopened, err := Open(path)
	assert.NoError(t, err)
	got, err := reopened.Get(added.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Sneakers", got.ProductName)
}

func TestStale(t *testing.T) {
	s := newTestStore(t)

	fresh, err := s.Add(newDeal("Fresh", "Zalando", 10))
	assert.NoError(t, err)

	old, err := s.Add(newDeal("Old", "Zalando", 20))
	assert.NoError(t, err)
	broken, err := s.Add(newDeal("Broken", "Zalando", 30))
	assert.NoError(t, err)

	// Backdate one record and corrupt another's timestamp
	old.LastChecked = time.Now().Add(-48 * time.Hour).Format(time.RFC3339)
	broken.LastChecked = "garbage"
	assert.NoError(t, s.ApplyRefresh([]deal.Deal{old, broken}))

	stale := s.Stale(24 * time.Hour)
	ids := make([]string, 0, len(stale))
	for _, d := range stale {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, old.ID)
	assert.Contains(t, ids, broken.ID)
	assert.NotContains(t, ids, fresh.ID)
}

func TestApplyRefreshMergesByID(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Add(newDeal("A", "Zalando", 50))
	assert.NoError(t, err)
	b, err := s.Add(newDeal("B", "Zalando", 60))
	assert.NoError(t, err)

	a.CurrentPrice = 45
	a.RecomputeDiscount()
	assert.NoError(t, s.ApplyRefresh([]deal.Deal{a}))

	got, err := s.Get(a.ID)
	assert.NoError(t, err)
	assert.Equal(t, 45.0, got.CurrentPrice)

	untouched, err := s.Get(b.ID)
	assert.NoError(t, err)
	assert.Equal(t, 60.0, untouched.CurrentPrice)
}

func TestSummarize(t *testing.T) {
	s := newTestStore(t)

	withOriginal := newDeal("Discounted", "Zalando", 50)
	withOriginal.OriginalPrice = floatPtr(100)
	_, err := s.Add(withOriginal)
	assert.NoError(t, err)

	_, err = s.Add(newDeal("Full price", "de Bijenkorf", 80))
	assert.NoError(t, err)

	oos, err := s.Add(newDeal("Gone", "Zalando", 10))
	assert.NoError(t, err)
	oos.Status = deal.StatusOutOfStock
	assert.NoError(t, s.ApplyRefresh([]deal.Deal{oos}))

	summary := s.Summarize(24 * time.Hour)
	assert.Equal(t, 2, summary.ActiveCount)
	assert.InDelta(t, 25.0, summary.AverageDiscount, 0.001)
	assert.InDelta(t, 50.0, summary.TotalSavings, 0.001)
	assert.Equal(t, 1, summary.PerRetailer["Zalando"])
	assert.Equal(t, 1, summary.PerRetailer["de Bijenkorf"])
	assert.Equal(t, 0, summary.StaleCount)
}

func TestFilteredAndActive(t *testing.T) {
	s := newTestStore(t)

	cheap := newDeal("Cheap", "Zalando", 10)
	_, err := s.Add(cheap)
	assert.NoError(t, err)

	pricey := newDeal("Pricey", "Tommy Hilfiger", 200)
	pricey.OriginalPrice = floatPtr(400)
	_, err = s.Add(pricey)
	assert.NoError(t, err)

	active := s.Active(deal.SortByPrice)
	assert.Len(t, active, 2)
	assert.Equal(t, "Cheap", active[0].ProductName)

	filtered := s.Filtered(deal.Filter{MinDiscount: 40}, deal.SortByDiscount)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "Pricey", filtered[0].ProductName)
}
