package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"jvdveen/dealwatch/internal/deal"
	"jvdveen/dealwatch/logger"
	"jvdveen/dealwatch/pkg/errors"
)

// Store is a flat collection of deal records backed by a single JSON
// document, rewritten wholesale on every mutation. The in-memory slice is
// guarded by a mutex; the file itself stays last-writer-wins.
type Store struct {
	path  string
	mu    sync.Mutex
	deals []deal.Deal
	log   *logger.Logger
}

// Open loads the record store from path. A missing file loads as an empty
// collection; malformed JSON is an error.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		log:  logger.ForStore(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.deals = []deal.Deal{}
			return s, nil
		}
		return nil, errors.NewStore(fmt.Sprintf("failed to read %s", path), err)
	}

	if err := json.Unmarshal(data, &s.deals); err != nil {
		return nil, errors.NewStore(fmt.Sprintf("malformed deals file %s", path), err)
	}

	s.log.Debug().
		Int("deal_count", len(s.deals)).
		Str("path", path).
		Msg("Loaded deals")

	return s, nil
}

// save rewrites the whole document. Callers must hold the mutex.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.deals, "", "  ")
	if err != nil {
		return errors.NewStore("failed to encode deals", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.NewStore(fmt.Sprintf("failed to write %s", s.path), err)
	}
	return nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Count returns the number of records
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deals)
}

// Add inserts a manually curated deal. The store assigns the derived id,
// timestamps, defaults and the discount percentage, then persists.
func (s *Store) Add(d deal.Deal) (deal.Deal, error) {
	if err := validateNewDeal(d); err != nil {
		return deal.Deal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	d.ID = deal.NewID(d.Retailer, len(s.deals), now)
	d.AddedDate = now.Format(time.RFC3339)
	d.LastChecked = now.Format(time.RFC3339)
	d.ManuallyAdded = true
	d.Status = deal.StatusActive
	if d.Category == "" {
		d.Category = deal.DefaultCategory
	}
	if d.Gender == "" {
		d.Gender = deal.DefaultGender
	}
	d.RecomputeDiscount()

	s.deals = append(s.deals, d)
	if err := s.save(); err != nil {
		s.deals = s.deals[:len(s.deals)-1]
		return deal.Deal{}, err
	}

	s.log.Info().
		Str("deal_id", d.ID).
		Str("retailer", d.Retailer).
		Msg("Deal added")

	return d, nil
}

func validateNewDeal(d deal.Deal) error {
	if d.ProductName == "" {
		return errors.NewValidation("product_name is required")
	}
	if d.Brand == "" {
		return errors.NewValidation("brand is required")
	}
	if d.Retailer == "" {
		return errors.NewValidation("retailer is required")
	}
	if d.ProductURL == "" {
		return errors.NewValidation("product_url is required")
	}
	if d.CurrentPrice <= 0 {
		return errors.NewValidation("current_price must be greater than zero")
	}
	if d.OriginalPrice != nil && *d.OriginalPrice <= 0 {
		return errors.NewValidation("original_price must be greater than zero when set")
	}
	return nil
}

// Remove deletes a deal by id and persists
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.deals {
		if d.ID == id {
			s.deals = append(s.deals[:i], s.deals[i+1:]...)
			if err := s.save(); err != nil {
				return err
			}
			s.log.Info().Str("deal_id", id).Msg("Deal removed")
			return nil
		}
	}
	return errors.NewNotFound(fmt.Sprintf("deal %s not found", id))
}

// Get returns a deal by id
func (s *Store) Get(id string) (deal.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.deals {
		if d.ID == id {
			return d, nil
		}
	}
	return deal.Deal{}, errors.NewNotFound(fmt.Sprintf("deal %s not found", id))
}

// All returns a copy of every record
func (s *Store) All() []deal.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]deal.Deal, len(s.deals))
	copy(out, s.deals)
	return out
}

// Filtered returns the deals passing the filter, sorted by the given key
func (s *Store) Filtered(f deal.Filter, key deal.SortKey) []deal.Deal {
	deals := f.Apply(s.All())
	deal.Sort(deals, key)
	return deals
}

// Active returns active deals sorted by the given key
func (s *Store) Active(key deal.SortKey) []deal.Deal {
	return s.Filtered(deal.Filter{Status: deal.StatusActive}, key)
}

// Stale returns deals whose last check is older than maxAge. Records with
// unparsable timestamps count as stale.
func (s *Store) Stale(maxAge time.Duration) []deal.Deal {
	cutoff := time.Now().Add(-maxAge)

	var stale []deal.Deal
	for _, d := range s.All() {
		if d.CheckedBefore(cutoff) {
			stale = append(stale, d)
		}
	}
	return stale
}

// ApplyRefresh merges refreshed records by id and persists once
func (s *Store) ApplyRefresh(updated []deal.Deal) error {
	if len(updated) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]deal.Deal, len(updated))
	for _, d := range updated {
		byID[d.ID] = d
	}

	for i, d := range s.deals {
		if fresh, ok := byID[d.ID]; ok {
			s.deals[i] = fresh
		}
	}

	return s.save()
}

// Summary aggregates the analytics shown on the dashboard
type Summary struct {
	ActiveCount     int            `json:"active_count"`
	AverageDiscount float64        `json:"average_discount"`
	TotalSavings    float64        `json:"total_savings"`
	PerRetailer     map[string]int `json:"per_retailer"`
	StaleCount      int            `json:"stale_count"`
}

// Summarize computes analytics over active deals. Missing discounts count
// as zero toward the average, matching the dashboard's historical behavior.
func (s *Store) Summarize(staleAfter time.Duration) Summary {
	summary := Summary{PerRetailer: make(map[string]int)}
	cutoff := time.Now().Add(-staleAfter)

	for _, d := range s.All() {
		if d.CheckedBefore(cutoff) {
			summary.StaleCount++
		}
		if d.Status != deal.StatusActive {
			continue
		}
		summary.ActiveCount++
		summary.AverageDiscount += d.Discount()
		summary.TotalSavings += d.Savings()
		summary.PerRetailer[d.Retailer]++
	}

	if summary.ActiveCount > 0 {
		summary.AverageDiscount /= float64(summary.ActiveCount)
	}
	return summary
}
