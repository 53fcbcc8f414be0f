package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jvdveen/dealwatch/internal/deal"
	"jvdveen/dealwatch/internal/scraper"
	"jvdveen/dealwatch/internal/store"
	"jvdveen/dealwatch/logger"
	"jvdveen/dealwatch/pkg/errors"
	"jvdveen/dealwatch/services/notifier"
	"jvdveen/dealwatch/services/publisher"

	"golang.org/x/time/rate"
)

// Result messages reported per deal after a refresh pass
const (
	msgUnchanged   = "Price unchanged"
	msgFetchFailed = "Could not fetch price"
	msgRateLimited = "Skipped (rate limited)"
	msgNotFound    = "Deal not found"
	msgOutOfStock  = " - OUT OF STOCK"
)

// Event describes a detected price or status change, published to the
// event stream after the pass is persisted.
type Event struct {
	DealID             string   `json:"deal_id"`
	ProductName        string   `json:"product_name"`
	Retailer           string   `json:"retailer"`
	OldPrice           float64  `json:"old_price"`
	NewPrice           float64  `json:"new_price"`
	OldStatus          string   `json:"old_status"`
	NewStatus          string   `json:"new_status"`
	DiscountPercentage *float64 `json:"discount_percentage"`
	ProductURL         string   `json:"product_url"`
	CheckedAt          string   `json:"checked_at"`
}

// Refresher re-checks live prices and availability for stored deals.
// Scraping is best effort: a deal that cannot be refreshed keeps its
// stored price and is reported, never dropped.
type Refresher struct {
	store     *store.Store
	scraper   *scraper.Scraper
	pacer     *rate.Limiter
	publisher publisher.Publisher
	notifier  notifier.Notifier
	log       *logger.Logger
}

// New creates a refresher. Publisher and notifier may be nil when the
// corresponding backend is not configured; delay paces consecutive
// fetches against the retailers.
func New(st *store.Store, sc *scraper.Scraper, delay time.Duration, pub publisher.Publisher, not notifier.Notifier) *Refresher {
	if delay <= 0 {
		delay = time.Second
	}
	return &Refresher{
		store:     st,
		scraper:   sc,
		pacer:     rate.NewLimiter(rate.Every(delay), 1),
		publisher: pub,
		notifier:  not,
		log:       logger.ForRefresh(),
	}
}

// Refresh re-checks the deals with the given ids, or every deal when ids
// is empty. It returns a per-deal result message keyed by deal id. The
// store is persisted once, after the whole pass.
func (r *Refresher) Refresh(ctx context.Context, ids []string) (map[string]string, error) {
	deals := r.store.All()
	results := make(map[string]string)

	var selected []deal.Deal
	if len(ids) == 0 {
		selected = deals
	} else {
		byID := make(map[string]deal.Deal, len(deals))
		for _, d := range deals {
			byID[d.ID] = d
		}
		for _, id := range ids {
			d, ok := byID[id]
			if !ok {
				results[id] = msgNotFound
				continue
			}
			selected = append(selected, d)
		}
	}

	var updated []deal.Deal
	var events []Event

	for _, d := range selected {
		if err := r.pacer.Wait(ctx); err != nil {
			return results, err
		}

		fresh, event, msg := r.refreshOne(ctx, d)
		results[d.ID] = msg
		if fresh == nil {
			continue
		}

		updated = append(updated, *fresh)
		if event != nil {
			events = append(events, *event)
		}
	}

	if err := r.store.ApplyRefresh(updated); err != nil {
		return results, err
	}

	r.dispatch(events)

	r.log.Info().
		Int("checked", len(updated)).
		Int("changed", len(events)).
		Msg("Refresh pass finished")

	return results, nil
}

// refreshOne re-checks a single deal. It returns the updated record, an
// event when the price or status changed, and the result message. A nil
// record means the deal was skipped and must stay untouched.
func (r *Refresher) refreshOne(ctx context.Context, d deal.Deal) (*deal.Deal, *Event, string) {
	log := logger.ForScraper(d.Retailer)

	page, err := r.scraper.Fetch(ctx, d.ProductURL, d.Retailer)
	if err != nil {
		if errors.IsRateLimit(err) {
			log.Warn().Str("deal_id", d.ID).Msg("Retailer cooling down, skipping")
			return nil, nil, msgRateLimited
		}
		log.Error().Err(err).Str("deal_id", d.ID).Msg("Price fetch failed")
		page = nil
	}

	oldPrice := d.CurrentPrice
	oldStatus := d.Status
	msg := msgFetchFailed

	if price, ok := scraper.ExtractPrice(page, d.Retailer); ok {
		if price != d.CurrentPrice {
			msg = fmt.Sprintf("Price changed: €%.2f → €%.2f (%+.2f)", d.CurrentPrice, price, price-d.CurrentPrice)
			d.CurrentPrice = price
			d.RecomputeDiscount()
		} else {
			msg = msgUnchanged
		}
	}

	availPage, err := r.scraper.Fetch(ctx, d.ProductURL, d.Retailer)
	if err != nil {
		if errors.IsRateLimit(err) {
			// The price fetch got through, so keep its result and
			// leave the status alone.
			availPage = page
		} else {
			log.Error().Err(err).Str("deal_id", d.ID).Msg("Availability fetch failed")
			availPage = nil
		}
	}

	if scraper.Available(availPage) {
		d.Status = deal.StatusActive
	} else {
		d.Status = deal.StatusOutOfStock
		msg += msgOutOfStock
	}

	d.LastChecked = deal.Now()

	var event *Event
	if d.CurrentPrice != oldPrice || d.Status != oldStatus {
		event = &Event{
			DealID:             d.ID,
			ProductName:        d.ProductName,
			Retailer:           d.Retailer,
			OldPrice:           oldPrice,
			NewPrice:           d.CurrentPrice,
			OldStatus:          oldStatus,
			NewStatus:          d.Status,
			DiscountPercentage: d.DiscountPercentage,
			ProductURL:         d.ProductURL,
			CheckedAt:          d.LastChecked,
		}
	}

	return &d, event, msg
}

// dispatch publishes change events to the stream and sends alerts for
// price drops and newly unavailable deals.
func (r *Refresher) dispatch(events []Event) {
	for _, e := range events {
		if r.publisher != nil {
			data, err := json.Marshal(e)
			if err != nil {
				r.log.Error().Err(err).Str("deal_id", e.DealID).Msg("Failed to encode event")
				continue
			}
			if err := r.publisher.Publish(data); err != nil {
				r.log.Error().Err(errors.NewPublisher("failed to publish event", err)).Str("deal_id", e.DealID).Msg("Publish failed")
			}
		}

		if r.notifier != nil {
			if text := alertText(e); text != "" {
				if err := r.notifier.Notify(text); err != nil {
					r.log.Error().Err(errors.NewNotifier("failed to send alert", err)).Str("deal_id", e.DealID).Msg("Alert failed")
				}
			}
		}
	}

	if r.publisher != nil && len(events) > 0 {
		if err := r.publisher.TrimStream(); err != nil {
			r.log.Error().Err(err).Msg("Stream trimming failed")
		}
	}
}

// alertText renders a notification for an event, or "" when the change
// is not worth an alert.
func alertText(e Event) string {
	if e.NewStatus == deal.StatusOutOfStock && e.OldStatus != deal.StatusOutOfStock {
		return fmt.Sprintf("Out of stock: %s (%s)\n%s", e.ProductName, e.Retailer, e.ProductURL)
	}
	if e.NewPrice < e.OldPrice {
		return fmt.Sprintf("Price drop: %s (%s) €%.2f → €%.2f\n%s", e.ProductName, e.Retailer, e.OldPrice, e.NewPrice, e.ProductURL)
	}
	return ""
}
