package scraper

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jvdveen/dealwatch/logger"
	"jvdveen/dealwatch/pkg/errors"
	"jvdveen/dealwatch/services/cache"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

// Config holds the fetcher settings
type Config struct {
	UserAgent     string
	Timeout       time.Duration
	RespectRobots bool
	CooldownTTL   time.Duration
}

// Scraper fetches listing pages and runs the extraction heuristics.
// Fetching is best-effort: markup changes make it silently under-perform.
type Scraper struct {
	client      *http.Client
	userAgent   string
	robots      *robotsChecker
	cacheSvc    cache.CacheService
	cooldownTTL time.Duration
}

// Page is a fetched listing page. Non-200 responses still carry the body
// so callers can decide what to do with the status.
type Page struct {
	StatusCode int
	Body       []byte
}

// Document parses the page body as HTML
func (p *Page) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
}

// New creates a scraper. A nil cache service disables the retailer
// cooldown guard.
func New(cfg Config, cacheSvc cache.CacheService) *Scraper {
	s := &Scraper{
		client:      &http.Client{Timeout: cfg.Timeout},
		userAgent:   cfg.UserAgent,
		cacheSvc:    cacheSvc,
		cooldownTTL: cfg.CooldownTTL,
	}
	if cfg.RespectRobots {
		s.robots = newRobotsChecker(&http.Client{Timeout: cfg.Timeout})
	}
	return s
}

// cooldownKey derives the guard cache key for a retailer
func cooldownKey(retailer string) string {
	return strings.ReplaceAll(strings.ToLower(retailer), " ", "_") + "_rate_limited"
}

// Fetch performs a GET against a listing page with the cooldown and robots
// guards applied. Transport failures return an error; non-200 responses
// return the page with its status code.
func (s *Scraper) Fetch(ctx context.Context, rawURL, retailer string) (*Page, error) {
	if s.cacheSvc != nil {
		if _, err := s.cacheSvc.Get(cooldownKey(retailer)); err == nil {
			return nil, errors.NewRateLimit(retailer, s.cooldownTTL)
		}
	}

	if s.robots != nil {
		allowed, err := s.robots.isAllowed(s.userAgent, rawURL)
		if err == nil && !allowed {
			return nil, errors.NewRobots(retailer, rawURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.NewNetwork(retailer, "failed to create request", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,nl;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.NewNetwork(retailer, fmt.Sprintf("failed to fetch %s", rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		s.armCooldown(retailer)
		return nil, errors.NewRateLimit(retailer, s.cooldownTTL)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, errors.NewNetwork(retailer, "failed to read response body", err)
	}

	utf8Body, err := toUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, errors.NewParsing(retailer, "failed to convert body to UTF-8", err)
	}

	return &Page{StatusCode: resp.StatusCode, Body: utf8Body}, nil
}

// armCooldown marks the retailer as rate limited in the guard cache so the
// next fetch fails fast instead of hammering the site again.
func (s *Scraper) armCooldown(retailer string) {
	if s.cacheSvc == nil {
		return
	}
	key := cooldownKey(retailer)
	value := []byte(fmt.Sprintf("%d", int(s.cooldownTTL.Seconds())))
	if err := s.cacheSvc.Set(key, value, s.cooldownTTL); err != nil {
		logger.ForScraper(retailer).Warn().
			Err(err).
			Str("key", key).
			Msg("Failed to arm retailer cooldown")
	}
}

// readBody decompresses the response body by Content-Encoding
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		reader = resp.Body
	}
	return io.ReadAll(reader)
}

// toUTF8 converts the body to UTF-8 when the page uses another charset
func toUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") {
		return body, nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	converted, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return converted, nil
}
