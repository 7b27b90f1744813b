package googleflights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"flight-analyzer/config"
	"flight-analyzer/models"
	"flight-analyzer/utils"
)

const baseURL = "https://www.google.com/travel/flights"

// Content-ready selectors, tried in order. The price-bearing list item is the
// strong signal that results rendered; the main container is the loose
// fallback for layout variants that rename the result classes.
const (
	resultsSelector     = `li span[aria-label*="US dollars"]`
	mainContentSelector = `div[role="main"]`
)

// blockedAssetPatterns aborts static-asset requests to cut load time and
// fingerprint surface.
var blockedAssetPatterns = []string{
	"*.jpg", "*.jpeg", "*.png", "*.gif", "*.svg", "*.webp",
	"*.woff", "*.woff2", "*.ttf", "*.eot",
	"*.mp4", "*.webm", "*.mp3",
}

// Scraper drives Google Flights searches through anti-detection browser
// sessions. One Scraper may serve concurrent searches; every search gets its
// own isolated session.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	rnd      *utils.Rand
	recorder *Recorder
}

// New creates a ready-to-use Google Flights Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:      cfg,
		logger:   logger,
		rnd:      utils.NewRand(cfg.RandomSeed),
		recorder: NewRecorder(cfg.DebugDir, logger),
	}
}

// BuildURL constructs the free-text search URL for a query. Google Flights
// resolves this pattern without needing its full structured URL encoding
// scheme; only spaces are percent-encoded.
func BuildURL(query models.SearchQuery) string {
	q := fmt.Sprintf("Flights from %s to %s on %s",
		strings.ToUpper(query.Departure), strings.ToUpper(query.Destination), query.Date)
	return baseURL + "?q=" + strings.ReplaceAll(q, " ", "%20")
}

// Search scrapes the flight offers for one query. The browser session is
// torn down on every exit path. Scraping errors propagate to the caller;
// extraction itself is best-effort and never fails a successful navigation.
func (s *Scraper) Search(ctx context.Context, query models.SearchQuery) ([]*models.Flight, error) {
	url := BuildURL(query)
	s.logger.Info("[googleflights] Scraping %s → %s on %s: %s",
		query.Departure, query.Destination, query.Date, url)

	session, err := OpenSession(ctx, s.cfg, s.rnd)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := s.navigate(session, url); err != nil {
		return nil, err
	}

	if err := s.waitForResults(session); err != nil {
		return nil, err
	}

	flights := extractFlights(session.Ctx, s.logger, query)
	s.recorder.Capture(session.Ctx, query)

	s.logger.Info("[googleflights] Extracted %d flights for %s → %s",
		len(flights), query.Departure, query.Destination)
	return flights, nil
}

// navigate performs the jittered, header-spoofed navigation and checks the
// document response status. There is deliberately no retry here: repeating a
// failed request quickly is exactly the pattern bot detection keys on.
func (s *Scraper) navigate(session *Session, url string) error {
	timeout := time.Duration(s.cfg.NavigationTimeoutMs) * time.Millisecond
	navCtx, cancel := context.WithTimeout(session.Ctx, timeout)
	defer cancel()

	var status atomic.Int64
	var gotResponse atomic.Bool
	chromedp.ListenTarget(navCtx, func(ev interface{}) {
		if res, ok := ev.(*network.EventResponseReceived); ok {
			if res.Type == network.ResourceTypeDocument && gotResponse.CompareAndSwap(false, true) {
				status.Store(res.Response.Status)
			}
		}
	})

	jitter := s.rnd.Between(1*time.Second, 3*time.Second)

	err := chromedp.Run(navCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language":           "en-US,en;q=0.9",
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Referer":                   "https://www.google.com/",
			"DNT":                       "1",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		}),
		network.SetBlockedURLS(blockedAssetPatterns),
		chromedp.Sleep(jitter),
		chromedp.Navigate(url),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{Err: err}
		}
		return &NavigationError{Err: err}
	}

	if !gotResponse.Load() {
		return &NavigationError{Status: 0, Err: errors.New("no document response received")}
	}
	if code := status.Load(); code >= 400 {
		return &NavigationError{Status: code}
	}
	return nil
}

// waitForResults applies the two-tier content-ready strategy: the specific
// price-bearing list item within the full timeout, then the broad main
// container within 1.5x the timeout.
func (s *Scraper) waitForResults(session *Session) error {
	timeout := time.Duration(s.cfg.NavigationTimeoutMs) * time.Millisecond

	primaryCtx, cancel := context.WithTimeout(session.Ctx, timeout)
	err := chromedp.Run(primaryCtx, chromedp.WaitReady(resultsSelector, chromedp.ByQuery))
	cancel()
	if err == nil {
		return nil
	}

	s.logger.Warn("[googleflights] Price list items never appeared (%v) — falling back to main content wait", err)

	fallbackCtx, cancel := context.WithTimeout(session.Ctx, timeout*3/2)
	err = chromedp.Run(fallbackCtx, chromedp.WaitReady(mainContentSelector, chromedp.ByQuery))
	cancel()
	if err != nil {
		return &TimeoutError{Err: err}
	}
	return nil
}

// SearchRange scans several consecutive departure dates through the worker
// pool, one isolated session per date, deduplicating offers that appear on
// more than one date. Partial results are returned as long as at least one
// date succeeds.
func (s *Scraper) SearchRange(ctx context.Context, query models.SearchQuery, days int) ([]*models.Flight, error) {
	if days <= 1 {
		return s.Search(ctx, query)
	}

	start, err := time.Parse("2006-01-02", query.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", query.Date, err)
	}

	pool := utils.NewWorkerPool(s.cfg.MaxConcurrency, s.cfg.RateLimitMs)
	seen := utils.NewKeySet()

	var mu sync.Mutex
	var all []*models.Flight
	var firstErr error

	for offset := 0; offset < days; offset++ {
		q := query
		q.Date = start.AddDate(0, 0, offset).Format("2006-01-02")

		pool.Submit(func() {
			flights, err := s.Search(ctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Error("[googleflights] Scan for %s failed: %v", q.Date, err)
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			for _, f := range flights {
				if seen.Add(f.Key()) {
					all = append(all, f)
				}
			}
		})
	}
	pool.Wait()

	if len(all) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return all, nil
}
