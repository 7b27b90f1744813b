package googleflights

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"flight-analyzer/models"
	"flight-analyzer/utils"
)

// Recorder captures a screenshot and the raw document of every scrape for
// post-hoc diagnosis. It is strictly best-effort: a failed capture is logged
// and must never fail the primary scrape.
type Recorder struct {
	dir    string
	logger *utils.Logger
}

// NewRecorder creates a Recorder writing into dir.
func NewRecorder(dir string, logger *utils.Logger) *Recorder {
	return &Recorder{dir: dir, logger: logger}
}

// Capture writes flight_results_<ts>.png and page_content_<ts>.html for the
// page currently loaded in ctx and returns the artifact directory.
func (r *Recorder) Capture(ctx context.Context, query models.SearchQuery) string {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		r.logger.Warn("[debug] Could not create debug dir %s: %v", r.dir, err)
		return ""
	}

	ts := time.Now().Format("20060102_150405")

	var shot []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&shot, 90)); err != nil {
		r.logger.Warn("[debug] Screenshot failed for %s→%s: %v", query.Departure, query.Destination, err)
	} else {
		path := filepath.Join(r.dir, fmt.Sprintf("flight_results_%s.png", ts))
		if err := os.WriteFile(path, shot, 0644); err != nil {
			r.logger.Warn("[debug] Could not write %s: %v", path, err)
		}
	}

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		r.logger.Warn("[debug] Page content capture failed for %s→%s: %v", query.Departure, query.Destination, err)
	} else {
		path := filepath.Join(r.dir, fmt.Sprintf("page_content_%s.html", ts))
		if err := os.WriteFile(path, []byte(html), 0644); err != nil {
			r.logger.Warn("[debug] Could not write %s: %v", path, err)
		}
	}

	return r.dir
}
