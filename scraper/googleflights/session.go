package googleflights

import (
	"context"
	"os"
	"os/exec"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"flight-analyzer/config"
	"flight-analyzer/utils"
)

// userAgents is the identity pool the session draws from. All four are
// realistic desktop browsers; rotation happens per session.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
}

const (
	viewportWidth  = 1366
	viewportHeight = 768
	locale         = "en-US"
	timezoneID     = "Australia/Sydney"
)

// stealthScript is injected before any page script runs so that the reported
// navigator properties mimic a non-automated browser.
const stealthScript = `
// Overwrite the languages property to use a custom getter.
Object.defineProperty(navigator, 'languages', {
	get: () => ['en-US', 'en'],
});

// Overwrite the plugins property to use a custom getter.
Object.defineProperty(navigator, 'plugins', {
	get: () => [1, 2, 3, 4, 5],
});

// Pass the Webdriver test.
Object.defineProperty(navigator, 'webdriver', {
	get: () => undefined,
});

// Mock Chrome runtime.
window.navigator.chrome = {
	runtime: {},
};
`

// Session is the per-scrape browser state: an isolated browser process plus
// one tab configured with the anti-detection profile. It must be closed on
// every exit path of the owning scrape.
type Session struct {
	Ctx       context.Context
	UserAgent string
	cancels   []context.CancelFunc
}

// OpenSession launches the browser and prepares a stealth-configured tab.
// It fails with *LaunchError when the process cannot start.
func OpenSession(parent context.Context, cfg *config.Config, rnd *utils.Rand) (*Session, error) {
	ua := rnd.Pick(userAgents)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("no-first-run", true),
		chromedp.UserAgent(ua),
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)
	if bin := findChromeBinary(cfg.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &Session{
		Ctx:       tabCtx,
		UserAgent: ua,
		cancels:   []context.CancelFunc{cancelTab, cancelAlloc},
	}

	err := chromedp.Run(tabCtx,
		emulation.SetLocaleOverride().WithLocale(locale),
		emulation.SetTimezoneOverride(timezoneID),
		browser.GrantPermissions([]browser.PermissionType{browser.PermissionTypeGeolocation}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.Close()
		return nil, &LaunchError{Err: err}
	}

	return s, nil
}

// Close tears the tab and the browser process down. Safe to call more than once.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// findChromeBinary locates the Chrome/Chromium binary to launch.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
