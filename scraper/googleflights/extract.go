package googleflights

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"

	"flight-analyzer/models"
	"flight-analyzer/utils"
)

// maxResults bounds extraction cost on pathological pages.
const maxResults = 30

var (
	priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
	hoursRegexp = regexp.MustCompile(`(\d+)\s*(?:hr|h)`)
	minsRegexp  = regexp.MustCompile(`(\d+)\s*(?:min|m)\b`)
)

// rawFlight carries the untyped per-item field texts out of the page.
type rawFlight struct {
	Airline          string `json:"airline"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	Duration         string `json:"duration"`
	Price            string `json:"price"`
	Stops            string `json:"stops"`
}

// extractJSTmpl enumerates result list items and reads every field through an
// ordered selector list: first selector that yields a non-empty text or
// attribute wins. The markup is obfuscated and unstable, so every field has
// redundant candidates and a missing field degrades only itself.
const extractJSTmpl = `
(function() {
	function firstText(root, sels) {
		for (var i = 0; i < sels.length; i++) {
			var el = root.querySelector(sels[i]);
			if (el && el.textContent && el.textContent.trim()) {
				return el.textContent.trim();
			}
		}
		return '';
	}
	function firstAttr(root, sels, attr) {
		for (var i = 0; i < sels.length; i++) {
			var el = root.querySelector(sels[i]);
			if (el) {
				var v = el.getAttribute(attr);
				if (v && v.trim()) return v.trim();
			}
		}
		return '';
	}

	var itemSelectors = ['li.pIav2d', 'ul.Rk10dc li', 'div[role="main"] li'];
	var items = [];
	for (var s = 0; s < itemSelectors.length; s++) {
		items = document.querySelectorAll(itemSelectors[s]);
		if (items.length > 0) break;
	}

	var results = [];
	var limit = Math.min(items.length, %d);
	for (var i = 0; i < limit; i++) {
		var li = items[i];
		results.push({
			airline: firstAttr(li, ['div.sSHqwe.tPgKwe.ogfYpf span[aria-label]'], 'aria-label') ||
				firstText(li, ['div.sSHqwe.tPgKwe.ogfYpf span', 'div.Ir0Voe div.sSHqwe']),
			departure_time: firstText(li, ['div.wtdjmc.YMlIz.ogfYpf', 'span.mv1WYe div.wtdjmc', '[aria-label^="Departure time"]']),
			arrival_time: firstText(li, ['div.XWcVob.YMlIz.ogfYpf', 'span.mv1WYe div.XWcVob', '[aria-label^="Arrival time"]']),
			departure_airport: firstText(li, ['div.QylvBf span span', 'div.G2WY5c span', 'span.PTuQse span span']),
			arrival_airport: firstText(li, ['div.QylvBf + div span span', 'div.c8rWCd span', 'span.PTuQse + span span span']),
			duration: firstText(li, ['div.gvkrdb.AdWm1c.tPgKwe.ogfYpf', 'div.Ak5kof div.gvkrdb', '[aria-label^="Total duration"]']),
			price: firstText(li, ['div.FpEdX span', 'div.YMlIz.FpEdX', 'span[aria-label*="dollars"]']),
			stops: firstText(li, ['div.EfT7Ae span.ogfYpf', 'div.BbR8Ec div.sSHqwe', 'span[aria-label*="stop"]'])
		});
	}
	return results;
})()
`

// extractFlights parses the rendered page into flight records. It never
// fails: a broken page yields an empty slice with the cause logged, because
// partial data beats no data for the caller.
func extractFlights(ctx context.Context, logger *utils.Logger, query models.SearchQuery) []*models.Flight {
	var raws []rawFlight
	js := fmt.Sprintf(extractJSTmpl, maxResults)
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &raws)); err != nil {
		logger.Error("[googleflights] Flight extraction failed: %v", err)
		return []*models.Flight{}
	}
	return buildFlights(raws, query)
}

// buildFlights normalizes the raw items into typed records, enforcing the
// result bound again on the Go side in case the page script over-returns.
func buildFlights(raws []rawFlight, query models.SearchQuery) []*models.Flight {
	if len(raws) > maxResults {
		raws = raws[:maxResults]
	}
	flights := make([]*models.Flight, 0, len(raws))
	for _, r := range raws {
		flights = append(flights, buildFlight(r, query))
	}
	return flights
}

// buildFlight normalizes one raw item into a typed record. Every field is
// handled independently; a missing or malformed field degrades that field
// alone.
func buildFlight(r rawFlight, query models.SearchQuery) *models.Flight {
	dep := airportCode(r.DepartureAirport)
	if dep == "" {
		dep = strings.ToUpper(query.Departure)
	}
	arr := airportCode(r.ArrivalAirport)
	if arr == "" {
		arr = strings.ToUpper(query.Destination)
	}

	return &models.Flight{
		Airline:          r.Airline,
		DepartureAirport: dep,
		ArrivalAirport:   arr,
		DepartureTime:    r.DepartureTime,
		ArrivalTime:      r.ArrivalTime,
		Duration:         r.Duration,
		DurationMinutes:  durationMinutes(r.Duration),
		Price:            parsePrice(r.Price),
		Stops:            parseStops(r.Stops),
		CabinClass:       "Economy",
		Source:           models.SourceScraper,
	}
}

// parsePrice strips the currency symbol and thousands separators and parses
// the remainder. Absence or parse failure yields 0.0, never an error.
func parsePrice(raw string) float64 {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return 0.0
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || val < 0 {
		return 0.0
	}
	return val
}

// parseStops maps the stop-indicator text to the coarse binary the page
// reliably exposes in this path: nonstop or not.
func parseStops(raw string) int {
	if strings.Contains(strings.ToLower(raw), "nonstop") {
		return 0
	}
	return 1
}

// airportCode keeps the portion of a compound airport text before the first
// non-breaking space; the page appends timezone annotations after it.
func airportCode(raw string) string {
	if idx := strings.Index(raw, "\u00a0"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

// durationMinutes converts texts like "14 hr 25 min" or "2h 30m" to minutes,
// returning 0 when neither component parses.
func durationMinutes(raw string) int {
	total := 0
	if m := hoursRegexp.FindStringSubmatch(raw); len(m) == 2 {
		if h, err := strconv.Atoi(m[1]); err == nil {
			total += h * 60
		}
	}
	if m := minsRegexp.FindStringSubmatch(raw); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += n
		}
	}
	return total
}
