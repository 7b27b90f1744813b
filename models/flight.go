package models

import (
	"fmt"
	"strings"
	"time"
)

// SourceScraper tags records that came straight off the rendered page.
const SourceScraper = "scraper"

// SearchQuery holds the parameters for a single flight search.
type SearchQuery struct {
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date"` // YYYY-MM-DD
}

// Normalize uppercases the IATA codes and trims surrounding whitespace.
func (q *SearchQuery) Normalize() {
	q.Departure = strings.ToUpper(strings.TrimSpace(q.Departure))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.Date = strings.TrimSpace(q.Date)
}

// Validate checks that both IATA codes look like airport codes and that the
// date is a real calendar date in YYYY-MM-DD form.
func (q *SearchQuery) Validate() error {
	if len(q.Departure) != 3 {
		return fmt.Errorf("departure %q is not a 3-letter IATA code", q.Departure)
	}
	if len(q.Destination) != 3 {
		return fmt.Errorf("destination %q is not a 3-letter IATA code", q.Destination)
	}
	if _, err := time.Parse("2006-01-02", q.Date); err != nil {
		return fmt.Errorf("date %q is not a valid YYYY-MM-DD date", q.Date)
	}
	return nil
}

// Flight is a single flight offer extracted from the results page. Enrichment
// fields (value score, recommendation, price per hour, notes) are only set
// after AI analysis; scraped records leave them empty.
type Flight struct {
	Airline          string   `json:"airline"`
	FlightNumber     string   `json:"flight_number,omitempty"`
	DepartureAirport string   `json:"departure_airport"`
	ArrivalAirport   string   `json:"arrival_airport"`
	DepartureTime    string   `json:"departure_time"`
	ArrivalTime      string   `json:"arrival_time"`
	Duration         string   `json:"duration"`
	DurationMinutes  int      `json:"duration_minutes,omitempty"`
	Price            float64  `json:"price"`
	PricePerHour     float64  `json:"price_per_hour,omitempty"`
	Stops            int      `json:"stops"`
	Aircraft         string   `json:"aircraft,omitempty"`
	CabinClass       string   `json:"cabin_class"`
	Source           string   `json:"source"`
	ValueScore       *float64 `json:"value_score,omitempty"`
	Recommendation   string   `json:"recommendation,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// Key returns a stable identity used to deduplicate flights across scrapes
// of adjacent dates.
func (f *Flight) Key() string {
	return strings.Join([]string{
		f.Airline, f.FlightNumber, f.DepartureAirport, f.ArrivalAirport,
		f.DepartureTime, f.ArrivalTime,
	}, "|")
}
