package googleflights

import (
	"fmt"
	"testing"

	"flight-analyzer/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"$1,245", 1245},
		{"$980.50", 980.50},
		{"AU$2,310", 2310},
		{"1245 US dollars", 1245},
		{"", 0.0},
		{"Price unavailable", 0.0},
		{"$", 0.0},
	}

	for _, tt := range tests {
		got := parsePrice(tt.raw)
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestParseStops(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"Nonstop", 0},
		{"nonstop", 0},
		{"NONSTOP flight", 0},
		{"1 stop", 1},
		{"2 stops", 1}, // coarse binary: anything but nonstop is 1
		{"Connecting", 1},
		{"", 1},
	}

	for _, tt := range tests {
		got := parseStops(tt.raw)
		if got != tt.want {
			t.Errorf("parseStops(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestAirportCode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"SYD", "SYD"},
		{"SYD\u00a0+1 day", "SYD"},
		{"DXB\u00a0GST\u00a0+4", "DXB"},
		{"", ""},
	}

	for _, tt := range tests {
		got := airportCode(tt.raw)
		if got != tt.want {
			t.Errorf("airportCode(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"14 hr 25 min", 865},
		{"2 hr", 120},
		{"45 min", 45},
		{"2h 30m", 150},
		{"", 0},
		{"overnight", 0},
	}

	for _, tt := range tests {
		got := durationMinutes(tt.raw)
		if got != tt.want {
			t.Errorf("durationMinutes(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestBuildFlightDefaults(t *testing.T) {
	query := models.SearchQuery{Departure: "SYD", Destination: "DXB", Date: "2025-08-05"}

	f := buildFlight(rawFlight{
		Airline:  "Emirates",
		Duration: "14 hr 25 min",
		Price:    "$1,245",
		Stops:    "Nonstop",
	}, query)

	if f.Source != models.SourceScraper {
		t.Errorf("Source: got %q, want %q", f.Source, models.SourceScraper)
	}
	if f.CabinClass != "Economy" {
		t.Errorf("CabinClass: got %q, want Economy", f.CabinClass)
	}
	if f.DepartureAirport != "SYD" || f.ArrivalAirport != "DXB" {
		t.Errorf("airport fallback: got %s→%s, want SYD→DXB", f.DepartureAirport, f.ArrivalAirport)
	}
	if f.Price != 1245 {
		t.Errorf("Price: got %.2f, want 1245", f.Price)
	}
	if f.Stops != 0 {
		t.Errorf("Stops: got %d, want 0", f.Stops)
	}
	if f.DurationMinutes != 865 {
		t.Errorf("DurationMinutes: got %d, want 865", f.DurationMinutes)
	}
}

func TestBuildFlightsCapsResultCount(t *testing.T) {
	query := models.SearchQuery{Departure: "SYD", Destination: "DXB", Date: "2025-08-05"}

	raws := make([]rawFlight, maxResults+15)
	for i := range raws {
		raws[i] = rawFlight{Airline: fmt.Sprintf("Airline %d", i), Price: "$100"}
	}

	flights := buildFlights(raws, query)

	if len(flights) != maxResults {
		t.Fatalf("got %d flights, want the %d-record bound", len(flights), maxResults)
	}
	if flights[0].Airline != "Airline 0" {
		t.Errorf("capping should keep page order, first record is %q", flights[0].Airline)
	}
	if flights[maxResults-1].Airline != fmt.Sprintf("Airline %d", maxResults-1) {
		t.Errorf("capping should truncate the tail, last record is %q", flights[maxResults-1].Airline)
	}
}

func TestBuildFlightsSmallPage(t *testing.T) {
	query := models.SearchQuery{Departure: "SYD", Destination: "DXB", Date: "2025-08-05"}

	flights := buildFlights([]rawFlight{{Airline: "Qantas", Price: "$980"}}, query)

	if len(flights) != 1 {
		t.Fatalf("got %d flights, want 1", len(flights))
	}
	if flights[0].Airline != "Qantas" {
		t.Errorf("Airline: got %q, want Qantas", flights[0].Airline)
	}
}

func TestBuildFlightMissingPrice(t *testing.T) {
	query := models.SearchQuery{Departure: "SYD", Destination: "DXB", Date: "2025-08-05"}

	f := buildFlight(rawFlight{Airline: "Qantas", Stops: "1 stop"}, query)

	if f.Price != 0.0 {
		t.Errorf("missing price should extract as 0.0, got %.2f", f.Price)
	}
	if f.Stops != 1 {
		t.Errorf("Stops: got %d, want 1", f.Stops)
	}
	if f.Source != models.SourceScraper {
		t.Errorf("Source: got %q, want scraper", f.Source)
	}
}
