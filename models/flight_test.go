package models

import "testing"

func TestSearchQueryNormalize(t *testing.T) {
	q := SearchQuery{Departure: " syd ", Destination: "dxb", Date: " 2025-08-05 "}
	q.Normalize()

	if q.Departure != "SYD" {
		t.Errorf("Departure: got %q, want %q", q.Departure, "SYD")
	}
	if q.Destination != "DXB" {
		t.Errorf("Destination: got %q, want %q", q.Destination, "DXB")
	}
	if q.Date != "2025-08-05" {
		t.Errorf("Date: got %q, want %q", q.Date, "2025-08-05")
	}
}

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr bool
	}{
		{"valid", SearchQuery{"SYD", "DXB", "2025-08-05"}, false},
		{"short departure", SearchQuery{"SY", "DXB", "2025-08-05"}, true},
		{"empty destination", SearchQuery{"SYD", "", "2025-08-05"}, true},
		{"bad date format", SearchQuery{"SYD", "DXB", "05-08-2025"}, true},
		{"impossible date", SearchQuery{"SYD", "DXB", "2025-02-30"}, true},
	}

	for _, tt := range tests {
		err := tt.query.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %t", tt.name, err, tt.wantErr)
		}
	}
}

func TestFlightKeyStable(t *testing.T) {
	a := Flight{Airline: "Qantas", FlightNumber: "QF1", DepartureAirport: "SYD",
		ArrivalAirport: "DXB", DepartureTime: "6:00 AM", ArrivalTime: "5:30 PM", Price: 1200}
	b := a
	b.Price = 1350 // same flight, different fare

	if a.Key() != b.Key() {
		t.Errorf("keys differ for the same flight: %q vs %q", a.Key(), b.Key())
	}

	c := a
	c.DepartureTime = "7:00 AM"
	if a.Key() == c.Key() {
		t.Error("keys collide for different departure times")
	}
}
