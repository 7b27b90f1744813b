package models

import "time"

// Recommendation labels the AI (and the fallback analyzer) attach to flights.
const (
	RecommendBestValue    = "Best Value"
	RecommendGoodOption   = "Good Option"
	RecommendAlternatives = "Consider Alternatives"
)

// PriceStats holds aggregate price statistics over a set of flights.
// Invariant: Min <= Average <= Max and Min <= Median <= Max.
type PriceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// FlightRecommendation is a flight annotated with a recommendation label and
// a 0–100 value score.
type FlightRecommendation struct {
	Airline            string  `json:"airline"`
	FlightNumber       string  `json:"flight_number,omitempty"`
	Price              float64 `json:"price"`
	Duration           string  `json:"duration"`
	DepartureTime      string  `json:"departure_time"`
	ArrivalTime        string  `json:"arrival_time"`
	Stops              int     `json:"stops"`
	RecommendationType string  `json:"recommendation_type"`
	ValueScore         float64 `json:"value_score"`
	Notes              string  `json:"notes,omitempty"`
}

// AirlineAnalysis aggregates the offers of one airline.
type AirlineAnalysis struct {
	Airline           string  `json:"airline"`
	AveragePrice      float64 `json:"average_price"`
	AverageDuration   string  `json:"average_duration"`
	AverageValueScore float64 `json:"average_value_score"`
	TotalFlights      int     `json:"total_flights"`
	Recommendation    string  `json:"recommendation"`
}

// Insights is the structured analysis bundle returned to the caller. The
// price analysis map is keyed by scope: "overall" plus one entry per airline.
type Insights struct {
	Summary                string                 `json:"summary"`
	KeyFindings            []string               `json:"key_findings"`
	PriceAnalysis          map[string]PriceStats  `json:"price_analysis"`
	AirlineComparison      []AirlineAnalysis      `json:"airline_comparison"`
	BestValueFlights       []FlightRecommendation `json:"best_value_flights"`
	CheapestFlights        []FlightRecommendation `json:"cheapest_flights"`
	FastestFlights         []FlightRecommendation `json:"fastest_flights"`
	BookingRecommendations []string               `json:"booking_recommendations"`
	GeneratedAt            time.Time              `json:"generated_at"`
}

// AnalysisResult is the full outcome of an analysis run: the insight bundle,
// the (possibly AI-enriched) flight records, and free-form metrics.
type AnalysisResult struct {
	Insights     Insights       `json:"insights"`
	EnhancedData []Flight       `json:"enhanced_data"`
	Metrics      map[string]any `json:"metrics"`
}
