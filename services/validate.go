package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flight-analyzer/models"
)

// MalformedResponseError reports a structurally invalid AI completion. The
// bundle is rejected wholesale: a response the model got partially wrong is
// never partially trusted.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed analysis response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed analysis response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Intermediate shapes with pointer fields so that absent required values are
// distinguishable from zero values.
type rawPriceStats struct {
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Average *float64 `json:"average"`
	Median  *float64 `json:"median"`
}

type rawRecommendation struct {
	Airline            *string  `json:"airline"`
	FlightNumber       string   `json:"flight_number"`
	Price              *float64 `json:"price"`
	Duration           *string  `json:"duration"`
	DepartureTime      *string  `json:"departure_time"`
	ArrivalTime        *string  `json:"arrival_time"`
	Stops              *int     `json:"stops"`
	RecommendationType *string  `json:"recommendation_type"`
	ValueScore         *float64 `json:"value_score"`
	Notes              string   `json:"notes"`
}

type rawAirlineAnalysis struct {
	Airline           *string  `json:"airline"`
	AveragePrice      *float64 `json:"average_price"`
	AverageDuration   *string  `json:"average_duration"`
	AverageValueScore *float64 `json:"average_value_score"`
	TotalFlights      *int     `json:"total_flights"`
	Recommendation    *string  `json:"recommendation"`
}

type rawInsights struct {
	Summary                string                   `json:"summary"`
	KeyFindings            []string                 `json:"key_findings"`
	PriceAnalysis          map[string]rawPriceStats `json:"price_analysis"`
	AirlineComparison      []rawAirlineAnalysis     `json:"airline_comparison"`
	BestValueFlights       []rawRecommendation      `json:"best_value_flights"`
	CheapestFlights        []rawRecommendation      `json:"cheapest_flights"`
	FastestFlights         []rawRecommendation      `json:"fastest_flights"`
	BookingRecommendations []string                 `json:"booking_recommendations"`
}

type rawEnvelope struct {
	Insights     *rawInsights    `json:"insights"`
	EnhancedData []models.Flight `json:"enhanced_data"`
	Metrics      map[string]any  `json:"metrics"`
}

// parseAnalysisResponse parses the model's completion text as JSON and
// reconstructs the insight bundle through the fixed schema. Missing top-level
// keys default to empty collections; any nested record with a missing
// required field, a type mismatch or an out-of-range value score fails the
// whole call.
func parseAnalysisResponse(raw string) (*models.AnalysisResult, error) {
	trimmed := trimCompletion(raw)

	var envelope rawEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return nil, &MalformedResponseError{Reason: "completion is not valid JSON", Err: err}
	}

	result := &models.AnalysisResult{
		EnhancedData: envelope.EnhancedData,
		Metrics:      envelope.Metrics,
	}
	if result.EnhancedData == nil {
		result.EnhancedData = []models.Flight{}
	}
	if result.Metrics == nil {
		result.Metrics = map[string]any{}
	}

	for i, f := range result.EnhancedData {
		if f.ValueScore != nil && (*f.ValueScore < 0 || *f.ValueScore > 100) {
			return nil, &MalformedResponseError{
				Reason: fmt.Sprintf("enhanced_data[%d]: value_score %.2f outside [0,100]", i, *f.ValueScore),
			}
		}
	}

	insights, err := validateInsights(envelope.Insights)
	if err != nil {
		return nil, err
	}
	result.Insights = *insights

	return result, nil
}

func validateInsights(raw *rawInsights) (*models.Insights, error) {
	insights := &models.Insights{
		KeyFindings:            []string{},
		PriceAnalysis:          map[string]models.PriceStats{},
		AirlineComparison:      []models.AirlineAnalysis{},
		BestValueFlights:       []models.FlightRecommendation{},
		CheapestFlights:        []models.FlightRecommendation{},
		FastestFlights:         []models.FlightRecommendation{},
		BookingRecommendations: []string{},
		GeneratedAt:            time.Now().UTC(),
	}
	if raw == nil {
		return insights, nil
	}

	insights.Summary = raw.Summary
	if raw.KeyFindings != nil {
		insights.KeyFindings = raw.KeyFindings
	}
	if raw.BookingRecommendations != nil {
		insights.BookingRecommendations = raw.BookingRecommendations
	}

	for scope, stats := range raw.PriceAnalysis {
		if stats.Min == nil || stats.Max == nil || stats.Average == nil || stats.Median == nil {
			return nil, &MalformedResponseError{
				Reason: fmt.Sprintf("price_analysis[%q]: missing required statistic", scope),
			}
		}
		insights.PriceAnalysis[scope] = models.PriceStats{
			Min:     *stats.Min,
			Max:     *stats.Max,
			Average: *stats.Average,
			Median:  *stats.Median,
		}
	}

	for i, a := range raw.AirlineComparison {
		if a.Airline == nil || a.AveragePrice == nil || a.AverageDuration == nil ||
			a.AverageValueScore == nil || a.TotalFlights == nil || a.Recommendation == nil {
			return nil, &MalformedResponseError{
				Reason: fmt.Sprintf("airline_comparison[%d]: missing required field", i),
			}
		}
		insights.AirlineComparison = append(insights.AirlineComparison, models.AirlineAnalysis{
			Airline:           *a.Airline,
			AveragePrice:      *a.AveragePrice,
			AverageDuration:   *a.AverageDuration,
			AverageValueScore: *a.AverageValueScore,
			TotalFlights:      *a.TotalFlights,
			Recommendation:    *a.Recommendation,
		})
	}

	lists := []struct {
		name string
		raw  []rawRecommendation
		dst  *[]models.FlightRecommendation
	}{
		{"best_value_flights", raw.BestValueFlights, &insights.BestValueFlights},
		{"cheapest_flights", raw.CheapestFlights, &insights.CheapestFlights},
		{"fastest_flights", raw.FastestFlights, &insights.FastestFlights},
	}
	for _, l := range lists {
		for i, r := range l.raw {
			rec, err := validateRecommendation(r, fmt.Sprintf("%s[%d]", l.name, i))
			if err != nil {
				return nil, err
			}
			*l.dst = append(*l.dst, *rec)
		}
	}

	return insights, nil
}

func validateRecommendation(r rawRecommendation, where string) (*models.FlightRecommendation, error) {
	if r.Airline == nil || r.Price == nil || r.Duration == nil || r.DepartureTime == nil ||
		r.ArrivalTime == nil || r.Stops == nil || r.RecommendationType == nil || r.ValueScore == nil {
		return nil, &MalformedResponseError{Reason: where + ": missing required field"}
	}
	if *r.ValueScore < 0 || *r.ValueScore > 100 {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("%s: value_score %.2f outside [0,100]", where, *r.ValueScore),
		}
	}
	switch *r.RecommendationType {
	case models.RecommendBestValue, models.RecommendGoodOption, models.RecommendAlternatives:
	default:
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("%s: unknown recommendation_type %q", where, *r.RecommendationType),
		}
	}

	return &models.FlightRecommendation{
		Airline:            *r.Airline,
		FlightNumber:       r.FlightNumber,
		Price:              *r.Price,
		Duration:           *r.Duration,
		DepartureTime:      *r.DepartureTime,
		ArrivalTime:        *r.ArrivalTime,
		Stops:              *r.Stops,
		RecommendationType: *r.RecommendationType,
		ValueScore:         *r.ValueScore,
		Notes:              r.Notes,
	}, nil
}

// trimCompletion removes surrounding whitespace and the markdown code fence
// some completions wrap the JSON in despite the JSON response mime type.
func trimCompletion(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}
