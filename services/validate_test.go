package services

import (
	"errors"
	"testing"

	"flight-analyzer/models"
)

const validCompletion = `{
	"insights": {
		"summary": "Emirates dominates the route",
		"key_findings": ["Nonstop commands a premium"],
		"price_analysis": {
			"overall": {"min": 800, "max": 1500, "average": 1110, "median": 1100}
		},
		"airline_comparison": [
			{
				"airline": "Emirates",
				"average_price": 1250,
				"average_duration": "14h 25m",
				"average_value_score": 82,
				"total_flights": 3,
				"recommendation": "Recommended"
			}
		],
		"best_value_flights": [
			{
				"airline": "Emirates",
				"flight_number": "EK413",
				"price": 1245,
				"duration": "14h 25m",
				"departure_time": "06:00",
				"arrival_time": "17:30",
				"stops": 0,
				"recommendation_type": "Best Value",
				"value_score": 88,
				"notes": "Nonstop at a fair price"
			}
		],
		"cheapest_flights": [],
		"fastest_flights": [],
		"booking_recommendations": ["Book three weeks out"]
	},
	"enhanced_data": [
		{
			"airline": "Emirates",
			"departure_airport": "SYD",
			"arrival_airport": "DXB",
			"price": 1245,
			"stops": 0,
			"cabin_class": "Economy",
			"source": "scraper",
			"value_score": 88
		}
	],
	"metrics": {"total_flights_analyzed": 1}
}`

func TestParseAnalysisResponseValid(t *testing.T) {
	result, err := parseAnalysisResponse(validCompletion)
	if err != nil {
		t.Fatalf("parseAnalysisResponse: %v", err)
	}

	if result.Insights.Summary != "Emirates dominates the route" {
		t.Errorf("summary: got %q", result.Insights.Summary)
	}
	if len(result.Insights.BestValueFlights) != 1 {
		t.Fatalf("best value flights: got %d, want 1", len(result.Insights.BestValueFlights))
	}
	rec := result.Insights.BestValueFlights[0]
	if rec.RecommendationType != models.RecommendBestValue || rec.ValueScore != 88 {
		t.Errorf("recommendation: got %q/%.2f", rec.RecommendationType, rec.ValueScore)
	}
	if len(result.EnhancedData) != 1 {
		t.Fatalf("enhanced data: got %d records, want 1", len(result.EnhancedData))
	}
	if result.EnhancedData[0].ValueScore == nil || *result.EnhancedData[0].ValueScore != 88 {
		t.Error("enhanced record lost its value score")
	}
}

func TestParseAnalysisResponseNotJSON(t *testing.T) {
	_, err := parseAnalysisResponse("I could not complete the analysis, sorry.")

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestParseAnalysisResponseFencedJSON(t *testing.T) {
	fenced := "```json\n" + validCompletion + "\n```"

	result, err := parseAnalysisResponse(fenced)
	if err != nil {
		t.Fatalf("fenced completion should parse: %v", err)
	}
	if result.Insights.Summary == "" {
		t.Error("fenced completion lost its insights")
	}
}

func TestParseAnalysisResponseMissingTopLevelKeys(t *testing.T) {
	result, err := parseAnalysisResponse(`{}`)
	if err != nil {
		t.Fatalf("empty object should yield empty defaults: %v", err)
	}

	if result.Insights.KeyFindings == nil || len(result.Insights.KeyFindings) != 0 {
		t.Error("key findings should default to an empty slice")
	}
	if result.Insights.PriceAnalysis == nil {
		t.Error("price analysis should default to an empty map")
	}
	if result.EnhancedData == nil || len(result.EnhancedData) != 0 {
		t.Error("enhanced data should default to an empty slice")
	}
	if result.Metrics == nil {
		t.Error("metrics should default to an empty map")
	}
}

func TestParseAnalysisResponseRejectsWholesale(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"value score above bound",
			`{"enhanced_data": [{"airline": "Qantas", "value_score": 142}]}`,
		},
		{
			"negative value score",
			`{"insights": {"cheapest_flights": [{
				"airline": "Qantas", "price": 900, "duration": "15h",
				"departure_time": "08:00", "arrival_time": "23:00", "stops": 1,
				"recommendation_type": "Best Value", "value_score": -5}]}}`,
		},
		{
			"recommendation missing required field",
			`{"insights": {"best_value_flights": [{
				"airline": "Qantas", "price": 900,
				"recommendation_type": "Best Value", "value_score": 70}]}}`,
		},
		{
			"unknown recommendation type",
			`{"insights": {"best_value_flights": [{
				"airline": "Qantas", "price": 900, "duration": "15h",
				"departure_time": "08:00", "arrival_time": "23:00", "stops": 1,
				"recommendation_type": "Must Book Now", "value_score": 70}]}}`,
		},
		{
			"price stats missing median",
			`{"insights": {"price_analysis": {"overall": {"min": 800, "max": 1500, "average": 1110}}}}`,
		},
		{
			"airline comparison missing field",
			`{"insights": {"airline_comparison": [{"airline": "Qantas", "average_price": 950}]}}`,
		},
		{
			"type mismatch",
			`{"insights": {"summary": 42}}`,
		},
	}

	for _, tt := range tests {
		_, err := parseAnalysisResponse(tt.raw)

		var malformed *MalformedResponseError
		if err == nil {
			t.Errorf("%s: expected rejection, got nil error", tt.name)
		} else if !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedResponseError, got %T: %v", tt.name, err, err)
		}
	}
}

func TestTrimCompletion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		if got := trimCompletion(tt.raw); got != tt.want {
			t.Errorf("trimCompletion(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}
