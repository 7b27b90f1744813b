package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"flight-analyzer/models"
	"flight-analyzer/utils"
)

// BasicAnalyzer computes statistical insights locally. It is the guaranteed
// fallback for the AI path: for non-empty input it always produces a bundle.
type BasicAnalyzer struct {
	logger *utils.Logger
}

// NewBasicAnalyzer creates a BasicAnalyzer with the given logger.
func NewBasicAnalyzer(logger *utils.Logger) *BasicAnalyzer {
	return &BasicAnalyzer{logger: logger}
}

// Analyze builds a minimal insight bundle over the flight set: overall price
// statistics, the cheapest offer and, when duration data exists, the fastest
// one. Callers must guarantee non-empty input.
func (a *BasicAnalyzer) Analyze(flights []*models.Flight) (*models.AnalysisResult, error) {
	if len(flights) == 0 {
		return nil, errors.New("basic analysis requires at least one flight")
	}

	stats := priceStats(flights)

	cheapestIdx := 0
	for i, f := range flights {
		if f.Price < flights[cheapestIdx].Price {
			cheapestIdx = i
		}
	}
	cheapest := recommendFlight(flights[cheapestIdx], models.RecommendBestValue,
		priceScore(flights[cheapestIdx].Price, stats))

	fastest := fastestRecommendation(flights)

	insights := models.Insights{
		Summary: "Basic flight analysis (AI not available)",
		KeyFindings: []string{
			fmt.Sprintf("Found %d flights with prices from $%.2f to $%.2f",
				len(flights), stats.Min, stats.Max),
			fmt.Sprintf("Average price: $%.2f", stats.Average),
		},
		PriceAnalysis:     map[string]models.PriceStats{"overall": stats},
		AirlineComparison: []models.AirlineAnalysis{},
		BestValueFlights:  []models.FlightRecommendation{},
		CheapestFlights:   []models.FlightRecommendation{cheapest},
		FastestFlights:    []models.FlightRecommendation{},
		BookingRecommendations: []string{
			"Consider booking in advance for better prices",
			"Check multiple airlines for the best deals",
		},
		GeneratedAt: time.Now().UTC(),
	}
	if fastest != nil {
		insights.FastestFlights = append(insights.FastestFlights, *fastest)
	}

	enhanced := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		enhanced = append(enhanced, *f)
	}

	return &models.AnalysisResult{
		Insights:     insights,
		EnhancedData: enhanced,
		Metrics: map[string]any{
			"total_flights_analyzed": len(flights),
			"price_range": map[string]float64{
				"min": stats.Min, "max": stats.Max, "average": stats.Average,
			},
			"note": "Basic analysis performed (AI not available)",
		},
	}, nil
}

// priceStats computes min/max/mean/median over the record prices.
func priceStats(flights []*models.Flight) models.PriceStats {
	prices := make([]float64, 0, len(flights))
	var total float64
	for _, f := range flights {
		prices = append(prices, f.Price)
		total += f.Price
	}
	sort.Float64s(prices)

	n := len(prices)
	median := prices[n/2]
	if n%2 == 0 {
		median = (prices[n/2-1] + prices[n/2]) / 2
	}

	return models.PriceStats{
		Min:     prices[0],
		Max:     prices[n-1],
		Average: total / float64(n),
		Median:  median,
	}
}

// priceScore maps a price onto [0,100] relative to the set's range: the
// cheapest offer scores 100, the most expensive 0.
func priceScore(price float64, stats models.PriceStats) float64 {
	if stats.Max == stats.Min {
		return 100
	}
	return (stats.Max - price) / (stats.Max - stats.Min) * 100
}

// fastestRecommendation returns the minimum-duration flight, or nil when no
// record carries duration data.
func fastestRecommendation(flights []*models.Flight) *models.FlightRecommendation {
	var fastest *models.Flight
	for _, f := range flights {
		if f.DurationMinutes <= 0 {
			continue
		}
		if fastest == nil || f.DurationMinutes < fastest.DurationMinutes {
			fastest = f
		}
	}
	if fastest == nil {
		return nil
	}
	rec := recommendFlight(fastest, models.RecommendGoodOption, 100)
	return &rec
}

func recommendFlight(f *models.Flight, label string, score float64) models.FlightRecommendation {
	return models.FlightRecommendation{
		Airline:            f.Airline,
		FlightNumber:       f.FlightNumber,
		Price:              f.Price,
		Duration:           f.Duration,
		DepartureTime:      f.DepartureTime,
		ArrivalTime:        f.ArrivalTime,
		Stops:              f.Stops,
		RecommendationType: label,
		ValueScore:         score,
	}
}
