package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"flight-analyzer/config"
	"flight-analyzer/models"
	"flight-analyzer/utils"
)

const (
	// geminiAPIBase is the base URL for the Gemini generateContent API.
	geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

	// geminiTimeout bounds the single analysis round trip. There is no
	// internal retry; on failure the caller falls back to the basic analyzer.
	geminiTimeout = 120 * time.Second

	// promptFlightLimit bounds the number of flights enumerated in the
	// prompt; the model's input budget gains nothing from exhaustive lists.
	promptFlightLimit = 10
)

// ErrNoAPIKey signals that AI analysis is unavailable because no credential
// is configured. Callers must fall back to the basic analyzer.
var ErrNoAPIKey = errors.New("gemini: no API key configured")

// AnalysisError reports an upstream failure of the Gemini call (network,
// quota, service error). Callers treat it the same as ErrNoAPIKey: fall back.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("gemini analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// GeminiClient provides AI-powered flight analysis through the Gemini REST
// API. Construct it once at startup and pass it down; it is safe for
// concurrent use.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewGeminiClient creates a Gemini client from the loaded configuration.
// A missing API key is not an error here; Analyze reports it per call.
func NewGeminiClient(cfg *config.Config, logger *utils.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:     cfg.GeminiAPIKey,
		model:      cfg.GeminiModel,
		baseURL:    geminiAPIBase,
		httpClient: &http.Client{Timeout: geminiTimeout},
		logger:     logger,
	}
}

// Available reports whether a credential is configured.
func (c *GeminiClient) Available() bool { return c.apiKey != "" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string `json:"response_mime_type,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze sends a bounded summary of the flights to Gemini and validates the
// structured completion. One blocking round trip; errors surface immediately.
func (c *GeminiClient) Analyze(ctx context.Context, flights []*models.Flight) (*models.AnalysisResult, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	prompt := buildAnalysisPrompt(flights)
	c.logger.Info("[gemini] Requesting analysis of %d flights (model: %s)", len(flights), c.model)

	payload, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AnalysisError{Err: fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))}
	}

	var completion geminiResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, &AnalysisError{Err: fmt.Errorf("unreadable API envelope: %w", err)}
	}
	if len(completion.Candidates) == 0 || len(completion.Candidates[0].Content.Parts) == 0 {
		return nil, &AnalysisError{Err: errors.New("empty completion")}
	}

	return parseAnalysisResponse(completion.Candidates[0].Content.Parts[0].Text)
}

// analysisPromptTmpl demands one JSON object carrying enriched flights, trend
// commentary, a best-value top 3 and booking guidance.
const analysisPromptTmpl = `You are a senior data analyst specializing in flight data. Your task is to analyze the following flight data and provide comprehensive insights and structured output.

FLIGHT DATA TO ANALYZE:
%s

REQUIRED ANALYSIS:
1. Data Enhancement:
   - Add 'value_score' (0-100) based on price, duration, and stops
   - Add 'recommendation': 'Best Value', 'Good Option', or 'Consider Alternatives'
   - Calculate 'price_per_hour' for better comparison

2. Trend Analysis:
   - Price trends by airline
   - Duration vs. price correlation
   - Stop patterns and their impact on price

3. Key Insights:
   - Top 3 best value flights
   - Cheapest vs. fastest options
   - Airline performance comparison

4. Traveler Recommendations:
   - Best time to book
   - Airline recommendations
   - Price vs. convenience trade-offs

RETURN FORMAT (JSON):
{
    "insights": {
        "summary": "Overall summary of the flight options",
        "key_findings": ["Key finding 1", "Key finding 2"],
        "price_analysis": {
            "overall": {"min": 0, "max": 0, "average": 0, "median": 0},
            "Airline Name": {"min": 0, "max": 0, "average": 0, "median": 0}
        },
        "airline_comparison": [
            {
                "airline": "Airline Name",
                "average_price": 0,
                "average_duration": "0h 0m",
                "average_value_score": 0,
                "total_flights": 0,
                "recommendation": "Recommended/Neutral/Not Recommended"
            }
        ],
        "best_value_flights": [
            {
                "airline": "Airline Name",
                "flight_number": "AB123",
                "price": 0.0,
                "duration": "Xh Ym",
                "departure_time": "HH:MM",
                "arrival_time": "HH:MM",
                "stops": 0,
                "recommendation_type": "Best Value/Good Option/Consider Alternatives",
                "value_score": 0,
                "notes": "Why this flight"
            }
        ],
        "cheapest_flights": [],
        "fastest_flights": [],
        "booking_recommendations": ["Recommendation 1", "Recommendation 2"]
    },
    "enhanced_data": [
        {
            "airline": "Airline name",
            "flight_number": "AB123",
            "departure_airport": "XXX",
            "arrival_airport": "YYY",
            "departure_time": "HH:MM",
            "arrival_time": "HH:MM",
            "duration": "Xh Ym",
            "duration_minutes": 0,
            "price": 0.0,
            "price_per_hour": 0.0,
            "stops": 0,
            "aircraft": "Boeing 737",
            "cabin_class": "Economy",
            "source": "scraper",
            "value_score": 0,
            "recommendation": "Best Value/Good Option/Consider Alternatives",
            "notes": "Any additional notes about this flight"
        }
    ],
    "metrics": {
        "total_flights_analyzed": 0,
        "price_range": {"min": 0, "max": 0, "average": 0},
        "best_value_flight": {"airline": "", "price": 0, "duration": ""},
        "cheapest_flight": {"airline": "", "price": 0, "duration": ""},
        "fastest_flight": {"airline": "", "price": 0, "duration": ""}
    }
}

Return ONLY the JSON object, with no surrounding prose.`

// buildAnalysisPrompt renders the instruction template over a bounded summary
// of the flight set.
func buildAnalysisPrompt(flights []*models.Flight) string {
	var lines []string
	for i, f := range flights {
		if i >= promptFlightLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s - $%.2f - %s - %d stops",
			i+1, f.Airline, f.Price, f.Duration, f.Stops))
	}
	summary := strings.Join(lines, "\n")
	if len(flights) > promptFlightLimit {
		summary += fmt.Sprintf("\n... and %d more flights", len(flights)-promptFlightLimit)
	}
	return fmt.Sprintf(analysisPromptTmpl, summary)
}
