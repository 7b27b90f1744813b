package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"flight-analyzer/models"
	"flight-analyzer/utils"
)

// Reporter renders analysis results as a Markdown artifact and a terminal
// summary.
type Reporter struct {
	outputDir string
	logger    *utils.Logger
}

// NewReporter creates a Reporter writing Markdown into outputDir.
func NewReporter(outputDir string, logger *utils.Logger) *Reporter {
	return &Reporter{outputDir: outputDir, logger: logger}
}

// WriteMarkdown writes flight_insights_<ts>.md and returns its path.
func (r *Reporter) WriteMarkdown(result *models.AnalysisResult) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("reporter: create output dir: %w", err)
	}

	ts := time.Now().Format("20060102_150405")
	path := filepath.Join(r.outputDir, fmt.Sprintf("flight_insights_%s.md", ts))

	var b strings.Builder
	in := result.Insights

	b.WriteString("# Flight Analysis Insights\n\n")
	b.WriteString(fmt.Sprintf("*Generated on %s*\n\n", in.GeneratedAt.Format("2006-01-02 15:04:05")))

	b.WriteString("## Summary\n\n")
	b.WriteString(in.Summary + "\n\n")

	if len(in.KeyFindings) > 0 {
		b.WriteString("## Key Findings\n\n")
		for _, finding := range in.KeyFindings {
			b.WriteString("- " + finding + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Price Analysis\n\n")
	if overall, ok := in.PriceAnalysis["overall"]; ok {
		b.WriteString(fmt.Sprintf("- **Price Range:** $%.2f - $%.2f\n", overall.Min, overall.Max))
		b.WriteString(fmt.Sprintf("- **Average Price:** $%.2f\n", overall.Average))
		b.WriteString(fmt.Sprintf("- **Median Price:** $%.2f\n\n", overall.Median))
	}

	if len(in.AirlineComparison) > 0 {
		b.WriteString("## Airline Comparison\n\n")
		for _, airline := range in.AirlineComparison {
			b.WriteString("### " + airline.Airline + "\n")
			b.WriteString(fmt.Sprintf("- **Avg. Price:** $%.2f\n", airline.AveragePrice))
			b.WriteString(fmt.Sprintf("- **Avg. Duration:** %s\n", airline.AverageDuration))
			b.WriteString(fmt.Sprintf("- **Value Score:** %.1f/100\n", airline.AverageValueScore))
			b.WriteString(fmt.Sprintf("- **Recommendation:** %s\n\n", airline.Recommendation))
		}
	}

	if len(in.BookingRecommendations) > 0 {
		b.WriteString("## Booking Recommendations\n\n")
		for i, rec := range in.BookingRecommendations {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("reporter: write %q: %w", path, err)
	}
	return path, nil
}

// Print formats and prints the insight report to the terminal.
func (r *Reporter) Print(result *models.AnalysisResult) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	in := result.Insights

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ✈  FLIGHT ANALYSIS INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Summary\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  %s\n\n", in.Summary)

	if len(in.KeyFindings) > 0 {
		fmt.Printf("\033[1;33m  Key Findings\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for _, finding := range in.KeyFindings {
			fmt.Printf("  • %s\n", finding)
		}
		fmt.Println()
	}

	if overall, ok := in.PriceAnalysis["overall"]; ok {
		fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Minimum price : \033[1;32m$%.2f\033[0m\n", overall.Min)
		fmt.Printf("  Maximum price : \033[1;32m$%.2f\033[0m\n", overall.Max)
		fmt.Printf("  Average price : \033[1;32m$%.2f\033[0m\n", overall.Average)
		fmt.Printf("  Median price  : \033[1;32m$%.2f\033[0m\n\n", overall.Median)
	}

	printRecommendations("Best Value Flights", in.BestValueFlights, thin)
	printRecommendations("Cheapest Flights", in.CheapestFlights, thin)
	printRecommendations("Fastest Flights", in.FastestFlights, thin)

	if len(in.AirlineComparison) > 0 {
		fmt.Printf("\033[1;33m  Airline Comparison\033[0m\n")
		fmt.Printf("  %s\n", thin)
		airlines := make([]models.AirlineAnalysis, len(in.AirlineComparison))
		copy(airlines, in.AirlineComparison)
		sort.Slice(airlines, func(i, j int) bool {
			return airlines[i].AverageValueScore > airlines[j].AverageValueScore
		})
		for _, a := range airlines {
			fmt.Printf("  %-28s $%-9.2f %.1f/100 (%d flights)\n",
				truncate(a.Airline, 26), a.AveragePrice, a.AverageValueScore, a.TotalFlights)
		}
		fmt.Println()
	}

	if len(in.BookingRecommendations) > 0 {
		fmt.Printf("\033[1;33m  Booking Recommendations\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for i, rec := range in.BookingRecommendations {
			fmt.Printf("  \033[1m%d.\033[0m %s\n", i+1, rec)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printRecommendations(title string, recs []models.FlightRecommendation, thin string) {
	if len(recs) == 0 {
		return
	}
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", thin)
	for _, rec := range recs {
		fmt.Printf("  %-26s \033[1;32m$%-8.2f\033[0m %-10s score %.0f\n",
			truncate(rec.Airline, 24), rec.Price, rec.Duration, rec.ValueScore)
	}
	fmt.Println()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
