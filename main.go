package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"flight-analyzer/config"
	"flight-analyzer/models"
	"flight-analyzer/scraper/googleflights"
	"flight-analyzer/services"
	"flight-analyzer/storage"
	"flight-analyzer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	days := flag.Int("days", 1, "scan this many consecutive departure dates")
	noAI := flag.Bool("no-ai", false, "skip Gemini analysis and use the basic analyzer")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 3 {
		usage()
		os.Exit(2)
	}

	query := models.SearchQuery{
		Departure:   flag.Arg(0),
		Destination: flag.Arg(1),
		Date:        flag.Arg(2),
	}
	query.Normalize()
	if err := query.Validate(); err != nil {
		logger.Fatal("Invalid search query: %v", err)
	}

	logger.Info("=== Flight Analyzer starting ===")
	logger.Info("Search: %s → %s on %s | days: %d | AI: %t",
		query.Departure, query.Destination, query.Date, *days, !*noAI && cfg.GeminiAPIKey != "")

	ctx := context.Background()

	scraper := googleflights.New(cfg, logger)
	flights, err := scraper.SearchRange(ctx, query, *days)
	if err != nil {
		logger.Fatal("Scrape failed: %v", err)
	}
	if len(flights) == 0 {
		logger.Fatal("No flights found for %s → %s on %s", query.Departure, query.Destination, query.Date)
	}

	logger.Info("Scraped %d flights — analyzing...", len(flights))

	result := analyze(ctx, cfg, logger, flights, *noAI)

	reporter := services.NewReporter(cfg.OutputDir, logger)
	writeArtifacts(cfg, logger, reporter, result)
	reporter.Print(result)

	fmt.Printf("  Done. Analysis artifacts → %s | Debug captures → %s\n\n", cfg.OutputDir, cfg.DebugDir)
}

// analyze runs the Gemini path when requested and configured, falling back to
// the basic analyzer on any analysis error. Once flights exist, analysis
// always yields a result.
func analyze(ctx context.Context, cfg *config.Config, logger *utils.Logger, flights []*models.Flight, noAI bool) *models.AnalysisResult {
	if !noAI {
		gemini := services.NewGeminiClient(cfg, logger)
		aiCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		result, err := gemini.Analyze(aiCtx, flights)
		cancel()

		if err == nil {
			logger.Info("AI analysis complete — %d enhanced records", len(result.EnhancedData))
			return result
		}
		if errors.Is(err, services.ErrNoAPIKey) {
			logger.Warn("AI analysis unavailable (no GEMINI_API_KEY) — using basic analyzer")
		} else {
			logger.Error("AI analysis failed: %v — using basic analyzer", err)
		}
	}

	basic := services.NewBasicAnalyzer(logger)
	result, err := basic.Analyze(flights)
	if err != nil {
		// Unreachable with the non-empty guarantee above.
		logger.Fatal("Basic analysis failed: %v", err)
	}
	return result
}

// writeArtifacts stores the enhanced-flights CSV. Artifact failures are
// logged but never fail the run; the bundle is still reported.
func writeArtifacts(cfg *config.Config, logger *utils.Logger, reporter *services.Reporter, result *models.AnalysisResult) {
	csvWriter, err := storage.NewCSVWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		defer csvWriter.Close()
		if err := csvWriter.Write(result.EnhancedData); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("Enhanced flights saved to %s", csvWriter.Path())
		}
	}

	if path, err := reporter.WriteMarkdown(result); err != nil {
		logger.Error("Markdown report failed: %v", err)
	} else {
		logger.Info("Insight report saved to %s", path)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: flight-analyzer [flags] <DEPARTURE> <DESTINATION> <YYYY-MM-DD>

Scrapes Google Flights for the route and date, analyzes the offers and
writes an enhanced CSV plus a Markdown insight report.

Flags:
`)
	flag.PrintDefaults()
}
