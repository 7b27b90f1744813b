package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"flight-analyzer/models"
)

// CSVWriter writes AI-enhanced flight records to a timestamped CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates enhanced_flights_<ts>.csv in dir and writes the
// header row. Intermediate directories are created automatically.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("enhanced_flights_%s.csv", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"airline", "flight_number", "departure_airport", "arrival_airport",
		"departure_time", "arrival_time", "duration", "duration_minutes",
		"price", "price_per_hour", "stops", "aircraft", "cabin_class",
		"source", "value_score", "recommendation", "notes",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{path: path, file: f, writer: w}, nil
}

// Path returns the location of the CSV artifact.
func (c *CSVWriter) Path() string { return c.path }

// Write appends one row per flight record.
func (c *CSVWriter) Write(flights []models.Flight) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range flights {
		score := ""
		if f.ValueScore != nil {
			score = strconv.FormatFloat(*f.ValueScore, 'f', 1, 64)
		}
		row := []string{
			f.Airline,
			f.FlightNumber,
			f.DepartureAirport,
			f.ArrivalAirport,
			f.DepartureTime,
			f.ArrivalTime,
			f.Duration,
			strconv.Itoa(f.DurationMinutes),
			strconv.FormatFloat(f.Price, 'f', 2, 64),
			strconv.FormatFloat(f.PricePerHour, 'f', 2, 64),
			strconv.Itoa(f.Stops),
			f.Aircraft,
			f.CabinClass,
			f.Source,
			score,
			f.Recommendation,
			f.Notes,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
