package storage

import "flight-analyzer/models"

// FlightWriter is the interface any analysis-artifact backend must satisfy.
type FlightWriter interface {
	Write(flights []models.Flight) error
	Close() error
}
