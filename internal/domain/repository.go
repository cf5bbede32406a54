package domain

import (
	"context"
)

// Station selector value that disables the station constraint
const AllStations = "All"

// ObservationSource defines the interface for loading the observation table.
// This follows the Dependency Inversion Principle - domain defines the interface
type ObservationSource interface {
	// Name identifies the source in logs and health output
	Name() string

	// Load reads every observation the source holds
	Load(ctx context.Context) ([]Observation, error)

	// Health checks source connectivity
	Health(ctx context.Context) error
}
