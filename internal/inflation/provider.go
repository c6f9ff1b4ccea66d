// Package inflation defines how monthly inflation indices are acquired:
// the provider contract, normalization of published values and an optional
// in-memory snapshot cache with a scheduled refresh.
package inflation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/debt-indexation/internal/models"
)

// ErrDataUnavailable reports that the upstream index table could not be
// fetched or parsed. Match it with errors.Is.
var ErrDataUnavailable = errors.New("inflation data unavailable")

// DataUnavailableMessage is shown to users when the index table cannot be loaded
const DataUnavailableMessage = "Error: Could not get inflation data"

// Provider supplies the full published inflation series
type Provider interface {
	Fetch(ctx context.Context) (*models.InflationSeries, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) (*models.InflationSeries, error)

// Fetch calls f
func (f ProviderFunc) Fetch(ctx context.Context) (*models.InflationSeries, error) {
	return f(ctx)
}

// DataUnavailableError carries the failing source and step
type DataUnavailableError struct {
	Source string
	Op     string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrDataUnavailable, e.Op, e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// Is makes every DataUnavailableError match ErrDataUnavailable
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// Unavailable wraps err as a DataUnavailableError
func Unavailable(source, op string, err error) error {
	return &DataUnavailableError{Source: source, Op: op, Err: err}
}
