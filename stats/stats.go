// Package stats computes the dashboard summary and race-log views from a
// user's race history and the state reference data. It is pure computation
// over a Store; request auth and error mapping live at the HTTP boundary.
package stats

import (
	"context"

	"github.com/racethestates/api/models"
)

// Store is the read surface the aggregator needs. Each call must be
// individually consistent; read-committed across calls is enough.
type Store interface {
	// ListStates returns the full reference set.
	ListStates(ctx context.Context) ([]models.State, error)
	// RacesWithState returns the user's races joined to their state,
	// ordered by date ascending then id ascending.
	RacesWithState(ctx context.Context, userID int) ([]models.Race, error)
	// CompletedStates returns the distinct states the user has raced in.
	CompletedStates(ctx context.Context, userID int) ([]models.State, error)
	// MinTimeRace returns the user's fastest race with its state loaded,
	// ties broken by lowest id. Nil when the user has no races.
	MinTimeRace(ctx context.Context, userID int) (*models.Race, error)
}

// Aggregator builds per-user summary views. Construct once at startup; the
// region list fixes which regions progress_by_region reports.
type Aggregator struct {
	store   Store
	regions []string
}

// New creates an Aggregator over the given store reporting the given regions.
func New(store Store, regions []string) *Aggregator {
	return &Aggregator{store: store, regions: regions}
}
