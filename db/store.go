package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/racethestates/api/models"
)

// Store is the bun-backed read layer behind the stats aggregator.
type Store struct {
	db *bun.DB
}

// NewStore wraps a database connection.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// ListStates returns every reference state, name ascending.
func (s *Store) ListStates(ctx context.Context) ([]models.State, error) {
	var states []models.State
	err := s.db.NewSelect().Model(&states).
		OrderExpr("s.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return states, nil
}

// RacesWithState returns the user's races with their state loaded, date then
// id ascending.
func (s *Store) RacesWithState(ctx context.Context, userID int) ([]models.Race, error) {
	var races []models.Race
	err := s.db.NewSelect().Model(&races).
		Relation("State").
		Where("r.user_id = ?", userID).
		OrderExpr("r.date ASC, r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return races, nil
}

// CompletedStates returns the distinct states the user has at least one race
// in. Distinct by state id, not by name.
func (s *Store) CompletedStates(ctx context.Context, userID int) ([]models.State, error) {
	var states []models.State
	err := s.db.NewSelect().Model(&states).
		Distinct().
		Join("INNER JOIN races r ON r.state_id = s.id").
		Where("r.user_id = ?", userID).
		OrderExpr("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return states, nil
}

// MinTimeRace returns the user's fastest race, ties broken by lowest id, or
// nil when the user has no races.
func (s *Store) MinTimeRace(ctx context.Context, userID int) (*models.Race, error) {
	race := &models.Race{}
	err := s.db.NewSelect().Model(race).
		Relation("State").
		Where("r.user_id = ?", userID).
		OrderExpr("r.time ASC, r.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return race, nil
}
