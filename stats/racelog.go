package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/racethestates/api/models"
)

// LogEntry is one denormalized race-log row: the race merged with its state's
// display attributes. Unlike the timeline it carries time, city and distance.
type LogEntry struct {
	StateName   string          `json:"state_name"`
	City        *string         `json:"city"`
	Region      string          `json:"region"`
	RegionColor *string         `json:"region_color"`
	SVGPath     *string         `json:"svg_path"`
	RaceName    string          `json:"race_name"`
	Date        string          `json:"date"`
	Time        models.Duration `json:"time"`
	Distance    *string         `json:"distance"`
}

// RaceLog returns the user's full race history, most recent first. No
// pagination; the client renders the whole list.
func (a *Aggregator) RaceLog(ctx context.Context, userID int) ([]LogEntry, error) {
	races, err := a.store.RacesWithState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading races: %w", err)
	}

	// The store returns date ascending; flip to descending, newest id first
	// within a date.
	sort.SliceStable(races, func(i, j int) bool {
		if races[i].Date != races[j].Date {
			return races[i].Date > races[j].Date
		}
		return races[i].ID > races[j].ID
	})

	entries := make([]LogEntry, 0, len(races))
	for _, r := range races {
		entries = append(entries, LogEntry{
			StateName:   r.State.Name,
			City:        r.City,
			Region:      r.State.Region,
			RegionColor: r.State.RegionColor,
			SVGPath:     r.State.SVGPath,
			RaceName:    r.Name,
			Date:        r.Date,
			Time:        r.Time,
			Distance:    r.Distance,
		})
	}
	return entries, nil
}
