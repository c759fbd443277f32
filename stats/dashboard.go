package stats

import (
	"context"
	"fmt"
	"math"

	"github.com/racethestates/api/models"
)

// StateSummary is one state the dashboard map renders.
type StateSummary struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

// TimelineEntry is one dashboard timeline row. Elapsed time is deliberately
// omitted here; the race log carries it.
type TimelineEntry struct {
	State    string `json:"state"`
	Region   string `json:"region"`
	RaceName string `json:"race_name"`
	Date     string `json:"date"`
}

// PersonalRecord is the user's fastest race with its state's display fields.
type PersonalRecord struct {
	RaceName    string          `json:"race_name"`
	State       string          `json:"state"`
	Region      string          `json:"region"`
	RegionColor *string         `json:"region_color"`
	SVGPath     *string         `json:"svg_path"`
	Time        models.Duration `json:"time"`
	Date        string          `json:"date"`
}

// Dashboard is the full summary returned to one user.
type Dashboard struct {
	TotalStatesCompleted int             `json:"total_states_completed"`
	TotalMilesLogged     float64         `json:"total_miles_logged"`
	CompletedStates      []StateSummary  `json:"completed_states"`
	AllStates            []StateSummary  `json:"all_states"`
	ProgressByRegion     map[string]int  `json:"progress_by_region"`
	Timeline             []TimelineEntry `json:"timeline"`
	PersonalRecord       *PersonalRecord `json:"personal_record"`
}

// Dashboard aggregates the user's races against the state reference data.
// Read-only and idempotent; repository errors propagate untouched.
func (a *Aggregator) Dashboard(ctx context.Context, userID int) (*Dashboard, error) {
	races, err := a.store.RacesWithState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading races: %w", err)
	}
	completed, err := a.store.CompletedStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading completed states: %w", err)
	}
	allStates, err := a.store.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading states: %w", err)
	}
	fastest, err := a.store.MinTimeRace(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading fastest race: %w", err)
	}

	d := &Dashboard{
		TotalStatesCompleted: len(completed),
		CompletedStates:      make([]StateSummary, 0, len(completed)),
		AllStates:            make([]StateSummary, 0, len(allStates)),
		ProgressByRegion:     make(map[string]int, len(a.regions)),
		Timeline:             make([]TimelineEntry, 0, len(races)),
	}

	// Every configured region reports a count, zero included. Regions outside
	// the configured list are not reported.
	for _, region := range a.regions {
		d.ProgressByRegion[region] = 0
	}
	for _, s := range completed {
		d.CompletedStates = append(d.CompletedStates, StateSummary{Name: s.Name, Region: s.Region})
		if _, ok := d.ProgressByRegion[s.Region]; ok {
			d.ProgressByRegion[s.Region]++
		}
	}

	for _, s := range allStates {
		d.AllStates = append(d.AllStates, StateSummary{Name: s.Name, Region: s.Region})
	}

	var miles float64
	for _, r := range races {
		miles += models.Miles(r.Distance)
		d.Timeline = append(d.Timeline, TimelineEntry{
			State:    r.State.Name,
			Region:   r.State.Region,
			RaceName: r.Name,
			Date:     r.Date,
		})
	}
	d.TotalMilesLogged = math.Round(miles*10) / 10

	if fastest != nil {
		d.PersonalRecord = &PersonalRecord{
			RaceName:    fastest.Name,
			State:       fastest.State.Name,
			Region:      fastest.State.Region,
			RegionColor: fastest.State.RegionColor,
			SVGPath:     fastest.State.SVGPath,
			Time:        fastest.Time,
			Date:        fastest.Date,
		}
	}

	return d, nil
}
