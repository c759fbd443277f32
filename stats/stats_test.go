package stats

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racethestates/api/models"
)

// fakeStore serves fixtures in the same order contract as the bun store.
type fakeStore struct {
	states []models.State
	races  []models.Race
	err    error
}

func (f *fakeStore) ListStates(ctx context.Context) ([]models.State, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.states, nil
}

func (f *fakeStore) RacesWithState(ctx context.Context, userID int) ([]models.Race, error) {
	if f.err != nil {
		return nil, f.err
	}
	races := make([]models.Race, 0, len(f.races))
	for _, r := range f.races {
		if r.UserID == userID {
			races = append(races, r)
		}
	}
	sort.SliceStable(races, func(i, j int) bool {
		if races[i].Date != races[j].Date {
			return races[i].Date < races[j].Date
		}
		return races[i].ID < races[j].ID
	})
	return races, nil
}

func (f *fakeStore) CompletedStates(ctx context.Context, userID int) ([]models.State, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[int]bool{}
	var states []models.State
	for _, r := range f.races {
		if r.UserID != userID || seen[r.StateID] {
			continue
		}
		seen[r.StateID] = true
		states = append(states, *r.State)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })
	return states, nil
}

func (f *fakeStore) MinTimeRace(ctx context.Context, userID int) (*models.Race, error) {
	if f.err != nil {
		return nil, f.err
	}
	var best *models.Race
	for i := range f.races {
		r := &f.races[i]
		if r.UserID != userID {
			continue
		}
		if best == nil || r.Time < best.Time || (r.Time == best.Time && r.ID < best.ID) {
			best = r
		}
	}
	return best, nil
}

var defaultRegions = []string{"West", "Midwest", "South", "Northeast"}

func strPtr(s string) *string { return &s }

func mustDuration(t *testing.T, s string) models.Duration {
	t.Helper()
	d, err := models.ParseDuration(s)
	require.NoError(t, err)
	return d
}

func testStates() []models.State {
	green := "#95FF00"
	pink := "#FF63FA"
	return []models.State{
		{ID: 1, Name: "Colorado", Abbreviation: "CO", Region: "West", RegionColor: &green},
		{ID: 2, Name: "Ohio", Abbreviation: "OH", Region: "Midwest"},
		{ID: 3, Name: "Texas", Abbreviation: "TX", Region: "South", RegionColor: &pink},
		{ID: 4, Name: "Vermont", Abbreviation: "VT", Region: "Northeast"},
	}
}

func stateByID(states []models.State, id int) *models.State {
	for i := range states {
		if states[i].ID == id {
			return &states[i]
		}
	}
	return nil
}

func TestDashboardZeroRaces(t *testing.T) {
	store := &fakeStore{states: testStates()}
	agg := New(store, defaultRegions)

	d, err := agg.Dashboard(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, d.TotalStatesCompleted)
	assert.Equal(t, 0.0, d.TotalMilesLogged)
	assert.Empty(t, d.CompletedStates)
	assert.Empty(t, d.Timeline)
	assert.Nil(t, d.PersonalRecord)
	assert.Len(t, d.AllStates, 4)

	// Every region reports zero rather than being absent.
	require.Len(t, d.ProgressByRegion, 4)
	for _, region := range defaultRegions {
		count, ok := d.ProgressByRegion[region]
		require.True(t, ok, "region %s missing", region)
		assert.Equal(t, 0, count)
	}
}

func TestDashboardAggregates(t *testing.T) {
	states := testStates()
	store := &fakeStore{
		states: states,
		races: []models.Race{
			{ID: 1, UserID: 1, StateID: 1, State: stateByID(states, 1), Name: "Bolder Boulder",
				Date: "2024-01-05", Time: mustDuration(t, "1:45:00"), Distance: strPtr(models.FiveK)},
			{ID: 2, UserID: 1, StateID: 3, State: stateByID(states, 3), Name: "Austin Marathon",
				Date: "2024-03-01", Time: mustDuration(t, "1:30:00"), Distance: strPtr(models.Marathon)},
			{ID: 3, UserID: 1, StateID: 3, State: stateByID(states, 3), Name: "Dallas Half",
				Date: "2023-12-20", Time: mustDuration(t, "2:10:00"), Distance: strPtr(models.HalfMarathon)},
			// Another user's race must never leak into user 1's summary.
			{ID: 4, UserID: 2, StateID: 2, State: stateByID(states, 2), Name: "Columbus 10k",
				Date: "2024-02-02", Time: mustDuration(t, "0:50:00"), Distance: strPtr(models.TenK)},
		},
	}
	agg := New(store, defaultRegions)

	d, err := agg.Dashboard(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, d.TotalStatesCompleted)
	assert.Len(t, d.CompletedStates, d.TotalStatesCompleted)
	assert.ElementsMatch(t, []StateSummary{
		{Name: "Colorado", Region: "West"},
		{Name: "Texas", Region: "South"},
	}, d.CompletedStates)

	// 3.1 + 26.2 + 13.1, rounded to one decimal.
	assert.Equal(t, 42.4, d.TotalMilesLogged)

	assert.Equal(t, map[string]int{"West": 1, "Midwest": 0, "South": 1, "Northeast": 0}, d.ProgressByRegion)

	// Timeline ascends by date and omits elapsed time.
	require.Len(t, d.Timeline, 3)
	assert.Equal(t, []string{"2023-12-20", "2024-01-05", "2024-03-01"},
		[]string{d.Timeline[0].Date, d.Timeline[1].Date, d.Timeline[2].Date})
	assert.Equal(t, TimelineEntry{State: "Texas", Region: "South", RaceName: "Dallas Half", Date: "2023-12-20"}, d.Timeline[0])

	require.NotNil(t, d.PersonalRecord)
	assert.Equal(t, "Austin Marathon", d.PersonalRecord.RaceName)
	assert.Equal(t, "Texas", d.PersonalRecord.State)
	assert.Equal(t, "South", d.PersonalRecord.Region)
	assert.Equal(t, "1:30:00", d.PersonalRecord.Time.String())
	require.NotNil(t, d.PersonalRecord.RegionColor)
	assert.Equal(t, "#FF63FA", *d.PersonalRecord.RegionColor)
}

func TestDashboardUnknownDistanceContributesZero(t *testing.T) {
	states := testStates()
	store := &fakeStore{
		states: states,
		races: []models.Race{
			{ID: 1, UserID: 1, StateID: 1, State: stateByID(states, 1), Name: "Mystery Run",
				Date: "2024-01-05", Time: mustDuration(t, "1:00:00"), Distance: strPtr("ultra")},
			{ID: 2, UserID: 1, StateID: 2, State: stateByID(states, 2), Name: "No Distance",
				Date: "2024-02-05", Time: mustDuration(t, "1:10:00")},
			{ID: 3, UserID: 1, StateID: 3, State: stateByID(states, 3), Name: "Real 5k",
				Date: "2024-03-05", Time: mustDuration(t, "0:20:00"), Distance: strPtr(models.FiveK)},
		},
	}
	agg := New(store, defaultRegions)

	d, err := agg.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3.1, d.TotalMilesLogged)
}

func TestDashboardIdempotent(t *testing.T) {
	states := testStates()
	store := &fakeStore{
		states: states,
		races: []models.Race{
			{ID: 1, UserID: 1, StateID: 1, State: stateByID(states, 1), Name: "Bolder Boulder",
				Date: "2024-01-05", Time: mustDuration(t, "1:45:00"), Distance: strPtr(models.FiveK)},
		},
	}
	agg := New(store, defaultRegions)

	first, err := agg.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	second, err := agg.Dashboard(context.Background(), 1)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDashboardMonotonicity(t *testing.T) {
	states := testStates()
	store := &fakeStore{
		states: states,
		races: []models.Race{
			{ID: 1, UserID: 1, StateID: 1, State: stateByID(states, 1), Name: "Bolder Boulder",
				Date: "2024-01-05", Time: mustDuration(t, "1:45:00"), Distance: strPtr(models.FiveK)},
		},
	}
	agg := New(store, defaultRegions)
	ctx := context.Background()

	before, err := agg.Dashboard(ctx, 1)
	require.NoError(t, err)

	// A race in a new state bumps the total and that region's count by one.
	store.races = append(store.races, models.Race{
		ID: 2, UserID: 1, StateID: 4, State: stateByID(states, 4), Name: "Burlington Half",
		Date: "2024-04-01", Time: mustDuration(t, "1:50:00"), Distance: strPtr(models.HalfMarathon),
	})
	after, err := agg.Dashboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before.TotalStatesCompleted+1, after.TotalStatesCompleted)
	assert.Equal(t, before.ProgressByRegion["Northeast"]+1, after.ProgressByRegion["Northeast"])

	// A second race in an already-visited state changes neither.
	store.races = append(store.races, models.Race{
		ID: 3, UserID: 1, StateID: 4, State: stateByID(states, 4), Name: "Burlington Again",
		Date: "2024-05-01", Time: mustDuration(t, "1:55:00"), Distance: strPtr(models.HalfMarathon),
	})
	again, err := agg.Dashboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, after.TotalStatesCompleted, again.TotalStatesCompleted)
	assert.Equal(t, after.ProgressByRegion, again.ProgressByRegion)
}

func TestPersonalRecordTieBreaksOnLowestID(t *testing.T) {
	states := testStates()
	store := &fakeStore{
		states: states,
		races: []models.Race{
			{ID: 7, UserID: 1, StateID: 1, State: stateByID(states, 1), Name: "Later Entry",
				Date: "2024-02-01", Time: mustDuration(t, "1:30:00"), Distance: strPtr(models.HalfMarathon)},
			{ID: 2, UserID: 1, StateID: 3, State: stateByID(states, 3), Name: "Earlier Entry",
				Date: "2024-01-01", Time: mustDuration(t, "1:30:00"), Distance: strPtr(models.HalfMarathon)},
		},
	}
	agg := New(store, defaultRegions)

	d, err := agg.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, d.PersonalRecord)
	assert.Equal(t, "Earlier Entry", d.PersonalRecord.RaceName)
}

func TestRaceLogDescendingWithFullFields(t *testing.T) {
	states := testStates()
	store := &fakeStore{
		states: states,
		races: []models.Race{
			{ID: 1, UserID: 1, StateID: 1, State: stateByID(states, 1), Name: "January Race",
				Date: "2024-01-05", Time: mustDuration(t, "1:45:00"),
				Distance: strPtr(models.FiveK), City: strPtr("Boulder")},
			{ID: 2, UserID: 1, StateID: 3, State: stateByID(states, 3), Name: "March Race",
				Date: "2024-03-01", Time: mustDuration(t, "1:30:00"), Distance: strPtr(models.Marathon)},
			{ID: 3, UserID: 1, StateID: 2, State: stateByID(states, 2), Name: "December Race",
				Date: "2023-12-20", Time: mustDuration(t, "2:10:00"), Distance: strPtr(models.HalfMarathon)},
		},
	}
	agg := New(store, defaultRegions)

	entries, err := agg.RaceLog(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Most recent first — opposite of the dashboard timeline.
	assert.Equal(t, []string{"2024-03-01", "2024-01-05", "2023-12-20"},
		[]string{entries[0].Date, entries[1].Date, entries[2].Date})

	jan := entries[1]
	assert.Equal(t, "Colorado", jan.StateName)
	assert.Equal(t, "West", jan.Region)
	require.NotNil(t, jan.City)
	assert.Equal(t, "Boulder", *jan.City)
	assert.Equal(t, "1:45:00", jan.Time.String())
	require.NotNil(t, jan.Distance)
	assert.Equal(t, models.FiveK, *jan.Distance)
	require.NotNil(t, jan.RegionColor)
	assert.Equal(t, "#95FF00", *jan.RegionColor)
}

func TestStoreErrorsPropagate(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	agg := New(store, defaultRegions)

	_, err := agg.Dashboard(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")

	_, err = agg.RaceLog(context.Background(), 1)
	require.Error(t, err)
}
