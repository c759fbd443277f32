package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racethestates/api/config"
	mw "github.com/racethestates/api/middleware"
	"github.com/racethestates/api/models"
	"github.com/racethestates/api/stats"
)

// emptyStore serves a small reference set and no races.
type emptyStore struct{}

func (emptyStore) ListStates(ctx context.Context) ([]models.State, error) {
	return []models.State{
		{ID: 1, Name: "Colorado", Abbreviation: "CO", Region: "West"},
		{ID: 2, Name: "Vermont", Abbreviation: "VT", Region: "Northeast"},
	}, nil
}

func (emptyStore) RacesWithState(ctx context.Context, userID int) ([]models.Race, error) {
	return nil, nil
}

func (emptyStore) CompletedStates(ctx context.Context, userID int) ([]models.State, error) {
	return nil, nil
}

func (emptyStore) MinTimeRace(ctx context.Context, userID int) (*models.Race, error) {
	return nil, nil
}

func testHandler() *Handler {
	cfg := &config.Config{
		JWTSecret: "test-key",
		Regions:   []string{"West", "Midwest", "South", "Northeast"},
	}
	agg := stats.New(emptyStore{}, cfg.Regions)
	return New(nil, agg, nil, nil, cfg)
}

func testContext(method, path string, authed bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authed {
		c.Set(mw.CtxUserID, 7)
	}
	return c, rec
}

func TestDashboardRequiresIdentity(t *testing.T) {
	h := testHandler()
	c, _ := testContext(http.MethodGet, "/api/dashboard", false)

	err := h.Dashboard(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestDashboardResponseContract(t *testing.T) {
	h := testHandler()
	c, rec := testContext(http.MethodGet, "/api/dashboard", true)

	require.NoError(t, h.Dashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	for _, key := range []string{
		"total_states_completed",
		"total_miles_logged",
		"completed_states",
		"all_states",
		"progress_by_region",
		"timeline",
		"personal_record",
	} {
		assert.Contains(t, body, key)
	}

	// Zero races: empty arrays rather than null, explicit zero counts, null PR.
	assert.JSONEq(t, `[]`, string(body["completed_states"]))
	assert.JSONEq(t, `[]`, string(body["timeline"]))
	assert.JSONEq(t, `null`, string(body["personal_record"]))
	assert.JSONEq(t, `{"West":0,"Midwest":0,"South":0,"Northeast":0}`, string(body["progress_by_region"]))
	assert.JSONEq(t, `0`, string(body["total_states_completed"]))
	assert.JSONEq(t, `0`, string(body["total_miles_logged"]))
}

func TestRaceLogRequiresIdentity(t *testing.T) {
	h := testHandler()
	c, _ := testContext(http.MethodGet, "/api/race-log", false)

	err := h.RaceLog(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRaceLogWrapsRacesArray(t *testing.T) {
	h := testHandler()
	c, rec := testContext(http.MethodGet, "/api/race-log", true)

	require.NoError(t, h.RaceLog(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"races":[]}`, rec.Body.String())
}
