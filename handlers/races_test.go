package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racethestates/api/models"
)

func validRaceRequest() raceRequest {
	d, _ := models.ParseDuration("1:45:00")
	return raceRequest{
		Name:  "Bolder Boulder",
		Date:  "2024-05-27",
		Time:  &d,
		State: 6,
	}
}

func TestRaceRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := validRaceRequest()
		require.NoError(t, req.validate())
	})

	t.Run("defaults distance to half marathon", func(t *testing.T) {
		req := validRaceRequest()
		require.NoError(t, req.validate())
		require.NotNil(t, req.Distance)
		assert.Equal(t, models.HalfMarathon, *req.Distance)
	})

	t.Run("keeps an explicit distance", func(t *testing.T) {
		req := validRaceRequest()
		five := models.FiveK
		req.Distance = &five
		require.NoError(t, req.validate())
		assert.Equal(t, models.FiveK, *req.Distance)
	})

	t.Run("unknown distance is not an error", func(t *testing.T) {
		req := validRaceRequest()
		ultra := "50 mile ultra"
		req.Distance = &ultra
		require.NoError(t, req.validate())
	})

	t.Run("missing name", func(t *testing.T) {
		req := validRaceRequest()
		req.Name = "   "
		assert.Error(t, req.validate())
	})

	t.Run("missing state", func(t *testing.T) {
		req := validRaceRequest()
		req.State = 0
		assert.Error(t, req.validate())
	})

	t.Run("bad date", func(t *testing.T) {
		req := validRaceRequest()
		req.Date = "05/27/2024"
		assert.Error(t, req.validate())
	})

	t.Run("missing time", func(t *testing.T) {
		req := validRaceRequest()
		req.Time = nil
		assert.Error(t, req.validate())
	})
}
