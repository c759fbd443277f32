package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Dashboard returns the caller's aggregated progress summary.
func (h *Handler) Dashboard(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	summary, err := h.agg.Dashboard(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

// RaceLog returns the caller's full race history, newest first.
func (h *Handler) RaceLog(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	entries, err := h.agg.RaceLog(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"races": entries})
}
