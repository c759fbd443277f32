package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/racethestates/api/models"
)

// ListStates returns the full state reference set, name ascending.
func (h *Handler) ListStates(c echo.Context) error {
	var states []models.State
	err := h.db.NewSelect().Model(&states).
		OrderExpr("s.name ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, states)
}

// GetState returns one state by id.
func (h *Handler) GetState(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid state id")
	}

	state := &models.State{}
	err = h.db.NewSelect().Model(state).
		Where("s.id = ?", id).
		Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "state not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, state)
}

// CreateState inserts a reference state. Normally only the seeder writes
// here; the endpoint exists for ops fixes.
func (h *Handler) CreateState(c echo.Context) error {
	state := &models.State{}
	if err := c.Bind(state); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validateState(state); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.db.NewInsert().Model(state).Exec(c.Request().Context()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "state already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, state)
}

// UpdateState replaces a state's fields.
func (h *Handler) UpdateState(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid state id")
	}

	state := &models.State{}
	if err := c.Bind(state); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validateState(state); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	state.ID = id

	res, err := h.db.NewUpdate().Model(state).
		WherePK().
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "state not found")
	}
	return c.JSON(http.StatusOK, state)
}

// DeleteState removes a state and, through the FK cascade, every race logged
// against it.
func (h *Handler) DeleteState(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid state id")
	}

	res, err := h.db.NewDelete().Model((*models.State)(nil)).
		Where("id = ?", id).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "state not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func validateState(s *models.State) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Abbreviation = strings.ToUpper(strings.TrimSpace(s.Abbreviation))
	s.Region = strings.TrimSpace(s.Region)

	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Abbreviation) != 2 {
		return errors.New("abbreviation must be 2 characters")
	}
	if s.Region == "" {
		return errors.New("region is required")
	}
	return nil
}
