package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/racethestates/api/models"
)

type raceRequest struct {
	Name     string           `json:"name"`
	Date     string           `json:"date"`
	Time     *models.Duration `json:"time"`
	State    int              `json:"state"`
	City     *string          `json:"city"`
	Distance *string          `json:"distance"`
	Notes    *string          `json:"notes"`
}

// validate normalizes the request and reports the first problem. An unknown
// distance category is accepted; it just counts as zero miles.
func (r *raceRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.State == 0 {
		return errors.New("state is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	if r.Time == nil {
		return errors.New("time is required")
	}
	if r.Distance == nil {
		half := models.HalfMarathon
		r.Distance = &half
	}
	return nil
}

// ListRaces returns the caller's races with state details, newest first.
func (h *Handler) ListRaces(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var races []models.Race
	err = h.db.NewSelect().Model(&races).
		Relation("State").
		Where("r.user_id = ?", uid).
		OrderExpr("r.date DESC, r.id DESC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, races)
}

// GetRace returns one of the caller's races.
func (h *Handler) GetRace(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid race id")
	}

	race := &models.Race{}
	err = h.db.NewSelect().Model(race).
		Relation("State").
		Where("r.id = ? AND r.user_id = ?", id, uid).
		Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "race not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, race)
}

// CreateRace logs a race for the caller.
func (h *Handler) CreateRace(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req raceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	exists, err := h.db.NewSelect().Model((*models.State)(nil)).
		Where("id = ?", req.State).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusBadRequest, "state does not exist")
	}

	race := &models.Race{
		UserID:   uid,
		StateID:  req.State,
		Name:     req.Name,
		Date:     req.Date,
		Time:     *req.Time,
		Distance: req.Distance,
		City:     req.City,
		Notes:    req.Notes,
	}
	if _, err := h.db.NewInsert().Model(race).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, race)
}

// UpdateRace replaces one of the caller's races. Ownership is enforced in the
// WHERE clause, never trusted from the payload.
func (h *Handler) UpdateRace(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid race id")
	}

	var req raceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	res, err := h.db.NewUpdate().Model((*models.Race)(nil)).
		Set("name = ?", req.Name).
		Set("date = ?", req.Date).
		Set("time = ?", *req.Time).
		Set("state_id = ?", req.State).
		Set("city = ?", req.City).
		Set("distance = ?", req.Distance).
		Set("notes = ?", req.Notes).
		Where("id = ? AND user_id = ?", id, uid).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "race not found")
	}

	race := &models.Race{}
	if err := h.db.NewSelect().Model(race).
		Relation("State").
		Where("r.id = ?", id).
		Scan(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, race)
}

// DeleteRace removes one of the caller's races; its images cascade.
func (h *Handler) DeleteRace(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid race id")
	}

	res, err := h.db.NewDelete().Model((*models.Race)(nil)).
		Where("id = ? AND user_id = ?", id, uid).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "race not found")
	}
	return c.NoContent(http.StatusNoContent)
}
