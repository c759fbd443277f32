package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/racethestates/api/models"
)

type raceImageRequest struct {
	Race  int    `json:"race"`
	Image string `json:"image"`
}

// ListRaceImages returns image refs for the caller's races, optionally
// filtered with ?race=.
func (h *Handler) ListRaceImages(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var images []models.RaceImage
	q := h.db.NewSelect().Model(&images).
		Join("INNER JOIN races r ON r.id = ri.race_id").
		Where("r.user_id = ?", uid).
		OrderExpr("ri.uploaded_at DESC")

	if raceParam := c.QueryParam("race"); raceParam != "" {
		raceID, err := strconv.Atoi(raceParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid race param")
		}
		q = q.Where("ri.race_id = ?", raceID)
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, images)
}

// CreateRaceImage attaches an image ref to one of the caller's races. The
// bytes live wherever the ref points; this only records the association.
func (h *Handler) CreateRaceImage(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req raceImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Image = strings.TrimSpace(req.Image)
	if req.Race == 0 || req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "race and image are required")
	}

	ctx := c.Request().Context()
	owned, err := h.db.NewSelect().Model((*models.Race)(nil)).
		Where("id = ? AND user_id = ?", req.Race, uid).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !owned {
		return echo.NewHTTPError(http.StatusNotFound, "race not found")
	}

	img := &models.RaceImage{RaceID: req.Race, Image: req.Image}
	if _, err := h.db.NewInsert().Model(img).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, img)
}

// DeleteRaceImage removes an image ref owned (via its race) by the caller.
func (h *Handler) DeleteRaceImage(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image id")
	}

	res, err := h.db.NewDelete().Model((*models.RaceImage)(nil)).
		Where("id = ? AND race_id IN (SELECT id FROM races WHERE user_id = ?)", id, uid).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	return c.NoContent(http.StatusNoContent)
}
