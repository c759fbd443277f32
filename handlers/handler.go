package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/racethestates/api/config"
	"github.com/racethestates/api/mail"
	mw "github.com/racethestates/api/middleware"
	"github.com/racethestates/api/stats"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	agg    *stats.Aggregator
	mailer mail.Sender
	social *SocialVerifier
	jwtKey []byte
	cfg    *config.Config
}

// New creates a Handler with the given dependencies.
func New(db *bun.DB, agg *stats.Aggregator, mailer mail.Sender, social *SocialVerifier, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		agg:    agg,
		mailer: mailer,
		social: social,
		jwtKey: cfg.JWTKey(),
		cfg:    cfg,
	}
}

// userID returns the authenticated user id or an Unauthorized error. Checked
// before any query runs.
func userID(c echo.Context) (int, error) {
	id, _ := c.Get(mw.CtxUserID).(int)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
