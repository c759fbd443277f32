package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/racethestates/api/models"
)

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// PasswordResetRequest stores a fresh reset token on the user and emails the
// reset link.
func (h *Handler) PasswordResetRequest(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	ctx := c.Request().Context()
	user := &models.User{}
	err := h.db.NewSelect().Model(user).
		Where("email = ?", req.Email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "user with this email does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = h.db.NewUpdate().Model((*models.User)(nil)).
		Set("reset_token = ?", token).
		Where("id = ?", user.ID).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	link := fmt.Sprintf("%s/%s", h.cfg.ResetLinkBase, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nYou requested to reset your password. Open the link below to reset it:\n\n%s\n\nIf you didn't request this, please ignore this email.",
		user.FirstName, link,
	)
	if err := h.mailer.Send(ctx, user.Email, "Password Reset Request", body); err != nil {
		zap.L().Error("password reset mail failed", zap.String("email", user.Email), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to send email")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "password reset email sent"})
}

// PasswordResetValidate reports whether a reset token is currently usable.
func (h *Handler) PasswordResetValidate(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	exists, err := h.db.NewSelect().Model((*models.User)(nil)).
		Where("reset_token = ?", token).
		Exists(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired token")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "token is valid"})
}

// PasswordResetConfirm sets a new password for the token holder and clears
// the token.
func (h *Handler) PasswordResetConfirm(c echo.Context) error {
	var req resetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Token == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token and password are required")
	}

	ctx := c.Request().Context()
	user := &models.User{}
	err := h.db.NewSelect().Model(user).
		Where("reset_token = ?", req.Token).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	_, err = h.db.NewUpdate().Model((*models.User)(nil)).
		Set("password = ?", string(hash)).
		Set("reset_token = NULL").
		Where("id = ?", user.ID).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "password has been reset successfully"})
}
