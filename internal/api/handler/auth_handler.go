package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chemtrack/chemical-tracker/internal/api/metrics"
	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

type AuthHandler struct {
	sessionService ports.SessionService
}

func NewAuthHandler(sessionService ports.SessionService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  *domain.Identity `json:"user"`
}

// Login authenticates against the fixed credential table and returns a
// bearer token for the new session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.sessionService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, User: &result.Identity})
}

// Logout revokes the caller's session and triggers a full application
// reload — the hard-reset sign-out the dashboard is specified to have.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID, _ := c.Get("session_id").(string)
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.sessionService.Logout(c.Request().Context(), sessionID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
