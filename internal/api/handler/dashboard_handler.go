package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// DashboardHandler answers "what can I see" for the logged-in role.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Panels handles GET /v1/dashboard — the role-conditioned panel set.
//
// @Summary      List the dashboard panels for the caller's role
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Panels(c echo.Context) error {
	username, _ := c.Get("username").(string)
	roleStr, _ := c.Get("role").(string)

	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	panels := domain.PanelsFor(&domain.Identity{Username: username, Role: role})
	names := make([]string, len(panels))
	for i, p := range panels {
		names[i] = string(p)
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		Username: username,
		Role:     string(role),
		Panels:   names,
	})
}

// ViewDetails handles GET /v1/batches/details — the buyer placeholder.
// Deliberately unimplemented; no remote-call semantics exist for it.
//
// @Summary      View batch details (buyer placeholder)
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Failure      501  {object}  errorResponse
// @Router       /v1/batches/details [get]
func (h *DashboardHandler) ViewDetails(c echo.Context) error {
	return domain.ErrNotImplemented
}
