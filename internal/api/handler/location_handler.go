package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// LocationHandler serves the admin panel's location lookup. Purely
// informational; the result never feeds a remote call.
type LocationHandler struct {
	locator ports.GeoLocator
}

func NewLocationHandler(locator ports.GeoLocator) *LocationHandler {
	return &LocationHandler{locator: locator}
}

// Current handles GET /v1/location.
//
// @Summary      Get the current position
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  locationResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/location [get]
func (h *LocationHandler) Current(c echo.Context) error {
	coords, err := h.locator.Current(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, locationResponse{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	})
}
