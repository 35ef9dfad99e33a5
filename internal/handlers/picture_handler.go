package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/services"
)

// PictureHandler handles HTTP requests related to picture records
type PictureHandler struct {
	pictures *services.PictureService
}

// NewPictureHandler creates a new PictureHandler
func NewPictureHandler(pictures *services.PictureService) *PictureHandler {
	return &PictureHandler{pictures: pictures}
}

// RegisterPictureRoutes registers picture-related routes
func (h *PictureHandler) RegisterPictureRoutes(g *echo.Group) {
	g.DELETE("/pictures/:pictureId", h.Delete)
}

// Delete handles removing a post picture record and its local file
func (h *PictureHandler) Delete(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	pictureID, err := paramObjectID(c, "pictureId")
	if err != nil {
		return err
	}

	picture, err := h.pictures.Delete(c.Request().Context(), pictureID, actingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"picture": picture})
}
