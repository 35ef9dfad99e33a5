package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/services"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	users    *services.UserService
	pictures *services.PictureService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, pictures *services.PictureService) *UserHandler {
	return &UserHandler{users: users, pictures: pictures}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:userId", h.Get)
	g.PUT("/users/me", h.Update)
	g.DELETE("/users/me", h.Delete)
	g.PUT("/users/me/picture", h.SetProfilePicture)
}

// Get handles fetching a user profile
func (h *UserHandler) Get(c echo.Context) error {
	if _, err := actingUserID(c); err != nil {
		return err
	}
	userID, err := paramObjectID(c, "userId")
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"user": user})
}

// Update handles editing the acting user's profile
func (h *UserHandler) Update(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "user", nil, e)
		}
		return err
	}

	user, err := h.users.Update(c.Request().Context(), actingID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"user": user})
}

// Delete handles removing the acting user's account and everything it owns
func (h *UserHandler) Delete(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), actingID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": true})
}

// SetProfilePicture handles a multipart profile picture upload
func (h *UserHandler) SetProfilePicture(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return respondValidation(c, "picture", emptyPicture(), validationMissingFile())
	}
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	user, err := h.pictures.SetProfilePicture(c.Request().Context(), actingID, fileHeader.Filename, src)
	if err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "picture", emptyPicture(), e)
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"user": user})
}
