package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendships *services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendships *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendships: friendships}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friendships", h.Create)
	g.PUT("/friendships/:friendshipId", h.Accept)
	g.DELETE("/friendships/:friendshipId", h.Remove)
	g.GET("/users/:userId/friends", h.ListFriends)
}

// Create handles sending a friend request
func (h *FriendshipHandler) Create(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateFriendshipRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "friendship", nil, e)
		}
		return err
	}

	requesteeID, err := primitive.ObjectIDFromHex(req.RequesteeID)
	if err != nil {
		return respondValidation(c, "friendship", nil,
			apperr.Validation("invalid request payload", "requesteeId must be a valid identifier"))
	}

	friendship, err := h.friendships.Create(c.Request().Context(), actingID, requesteeID)
	if err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "friendship", nil, e)
		}
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"friendship": friendship})
}

// Accept handles the requestee accepting a pending friend request
func (h *FriendshipHandler) Accept(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	friendshipID, err := paramObjectID(c, "friendshipId")
	if err != nil {
		return err
	}

	friendship, err := h.friendships.Accept(c.Request().Context(), friendshipID, actingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"friendship": friendship})
}

// Remove handles deleting a friendship in any state
func (h *FriendshipHandler) Remove(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	friendshipID, err := paramObjectID(c, "friendshipId")
	if err != nil {
		return err
	}

	friendship, err := h.friendships.Remove(c.Request().Context(), friendshipID, actingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"friendship": friendship})
}

// ListFriends handles listing a user's friends with pagination, or just
// the count when noDocs is set
func (h *FriendshipHandler) ListFriends(c echo.Context) error {
	if _, err := actingUserID(c); err != nil {
		return err
	}
	userID, err := paramObjectID(c, "userId")
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	_, noDocs := c.QueryParams()["noDocs"]

	result, err := h.friendships.ListFriends(c.Request().Context(), userID, page, limit, noDocs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
