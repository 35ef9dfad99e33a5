package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/services"
)

// ReactionHandler handles HTTP requests related to reactions
type ReactionHandler struct {
	reactions *services.ReactionService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:postId/reactions", h.Create)
	g.GET("/posts/:postId/reactions", h.List)
	g.DELETE("/posts/:postId/reactions/:reactionId", h.Delete)
}

// Create handles reacting to a post; a duplicate reaction is a 422
func (h *ReactionHandler) Create(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	var req models.CreateReactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "reaction", nil, e)
		}
		return err
	}

	reaction, err := h.reactions.Create(c.Request().Context(), postID, actingID, req.Type)
	if err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "reaction", nil, e)
		}
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"reaction": reaction})
}

// List handles listing the reactions on a post
func (h *ReactionHandler) List(c echo.Context) error {
	if _, err := actingUserID(c); err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	reactions, err := h.reactions.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"reactions": reactions})
}

// Delete handles removing a reaction, owner only
func (h *ReactionHandler) Delete(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}
	reactionID, err := paramObjectID(c, "reactionId")
	if err != nil {
		return err
	}

	reaction, err := h.reactions.Delete(c.Request().Context(), postID, reactionID, actingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"reaction": reaction})
}
