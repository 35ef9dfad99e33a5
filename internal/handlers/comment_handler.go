package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:postId/comments", h.Create)
	g.GET("/posts/:postId/comments", h.List)
	g.PUT("/posts/:postId/comments/:commentId", h.Update)
	g.DELETE("/posts/:postId/comments/:commentId", h.Delete)
}

// Create handles commenting on a post
func (h *CommentHandler) Create(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "comment", nil, e)
		}
		return err
	}

	comment, err := h.comments.Create(c.Request().Context(), postID, actingID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"comment": comment})
}

// List handles listing the comments on a post
func (h *CommentHandler) List(c echo.Context) error {
	if _, err := actingUserID(c); err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	comments, err := h.comments.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"comments": comments})
}

// Update handles editing a comment, author only
func (h *CommentHandler) Update(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}
	commentID, err := paramObjectID(c, "commentId")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "comment", nil, e)
		}
		return err
	}

	comment, err := h.comments.Update(c.Request().Context(), postID, commentID, actingID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"comment": comment})
}

// Delete handles removing a comment, detaching it from its author and post
func (h *CommentHandler) Delete(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}
	commentID, err := paramObjectID(c, "commentId")
	if err != nil {
		return err
	}

	comment, err := h.comments.Delete(c.Request().Context(), postID, commentID, actingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"comment": comment})
}
