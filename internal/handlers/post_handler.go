package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts    *services.PostService
	pictures *services.PictureService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, pictures *services.PictureService) *PostHandler {
	return &PostHandler{posts: posts, pictures: pictures}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.Create)
	g.GET("/posts", h.List)
	g.GET("/posts/:postId", h.Get)
	g.PUT("/posts/:postId", h.Update)
	g.DELETE("/posts/:postId", h.Delete)
	g.POST("/posts/:postId/picture", h.AttachPicture)
}

// Create handles creating a new post
func (h *PostHandler) Create(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "post", nil, e)
		}
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), actingID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"post": post})
}

// List handles the paginated feed
func (h *PostHandler) List(c echo.Context) error {
	if _, err := actingUserID(c); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.posts.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles fetching a single post
func (h *PostHandler) Get(c echo.Context) error {
	if _, err := actingUserID(c); err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	post, err := h.posts.Get(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"post": post})
}

// Update handles editing a post, author only
func (h *PostHandler) Update(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "post", nil, e)
		}
		return err
	}

	post, err := h.posts.Update(c.Request().Context(), postID, actingID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"post": post})
}

// Delete handles removing a post and cascading over its comments,
// reactions and picture
func (h *PostHandler) Delete(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	post, err := h.posts.Delete(c.Request().Context(), postID, actingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"post": post})
}

// AttachPicture handles a multipart picture upload onto a post
func (h *PostHandler) AttachPicture(c echo.Context) error {
	actingID, err := actingUserID(c)
	if err != nil {
		return err
	}
	postID, err := paramObjectID(c, "postId")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return respondValidation(c, "picture", emptyPicture(),
			validationMissingFile())
	}
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	post, err := h.pictures.AttachPostPicture(c.Request().Context(), postID, actingID, fileHeader.Filename, src)
	if err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "picture", emptyPicture(), e)
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"post": post})
}
