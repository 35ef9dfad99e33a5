package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actingUserID returns the authenticated user's id set by the auth
// middleware.
func actingUserID(c echo.Context) (primitive.ObjectID, error) {
	id, ok := c.Get(middleware.ContextUserID).(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, apperr.Authentication("missing authenticated user")
	}
	return id, nil
}

// paramObjectID parses a route parameter that must be a well-formed
// ObjectID. A malformed value yields the shared "Page not found" 404 so
// callers cannot distinguish it from a missing record.
func paramObjectID(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperr.PageNotFound()
	}
	return id, nil
}

// bindAndValidate binds the JSON body into req and runs the validator
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation("invalid request payload")
	}
	return c.Validate(req)
}

// respondValidation renders the 422 envelope that echoes the resource next
// to the field errors: {<resource>: ..., "errors": [...]}.
func respondValidation(c echo.Context, resource string, value any, e *apperr.Error) error {
	errs := e.Fields
	if len(errs) == 0 {
		errs = []string{e.Message}
	}
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		resource: value,
		"errors": errs,
	})
}

// emptyPicture is the resource echoed on a rejected upload: no file was
// written, so the filename is empty.
func emptyPicture() map[string]string {
	return map[string]string{"filename": ""}
}

func validationMissingFile() *apperr.Error {
	return apperr.Validation("invalid request payload", "picture file is required")
}

// invalidOrConflict reports whether err should be rendered as a resource
// validation envelope rather than the generic error envelope.
func invalidOrConflict(err error) (*apperr.Error, bool) {
	e := apperr.As(err)
	if e == nil {
		return nil, false
	}
	if e.Kind == apperr.KindValidation || e.Kind == apperr.KindConflict {
		return e, true
	}
	return nil, false
}
