package middleware

import (
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/apperr"
)

// FirebaseAuthMiddleware creates an Echo middleware verifying Firebase ID
// tokens, used as an alternative to the local JWT scheme when a Firebase
// project is configured.
func FirebaseAuthMiddleware(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperr.Authentication("missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return apperr.Authentication("Authorization header must be in Bearer format")
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), parts[1])
			if err != nil {
				return apperr.Authentication("invalid or expired ID token")
			}

			c.Set("firebaseUID", token.UID)
			return next(c)
		}
	}
}
