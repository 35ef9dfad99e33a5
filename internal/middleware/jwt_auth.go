package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextUserID is the echo context key carrying the authenticated user's
// ObjectID.
const ContextUserID = "userID"

// JWTAuthMiddleware checks for a valid bearer token and stores the acting
// user's id in the request context.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
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
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperr.Authentication("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return apperr.Authentication("invalid token")
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return apperr.Authentication("invalid token subject")
			}

			c.Set(ContextUserID, userID)
			c.Set("userEmail", claims.Email)
			return next(c)
		}
	}
}
