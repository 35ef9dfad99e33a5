package handlers

import (
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users        *services.UserService
	firebaseAuth *auth.Client
	jwtSecret    string
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil when
// no Firebase project is configured.
func NewAuthHandler(users *services.UserService, firebaseAuth *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, firebaseAuth: firebaseAuth, jwtSecret: jwtSecret}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "user", nil, e)
		}
		return err
	}

	user, err := h.users.Signup(c.Request().Context(), &req)
	if err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "user", nil, e)
		}
		return err
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"user": user, "token": token})
}

// SignIn handles local login, returning a bearer token
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "user", nil, e)
		}
		return err
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token})
}

// firebaseLoginRequest is the body of the Firebase token exchange
type firebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a verified Firebase ID token for a local bearer
// token, provisioning the account on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req firebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		if e, ok := invalidOrConflict(err); ok {
			return respondValidation(c, "user", nil, e)
		}
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return apperr.Authentication("invalid or expired ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if email == "" {
		return apperr.Authentication("ID token carries no email claim")
	}

	user, err := h.users.EnsureExternal(c.Request().Context(), name, email)
	if err != nil {
		return err
	}

	jwtToken, err := h.generateJWT(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"user": user, "token": jwtToken})
}

// generateJWT issues a signed token for the user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
