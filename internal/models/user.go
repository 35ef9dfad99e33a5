package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a member of the network stored in MongoDB. The slice
// fields hold back-references to documents owned by the user; they are
// maintained manually by the services whenever an owned document is
// created or deleted.
type User struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	Bio            string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Friendships    []primitive.ObjectID `json:"friendships" bson:"friendships"`
	Posts          []primitive.ObjectID `json:"posts" bson:"posts"`
	Comments       []primitive.ObjectID `json:"comments" bson:"comments"`
	Reactions      []primitive.ObjectID `json:"reactions" bson:"reactions"`
	ProfilePicture primitive.ObjectID   `json:"profile_picture" bson:"profile_picture"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=300"`
}

// SigninRequest defines the request body for local login
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the request body for profile updates
type UpdateUserRequest struct {
	Name string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio  string `json:"bio,omitempty" validate:"omitempty,max=300"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
