package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReactionLike is the only reaction type currently accepted.
const ReactionLike = "like"

// Reaction represents a user's reaction to a post. At most one reaction
// of a given type may exist per (user, post) pair.
type Reaction struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Post      primitive.ObjectID `json:"post" bson:"post"`
	Type      string             `json:"type" bson:"type"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreateReactionRequest defines the request body for reacting to a post
type CreateReactionRequest struct {
	Type string `json:"type" validate:"required,oneof=like"`
}
