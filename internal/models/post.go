package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post stored in MongoDB. Comments and Reactions hold
// back-references to the documents attached to the post.
type Post struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Text      string               `json:"text" bson:"text"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	Reactions []primitive.ObjectID `json:"reactions" bson:"reactions"`
	Picture   primitive.ObjectID   `json:"picture,omitempty" bson:"picture,omitempty"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}
