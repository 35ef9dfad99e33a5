package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PictureOwnerKind discriminates the owner side of a picture record.
type PictureOwnerKind string

const (
	// PictureOwnerUser marks a profile picture owned by a user.
	PictureOwnerUser PictureOwnerKind = "user"
	// PictureOwnerPost marks a picture attached to a post.
	PictureOwnerPost PictureOwnerKind = "post"
)

// PictureOwner is the tagged owner reference of a picture. Kind selects
// which collection ID points into.
type PictureOwner struct {
	Kind PictureOwnerKind   `json:"kind" bson:"kind"`
	ID   primitive.ObjectID `json:"id" bson:"id"`
}

// Picture represents an image record. IsLocal distinguishes files uploaded
// to local storage, which are removed from disk together with the record,
// from externally sourced filenames (such as the default avatar), which
// are not.
type Picture struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Filename  string             `json:"filename" bson:"filename"`
	IsLocal   bool               `json:"is_local" bson:"is_local"`
	Owner     PictureOwner       `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// DefaultAvatarFilename is the externally hosted placeholder assigned to
// every new user until they upload their own picture.
const DefaultAvatarFilename = "default-avatar.png"
