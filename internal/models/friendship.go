package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendshipStatus is the state of a friendship edge.
type FriendshipStatus string

const (
	// FriendshipPending means the request was sent but not yet accepted.
	FriendshipPending FriendshipStatus = "pending"
	// FriendshipFriends means the requestee accepted the request.
	FriendshipFriends FriendshipStatus = "friends"
)

// Friendship represents a directed edge between two users. The edge is
// created in pending state by the requestor and may only be moved to
// friends by the requestee. At most one edge exists per unordered pair.
type Friendship struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Requestor  primitive.ObjectID `json:"requestor" bson:"requestor"`
	Requestee  primitive.ObjectID `json:"requestee" bson:"requestee"`
	Status     FriendshipStatus   `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	AcceptedAt time.Time          `json:"accepted_at,omitempty" bson:"accepted_at,omitempty"`
}

// Other returns the participant on the far side of the edge from userID.
func (f *Friendship) Other(userID primitive.ObjectID) primitive.ObjectID {
	if f.Requestor == userID {
		return f.Requestee
	}
	return f.Requestor
}

// CreateFriendshipRequest defines the request body for sending a friend request
type CreateFriendshipRequest struct {
	RequesteeID string `json:"requesteeId" validate:"required"`
}
