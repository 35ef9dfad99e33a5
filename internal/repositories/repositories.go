// Package repositories contains the MongoDB data access layer. Each
// repository is an interface plus a Mongo implementation; business rules
// live in the services, repositories do plain document CRUD.
package repositories

import "errors"

// ErrNotFound is returned when a query matches no document. Services
// translate it into the typed not-found failure for their entity.
var ErrNotFound = errors.New("document not found")

// Back-reference array fields on the users collection.
const (
	UserRefFriendships = "friendships"
	UserRefPosts       = "posts"
	UserRefComments    = "comments"
	UserRefReactions   = "reactions"
)

// Back-reference array fields on the posts collection.
const (
	PostRefComments  = "comments"
	PostRefReactions = "reactions"
)
