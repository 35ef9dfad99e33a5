// Package authz holds the pure relation checks run before any mutation of
// a friendship or owned entity. Checks compare identity values only and
// have no side effects.
package authz

import "go.mongodb.org/mongo-driver/bson/primitive"

// IsAuthor reports whether acting is the author of a resource.
func IsAuthor(acting, author primitive.ObjectID) bool {
	return acting == author
}

// IsOwner reports whether acting owns a resource.
func IsOwner(acting, owner primitive.ObjectID) bool {
	return acting == owner
}

// IsParticipant reports whether acting is either side of a relationship.
func IsParticipant(acting, requestor, requestee primitive.ObjectID) bool {
	return acting == requestor || acting == requestee
}
