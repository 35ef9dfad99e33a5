package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsAuthor(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.True(t, IsAuthor(a, a))
	assert.False(t, IsAuthor(a, b))
}

func TestIsOwner(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.True(t, IsOwner(b, b))
	assert.False(t, IsOwner(b, a))
}

func TestIsParticipant(t *testing.T) {
	requestor := primitive.NewObjectID()
	requestee := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	assert.True(t, IsParticipant(requestor, requestor, requestee))
	assert.True(t, IsParticipant(requestee, requestor, requestee))
	assert.False(t, IsParticipant(outsider, requestor, requestee))
}
