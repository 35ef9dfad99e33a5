package services

import (
	"context"
	"testing"

	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommentCreateMaintainsBackReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")
	commenter := newTestUser(t, f.users, "commenter")

	post, err := f.postSvc.Create(ctx, author.ID, "hello")
	require.NoError(t, err)

	comment, err := f.commentSvc.Create(ctx, post.ID, commenter.ID, "nice post")
	require.NoError(t, err)

	gotUser, err := f.users.GetByID(ctx, commenter.ID)
	require.NoError(t, err)
	gotPost, err := f.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Contains(t, gotUser.Comments, comment.ID)
	assert.Contains(t, gotPost.Comments, comment.ID)
}

func TestCommentCreateOnMissingPost(t *testing.T) {
	f := newFixture(t)
	commenter := newTestUser(t, f.users, "commenter")

	_, err := f.commentSvc.Create(context.Background(), primitive.NewObjectID(), commenter.ID, "hi")
	assert.True(t, apperr.IsNotFound(err))
}

func TestCommentCreateCompensatesFailedPostPush(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")
	commenter := newTestUser(t, f.users, "commenter")

	post, err := f.postSvc.Create(ctx, author.ID, "hello")
	require.NoError(t, err)

	// The user-side push succeeds, the post-side push fails; the comment
	// and the user-side reference must both be rolled back.
	f.posts.pushErr[repositories.PostRefComments] = errBoom

	_, err = f.commentSvc.Create(ctx, post.ID, commenter.ID, "doomed")
	require.Error(t, err)

	gotUser, err := f.users.GetByID(ctx, commenter.ID)
	require.NoError(t, err)
	assert.Empty(t, gotUser.Comments)

	comments, err := f.comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentUpdateAuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")
	commenter := newTestUser(t, f.users, "commenter")

	post, err := f.postSvc.Create(ctx, author.ID, "hello")
	require.NoError(t, err)
	comment, err := f.commentSvc.Create(ctx, post.ID, commenter.ID, "first")
	require.NoError(t, err)

	_, err = f.commentSvc.Update(ctx, post.ID, comment.ID, author.ID, "hijack")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	updated, err := f.commentSvc.Update(ctx, post.ID, comment.ID, commenter.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
}

func TestCommentDeleteDetachesBothOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")
	commenter := newTestUser(t, f.users, "commenter")

	post, err := f.postSvc.Create(ctx, author.ID, "hello")
	require.NoError(t, err)

	// Zero-sibling boundary: the only comment on the post and the only
	// one by this user.
	comment, err := f.commentSvc.Create(ctx, post.ID, commenter.ID, "only one")
	require.NoError(t, err)

	_, err = f.commentSvc.Delete(ctx, post.ID, comment.ID, author.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	deleted, err := f.commentSvc.Delete(ctx, post.ID, comment.ID, commenter.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, deleted.ID)

	gotUser, err := f.users.GetByID(ctx, commenter.ID)
	require.NoError(t, err)
	gotPost, err := f.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, gotUser.Comments)
	assert.Empty(t, gotPost.Comments)

	_, err = f.comments.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCommentDeleteWrongPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")

	post, err := f.postSvc.Create(ctx, author.ID, "one")
	require.NoError(t, err)
	other, err := f.postSvc.Create(ctx, author.ID, "two")
	require.NoError(t, err)
	comment, err := f.commentSvc.Create(ctx, post.ID, author.ID, "on one")
	require.NoError(t, err)

	// Addressing a comment through the wrong post is a 404.
	_, err = f.commentSvc.Delete(ctx, other.ID, comment.ID, author.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCommentDeleteAbortsWhenDetachFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")

	post, err := f.postSvc.Create(ctx, author.ID, "hello")
	require.NoError(t, err)
	comment, err := f.commentSvc.Create(ctx, post.ID, author.ID, "keep me")
	require.NoError(t, err)

	f.users.pullErr[repositories.UserRefComments] = errBoom

	_, err = f.commentSvc.Delete(ctx, post.ID, comment.ID, author.ID)
	require.Error(t, err)

	// The record survives: no dangling reference was introduced.
	_, err = f.comments.GetByID(ctx, comment.ID)
	require.NoError(t, err)
}
