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

func TestPostCreatePushesAuthorRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")

	post, err := f.postSvc.Create(ctx, author.ID, "first post")
	require.NoError(t, err)
	require.False(t, post.ID.IsZero())

	got, err := f.users.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Posts, post.ID)
}

func TestPostCreateUnknownAuthor(t *testing.T) {
	f := newFixture(t)

	_, err := f.postSvc.Create(context.Background(), primitive.NewObjectID(), "ghost")
	assert.True(t, apperr.IsNotFound(err))
}

func TestPostCreateCompensatesFailedPush(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")

	f.users.pushErr[repositories.UserRefPosts] = errBoom

	_, err := f.postSvc.Create(ctx, author.ID, "doomed")
	require.Error(t, err)

	total, err := f.posts.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostUpdateAuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")
	other := newTestUser(t, f.users, "other")

	post, err := f.postSvc.Create(ctx, author.ID, "draft")
	require.NoError(t, err)

	_, err = f.postSvc.Update(ctx, post.ID, other.ID, "hijack")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	updated, err := f.postSvc.Update(ctx, post.ID, author.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
}

func TestPostDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")
	commenter := newTestUser(t, f.users, "commenter")
	reactor := newTestUser(t, f.users, "reactor")

	post, err := f.postSvc.Create(ctx, author.ID, "popular post")
	require.NoError(t, err)
	comment, err := f.commentSvc.Create(ctx, post.ID, commenter.ID, "nice")
	require.NoError(t, err)
	reaction, err := f.reactionSvc.Create(ctx, post.ID, reactor.ID, "like")
	require.NoError(t, err)

	_, err = f.postSvc.Delete(ctx, post.ID, commenter.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	deleted, err := f.postSvc.Delete(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.ID)

	_, err = f.posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = f.comments.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = f.reactions.GetByID(ctx, reaction.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	gotAuthor, err := f.users.GetByID(ctx, author.ID)
	require.NoError(t, err)
	gotCommenter, err := f.users.GetByID(ctx, commenter.ID)
	require.NoError(t, err)
	gotReactor, err := f.users.GetByID(ctx, reactor.ID)
	require.NoError(t, err)
	assert.NotContains(t, gotAuthor.Posts, post.ID)
	assert.Empty(t, gotCommenter.Comments)
	assert.Empty(t, gotReactor.Reactions)
}

func TestPostDeleteAbortsWhenOwnerUpdateFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")

	post, err := f.postSvc.Create(ctx, author.ID, "sticky")
	require.NoError(t, err)
	_, err = f.commentSvc.Create(ctx, post.ID, author.ID, "mine")
	require.NoError(t, err)

	f.users.pullErr[repositories.UserRefComments] = errBoom

	_, err = f.postSvc.Delete(ctx, post.ID, author.ID)
	require.Error(t, err)

	// Phase one failed, so the post record must still be there.
	_, err = f.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
}

func TestPostListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := newTestUser(t, f.users, "author")

	for i := 0; i < 5; i++ {
		_, err := f.postSvc.Create(ctx, author.ID, "post")
		require.NoError(t, err)
	}

	page, err := f.postSvc.List(ctx, 1, 3)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.EqualValues(t, 5, page.TotalPosts)

	page, err = f.postSvc.List(ctx, 2, 3)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	assert.EqualValues(t, 5, page.TotalPosts)
}
