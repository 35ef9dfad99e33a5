package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/storage"
	"github.com/stretchr/testify/require"
)

// fixture wires every service over the in-memory fakes plus a file store
// rooted in a temp directory.
type fixture struct {
	users     *fakeUserRepo
	edges     *fakeFriendshipRepo
	posts     *fakePostRepo
	comments  *fakeCommentRepo
	reactions *fakeReactionRepo
	pictures  *fakePictureRepo
	store     *storage.FileStore

	friendshipSvc *FriendshipService
	postSvc       *PostService
	commentSvc    *CommentService
	reactionSvc   *ReactionService
	pictureSvc    *PictureService
	userSvc       *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		users:     newFakeUserRepo(),
		edges:     newFakeFriendshipRepo(),
		posts:     newFakePostRepo(),
		comments:  newFakeCommentRepo(),
		reactions: newFakeReactionRepo(),
		pictures:  newFakePictureRepo(),
		store:     store,
	}
	log := zerolog.Nop()
	f.friendshipSvc = NewFriendshipService(f.edges, f.users, log)
	f.postSvc = NewPostService(f.posts, f.users, f.comments, f.reactions, f.pictures, store, log)
	f.commentSvc = NewCommentService(f.comments, f.posts, f.users, log)
	f.reactionSvc = NewReactionService(f.reactions, f.posts, f.users, log)
	f.pictureSvc = NewPictureService(f.pictures, f.users, f.posts, store, log)
	f.userSvc = NewUserService(f.users, f.friendshipSvc, f.postSvc, f.commentSvc, f.reactionSvc,
		f.pictures, f.comments, f.reactions, f.posts, f.edges, store, log)
	return f
}
