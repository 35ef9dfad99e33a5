package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/authz"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/repositories"
	"github.com/sociable-app/backend/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPostsLimit is the feed page size used when none is requested.
const DefaultPostsLimit = 20

// PostsPage is a paginated feed slice.
type PostsPage struct {
	Posts      []models.Post `json:"posts"`
	TotalPosts int64         `json:"totalPosts"`
}

// PostService manages posts and the cascade that keeps author, comment and
// reaction back-references consistent when a post goes away.
type PostService struct {
	posts     repositories.PostRepository
	users     repositories.UserRepository
	comments  repositories.CommentRepository
	reactions repositories.ReactionRepository
	pictures  repositories.PictureRepository
	store     *storage.FileStore
	log       zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	posts repositories.PostRepository,
	users repositories.UserRepository,
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
	pictures repositories.PictureRepository,
	store *storage.FileStore,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:     posts,
		users:     users,
		comments:  comments,
		reactions: reactions,
		pictures:  pictures,
		store:     store,
		log:       log,
	}
}

// Create stores a new post and pushes its id onto the author's post list,
// rolling the insert back if the push fails.
func (s *PostService) Create(ctx context.Context, authorID primitive.ObjectID, text string) (*models.Post, error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	post := &models.Post{Author: authorID, Text: text}
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	if err := s.users.PushRef(ctx, authorID, repositories.UserRefPosts, post.ID); err != nil {
		compensate(s.log, "post", post.ID, err, func() error {
			return s.posts.Delete(ctx, post.ID)
		})
		return nil, err
	}
	return post, nil
}

// Get retrieves a post by id
func (s *PostService) Get(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}
	return post, nil
}

// List returns a feed page, newest posts first
func (s *PostService) List(ctx context.Context, page, limit int) (*PostsPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPostsLimit
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, int64(page-1)*int64(limit), int64(limit))
	if err != nil {
		return nil, err
	}
	return &PostsPage{Posts: posts, TotalPosts: total}, nil
}

// Update edits the post text, author only
func (s *PostService) Update(ctx context.Context, postID, actingID primitive.ObjectID, text string) (*models.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !authz.IsAuthor(actingID, post.Author) {
		return nil, apperr.Authorization("only the author may edit a post")
	}
	updated, err := s.posts.UpdateText(ctx, postID, text)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a post, author only. Its comments and reactions are
// deleted and detached from their own authors, the attached picture file
// is released, and the post id is pulled from the author's list before the
// record itself is removed. Any owner-update failure aborts the deletion.
func (s *PostService) Delete(ctx context.Context, postID, actingID primitive.ObjectID) (*models.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !authz.IsAuthor(actingID, post.Author) {
		return nil, apperr.Authorization("only the author may delete a post")
	}

	// Phase 1: owner updates. Children go first so no comment or reaction
	// outlives its post.
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		if err := detachUserRef(ctx, s.users, comment.Author, repositories.UserRefComments, comment.ID); err != nil {
			return nil, err
		}
		if err := s.comments.Delete(ctx, comment.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	reactions, err := s.reactions.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, reaction := range reactions {
		if err := detachUserRef(ctx, s.users, reaction.User, repositories.UserRefReactions, reaction.ID); err != nil {
			return nil, err
		}
		if err := s.reactions.Delete(ctx, reaction.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	if err := detachUserRef(ctx, s.users, post.Author, repositories.UserRefPosts, post.ID); err != nil {
		return nil, err
	}

	// Phase 2: side resources.
	if !post.Picture.IsZero() {
		s.releasePicture(ctx, post.Picture)
	}

	// Phase 3: the record itself.
	if err := s.posts.Delete(ctx, postID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return post, nil
}

// releasePicture removes a picture record and, for locally stored files,
// the backing file. Failures here are logged, never fatal: the post
// deletion must not be blocked by side-resource cleanup.
func (s *PostService) releasePicture(ctx context.Context, pictureID primitive.ObjectID) {
	picture, err := s.pictures.GetByID(ctx, pictureID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.log.Error().Err(err).Str("picture", pictureID.Hex()).Msg("loading picture record for release failed")
		}
		return
	}
	if err := s.pictures.Delete(ctx, picture.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		s.log.Error().Err(err).Str("picture", picture.ID.Hex()).Msg("deleting picture record failed")
	}
	if picture.IsLocal {
		if err := s.store.Remove(picture.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", picture.Filename).Msg("removing picture file failed")
		}
	}
}
