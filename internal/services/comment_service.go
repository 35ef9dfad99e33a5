package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/authz"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService manages comments and their two-sided back-references
// (author's comment list and post's comment list).
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
	log      zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, users repositories.UserRepository, log zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, log: log}
}

// Create stores a comment against an existing post and pushes its id onto
// both the author's and the post's comment lists, compensating with a
// delete of the comment when a push fails.
func (s *CommentService) Create(ctx context.Context, postID, authorID primitive.ObjectID, text string) (*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}

	comment := &models.Comment{Author: authorID, Post: postID, Text: text}
	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.users.PushRef(ctx, authorID, repositories.UserRefComments, comment.ID); err != nil {
		compensate(s.log, "comment", comment.ID, err, func() error {
			return s.comments.Delete(ctx, comment.ID)
		})
		return nil, err
	}
	if err := s.posts.PushRef(ctx, postID, repositories.PostRefComments, comment.ID); err != nil {
		compensate(s.log, "comment", comment.ID, err, func() error {
			if pullErr := s.users.PullRef(ctx, authorID, repositories.UserRefComments, comment.ID); pullErr != nil {
				return pullErr
			}
			return s.comments.Delete(ctx, comment.ID)
		})
		return nil, err
	}
	return comment, nil
}

// get loads a comment and checks it belongs to the post named in the route.
func (s *CommentService) get(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, err
	}
	if comment.Post != postID {
		return nil, apperr.NotFound("comment not found")
	}
	return comment, nil
}

// ListByPost returns the comments on a post, oldest first
func (s *CommentService) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// Update edits a comment's text, author only
func (s *CommentService) Update(ctx context.Context, postID, commentID, actingID primitive.ObjectID, text string) (*models.Comment, error) {
	comment, err := s.get(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if !authz.IsAuthor(actingID, comment.Author) {
		return nil, apperr.Authorization("only the author may edit a comment")
	}
	updated, err := s.comments.UpdateText(ctx, commentID, text)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a comment, author only. The id is pulled from the
// author's and the post's comment lists before the record is removed; a
// failed pull aborts the deletion.
func (s *CommentService) Delete(ctx context.Context, postID, commentID, actingID primitive.ObjectID) (*models.Comment, error) {
	comment, err := s.get(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if !authz.IsAuthor(actingID, comment.Author) {
		return nil, apperr.Authorization("only the author may delete a comment")
	}

	if err := detachUserRef(ctx, s.users, comment.Author, repositories.UserRefComments, comment.ID); err != nil {
		return nil, err
	}
	if err := detachPostRef(ctx, s.posts, comment.Post, repositories.PostRefComments, comment.ID); err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return comment, nil
}
