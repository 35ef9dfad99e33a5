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

// ReactionService manages reactions and their back-references on the
// reacting user and the post.
type ReactionService struct {
	reactions repositories.ReactionRepository
	posts     repositories.PostRepository
	users     repositories.UserRepository
	log       zerolog.Logger
}

// NewReactionService creates a new ReactionService
func NewReactionService(reactions repositories.ReactionRepository, posts repositories.PostRepository, users repositories.UserRepository, log zerolog.Logger) *ReactionService {
	return &ReactionService{reactions: reactions, posts: posts, users: users, log: log}
}

// Create stores a reaction on a post. Only "like" is accepted, and a user
// may hold at most one reaction of a type per post.
func (s *ReactionService) Create(ctx context.Context, postID, userID primitive.ObjectID, reactionType string) (*models.Reaction, error) {
	if reactionType != models.ReactionLike {
		return nil, apperr.Validation("unsupported reaction type",
			"type must be \"like\"")
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}

	if _, err := s.reactions.GetByUserPostType(ctx, userID, postID, reactionType); err == nil {
		return nil, apperr.Conflict("user has already reacted to this post")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	reaction := &models.Reaction{User: userID, Post: postID, Type: reactionType}
	if err := s.reactions.Insert(ctx, reaction); err != nil {
		return nil, err
	}

	if err := s.users.PushRef(ctx, userID, repositories.UserRefReactions, reaction.ID); err != nil {
		compensate(s.log, "reaction", reaction.ID, err, func() error {
			return s.reactions.Delete(ctx, reaction.ID)
		})
		return nil, err
	}
	if err := s.posts.PushRef(ctx, postID, repositories.PostRefReactions, reaction.ID); err != nil {
		compensate(s.log, "reaction", reaction.ID, err, func() error {
			if pullErr := s.users.PullRef(ctx, userID, repositories.UserRefReactions, reaction.ID); pullErr != nil {
				return pullErr
			}
			return s.reactions.Delete(ctx, reaction.ID)
		})
		return nil, err
	}
	return reaction, nil
}

// ListByPost returns the reactions on a post
func (s *ReactionService) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Reaction, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}
	return s.reactions.ListByPost(ctx, postID)
}

// Delete removes a reaction, owner only, detaching it from the user's and
// the post's reaction lists first.
func (s *ReactionService) Delete(ctx context.Context, postID, reactionID, actingID primitive.ObjectID) (*models.Reaction, error) {
	reaction, err := s.reactions.GetByID(ctx, reactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("reaction not found")
		}
		return nil, err
	}
	if reaction.Post != postID {
		return nil, apperr.NotFound("reaction not found")
	}
	if !authz.IsOwner(actingID, reaction.User) {
		return nil, apperr.Authorization("only the owner may remove a reaction")
	}

	if err := detachUserRef(ctx, s.users, reaction.User, repositories.UserRefReactions, reaction.ID); err != nil {
		return nil, err
	}
	if err := detachPostRef(ctx, s.posts, reaction.Post, repositories.PostRefReactions, reaction.ID); err != nil {
		return nil, err
	}
	if err := s.reactions.Delete(ctx, reaction.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return reaction, nil
}
