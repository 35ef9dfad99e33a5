package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/authz"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultFriendsLimit is the page size used when the caller does not ask
// for one.
const DefaultFriendsLimit = 10

// FriendsPage is the result of a friends listing. Users is nil in
// count-only mode.
type FriendsPage struct {
	Users      []models.User `json:"users,omitempty"`
	TotalUsers int64         `json:"totalUsers"`
}

// FriendshipService implements the friendship state machine: pending edges
// created by a requestor, accepted only by the requestee, removable by
// either participant.
type FriendshipService struct {
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
	log         zerolog.Logger
}

// NewFriendshipService creates a new FriendshipService
func NewFriendshipService(friendships repositories.FriendshipRepository, users repositories.UserRepository, log zerolog.Logger) *FriendshipService {
	return &FriendshipService{friendships: friendships, users: users, log: log}
}

// Create sends a friend request from requestor to requestee, storing a
// pending edge and pushing its id onto both users' friendship lists.
func (s *FriendshipService) Create(ctx context.Context, requestorID, requesteeID primitive.ObjectID) (*models.Friendship, error) {
	if requestorID == requesteeID {
		return nil, apperr.Validation("cannot send a friend request to yourself",
			"requesteeId must identify another user")
	}

	if _, err := s.users.GetByID(ctx, requesteeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	existing, err := s.friendships.GetByPair(ctx, requestorID, requesteeID)
	if err == nil {
		if existing.Status == models.FriendshipFriends {
			return nil, apperr.Conflict("users are already friends")
		}
		return nil, apperr.Conflict("a friend request is already pending between these users")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	edge := &models.Friendship{
		Requestor: requestorID,
		Requestee: requesteeID,
		Status:    models.FriendshipPending,
	}
	if err := s.friendships.Insert(ctx, edge); err != nil {
		return nil, err
	}

	if err := s.users.PushRef(ctx, requestorID, repositories.UserRefFriendships, edge.ID); err != nil {
		compensate(s.log, "friendship", edge.ID, err, func() error {
			return s.friendships.Delete(ctx, edge.ID)
		})
		return nil, err
	}
	if err := s.users.PushRef(ctx, requesteeID, repositories.UserRefFriendships, edge.ID); err != nil {
		compensate(s.log, "friendship", edge.ID, err, func() error {
			if pullErr := s.users.PullRef(ctx, requestorID, repositories.UserRefFriendships, edge.ID); pullErr != nil {
				return pullErr
			}
			return s.friendships.Delete(ctx, edge.ID)
		})
		return nil, err
	}

	return edge, nil
}

// Accept transitions a pending edge to friends. Only the requestee may
// accept, and an accepted edge cannot be re-accepted.
func (s *FriendshipService) Accept(ctx context.Context, friendshipID, actingID primitive.ObjectID) (*models.Friendship, error) {
	edge, err := s.friendships.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("friendship not found")
		}
		return nil, err
	}

	if !authz.IsOwner(actingID, edge.Requestee) {
		return nil, apperr.Authorization("only the requestee may accept a friend request")
	}
	if edge.Status == models.FriendshipFriends {
		return nil, apperr.State("friend request has already been accepted")
	}

	now := time.Now()
	if err := s.friendships.SetAccepted(ctx, edge.ID, now); err != nil {
		return nil, err
	}
	edge.Status = models.FriendshipFriends
	edge.AcceptedAt = now
	return edge, nil
}

// Remove deletes an edge in any state. Either participant may remove it;
// the edge id is detached from both users before the record goes away.
func (s *FriendshipService) Remove(ctx context.Context, friendshipID, actingID primitive.ObjectID) (*models.Friendship, error) {
	edge, err := s.friendships.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("friendship not found")
		}
		return nil, err
	}

	if !authz.IsParticipant(actingID, edge.Requestor, edge.Requestee) {
		return nil, apperr.Authorization("only a participant may remove a friendship")
	}

	if err := detachUserRef(ctx, s.users, edge.Requestor, repositories.UserRefFriendships, edge.ID); err != nil {
		return nil, err
	}
	if err := detachUserRef(ctx, s.users, edge.Requestee, repositories.UserRefFriendships, edge.ID); err != nil {
		return nil, err
	}
	if err := s.friendships.Delete(ctx, edge.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("friendship not found")
		}
		return nil, err
	}
	return edge, nil
}

// ListFriends returns the users connected to userID by an accepted edge,
// most recently formed friendships first. page and limit floor at 1 and
// DefaultFriendsLimit; noDocs skips materializing the page and returns the
// count alone.
func (s *FriendshipService) ListFriends(ctx context.Context, userID primitive.ObjectID, page, limit int, noDocs bool) (*FriendsPage, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	total, err := s.friendships.CountFriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if noDocs {
		return &FriendsPage{TotalUsers: total}, nil
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultFriendsLimit
	}
	skip := int64(page-1) * int64(limit)

	edges, err := s.friendships.FindFriendsOf(ctx, userID, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	friendIDs := make([]primitive.ObjectID, 0, len(edges))
	for _, edge := range edges {
		friendIDs = append(friendIDs, edge.Other(userID))
	}

	unordered, err := s.users.GetMany(ctx, friendIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(unordered))
	for _, u := range unordered {
		byID[u.ID] = u
	}

	// Preserve edge recency order; skip ids whose user document vanished
	// between the two queries.
	ordered := make([]models.User, 0, len(friendIDs))
	for _, id := range friendIDs {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}

	return &FriendsPage{Users: ordered, TotalUsers: total}, nil
}
