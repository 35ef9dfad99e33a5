package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/repositories"
	"github.com/sociable-app/backend/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages accounts. Deleting an account cascades over
// everything the user owns by composing the other services, so every
// back-reference the user appears in is detached.
type UserService struct {
	users       repositories.UserRepository
	friendships *FriendshipService
	posts       *PostService
	comments    *CommentService
	reactions   *ReactionService
	pictures    repositories.PictureRepository
	commentRepo repositories.CommentRepository
	reactRepo   repositories.ReactionRepository
	postRepo    repositories.PostRepository
	edgeRepo    repositories.FriendshipRepository
	store       *storage.FileStore
	log         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users repositories.UserRepository,
	friendships *FriendshipService,
	posts *PostService,
	comments *CommentService,
	reactions *ReactionService,
	pictures repositories.PictureRepository,
	commentRepo repositories.CommentRepository,
	reactRepo repositories.ReactionRepository,
	postRepo repositories.PostRepository,
	edgeRepo repositories.FriendshipRepository,
	store *storage.FileStore,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:       users,
		friendships: friendships,
		posts:       posts,
		comments:    comments,
		reactions:   reactions,
		pictures:    pictures,
		commentRepo: commentRepo,
		reactRepo:   reactRepo,
		postRepo:    postRepo,
		edgeRepo:    edgeRepo,
		store:       store,
		log:         log,
	}
}

// Signup registers a local account. Every user is created together with a
// default profile picture record, so the picture reference is present from
// the first moment.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("a user with this email is already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := primitive.NewObjectID()
	picture := &models.Picture{
		Filename: models.DefaultAvatarFilename,
		IsLocal:  false,
		Owner:    models.PictureOwner{Kind: models.PictureOwnerUser, ID: userID},
	}
	if err := s.pictures.Insert(ctx, picture); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:             userID,
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		Bio:            req.Bio,
		ProfilePicture: picture.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		compensate(s.log, "picture", picture.ID, err, func() error {
			return s.pictures.Delete(ctx, picture.ID)
		})
		return nil, err
	}
	return user, nil
}

// EnsureExternal finds or provisions the account behind an externally
// verified identity. Externally provisioned users have no local password
// and can only sign in through the external provider.
func (s *UserService) EnsureExternal(ctx context.Context, name, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if name == "" {
		name = email
	}
	userID := primitive.NewObjectID()
	picture := &models.Picture{
		Filename: models.DefaultAvatarFilename,
		IsLocal:  false,
		Owner:    models.PictureOwner{Kind: models.PictureOwnerUser, ID: userID},
	}
	if err := s.pictures.Insert(ctx, picture); err != nil {
		return nil, err
	}

	user = &models.User{
		ID:             userID,
		Name:           name,
		Email:          email,
		ProfilePicture: picture.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		compensate(s.log, "picture", picture.ID, err, func() error {
			return s.pictures.Delete(ctx, picture.ID)
		})
		return nil, err
	}
	return user, nil
}

// Authenticate checks email and password, returning the user on success
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Authentication("invalid email or password")
	}
	return user, nil
}

// Get retrieves a user by id
func (s *UserService) Get(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// Update edits the acting user's profile fields
func (s *UserService) Update(ctx context.Context, userID primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, req.Name, req.Bio)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the acting user's account and everything it owns: posts
// (with their comments and reactions), the user's own comments and
// reactions on other posts, all friendship edges, and the profile picture.
func (s *UserService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	posts, err := s.postRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	for _, post := range posts {
		if _, err := s.posts.Delete(ctx, post.ID, userID); err != nil && !apperr.IsNotFound(err) {
			return err
		}
	}

	comments, err := s.commentRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		if _, err := s.comments.Delete(ctx, comment.Post, comment.ID, userID); err != nil && !apperr.IsNotFound(err) {
			return err
		}
	}

	reactions, err := s.reactRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, reaction := range reactions {
		if _, err := s.reactions.Delete(ctx, reaction.Post, reaction.ID, userID); err != nil && !apperr.IsNotFound(err) {
			return err
		}
	}

	edges, err := s.edgeRepo.FindAllOf(ctx, userID)
	if err != nil {
		return err
	}
	for _, edge := range edges {
		if _, err := s.friendships.Remove(ctx, edge.ID, userID); err != nil && !apperr.IsNotFound(err) {
			return err
		}
	}

	s.releaseProfilePicture(ctx, user.ProfilePicture)

	if err := s.users.Delete(ctx, userID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}

func (s *UserService) releaseProfilePicture(ctx context.Context, pictureID primitive.ObjectID) {
	if pictureID.IsZero() {
		return
	}
	picture, err := s.pictures.GetByID(ctx, pictureID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.log.Error().Err(err).Str("picture", pictureID.Hex()).Msg("loading profile picture for release failed")
		}
		return
	}
	if err := s.pictures.Delete(ctx, picture.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		s.log.Error().Err(err).Str("picture", picture.ID.Hex()).Msg("deleting profile picture record failed")
	}
	if picture.IsLocal {
		if err := s.store.Remove(picture.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", picture.Filename).Msg("removing profile picture file failed")
		}
	}
}
