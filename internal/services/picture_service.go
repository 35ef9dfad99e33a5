package services

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/apperr"
	"github.com/sociable-app/backend/internal/authz"
	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/repositories"
	"github.com/sociable-app/backend/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PictureService manages picture uploads and the picture records attached
// to users and posts. Only locally uploaded files are ever removed from
// disk; externally sourced filenames (the default avatar) leave no file to
// release.
type PictureService struct {
	pictures repositories.PictureRepository
	users    repositories.UserRepository
	posts    repositories.PostRepository
	store    *storage.FileStore
	log      zerolog.Logger
}

// NewPictureService creates a new PictureService
func NewPictureService(pictures repositories.PictureRepository, users repositories.UserRepository, posts repositories.PostRepository, store *storage.FileStore, log zerolog.Logger) *PictureService {
	return &PictureService{pictures: pictures, users: users, posts: posts, store: store, log: log}
}

// errDisallowedExtension is what both upload paths return for a rejected
// filename; nothing is written to storage in that case.
func errDisallowedExtension() *apperr.Error {
	return apperr.Validation("file type not allowed",
		"filename extension must be one of .png, .jpg, .jpeg, .gif")
}

// SetProfilePicture stores an uploaded file, points the user's profile
// picture at the new record and releases the previous one. The previous
// record is removed even when it was the external default; its file is
// only deleted when locally owned.
func (s *PictureService) SetProfilePicture(ctx context.Context, userID primitive.ObjectID, filename string, r io.Reader) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	if !s.store.AllowedExtension(filename) {
		return nil, errDisallowedExtension()
	}

	stored, err := s.store.Save(filename, r)
	if err != nil {
		return nil, err
	}

	picture := &models.Picture{
		Filename: stored,
		IsLocal:  true,
		Owner:    models.PictureOwner{Kind: models.PictureOwnerUser, ID: userID},
	}
	if err := s.pictures.Insert(ctx, picture); err != nil {
		if rmErr := s.store.Remove(stored); rmErr != nil {
			s.log.Error().Err(rmErr).Str("filename", stored).Msg("removing stored file after failed insert")
		}
		return nil, err
	}

	if err := s.users.SetProfilePicture(ctx, userID, picture.ID); err != nil {
		compensate(s.log, "picture", picture.ID, err, func() error {
			if delErr := s.pictures.Delete(ctx, picture.ID); delErr != nil {
				return delErr
			}
			return s.store.Remove(stored)
		})
		return nil, err
	}

	s.release(ctx, user.ProfilePicture)

	user.ProfilePicture = picture.ID
	return user, nil
}

// AttachPostPicture stores an uploaded file and attaches it to a post,
// author only, replacing any previous picture.
func (s *PictureService) AttachPostPicture(ctx context.Context, postID, actingID primitive.ObjectID, filename string, r io.Reader) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}
	if !authz.IsAuthor(actingID, post.Author) {
		return nil, apperr.Authorization("only the author may attach a picture to a post")
	}

	if !s.store.AllowedExtension(filename) {
		return nil, errDisallowedExtension()
	}

	stored, err := s.store.Save(filename, r)
	if err != nil {
		return nil, err
	}

	picture := &models.Picture{
		Filename: stored,
		IsLocal:  true,
		Owner:    models.PictureOwner{Kind: models.PictureOwnerPost, ID: postID},
	}
	if err := s.pictures.Insert(ctx, picture); err != nil {
		if rmErr := s.store.Remove(stored); rmErr != nil {
			s.log.Error().Err(rmErr).Str("filename", stored).Msg("removing stored file after failed insert")
		}
		return nil, err
	}

	if err := s.posts.SetPicture(ctx, postID, picture.ID); err != nil {
		compensate(s.log, "picture", picture.ID, err, func() error {
			if delErr := s.pictures.Delete(ctx, picture.ID); delErr != nil {
				return delErr
			}
			return s.store.Remove(stored)
		})
		return nil, err
	}

	if !post.Picture.IsZero() {
		s.release(ctx, post.Picture)
	}

	post.Picture = picture.ID
	return post, nil
}

// Delete removes a post-owned picture record, detaching it from the post
// first. Profile pictures are replaced through SetProfilePicture, never
// deleted, since every user must keep a picture reference.
func (s *PictureService) Delete(ctx context.Context, pictureID, actingID primitive.ObjectID) (*models.Picture, error) {
	picture, err := s.pictures.GetByID(ctx, pictureID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("picture not found")
		}
		return nil, err
	}

	switch picture.Owner.Kind {
	case models.PictureOwnerUser:
		if !authz.IsOwner(actingID, picture.Owner.ID) {
			return nil, apperr.Authorization("only the owner may delete a picture")
		}
		return nil, apperr.State("a profile picture can only be replaced, not deleted")
	case models.PictureOwnerPost:
		post, err := s.posts.GetByID(ctx, picture.Owner.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// Owner already gone, nothing to detach.
				break
			}
			return nil, err
		}
		if !authz.IsAuthor(actingID, post.Author) {
			return nil, apperr.Authorization("only the author may delete a post picture")
		}
		if err := s.posts.UnsetPicture(ctx, post.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	if err := s.pictures.Delete(ctx, picture.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if picture.IsLocal {
		if err := s.store.Remove(picture.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", picture.Filename).Msg("removing picture file failed")
		}
	}
	return picture, nil
}

// release drops a picture record and its local file during a replacement.
// Failures are logged only; a stale record must not block the replacement
// that already succeeded.
func (s *PictureService) release(ctx context.Context, pictureID primitive.ObjectID) {
	if pictureID.IsZero() {
		return
	}
	picture, err := s.pictures.GetByID(ctx, pictureID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.log.Error().Err(err).Str("picture", pictureID.Hex()).Msg("loading picture record for release failed")
		}
		return
	}
	if err := s.pictures.Delete(ctx, picture.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		s.log.Error().Err(err).Str("picture", picture.ID.Hex()).Msg("deleting replaced picture record failed")
	}
	if picture.IsLocal {
		if err := s.store.Remove(picture.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", picture.Filename).Msg("removing replaced picture file failed")
		}
	}
}
