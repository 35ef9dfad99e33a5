// Package services implements the behavior layer between the HTTP handlers
// and the repositories: the friendship state machine, the cascade-integrity
// rules that keep owner back-reference lists consistent with the documents
// they point at, and the upload handling.
//
// Deletions run in two phases: every owner list is detached first, and a
// detach failure aborts the whole deletion so a dangling reference is never
// introduced. Side resources (local picture files) are released after the
// detach phase; a release failure is logged and reported but does not block
// removal of the record itself.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sociable-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// detachUserRef pulls ref out of a user's back-reference array. A missing
// user is not an error during deletion: the owner is already gone, so no
// dangling reference can remain.
func detachUserRef(ctx context.Context, users repositories.UserRepository, userID primitive.ObjectID, field string, ref primitive.ObjectID) error {
	err := users.PullRef(ctx, userID, field, ref)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}

// detachPostRef pulls ref out of a post's back-reference array, tolerating
// an already-deleted post.
func detachPostRef(ctx context.Context, posts repositories.PostRepository, postID primitive.ObjectID, field string, ref primitive.ObjectID) error {
	err := posts.PullRef(ctx, postID, field, ref)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}

// compensate runs a compensating cleanup after a partial multi-document
// write failed. When the compensation itself fails, both errors are logged
// with the orphaned entity so the orphan is traceable; the original error
// is what the caller returns either way.
func compensate(log zerolog.Logger, entity string, id primitive.ObjectID, original error, cleanup func() error) {
	if err := cleanup(); err != nil {
		log.Error().
			Str("entity", entity).
			Str("id", id.Hex()).
			AnErr("original", original).
			AnErr("compensation", err).
			Msg("compensating delete failed, orphaned document left behind")
		return
	}
	log.Warn().
		Str("entity", entity).
		Str("id", id.Hex()).
		AnErr("original", original).
		Msg("owner update failed, created document rolled back")
}
