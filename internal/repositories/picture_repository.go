package repositories

import (
	"context"
	"time"

	"github.com/sociable-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PictureRepository defines the interface for picture record operations
type PictureRepository interface {
	Insert(ctx context.Context, picture *models.Picture) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Picture, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoPictureRepository implements PictureRepository for MongoDB
type MongoPictureRepository struct {
	collection *mongo.Collection
}

// NewMongoPictureRepository creates a new MongoPictureRepository
func NewMongoPictureRepository(db *mongo.Database) *MongoPictureRepository {
	return &MongoPictureRepository{collection: db.Collection("pictures")}
}

// Insert stores a new picture record
func (r *MongoPictureRepository) Insert(ctx context.Context, picture *models.Picture) error {
	if picture.ID.IsZero() {
		picture.ID = primitive.NewObjectID()
	}
	picture.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, picture)
	return err
}

// GetByID retrieves a picture record by ID
func (r *MongoPictureRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Picture, error) {
	var picture models.Picture
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&picture)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &picture, nil
}

// Delete removes a picture record
func (r *MongoPictureRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
