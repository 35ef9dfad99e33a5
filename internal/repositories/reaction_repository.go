package repositories

import (
	"context"
	"time"

	"github.com/sociable-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Insert(ctx context.Context, reaction *models.Reaction) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reaction, error)
	GetByUserPostType(ctx context.Context, userID, postID primitive.ObjectID, reactionType string) (*models.Reaction, error)
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Reaction, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Reaction, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoReactionRepository implements ReactionRepository for MongoDB
type MongoReactionRepository struct {
	collection *mongo.Collection
}

// NewMongoReactionRepository creates a new MongoReactionRepository
func NewMongoReactionRepository(db *mongo.Database) *MongoReactionRepository {
	return &MongoReactionRepository{collection: db.Collection("reactions")}
}

// Insert stores a new reaction
func (r *MongoReactionRepository) Insert(ctx context.Context, reaction *models.Reaction) error {
	if reaction.ID.IsZero() {
		reaction.ID = primitive.NewObjectID()
	}
	reaction.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, reaction)
	return err
}

// GetByID retrieves a reaction by ID
func (r *MongoReactionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reaction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

// GetByUserPostType retrieves the reaction of a given type by a user on a post
func (r *MongoReactionRepository) GetByUserPostType(ctx context.Context, userID, postID primitive.ObjectID, reactionType string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.collection.FindOne(ctx, bson.M{"user": userID, "post": postID, "type": reactionType}).Decode(&reaction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

// ListByPost retrieves every reaction on a post
func (r *MongoReactionRepository) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Reaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"post": postID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reactions := []models.Reaction{}
	if err = cursor.All(ctx, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

// ListByUser retrieves every reaction left by a user
func (r *MongoReactionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Reaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reactions := []models.Reaction{}
	if err = cursor.All(ctx, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

// Delete removes a reaction document
func (r *MongoReactionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
