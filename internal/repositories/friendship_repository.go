package repositories

import (
	"context"
	"time"

	"github.com/sociable-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendshipRepository defines the interface for friendship edge storage
type FriendshipRepository interface {
	Insert(ctx context.Context, f *models.Friendship) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Friendship, error)
	GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Friendship, error)
	SetAccepted(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindFriendsOf(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Friendship, error)
	CountFriendsOf(ctx context.Context, userID primitive.ObjectID) (int64, error)
	FindAllOf(ctx context.Context, userID primitive.ObjectID) ([]models.Friendship, error)
}

// MongoFriendshipRepository implements FriendshipRepository for MongoDB
type MongoFriendshipRepository struct {
	collection *mongo.Collection
}

// NewMongoFriendshipRepository creates a new MongoFriendshipRepository
func NewMongoFriendshipRepository(db *mongo.Database) *MongoFriendshipRepository {
	return &MongoFriendshipRepository{collection: db.Collection("friendships")}
}

// Insert stores a new friendship edge
func (r *MongoFriendshipRepository) Insert(ctx context.Context, f *models.Friendship) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, f)
	return err
}

// GetByID retrieves a friendship edge by ID
func (r *MongoFriendshipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Friendship, error) {
	var f models.Friendship
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByPair retrieves the edge between two users in either direction
func (r *MongoFriendshipRepository) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Friendship, error) {
	filter := bson.M{"$or": []bson.M{
		{"requestor": a, "requestee": b},
		{"requestor": b, "requestee": a},
	}}
	var f models.Friendship
	err := r.collection.FindOne(ctx, filter).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// SetAccepted transitions an edge to friends and records the acceptance time
func (r *MongoFriendshipRepository) SetAccepted(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.FriendshipFriends, "accepted_at": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a friendship edge
func (r *MongoFriendshipRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func participantFilter(userID primitive.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"requestor": userID},
		{"requestee": userID},
	}}
}

// FindFriendsOf retrieves the accepted edges involving userID, most recently
// formed first, with skip/limit pagination
func (r *MongoFriendshipRepository) FindFriendsOf(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Friendship, error) {
	filter := participantFilter(userID)
	filter["status"] = models.FriendshipFriends
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "accepted_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	edges := []models.Friendship{}
	if err = cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// CountFriendsOf counts the accepted edges involving userID without
// materializing them
func (r *MongoFriendshipRepository) CountFriendsOf(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	filter := participantFilter(userID)
	filter["status"] = models.FriendshipFriends
	return r.collection.CountDocuments(ctx, filter)
}

// FindAllOf retrieves every edge involving userID regardless of status
func (r *MongoFriendshipRepository) FindAllOf(ctx context.Context, userID primitive.ObjectID) ([]models.Friendship, error) {
	cursor, err := r.collection.Find(ctx, participantFilter(userID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	edges := []models.Friendship{}
	if err = cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}
