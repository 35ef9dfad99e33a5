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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context, skip, limit int64) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Post, error)
	SetPicture(ctx context.Context, id, pictureID primitive.ObjectID) error
	UnsetPicture(ctx context.Context, id primitive.ObjectID) error
	PushRef(ctx context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error
	PullRef(ctx context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// Insert stores a new post
func (r *MongoPostRepository) Insert(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	if post.Reactions == nil {
		post.Reactions = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetByID retrieves a post by ID
func (r *MongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List retrieves posts newest first with skip/limit pagination
func (r *MongoPostRepository) List(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Count returns the total number of posts
func (r *MongoPostRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// ListByAuthor retrieves every post written by author
func (r *MongoPostRepository) ListByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"author": author})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateText updates the post text and returns the updated post
func (r *MongoPostRepository) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Post, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"text": text, "updated_at": time.Now()}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// SetPicture points the post at a picture record
func (r *MongoPostRepository) SetPicture(ctx context.Context, id, pictureID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"picture": pictureID, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UnsetPicture clears the picture reference of the post
func (r *MongoPostRepository) UnsetPicture(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$unset": bson.M{"picture": ""}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PushRef appends ref to the named back-reference array of the post
func (r *MongoPostRepository) PushRef(ctx context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{field: ref}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullRef removes ref from the named back-reference array of the post
func (r *MongoPostRepository) PullRef(ctx context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{field: ref}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post document
func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
