package todos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "todos"

type Repository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		collection: db.Collection(CollectionName),
		now:        currentTime,
	}
}

// BSON datetimes keep milliseconds only. Truncating up front keeps the
// in-memory value equal to what a later read returns.
func currentTime() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// EnsureIndexes creates the created_at index backing the list sort.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

func (r *Repository) List(ctx context.Context) ([]Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	todos := []Todo{}
	for cursor.Next(ctx) {
		var todo Todo
		if err := cursor.Decode(&todo); err != nil {
			return nil, &DecodeError{Err: err}
		}
		todos = append(todos, todo)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Todo, error) {
	return decodeSingle(r.collection.FindOne(ctx, bson.M{"_id": id}))
}

// Create inserts the todo and reads it back so the response reflects what
// the server stored.
func (r *Repository) Create(ctx context.Context, title string) (*Todo, error) {
	todo := NewTodo(title, r.now())

	result, err := r.collection.InsertOne(ctx, todo)
	if err != nil {
		return nil, err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("Failed to get inserted ID")
	}

	created, err := r.GetByID(ctx, oid)
	if errors.Is(err, ErrNotFound) {
		return nil, errors.New("Failed to retrieve created todo")
	}
	return created, err
}

// Update applies a partial $set and returns the post-update document in the
// same round trip, so concurrent writers never interleave a read and a write.
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, req UpdateTodoRequest) (*Todo, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": buildUpdate(req, r.now())},
		opts,
	)
	return decodeSingle(result)
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func buildUpdate(req UpdateTodoRequest, now time.Time) bson.M {
	update := bson.M{"updated_at": now}
	if req.Title != nil {
		update["title"] = *req.Title
	}
	if req.Completed != nil {
		update["completed"] = *req.Completed
	}
	return update
}

// decodeSingle splits driver failures from shape mismatches: Raw only fails
// on transport or no-document errors, Unmarshal only on shape.
func decodeSingle(result *mongo.SingleResult) (*Todo, error) {
	raw, err := result.Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var todo Todo
	if err := bson.Unmarshal(raw, &todo); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("decode %s: %w", raw.Lookup("_id"), err)}
	}
	return &todo, nil
}
