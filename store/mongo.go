package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nimbusdrive/models"
)

// MongoStore persists entries in the "files" collection.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("files"),
	}
}

// EnsureIndexes creates the unique sibling-name index. The index is partial
// over non-trashed rows so a trashed entry does not block reuse of its name,
// and parent_id is stored explicitly (null for roots) so root siblings are
// covered too.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "parent_id", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_trash": false}),
		},
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "parent_id", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "is_trash", Value: 1},
				{Key: "updated_at", Value: 1},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, entry *models.Entry) error {
	_, err := s.collection.InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (s *MongoStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error) {
	var entry models.Entry
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &entry, nil
}

func (s *MongoStore) FindSibling(ctx context.Context, ownerID string, parentID *primitive.ObjectID, name string) (*models.Entry, error) {
	var entry models.Entry
	err := s.collection.FindOne(ctx, bson.M{
		"owner_id":  ownerID,
		"parent_id": parentIDValue(parentID),
		"name":      name,
		"is_trash":  false,
	}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &entry, nil
}

func (s *MongoStore) ListChildren(ctx context.Context, ownerID string, parentID *primitive.ObjectID) ([]models.Entry, error) {
	cursor, err := s.collection.Find(ctx, bson.M{
		"owner_id":  ownerID,
		"parent_id": parentIDValue(parentID),
		"is_trash":  false,
	}, options.Find().SetSort(bson.D{
		{Key: "is_folder", Value: -1},
		{Key: "name", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return entries, nil
}

// SearchByName matches non-trashed entries whose name contains the query,
// case-insensitively, scoped to one owner.
func (s *MongoStore) SearchByName(ctx context.Context, ownerID, query string) ([]models.Entry, error) {
	cursor, err := s.collection.Find(ctx, bson.M{
		"owner_id": ownerID,
		"is_trash": false,
		"name": bson.M{
			"$regex":   regexp.QuoteMeta(query),
			"$options": "i",
		},
	}, options.Find().SetSort(bson.D{
		{Key: "is_folder", Value: -1},
		{Key: "name", Value: 1},
	}).SetLimit(100))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return entries, nil
}

func (s *MongoStore) Update(ctx context.Context, entry *models.Entry) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{
		"_id":      entry.ID,
		"owner_id": entry.OwnerID,
	}, entry)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":      id,
		"owner_id": ownerID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountChildren(ctx context.Context, ownerID string, parentID *primitive.ObjectID) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"owner_id":  ownerID,
		"parent_id": parentIDValue(parentID),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	return count, nil
}

// SetTrashedSubtree walks the tree level by level through parent_id links.
func (s *MongoStore) SetTrashedSubtree(ctx context.Context, ownerID string, rootID primitive.ObjectID, trashed bool, now time.Time) (int64, error) {
	var total int64
	frontier := []primitive.ObjectID{rootID}
	for len(frontier) > 0 {
		cursor, err := s.collection.Find(ctx, bson.M{
			"owner_id":  ownerID,
			"parent_id": bson.M{"$in": frontier},
		}, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return total, fmt.Errorf("failed to walk subtree: %w", err)
		}

		var children []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.All(ctx, &children); err != nil {
			return total, fmt.Errorf("cursor error: %w", err)
		}
		if len(children) == 0 {
			break
		}

		ids := make([]primitive.ObjectID, len(children))
		for i, c := range children {
			ids[i] = c.ID
		}

		result, err := s.collection.UpdateMany(ctx, bson.M{
			"_id":      bson.M{"$in": ids},
			"is_trash": !trashed,
		}, bson.M{"$set": bson.M{
			"is_trash":   trashed,
			"updated_at": now,
		}})
		if err != nil {
			return total, fmt.Errorf("failed to update subtree: %w", err)
		}
		total += result.ModifiedCount
		frontier = ids
	}
	return total, nil
}

func (s *MongoStore) DeleteTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{
		"is_trash":   true,
		"updated_at": bson.M{"$lte": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge trashed entries: %w", err)
	}
	return result.DeletedCount, nil
}

// parentIDValue keeps nil parents queryable: roots are stored with an
// explicit null parent_id, so the filter must use null rather than a
// missing-field match.
func parentIDValue(parentID *primitive.ObjectID) interface{} {
	if parentID == nil {
		return nil
	}
	return *parentID
}
