package mongo

import (
	"context"
	"errors"
	"time"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const wearableCollectionName = "wearable_data"

// mongoWearableDataRepository implements repository.WearableDataRepository
type mongoWearableDataRepository struct {
	collection *mongo.Collection
}

// NewMongoWearableDataRepository creates a new WearableData repository.
func NewMongoWearableDataRepository(db *mongo.Database) repository.WearableDataRepository {
	return &mongoWearableDataRepository{
		collection: db.Collection(wearableCollectionName),
	}
}

// CreateMany bulk-inserts device samples from one sync call.
func (r *mongoWearableDataRepository) CreateMany(ctx context.Context, samples []domain.WearableData) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(samples))
	for i := range samples {
		if samples[i].UserID == primitive.NilObjectID || samples[i].DataType == "" || samples[i].DeviceType == "" {
			return 0, errors.New("wearable sample requires userId, deviceType, and dataType")
		}
		samples[i].ID = primitive.NewObjectID()
		if samples[i].SyncedAt.IsZero() {
			samples[i].SyncedAt = now
		}
		docs[i] = samples[i]
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

// GetLatestPerType returns the most recent sample per (deviceType, dataType)
// pair for the user, using a sort + group aggregation.
func (r *mongoWearableDataRepository) GetLatestPerType(ctx context.Context, userID primitive.ObjectID) ([]domain.WearableData, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "recordedAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    bson.M{"deviceType": "$deviceType", "dataType": "$dataType"},
			"latest": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$latest"}}},
		{{Key: "$sort", Value: bson.D{{Key: "deviceType", Value: 1}, {Key: "dataType", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var samples []domain.WearableData
	if err = cursor.All(ctx, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// EnsureWearableDataIndexes creates necessary indexes. Call during startup.
func EnsureWearableDataIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dataType", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
