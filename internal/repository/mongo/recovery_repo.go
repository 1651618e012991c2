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

const recoveryCollectionName = "recovery_metrics"

// mongoRecoveryMetricRepository implements repository.RecoveryMetricRepository
type mongoRecoveryMetricRepository struct {
	collection *mongo.Collection
}

// NewMongoRecoveryMetricRepository creates a new RecoveryMetric repository.
func NewMongoRecoveryMetricRepository(db *mongo.Database) repository.RecoveryMetricRepository {
	return &mongoRecoveryMetricRepository{
		collection: db.Collection(recoveryCollectionName),
	}
}

// dateOnly truncates a timestamp to its calendar date in UTC. One metric
// record exists per user per date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Upsert merges the non-nil scores of the metric into the record for
// (userId, date), creating it if absent.
func (r *mongoRecoveryMetricRepository) Upsert(ctx context.Context, metric *domain.RecoveryMetric) error {
	if metric.UserID == primitive.NilObjectID {
		return errors.New("recovery metric requires userId")
	}
	date := dateOnly(metric.Date)

	set := bson.M{}
	if metric.RecoveryScore != nil {
		set["recoveryScore"] = *metric.RecoveryScore
	}
	if metric.HRVScore != nil {
		set["hrvScore"] = *metric.HRVScore
	}
	if metric.SleepQuality != nil {
		set["sleepQuality"] = *metric.SleepQuality
	}
	if metric.SleepDurationHours != nil {
		set["sleepDurationHours"] = *metric.SleepDurationHours
	}
	if metric.StressLevel != nil {
		set["stressLevel"] = *metric.StressLevel
	}

	filter := bson.M{"userId": metric.UserID, "date": date}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"userId": metric.UserID, "date": date, "createdAt": time.Now().UTC()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByUserAndDate retrieves the metric record for a single calendar date.
func (r *mongoRecoveryMetricRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.RecoveryMetric, error) {
	var metric domain.RecoveryMetric
	filter := bson.M{"userId": userID, "date": dateOnly(date)}
	err := r.collection.FindOne(ctx, filter).Decode(&metric)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &metric, nil
}

// GetRecentByUserID retrieves the newest metrics for a user, most recent date first.
func (r *mongoRecoveryMetricRepository) GetRecentByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.RecoveryMetric, error) {
	var metrics []domain.RecoveryMetric
	filter := bson.M{"userId": userID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &metrics); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return metrics, nil
}

// EnsureRecoveryMetricIndexes creates necessary indexes. Call during startup.
func EnsureRecoveryMetricIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
