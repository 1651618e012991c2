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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID || workout.WorkoutType == "" {
		return primitive.NilObjectID, errors.New("workout requires userId and workoutType")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// CreateMany bulk-inserts the derived workouts of a generated plan. Returns
// the number of documents inserted.
func (r *mongoWorkoutRepository) CreateMany(ctx context.Context, workouts []domain.Workout) (int, error) {
	if len(workouts) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(workouts))
	for i := range workouts {
		if workouts[i].UserID == primitive.NilObjectID || workouts[i].WorkoutType == "" {
			return 0, errors.New("workout requires userId and workoutType")
		}
		workouts[i].ID = primitive.NewObjectID()
		workouts[i].CreatedAt = now
		workouts[i].UpdatedAt = now
		docs[i] = workouts[i]
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByPlanID retrieves all workouts of a training plan ordered by date.
func (r *mongoWorkoutRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	filter := bson.M{"trainingPlanId": planID}
	findOptions := options.Find().SetSort(bson.D{{Key: "plannedDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// GetRecentByUserID retrieves the newest workouts for a user, most recent
// planned date first. Used as plan-generation context.
func (r *mongoWorkoutRepository) GetRecentByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	var workouts []domain.Workout
	filter := bson.M{"userId": userID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "plannedDate", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// GetByUserAndDate retrieves the workout planned for a single calendar date.
func (r *mongoWorkoutRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"userId": userID, "plannedDate": dateOnly(date)}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByUserAndDateRange retrieves workouts with plannedDate in [from, to].
func (r *mongoWorkoutRepository) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error) {
	var workouts []domain.Workout
	filter := bson.M{
		"userId": userID,
		"plannedDate": bson.M{
			"$gte": dateOnly(from),
			"$lte": dateOnly(to),
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "plannedDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Complete records the actual outcome of a workout. The filter enforces
// ownership.
func (r *mongoWorkoutRepository) Complete(ctx context.Context, workoutID, userID primitive.ObjectID, actualDistanceKm, actualDurationMinutes float64, effortLevel int, notes string) error {
	if workoutID == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("workout ID and user ID are required for completion")
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": workoutID, "userId": userID}
	set := bson.M{
		"completedAt":           now,
		"actualDistanceKm":      actualDistanceKm,
		"actualDurationMinutes": actualDurationMinutes,
		"effortLevel":           effortLevel,
		"updatedAt":             now,
	}
	if notes != "" {
		set["notes"] = notes
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Workout not found OR not owned by this user.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Dashboard and context queries by user and date
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "plannedDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainingPlanId", Value: 1}, {Key: "plannedDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
