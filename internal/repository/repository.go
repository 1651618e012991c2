package repository

import (
	"context"
	"time"

	"runai/coach-server/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository defines the interface for interacting with runner profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	SetAvatarURL(ctx context.Context, userID primitive.ObjectID, avatarURL string) error
}

// RecoveryMetricRepository defines the interface for daily recovery records.
type RecoveryMetricRepository interface {
	// Upsert writes the metric for (userID, date), merging non-nil scores into
	// an existing record for that date if one exists.
	Upsert(ctx context.Context, metric *domain.RecoveryMetric) error
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.RecoveryMetric, error)
	GetRecentByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.RecoveryMetric, error)
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	// DeactivateOthers clears isActive on every plan of the user except
	// excludePlanID. This is the sole mechanism enforcing the single-active-plan
	// invariant.
	DeactivateOthers(ctx context.Context, userID, excludePlanID primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, workouts []domain.Workout) (int, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Workout, error)
	GetRecentByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Workout, error)
	GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error)
	// Complete sets the actual fields and completion timestamp on a workout
	// owned by the user.
	Complete(ctx context.Context, workoutID, userID primitive.ObjectID, actualDistanceKm, actualDurationMinutes float64, effortLevel int, notes string) error
}

// WearableDataRepository defines the interface for raw device samples.
type WearableDataRepository interface {
	CreateMany(ctx context.Context, samples []domain.WearableData) (int, error)
	GetLatestPerType(ctx context.Context, userID primitive.ObjectID) ([]domain.WearableData, error)
}
