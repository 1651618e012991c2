package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType is the kind of session a workout represents.
type WorkoutType string

const (
	WorkoutEasyRun       WorkoutType = "easy_run"
	WorkoutTempo         WorkoutType = "tempo"
	WorkoutIntervals     WorkoutType = "intervals"
	WorkoutLongRun       WorkoutType = "long_run"
	WorkoutCrossTraining WorkoutType = "cross_training"
	WorkoutRest          WorkoutType = "rest"
)

func (t WorkoutType) IsValid() bool {
	switch t {
	case WorkoutEasyRun, WorkoutTempo, WorkoutIntervals, WorkoutLongRun, WorkoutCrossTraining, WorkoutRest:
		return true
	}
	return false
}

// Workout is a single planned session, usually created in bulk when a plan is
// generated. The Actual* fields and CompletedAt stay nil until the runner
// marks the workout as done.
type Workout struct {
	ID                     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID                 primitive.ObjectID  `bson:"userId" json:"userId"`
	TrainingPlanID         *primitive.ObjectID `bson:"trainingPlanId,omitempty" json:"trainingPlanId,omitempty"`
	WorkoutType            WorkoutType         `bson:"workoutType" json:"workoutType"`
	PlannedDate            time.Time           `bson:"plannedDate" json:"plannedDate"`
	PlannedDistanceKm      *float64            `bson:"plannedDistanceKm,omitempty" json:"plannedDistanceKm,omitempty"`
	PlannedDurationMinutes *float64            `bson:"plannedDurationMinutes,omitempty" json:"plannedDurationMinutes,omitempty"`
	PlannedPacePerKm       string              `bson:"plannedPacePerKm,omitempty" json:"plannedPacePerKm,omitempty"`
	EffortLevel            *int                `bson:"effortLevel,omitempty" json:"effortLevel,omitempty"` // 1-10
	Notes                  string              `bson:"notes,omitempty" json:"notes,omitempty"`
	ActualDistanceKm       *float64            `bson:"actualDistanceKm,omitempty" json:"actualDistanceKm,omitempty"`
	ActualDurationMinutes  *float64            `bson:"actualDurationMinutes,omitempty" json:"actualDurationMinutes,omitempty"`
	ActualPacePerKm        string              `bson:"actualPacePerKm,omitempty" json:"actualPacePerKm,omitempty"`
	CompletedAt            *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt              time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsCompleted reports whether the runner has logged this workout.
func (w *Workout) IsCompleted() bool {
	return w.CompletedAt != nil
}
