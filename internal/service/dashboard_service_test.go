package service

import (
	"context"
	"testing"
	"time"

	"runai/coach-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestDashboardService(workoutRepo *fakeWorkoutRepo, recoveryRepo *fakeRecoveryRepo, now time.Time) *dashboardService {
	svc := NewDashboardService(workoutRepo, recoveryRepo).(*dashboardService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetDashboard_EmptyStateIsNotAnError(t *testing.T) {
	svc := newTestDashboardService(&fakeWorkoutRepo{}, &fakeRecoveryRepo{}, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	data, err := svc.GetDashboard(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Nil(t, data.TodaysWorkout)
	assert.Nil(t, data.RecoveryData)
	assert.Equal(t, WeeklyProgress{}, data.WeeklyProgress)
}

func TestGetDashboard_WeeklyAggregation(t *testing.T) {
	completed := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	week := []domain.Workout{
		{
			PlannedDistanceKm: floatPtr(5),
			ActualDistanceKm:  floatPtr(5.5),
			CompletedAt:       &completed,
		},
		{
			PlannedDistanceKm: floatPtr(10),
		},
		{
			// A rest day with no planned distance still counts as a target workout.
			WorkoutType: domain.WorkoutRest,
		},
	}
	workoutRepo := &fakeWorkoutRepo{byDateRange: week}

	svc := newTestDashboardService(workoutRepo, &fakeRecoveryRepo{}, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	data, err := svc.GetDashboard(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, WeeklyProgress{
		CompletedDistance: 5.5,
		TargetDistance:    15,
		CompletedWorkouts: 1,
		TargetWorkouts:    3,
	}, data.WeeklyProgress)
}

func TestGetDashboard_TodaysRecords(t *testing.T) {
	workout := &domain.Workout{WorkoutType: domain.WorkoutEasyRun}
	metric := &domain.RecoveryMetric{RecoveryScore: floatPtr(88)}
	svc := newTestDashboardService(
		&fakeWorkoutRepo{byDate: workout},
		&fakeRecoveryRepo{byDate: metric},
		time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
	)

	data, err := svc.GetDashboard(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, workout, data.TodaysWorkout)
	assert.Equal(t, metric, data.RecoveryData)
}
