package service

import (
	"context"
	"errors"
	"time"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyProgress summarizes the Sunday-to-Saturday week containing today.
type WeeklyProgress struct {
	CompletedDistance float64 `json:"completedDistance"`
	TargetDistance    float64 `json:"targetDistance"`
	CompletedWorkouts int     `json:"completedWorkouts"`
	TargetWorkouts    int     `json:"targetWorkouts"`
}

// DashboardData is the overview payload: today's workout and recovery record
// (either may be nil) plus the weekly aggregate.
type DashboardData struct {
	TodaysWorkout  *domain.Workout        `json:"todaysWorkout"`
	RecoveryData   *domain.RecoveryMetric `json:"recoveryData"`
	WeeklyProgress WeeklyProgress         `json:"weeklyProgress"`
}

// --- Service Interface ---
type DashboardService interface {
	GetDashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardData, error)
}

// --- Service Implementation ---

// dashboardService implements the DashboardService interface.
type dashboardService struct {
	workoutRepo  repository.WorkoutRepository
	recoveryRepo repository.RecoveryMetricRepository
	now          func() time.Time
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(workoutRepo repository.WorkoutRepository, recoveryRepo repository.RecoveryMetricRepository) DashboardService {
	return &dashboardService{
		workoutRepo:  workoutRepo,
		recoveryRepo: recoveryRepo,
		now:          time.Now,
	}
}

// GetDashboard assembles today's workout, today's recovery metric, and the
// weekly progress aggregate. Missing records are returned as nil, not errors.
func (s *dashboardService) GetDashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardData, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	today := startOfDay(s.now())

	data := &DashboardData{}

	workout, err := s.workoutRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	data.TodaysWorkout = workout

	recovery, err := s.recoveryRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	data.RecoveryData = recovery

	// Week window: Sunday through Saturday of the current week.
	weekday := int(today.Weekday())
	weekStart := today.AddDate(0, 0, -weekday)
	weekEnd := today.AddDate(0, 0, 6-weekday)

	weekWorkouts, err := s.workoutRepo.GetByUserAndDateRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	data.WeeklyProgress = summarizeWeek(weekWorkouts)

	return data, nil
}

// summarizeWeek aggregates completed vs. planned distance and workout counts.
func summarizeWeek(workouts []domain.Workout) WeeklyProgress {
	var progress WeeklyProgress
	for _, w := range workouts {
		progress.TargetWorkouts++
		if w.PlannedDistanceKm != nil {
			progress.TargetDistance += *w.PlannedDistanceKm
		}
		if w.IsCompleted() {
			progress.CompletedWorkouts++
			if w.ActualDistanceKm != nil {
				progress.CompletedDistance += *w.ActualDistanceKm
			}
		}
	}
	return progress
}
