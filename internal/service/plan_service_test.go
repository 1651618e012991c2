package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"runai/coach-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestPlanService(profileRepo *fakeProfileRepo, workoutRepo *fakeWorkoutRepo, recoveryRepo *fakeRecoveryRepo, planRepo *fakePlanRepo, completer *fakeCompleter) *planService {
	svc := NewPlanService(profileRepo, workoutRepo, recoveryRepo, planRepo, completer, "test-model").(*planService)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestGeneratePlan_Success(t *testing.T) {
	userID := primitive.NewObjectID()
	exp := domain.ExperienceIntermediate
	goal := domain.GoalMarathon
	mileage := 50.0
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{
		UserID:            userID,
		RunningExperience: &exp,
		RaceGoal:          &goal,
		WeeklyMileageGoal: &mileage,
	}}
	workoutRepo := &fakeWorkoutRepo{}
	recoveryRepo := &fakeRecoveryRepo{}
	planRepo := &fakePlanRepo{}
	completer := &fakeCompleter{response: validPlanJSON}

	svc := newTestPlanService(profileRepo, workoutRepo, recoveryRepo, planRepo, completer)

	result, err := svc.GeneratePlan(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Base Building Block", result.Plan.Name)
	assert.Equal(t, domain.GoalMarathon, result.Plan.Goal)
	assert.Equal(t, domain.ExperienceIntermediate, result.Plan.DifficultyLevel)
	assert.Equal(t, 50.0, result.Plan.WeeklyMileage)
	assert.True(t, result.Plan.IsActive)
	assert.Equal(t, 3, result.WorkoutsCreated)
	assert.NotNil(t, result.PlanData)

	// Dates: start truncated to midnight UTC, end exactly 28 days later.
	wantStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, result.Plan.StartDate)
	assert.Equal(t, wantStart.AddDate(0, 0, 28), result.Plan.EndDate)

	// The completion request must ask for strict JSON output.
	assert.True(t, completer.lastReq.JSONMode)
	assert.Equal(t, "test-model", completer.lastReq.Model)
	assert.Equal(t, 2000, completer.lastReq.MaxTokens)

	// Prior plans are deactivated, excluding the new plan.
	assert.Equal(t, userID, planRepo.deactivatedFor)
	assert.Equal(t, result.Plan.ID, planRepo.deactivatedSkip)
}

func TestGeneratePlan_WorkoutDatesAndNotes(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID}}
	workoutRepo := &fakeWorkoutRepo{}
	planRepo := &fakePlanRepo{}
	completer := &fakeCompleter{response: `{
		"name": "Plan",
		"weeks": [
			{"week": 1, "focus": "Base", "workouts": [
				{"day": 1, "workout_type": "easy_run", "planned_distance_km": 5, "planned_duration_minutes": 30, "effort_level": 4}
			]},
			{"week": 2, "focus": "Build", "workouts": [
				{"day": 3, "workout_type": "tempo", "planned_distance_km": 8, "planned_duration_minutes": 45, "effort_level": 7, "notes": "Hold pace"}
			]}
		]
	}`}

	svc := newTestPlanService(profileRepo, workoutRepo, &fakeRecoveryRepo{}, planRepo, completer)

	_, err := svc.GeneratePlan(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, workoutRepo.createdMany, 2)

	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	first := workoutRepo.createdMany[0]
	assert.Equal(t, start, first.PlannedDate)
	// Missing notes fall back to the week focus line.
	assert.Equal(t, "Week 1: Base", first.Notes)

	second := workoutRepo.createdMany[1]
	// Second week day 3: 7 + 2 days out.
	assert.Equal(t, start.AddDate(0, 0, 9), second.PlannedDate)
	assert.Equal(t, "Hold pace", second.Notes)
	assert.Equal(t, domain.WorkoutTempo, second.WorkoutType)
}

func TestGeneratePlan_ProfileMissing(t *testing.T) {
	svc := newTestPlanService(&fakeProfileRepo{}, &fakeWorkoutRepo{}, &fakeRecoveryRepo{}, &fakePlanRepo{}, &fakeCompleter{})

	_, err := svc.GeneratePlan(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGeneratePlan_DefaultsGoalAndMileage(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID}}
	planRepo := &fakePlanRepo{}
	completer := &fakeCompleter{response: validPlanJSON}

	svc := newTestPlanService(profileRepo, &fakeWorkoutRepo{}, &fakeRecoveryRepo{}, planRepo, completer)

	result, err := svc.GeneratePlan(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, domain.GoalFitness, result.Plan.Goal)
	assert.Equal(t, 10.0, result.Plan.WeeklyMileage)
}

func TestGeneratePlan_HistoryFailuresAreTolerated(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID}}
	workoutRepo := &fakeWorkoutRepo{recentErr: errors.New("timeout")}
	recoveryRepo := &fakeRecoveryRepo{recentErr: errors.New("timeout")}
	completer := &fakeCompleter{response: validPlanJSON}

	svc := newTestPlanService(profileRepo, workoutRepo, recoveryRepo, &fakePlanRepo{}, completer)

	_, err := svc.GeneratePlan(context.Background(), userID)
	require.NoError(t, err)

	// Prompt still carries the empty-history markers.
	assert.Contains(t, completer.lastReq.System, "- No previous workouts recorded")
	assert.Contains(t, completer.lastReq.System, "- No recovery data available")
}

func TestGeneratePlan_MalformedResponseWritesNothing(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID}}
	workoutRepo := &fakeWorkoutRepo{}
	planRepo := &fakePlanRepo{}
	completer := &fakeCompleter{response: "not json at all"}

	svc := newTestPlanService(profileRepo, workoutRepo, &fakeRecoveryRepo{}, planRepo, completer)

	_, err := svc.GeneratePlan(context.Background(), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPlanFormat)

	assert.Empty(t, planRepo.createdPlans)
	assert.Empty(t, workoutRepo.createdMany)
	assert.Equal(t, primitive.NilObjectID, planRepo.deactivatedFor)
}

func TestGeneratePlan_CompleterErrorPropagates(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID}}
	planRepo := &fakePlanRepo{}
	upstream := errors.New("OpenAI API error: 429")
	completer := &fakeCompleter{err: upstream}

	svc := newTestPlanService(profileRepo, &fakeWorkoutRepo{}, &fakeRecoveryRepo{}, planRepo, completer)

	_, err := svc.GeneratePlan(context.Background(), userID)
	assert.ErrorIs(t, err, upstream)
	assert.Empty(t, planRepo.createdPlans)
}

func TestGetActivePlan_NotFound(t *testing.T) {
	svc := newTestPlanService(&fakeProfileRepo{}, &fakeWorkoutRepo{}, &fakeRecoveryRepo{}, &fakePlanRepo{}, &fakeCompleter{})

	_, err := svc.GetActivePlan(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestGetPlanWorkouts_OwnershipEnforced(t *testing.T) {
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	planID := primitive.NewObjectID()
	planRepo := &fakePlanRepo{byID: &domain.TrainingPlan{ID: planID, UserID: owner}}
	workoutRepo := &fakeWorkoutRepo{byPlan: []domain.Workout{{UserID: owner}}}

	svc := newTestPlanService(&fakeProfileRepo{}, workoutRepo, &fakeRecoveryRepo{}, planRepo, &fakeCompleter{})

	_, err := svc.GetPlanWorkouts(context.Background(), intruder, planID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)

	workouts, err := svc.GetPlanWorkouts(context.Background(), owner, planID)
	require.NoError(t, err)
	assert.Len(t, workouts, 1)
}

func TestCompleteWorkout(t *testing.T) {
	workoutID := primitive.NewObjectID()
	workoutRepo := &fakeWorkoutRepo{}
	svc := newTestPlanService(&fakeProfileRepo{}, workoutRepo, &fakeRecoveryRepo{}, &fakePlanRepo{}, &fakeCompleter{})

	input := CompleteWorkoutInput{ActualDistanceKm: 5.2, ActualDurationMinutes: 31, EffortLevel: 6, Notes: "felt good"}
	err := svc.CompleteWorkout(context.Background(), primitive.NewObjectID(), workoutID, input)
	require.NoError(t, err)
	assert.Equal(t, workoutID, workoutRepo.completedID)

	// Out-of-range effort never reaches the repository.
	input.EffortLevel = 11
	err = svc.CompleteWorkout(context.Background(), primitive.NewObjectID(), workoutID, input)
	assert.Error(t, err)
}
