package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/llm"
	"runai/coach-server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound   = errors.New("could not fetch user profile")
	ErrInvalidPlanFormat = errors.New("invalid AI response format")
	ErrPlanNotFound      = errors.New("training plan not found")
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrPlanAccessDenied  = errors.New("access denied to this training plan")
)

const (
	planContextWorkouts = 10
	planContextRecovery = 7
	planPromptMaxTokens = 2000
)

// PlanGenerationResult is returned to the caller on success.
type PlanGenerationResult struct {
	Plan            *domain.TrainingPlan `json:"plan"`
	WorkoutsCreated int                  `json:"workoutsCreated"`
	PlanData        *GeneratedPlan       `json:"planData"`
}

// CompleteWorkoutInput carries the actual outcome of a finished workout.
type CompleteWorkoutInput struct {
	ActualDistanceKm      float64
	ActualDurationMinutes float64
	EffortLevel           int
	Notes                 string
}

// --- Service Interface ---
type PlanService interface {
	// GeneratePlan runs the full pipeline: load context, prompt the
	// completion API, parse and validate the result, derive dated workouts,
	// persist the plan, and deactivate prior active plans.
	GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*PlanGenerationResult, error)
	GetPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	GetPlanWorkouts(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.Workout, error)
	CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, input CompleteWorkoutInput) error
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	profileRepo  repository.ProfileRepository
	workoutRepo  repository.WorkoutRepository
	recoveryRepo repository.RecoveryMetricRepository
	planRepo     repository.TrainingPlanRepository
	completer    llm.ChatCompleter
	model        string
	now          func() time.Time
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	profileRepo repository.ProfileRepository,
	workoutRepo repository.WorkoutRepository,
	recoveryRepo repository.RecoveryMetricRepository,
	planRepo repository.TrainingPlanRepository,
	completer llm.ChatCompleter,
	model string,
) PlanService {
	return &planService{
		profileRepo:  profileRepo,
		workoutRepo:  workoutRepo,
		recoveryRepo: recoveryRepo,
		planRepo:     planRepo,
		completer:    completer,
		model:        model,
		now:          time.Now,
	}
}

// GeneratePlan generates and persists a new 4-week training plan for the user.
func (s *planService) GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*PlanGenerationResult, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	// 1. Load context. The profile is required; workout and recovery history
	// are optional context and their absence is tolerated.
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileNotFound, err)
	}

	recentWorkouts, err := s.workoutRepo.GetRecentByUserID(ctx, userID, planContextWorkouts)
	if err != nil {
		log.Printf("WARN: Failed to fetch recent workouts for user %s: %v", userID.Hex(), err)
		recentWorkouts = nil
	}

	recoveryMetrics, err := s.recoveryRepo.GetRecentByUserID(ctx, userID, planContextRecovery)
	if err != nil {
		log.Printf("WARN: Failed to fetch recovery metrics for user %s: %v", userID.Hex(), err)
		recoveryMetrics = nil
	}

	// 2. Prompt construction.
	systemPrompt := BuildPlanPrompt(profile, recentWorkouts, recoveryMetrics)

	// 3. External generation. Non-success responses are fatal.
	raw, err := s.completer.Complete(ctx, llm.ChatRequest{
		Model:     s.model,
		System:    systemPrompt,
		User:      "Generate my personalized training plan now.",
		MaxTokens: planPromptMaxTokens,
		JSONMode:  true,
	})
	if err != nil {
		return nil, err
	}

	// 4. Parse & validate. No partial recovery and no retry.
	planData, err := ParseGeneratedPlan(raw)
	if err != nil {
		return nil, err
	}

	// 5. Date derivation: fixed 4-week horizon from today.
	startDate := startOfDay(s.now())
	endDate := startDate.AddDate(0, 0, PlanDurationDays)

	// 6. Persistence orchestration.
	goal := domain.GoalFitness
	if profile.RaceGoal != nil && *profile.RaceGoal != "" {
		goal = *profile.RaceGoal
	}
	weeklyMileage := 10.0
	if profile.WeeklyMileageGoal != nil {
		weeklyMileage = *profile.WeeklyMileageGoal
	}

	plan := &domain.TrainingPlan{
		UserID:          userID,
		Name:            planData.Name,
		Goal:            goal,
		DifficultyLevel: domain.ExperienceLevel(planData.DifficultyLevel),
		WeeklyMileage:   weeklyMileage,
		StartDate:       startDate,
		EndDate:         endDate,
		IsActive:        true,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("could not create training plan: %w", err)
	}
	plan.ID = planID

	// Deactivate any existing active plans. Not atomic with the insert above;
	// a crash in between can transiently leave two active plans.
	if err := s.planRepo.DeactivateOthers(ctx, userID, planID); err != nil {
		log.Printf("ERROR: Failed to deactivate previous plans for user %s: %v", userID.Hex(), err)
		return nil, fmt.Errorf("could not deactivate previous plans: %w", err)
	}

	workouts := buildPlanWorkouts(userID, planID, startDate, planData)
	created, err := s.workoutRepo.CreateMany(ctx, workouts)
	if err != nil {
		// The plan row and deactivation are already committed; there is no
		// compensating rollback. The caller sees the whole action as failed.
		return nil, fmt.Errorf("could not create workout schedule: %w", err)
	}

	log.Printf("Created training plan %s with %d workouts for user %s", planID.Hex(), created, userID.Hex())

	return &PlanGenerationResult{
		Plan:            plan,
		WorkoutsCreated: created,
		PlanData:        planData,
	}, nil
}

// buildPlanWorkouts expands the generated plan into dated workout records.
func buildPlanWorkouts(userID, planID primitive.ObjectID, startDate time.Time, planData *GeneratedPlan) []domain.Workout {
	var workouts []domain.Workout
	for weekIndex, week := range planData.Weeks {
		for _, w := range week.Workouts {
			distance := w.PlannedDistanceKm
			duration := w.PlannedDurationMinutes
			effort := w.EffortLevel
			notes := w.Notes
			if notes == "" {
				notes = fmt.Sprintf("Week %d: %s", week.Week, week.Focus)
			}
			pid := planID
			workouts = append(workouts, domain.Workout{
				UserID:                 userID,
				TrainingPlanID:         &pid,
				WorkoutType:            domain.WorkoutType(w.WorkoutType),
				PlannedDate:            WorkoutDate(startDate, weekIndex, w.Day),
				PlannedDistanceKm:      &distance,
				PlannedDurationMinutes: &duration,
				EffortLevel:            &effort,
				Notes:                  notes,
			})
		}
	}
	return workouts
}

// GetPlans retrieves all plans of the user, newest first.
func (s *planService) GetPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.planRepo.GetByUserID(ctx, userID)
}

// GetActivePlan retrieves the user's single active plan.
func (s *planService) GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// GetPlanWorkouts retrieves the workouts of a plan, enforcing ownership.
func (s *planService) GetPlanWorkouts(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.Workout, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return s.workoutRepo.GetByPlanID(ctx, planID)
}

// CompleteWorkout records the actual outcome of a workout owned by the user.
func (s *planService) CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, input CompleteWorkoutInput) error {
	if input.EffortLevel < 1 || input.EffortLevel > 10 {
		return errors.New("effort level must be between 1 and 10")
	}
	err := s.workoutRepo.Complete(ctx, workoutID, userID, input.ActualDistanceKm, input.ActualDurationMinutes, input.EffortLevel, input.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}
