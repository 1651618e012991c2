package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// TrainingPlanResponse is the DTO for returning plan details.
type TrainingPlanResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Goal            string    `json:"goal"`
	DifficultyLevel string    `json:"difficultyLevel,omitempty"`
	WeeklyMileage   float64   `json:"weeklyMileage,omitempty"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// GeneratePlanResponse mirrors the legacy serverless payload the web client
// already consumes.
type GeneratePlanResponse struct {
	Success         bool                   `json:"success"`
	Plan            TrainingPlanResponse   `json:"plan"`
	WorkoutsCreated int                    `json:"workoutsCreated"`
	PlanData        *service.GeneratedPlan `json:"planData"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID                     string     `json:"id"`
	TrainingPlanID         *string    `json:"trainingPlanId,omitempty"`
	WorkoutType            string     `json:"workoutType"`
	PlannedDate            time.Time  `json:"plannedDate"`
	PlannedDistanceKm      *float64   `json:"plannedDistanceKm,omitempty"`
	PlannedDurationMinutes *float64   `json:"plannedDurationMinutes,omitempty"`
	PlannedPacePerKm       string     `json:"plannedPacePerKm,omitempty"`
	EffortLevel            *int       `json:"effortLevel,omitempty"`
	Notes                  string     `json:"notes,omitempty"`
	ActualDistanceKm       *float64   `json:"actualDistanceKm,omitempty"`
	ActualDurationMinutes  *float64   `json:"actualDurationMinutes,omitempty"`
	CompletedAt            *time.Time `json:"completedAt,omitempty"`
}

type CompleteWorkoutRequest struct {
	ActualDistanceKm      float64 `json:"actualDistanceKm" binding:"required,gt=0"`
	ActualDurationMinutes float64 `json:"actualDurationMinutes" binding:"required,gt=0"`
	EffortLevel           int     `json:"effortLevel" binding:"required,min=1,max=10"`
	Notes                 string  `json:"notes"`
}

// MapPlanToResponse converts a domain.TrainingPlan to its DTO.
func MapPlanToResponse(plan *domain.TrainingPlan) TrainingPlanResponse {
	if plan == nil {
		return TrainingPlanResponse{}
	}
	return TrainingPlanResponse{
		ID:              plan.ID.Hex(),
		UserID:          plan.UserID.Hex(),
		Name:            plan.Name,
		Goal:            string(plan.Goal),
		DifficultyLevel: string(plan.DifficultyLevel),
		WeeklyMileage:   plan.WeeklyMileage,
		StartDate:       plan.StartDate,
		EndDate:         plan.EndDate,
		IsActive:        plan.IsActive,
		CreatedAt:       plan.CreatedAt,
	}
}

// MapWorkoutToResponse converts a domain.Workout to its DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	resp := WorkoutResponse{
		ID:                     w.ID.Hex(),
		WorkoutType:            string(w.WorkoutType),
		PlannedDate:            w.PlannedDate,
		PlannedDistanceKm:      w.PlannedDistanceKm,
		PlannedDurationMinutes: w.PlannedDurationMinutes,
		PlannedPacePerKm:       w.PlannedPacePerKm,
		EffortLevel:            w.EffortLevel,
		Notes:                  w.Notes,
		ActualDistanceKm:       w.ActualDistanceKm,
		ActualDurationMinutes:  w.ActualDurationMinutes,
		CompletedAt:            w.CompletedAt,
	}
	if w.TrainingPlanID != nil {
		hex := w.TrainingPlanID.Hex()
		resp.TrainingPlanID = &hex
	}
	return resp
}

// --- Handler Methods ---

// GeneratePlan runs the full plan-generation pipeline for the authenticated
// user. Failures return {success: false, error} with status 500; the client
// retries the whole action manually.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	result, err := h.planService.GeneratePlan(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, GeneratePlanResponse{
		Success:         true,
		Plan:            MapPlanToResponse(result.Plan),
		WorkoutsCreated: result.WorkoutsCreated,
		PlanData:        result.PlanData,
	})
}

// GetPlans lists the user's plans, newest first.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	plans, err := h.planService.GetPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve training plans.")
		return
	}

	responses := make([]TrainingPlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetActivePlan returns the user's single active plan.
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, "No active training plan.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve active plan.")
		}
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// GetPlanWorkouts lists the workouts of one plan owned by the user.
func (h *PlanHandler) GetPlanWorkouts(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	workouts, err := h.planService.GetPlanWorkouts(c.Request.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, "Training plan not found.")
		} else if errors.Is(err, service.ErrPlanAccessDenied) {
			abortWithError(c, http.StatusForbidden, "Access denied to this training plan.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		}
		return
	}

	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CompleteWorkout records the actual outcome of a workout.
func (h *PlanHandler) CompleteWorkout(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err = h.planService.CompleteWorkout(c.Request.Context(), userID, workoutID, service.CompleteWorkoutInput{
		ActualDistanceKm:      req.ActualDistanceKm,
		ActualDurationMinutes: req.ActualDurationMinutes,
		EffortLevel:           req.EffortLevel,
		Notes:                 req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to complete workout.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// userID extracts and parses the authenticated user's ID, aborting on failure.
func (h *PlanHandler) userID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "User not authenticated")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}
