package service

import (
	"encoding/json"
	"fmt"
	"time"

	"runai/coach-server/internal/domain"
)

// GeneratedPlan is the structured shape the completion API must return for
// plan generation.
type GeneratedPlan struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DifficultyLevel string          `json:"difficulty_level"`
	Weeks           []GeneratedWeek `json:"weeks"`
}

// GeneratedWeek is one 7-day block of the returned plan.
type GeneratedWeek struct {
	Week     int                `json:"week"`
	Focus    string             `json:"focus"`
	Workouts []GeneratedWorkout `json:"workouts"`
}

// GeneratedWorkout is one planned session inside a week.
type GeneratedWorkout struct {
	Day                    int     `json:"day"`
	WorkoutType            string  `json:"workout_type"`
	PlannedDistanceKm      float64 `json:"planned_distance_km"`
	PlannedDurationMinutes float64 `json:"planned_duration_minutes"`
	EffortLevel            int     `json:"effort_level"`
	Notes                  string  `json:"notes,omitempty"`
}

// ParseGeneratedPlan parses and validates the raw completion text. Any parse
// or validation failure is terminal; there is no repair of malformed output.
func ParseGeneratedPlan(raw string) (*GeneratedPlan, error) {
	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlanFormat, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlanFormat, err)
	}
	return &plan, nil
}

// Validate rejects plans whose shape would produce wrong calendar placement
// or out-of-range workout records: empty weeks, a day outside 1-7, an effort
// level outside 1-10, or an unknown workout type.
func (p *GeneratedPlan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plan name is missing")
	}
	if len(p.Weeks) == 0 {
		return fmt.Errorf("plan has no weeks")
	}
	for wi, week := range p.Weeks {
		for _, workout := range week.Workouts {
			if workout.Day < 1 || workout.Day > 7 {
				return fmt.Errorf("week %d: day %d is out of range 1-7", wi+1, workout.Day)
			}
			if workout.EffortLevel < 1 || workout.EffortLevel > 10 {
				return fmt.Errorf("week %d day %d: effort level %d is out of range 1-10", wi+1, workout.Day, workout.EffortLevel)
			}
			if !domain.WorkoutType(workout.WorkoutType).IsValid() {
				return fmt.Errorf("week %d day %d: unknown workout type %q", wi+1, workout.Day, workout.WorkoutType)
			}
		}
	}
	return nil
}

// PlanDurationDays is the fixed 4-week plan horizon. The end date is always
// startDate + PlanDurationDays regardless of how many weeks came back.
const PlanDurationDays = 28

// WorkoutDate computes the calendar date of a workout: the plan start plus
// 7 days per zero-based week index plus (day-1) days within the week.
func WorkoutDate(startDate time.Time, weekIndex, day int) time.Time {
	return startDate.AddDate(0, 0, weekIndex*7+(day-1))
}
