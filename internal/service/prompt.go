package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"runai/coach-server/internal/domain"
)

// ChatProfile is the lightweight profile context a chat caller may supply.
// All fields are optional; missing values render as documented fallbacks.
type ChatProfile struct {
	RunningExperience string   `json:"running_experience,omitempty"`
	WeeklyMileageGoal *float64 `json:"weekly_mileage_goal,omitempty"`
	RaceGoal          string   `json:"race_goal,omitempty"`
	WeightKg          *float64 `json:"weight_kg,omitempty"`
	Age               *int     `json:"age,omitempty"`
}

// ChatWorkout is one recent workout supplied as chat context. Actual values
// take precedence over planned ones when rendering.
type ChatWorkout struct {
	WorkoutType            string   `json:"workout_type"`
	PlannedDistanceKm      *float64 `json:"planned_distance_km,omitempty"`
	PlannedDurationMinutes *float64 `json:"planned_duration_minutes,omitempty"`
	ActualDistanceKm       *float64 `json:"actual_distance_km,omitempty"`
	ActualDurationMinutes  *float64 `json:"actual_duration_minutes,omitempty"`
	EffortLevel            *int     `json:"effort_level,omitempty"`
}

const coachBasePrompt = "You are RunAI, an expert AI running coach. Your role is to provide personalized training advice, motivation, and guidance."

var coachStylePrompts = map[domain.CoachStyle]string{
	domain.StyleSupportive:   "Be encouraging, empathetic, and focus on positive reinforcement. Celebrate small wins and help build confidence.",
	domain.StyleMotivational: "Be energetic, inspiring, and push for excellence. Use motivational language and challenge the runner to reach their potential.",
	domain.StyleAnalytical:   "Be data-driven, precise, and technical. Provide detailed explanations and focus on metrics, pacing, and scientific training principles.",
	domain.StyleTough:        "Be direct, no-nonsense, and demanding. Push hard while maintaining respect. Focus on discipline and mental toughness.",
}

// BuildCoachSystemPrompt assembles the chat system prompt: role description,
// style directive (unrecognized styles fall back to supportive), optional
// profile block, and optional numbered recent-workout list. Pure function;
// no network or storage access.
func BuildCoachSystemPrompt(style domain.CoachStyle, profile *ChatProfile, recentWorkouts []ChatWorkout) string {
	directive, ok := coachStylePrompts[style]
	if !ok {
		directive = coachStylePrompts[domain.StyleSupportive]
	}

	var b strings.Builder
	b.WriteString(coachBasePrompt)
	b.WriteString(" ")
	b.WriteString(directive)

	if profile != nil {
		fmt.Fprintf(&b, "\n\nRunner Profile:\n- Experience: %s\n- Weekly mileage goal: %s miles\n- Race goal: %s\n- Weight: %s kg\n- Age: %s",
			stringOr(profile.RunningExperience, "Unknown"),
			floatOr(profile.WeeklyMileageGoal, "Not set"),
			stringOr(profile.RaceGoal, "General fitness"),
			floatOr(profile.WeightKg, "Not provided"),
			intOr(profile.Age, "Not provided"),
		)
	}

	if len(recentWorkouts) > 0 {
		b.WriteString("\n\nRecent Workouts:")
		for i, w := range recentWorkouts {
			distance := firstFloat(w.ActualDistanceKm, w.PlannedDistanceKm)
			duration := firstFloat(w.ActualDurationMinutes, w.PlannedDurationMinutes)
			fmt.Fprintf(&b, "\n%d. %s - %skm in %s minutes (Effort: %s/10)",
				i+1, w.WorkoutType, floatOr(distance, "N/A"), floatOr(duration, "N/A"), intOr(w.EffortLevel, "N/A"))
		}
	}

	b.WriteString("\n\nProvide helpful, actionable advice. Keep responses concise but informative. Always consider the runner's current fitness level and goals.")

	return b.String()
}

// BuildPlanPrompt assembles the structured-output prompt for plan generation:
// profile assessment with "Not specified" fallbacks, up to 10 prior workouts,
// up to 7 recovery entries, and the exact JSON shape the model must return.
// Pure function; no network or storage access.
func BuildPlanPrompt(profile *domain.Profile, recentWorkouts []domain.Workout, recoveryMetrics []domain.RecoveryMetric) string {
	var b strings.Builder

	b.WriteString("You are RunAI, a world-class running coach AI. Generate a personalized 4-week training plan based on the user's assessment and running history.\n")
	b.WriteString("\nUser Assessment Results:\n")
	fmt.Fprintf(&b, "- Running Experience: %s\n", experienceOr(profile.RunningExperience, "Not specified"))
	fmt.Fprintf(&b, "- Race Goal: %s\n", goalOr(profile.RaceGoal, "Not specified"))
	fmt.Fprintf(&b, "- Weekly Training Hours: %s\n", floatOr(profile.WeeklyMileageGoal, "Not specified"))
	fmt.Fprintf(&b, "- Preferred Coach Style: %s\n", styleOr(profile.PreferredCoachStyle, "Not specified"))
	fmt.Fprintf(&b, "- Age: %s\n", intOr(profile.Age, "Not specified"))
	fmt.Fprintf(&b, "- Weight: %s kg\n", floatOr(profile.WeightKg, "Not specified"))
	fmt.Fprintf(&b, "- Height: %s cm\n", floatOr(profile.HeightCm, "Not specified"))

	b.WriteString("\nRecent Workout History (last 10 workouts):\n")
	if len(recentWorkouts) > 0 {
		for _, w := range recentWorkouts {
			distance := firstFloat(w.ActualDistanceKm, w.PlannedDistanceKm)
			duration := firstFloat(w.ActualDurationMinutes, w.PlannedDurationMinutes)
			fmt.Fprintf(&b, "- %s on %s: %skm in %s mins, effort: %s/10\n",
				w.WorkoutType, w.PlannedDate.Format("2006-01-02"),
				floatOr(distance, "N/A"), floatOr(duration, "N/A"), intOr(w.EffortLevel, "N/A"))
		}
	} else {
		b.WriteString("- No previous workouts recorded\n")
	}

	b.WriteString("\nRecent Recovery Data (last 7 days):\n")
	if len(recoveryMetrics) > 0 {
		for _, r := range recoveryMetrics {
			fmt.Fprintf(&b, "- %s: Recovery score %s/100, Sleep quality %s/10, HRV %s\n",
				r.Date.Format("2006-01-02"),
				floatOr(r.RecoveryScore, "N/A"), floatOr(r.SleepQuality, "N/A"), floatOr(r.HRVScore, "N/A"))
		}
	} else {
		b.WriteString("- No recovery data available\n")
	}

	b.WriteString(`
Generate a structured training plan with:
1. Plan name and description
2. Weekly breakdown (4 weeks)
3. Specific workouts for each week with: type, distance, duration, pace guidance, effort level
4. Progressive difficulty based on experience level
5. Recovery recommendations
6. Goal-specific focus areas

Format as JSON with this structure:
{
  "name": "Plan Name",
  "description": "Brief description",
  "difficulty_level": "beginner/intermediate/advanced/professional",
  "weeks": [
    {
      "week": 1,
      "focus": "Week focus description",
      "workouts": [
        {
          "day": 1,
          "workout_type": "easy_run/tempo/intervals/long_run/rest/cross_training",
          "planned_distance_km": 5.0,
          "planned_duration_minutes": 30,
          "effort_level": 6,
          "notes": "Specific instructions"
        }
      ]
    }
  ]
}`)

	return b.String()
}

// --- Fallback formatting helpers ---

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func floatOr(f *float64, fallback string) string {
	if f == nil {
		return fallback
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intOr(i *int, fallback string) string {
	if i == nil {
		return fallback
	}
	return strconv.Itoa(*i)
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func experienceOr(e *domain.ExperienceLevel, fallback string) string {
	if e == nil || *e == "" {
		return fallback
	}
	return string(*e)
}

func goalOr(g *domain.RaceGoal, fallback string) string {
	if g == nil || *g == "" {
		return fallback
	}
	return string(*g)
}

func styleOr(s *domain.CoachStyle, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return string(*s)
}

// startOfDay truncates a timestamp to its calendar date in UTC.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
