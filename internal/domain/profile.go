package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExperienceLevel describes how long/seriously the runner has been training.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceProfessional ExperienceLevel = "professional"
)

// IsValid reports whether the value is one of the known experience levels.
func (e ExperienceLevel) IsValid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced, ExperienceProfessional:
		return true
	}
	return false
}

// RaceGoal is the distance (or general target) the runner is training towards.
type RaceGoal string

const (
	GoalFitness      RaceGoal = "fitness"
	Goal5K           RaceGoal = "5k"
	Goal10K          RaceGoal = "10k"
	GoalHalfMarathon RaceGoal = "half_marathon"
	GoalMarathon     RaceGoal = "marathon"
	GoalUltra        RaceGoal = "ultra"
)

func (g RaceGoal) IsValid() bool {
	switch g {
	case GoalFitness, Goal5K, Goal10K, GoalHalfMarathon, GoalMarathon, GoalUltra:
		return true
	}
	return false
}

// CoachStyle selects which behavioral directive is injected into the chat
// system prompt.
type CoachStyle string

const (
	StyleSupportive   CoachStyle = "supportive"
	StyleMotivational CoachStyle = "motivational"
	StyleAnalytical   CoachStyle = "analytical"
	StyleTough        CoachStyle = "tough"
)

func (s CoachStyle) IsValid() bool {
	switch s {
	case StyleSupportive, StyleMotivational, StyleAnalytical, StyleTough:
		return true
	}
	return false
}

// Profile holds the per-user attributes collected at signup and by the
// onboarding quiz. All quiz fields are optional until the quiz is completed.
type Profile struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID `bson:"userId" json:"userId"`
	DisplayName         string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	RunningExperience   *ExperienceLevel   `bson:"runningExperience,omitempty" json:"runningExperience,omitempty"`
	RaceGoal            *RaceGoal          `bson:"raceGoal,omitempty" json:"raceGoal,omitempty"`
	WeeklyMileageGoal   *float64           `bson:"weeklyMileageGoal,omitempty" json:"weeklyMileageGoal,omitempty"` // Hours per week
	PreferredCoachStyle *CoachStyle        `bson:"preferredCoachStyle,omitempty" json:"preferredCoachStyle,omitempty"`
	Age                 *int               `bson:"age,omitempty" json:"age,omitempty"`
	WeightKg            *float64           `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	HeightCm            *float64           `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	AvatarURL           string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
