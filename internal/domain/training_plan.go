package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingPlan is a generated 4-week plan. At most one plan per user is
// active at any time; plan generation deactivates all others after inserting
// a new one.
type TrainingPlan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Name            string             `bson:"name" json:"name"`
	Goal            RaceGoal           `bson:"goal" json:"goal"`
	DifficultyLevel ExperienceLevel    `bson:"difficultyLevel,omitempty" json:"difficultyLevel,omitempty"`
	WeeklyMileage   float64            `bson:"weeklyMileage,omitempty" json:"weeklyMileage,omitempty"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"` // StartDate + 28 days
	IsActive        bool               `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
