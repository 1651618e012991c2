package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecoveryMetric is one wellness record per user per calendar date. All scores
// are optional; they arrive from an external ingestion path (wearable sync)
// and are read-only inputs to plan generation.
type RecoveryMetric struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	Date               time.Time          `bson:"date" json:"date"`
	RecoveryScore      *float64           `bson:"recoveryScore,omitempty" json:"recoveryScore,omitempty"` // 0-100 composite
	HRVScore           *float64           `bson:"hrvScore,omitempty" json:"hrvScore,omitempty"`
	SleepQuality       *float64           `bson:"sleepQuality,omitempty" json:"sleepQuality,omitempty"` // 0-10
	SleepDurationHours *float64           `bson:"sleepDurationHours,omitempty" json:"sleepDurationHours,omitempty"`
	StressLevel        *float64           `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}
