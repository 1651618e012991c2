package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WearableData is one raw sample synced from a wearable device, e.g. a heart
// rate reading or a sleep duration. SyncBatchID groups the samples uploaded
// in a single sync call.
type WearableData struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	DeviceType  string             `bson:"deviceType" json:"deviceType"` // e.g. "garmin", "apple_watch"
	DataType    string             `bson:"dataType" json:"dataType"`     // e.g. "heart_rate", "sleep_duration"
	Value       float64            `bson:"value" json:"value"`
	Unit        string             `bson:"unit" json:"unit"`
	RecordedAt  time.Time          `bson:"recordedAt" json:"recordedAt"`
	SyncedAt    time.Time          `bson:"syncedAt" json:"syncedAt"`
	SyncBatchID string             `bson:"syncBatchId,omitempty" json:"syncBatchId,omitempty"`
	Metadata    map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
}
