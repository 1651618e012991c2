package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WearableSample is one raw reading in a sync payload.
type WearableSample struct {
	DataType   string         `json:"dataType"`
	Value      float64        `json:"value"`
	Unit       string         `json:"unit"`
	RecordedAt time.Time      `json:"recordedAt"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// SyncResult reports the outcome of one sync call.
type SyncResult struct {
	SyncBatchID    string `json:"syncBatchId"`
	SamplesCreated int    `json:"samplesCreated"`
}

// --- Service Interface ---
type WearableService interface {
	// Sync bulk-stores device samples and folds recognized wellness sample
	// types into the daily recovery_metrics record.
	Sync(ctx context.Context, userID primitive.ObjectID, deviceType string, samples []WearableSample) (*SyncResult, error)
	GetLatest(ctx context.Context, userID primitive.ObjectID) ([]domain.WearableData, error)
}

// --- Service Implementation ---

// wearableService implements the WearableService interface.
type wearableService struct {
	wearableRepo repository.WearableDataRepository
	recoveryRepo repository.RecoveryMetricRepository
}

// NewWearableService creates a new instance of wearableService.
func NewWearableService(wearableRepo repository.WearableDataRepository, recoveryRepo repository.RecoveryMetricRepository) WearableService {
	return &wearableService{
		wearableRepo: wearableRepo,
		recoveryRepo: recoveryRepo,
	}
}

// Sync stores the raw samples under a shared batch id and updates daily
// recovery metrics from the wellness sample types.
func (s *wearableService) Sync(ctx context.Context, userID primitive.ObjectID, deviceType string, samples []WearableSample) (*SyncResult, error) {
	if deviceType == "" {
		return nil, fmt.Errorf("%w: device type is required", ErrValidationFailed)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: at least one sample is required", ErrValidationFailed)
	}

	batchID := uuid.NewString()
	now := time.Now().UTC()

	records := make([]domain.WearableData, 0, len(samples))
	for _, sample := range samples {
		if sample.DataType == "" {
			return nil, fmt.Errorf("%w: sample dataType is required", ErrValidationFailed)
		}
		recordedAt := sample.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = now
		}
		records = append(records, domain.WearableData{
			UserID:      userID,
			DeviceType:  deviceType,
			DataType:    sample.DataType,
			Value:       sample.Value,
			Unit:        sample.Unit,
			RecordedAt:  recordedAt,
			SyncedAt:    now,
			SyncBatchID: batchID,
			Metadata:    sample.Metadata,
		})
	}

	created, err := s.wearableRepo.CreateMany(ctx, records)
	if err != nil {
		return nil, err
	}

	// Fold wellness sample types into the per-date recovery record. Failures
	// here are logged only; the raw samples are already stored.
	for _, rec := range records {
		metric := recoveryMetricFromSample(rec)
		if metric == nil {
			continue
		}
		if err := s.recoveryRepo.Upsert(ctx, metric); err != nil {
			log.Printf("WARN: Failed to upsert recovery metric from %s sample for user %s: %v", rec.DataType, userID.Hex(), err)
		}
	}

	return &SyncResult{SyncBatchID: batchID, SamplesCreated: created}, nil
}

// recoveryMetricFromSample maps a recognized wellness sample onto the daily
// recovery record, or returns nil for plain activity samples.
func recoveryMetricFromSample(rec domain.WearableData) *domain.RecoveryMetric {
	metric := &domain.RecoveryMetric{UserID: rec.UserID, Date: rec.RecordedAt}
	v := rec.Value
	switch rec.DataType {
	case "recovery_score":
		metric.RecoveryScore = &v
	case "hrv", "hrv_score":
		metric.HRVScore = &v
	case "sleep_quality":
		metric.SleepQuality = &v
	case "sleep_duration", "sleep_duration_hours":
		metric.SleepDurationHours = &v
	case "stress_level":
		metric.StressLevel = &v
	default:
		return nil
	}
	return metric
}

// GetLatest retrieves the most recent sample per device/data type pair.
func (s *wearableService) GetLatest(ctx context.Context, userID primitive.ObjectID) ([]domain.WearableData, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.wearableRepo.GetLatestPerType(ctx, userID)
}
