package service

import (
	"context"
	"time"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/llm"
	"runai/coach-server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory test doubles for the repository and completion interfaces.

type fakeCompleter struct {
	response string
	err      error
	calls    int
	lastReq  llm.ChatRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

type fakeProfileRepo struct {
	profile   *domain.Profile
	getErr    error
	created   []*domain.Profile
	createErr error
	updated   []*domain.Profile
	updateErr error
	avatarKey string
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	f.created = append(f.created, profile)
	f.profile = profile
	return primitive.NewObjectID(), nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.profile == nil {
		return nil, repository.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.profile == nil {
		return repository.ErrNotFound
	}
	f.updated = append(f.updated, profile)
	f.profile = profile
	return nil
}

func (f *fakeProfileRepo) SetAvatarURL(_ context.Context, _ primitive.ObjectID, avatarURL string) error {
	if f.profile == nil {
		return repository.ErrNotFound
	}
	f.avatarKey = avatarURL
	f.profile.AvatarURL = avatarURL
	return nil
}

type fakeWorkoutRepo struct {
	recent        []domain.Workout
	recentErr     error
	byPlan        []domain.Workout
	byDate        *domain.Workout
	byDateRange   []domain.Workout
	createdMany   []domain.Workout
	createManyErr error
	completeErr   error
	completedID   primitive.ObjectID
}

func (f *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeWorkoutRepo) CreateMany(_ context.Context, workouts []domain.Workout) (int, error) {
	if f.createManyErr != nil {
		return 0, f.createManyErr
	}
	f.createdMany = append(f.createdMany, workouts...)
	return len(workouts), nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeWorkoutRepo) GetByPlanID(_ context.Context, _ primitive.ObjectID) ([]domain.Workout, error) {
	return f.byPlan, nil
}

func (f *fakeWorkoutRepo) GetRecentByUserID(_ context.Context, _ primitive.ObjectID, _ int64) ([]domain.Workout, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

func (f *fakeWorkoutRepo) GetByUserAndDate(_ context.Context, _ primitive.ObjectID, _ time.Time) (*domain.Workout, error) {
	if f.byDate == nil {
		return nil, repository.ErrNotFound
	}
	return f.byDate, nil
}

func (f *fakeWorkoutRepo) GetByUserAndDateRange(_ context.Context, _ primitive.ObjectID, _, _ time.Time) ([]domain.Workout, error) {
	return f.byDateRange, nil
}

func (f *fakeWorkoutRepo) Complete(_ context.Context, workoutID, _ primitive.ObjectID, _, _ float64, _ int, _ string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completedID = workoutID
	return nil
}

type fakeRecoveryRepo struct {
	recent    []domain.RecoveryMetric
	recentErr error
	byDate    *domain.RecoveryMetric
	upserts   []*domain.RecoveryMetric
	upsertErr error
}

func (f *fakeRecoveryRepo) Upsert(_ context.Context, metric *domain.RecoveryMetric) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, metric)
	return nil
}

func (f *fakeRecoveryRepo) GetByUserAndDate(_ context.Context, _ primitive.ObjectID, _ time.Time) (*domain.RecoveryMetric, error) {
	if f.byDate == nil {
		return nil, repository.ErrNotFound
	}
	return f.byDate, nil
}

func (f *fakeRecoveryRepo) GetRecentByUserID(_ context.Context, _ primitive.ObjectID, _ int64) ([]domain.RecoveryMetric, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

type fakePlanRepo struct {
	createdPlans    []*domain.TrainingPlan
	createErr       error
	plans           []domain.TrainingPlan
	active          *domain.TrainingPlan
	byID            *domain.TrainingPlan
	deactivateErr   error
	deactivatedFor  primitive.ObjectID
	deactivatedSkip primitive.ObjectID
}

func (f *fakePlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	f.createdPlans = append(f.createdPlans, plan)
	return primitive.NewObjectID(), nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, _ primitive.ObjectID) (*domain.TrainingPlan, error) {
	if f.byID == nil {
		return nil, repository.ErrNotFound
	}
	return f.byID, nil
}

func (f *fakePlanRepo) GetByUserID(_ context.Context, _ primitive.ObjectID) ([]domain.TrainingPlan, error) {
	return f.plans, nil
}

func (f *fakePlanRepo) GetActiveByUserID(_ context.Context, _ primitive.ObjectID) (*domain.TrainingPlan, error) {
	if f.active == nil {
		return nil, repository.ErrNotFound
	}
	return f.active, nil
}

func (f *fakePlanRepo) DeactivateOthers(_ context.Context, userID, excludePlanID primitive.ObjectID) error {
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	f.deactivatedFor = userID
	f.deactivatedSkip = excludePlanID
	return nil
}

type fakeUserRepo struct {
	byEmail   map[string]*domain.User
	createErr error
	created   []*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	id := primitive.NewObjectID()
	f.created = append(f.created, user)
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.User{}
	}
	stored := *user
	stored.ID = id
	f.byEmail[user.Email] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeFileStorage struct {
	uploadErr   error
	lastKey     string
	lastContent string
	deletedKeys []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.lastKey = objectKey
	f.lastContent = contentType
	return "https://bucket.example.com/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://bucket.example.com/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}

type fakeWearableRepo struct {
	created       []domain.WearableData
	createManyErr error
	latest        []domain.WearableData
}

func (f *fakeWearableRepo) CreateMany(_ context.Context, samples []domain.WearableData) (int, error) {
	if f.createManyErr != nil {
		return 0, f.createManyErr
	}
	f.created = append(f.created, samples...)
	return len(samples), nil
}

func (f *fakeWearableRepo) GetLatestPerType(_ context.Context, _ primitive.ObjectID) ([]domain.WearableData, error) {
	return f.latest, nil
}
