package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/repository"
	"runai/coach-server/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
)

// UpdateProfileInput carries the onboarding quiz answers. Nil fields are
// left untouched only when the whole profile is re-submitted with them; the
// quiz always submits the full set.
type UpdateProfileInput struct {
	DisplayName         string
	RunningExperience   *domain.ExperienceLevel
	RaceGoal            *domain.RaceGoal
	WeeklyMileageGoal   *float64
	PreferredCoachStyle *domain.CoachStyle
	Age                 *int
	WeightKg            *float64
	HeightCm            *float64
}

// AvatarUploadResponse returns the presigned URL plus the key the client
// reports back on confirm.
type AvatarUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---
type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*domain.Profile, error)
	RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error)
	ConfirmAvatar(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.Profile, error)
	GetAvatarDownloadURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo repository.ProfileRepository
	fileStorage storage.FileStorage
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.ProfileRepository, fileStorage storage.FileStorage) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		fileStorage: fileStorage,
	}
}

// GetProfile retrieves the user's profile.
func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile validates and stores the onboarding quiz results.
func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*domain.Profile, error) {
	if input.RunningExperience != nil && !input.RunningExperience.IsValid() {
		return nil, fmt.Errorf("%w: unknown running experience %q", ErrValidationFailed, *input.RunningExperience)
	}
	if input.RaceGoal != nil && !input.RaceGoal.IsValid() {
		return nil, fmt.Errorf("%w: unknown race goal %q", ErrValidationFailed, *input.RaceGoal)
	}
	if input.PreferredCoachStyle != nil && !input.PreferredCoachStyle.IsValid() {
		return nil, fmt.Errorf("%w: unknown coach style %q", ErrValidationFailed, *input.PreferredCoachStyle)
	}
	if input.WeeklyMileageGoal != nil && *input.WeeklyMileageGoal <= 0 {
		return nil, fmt.Errorf("%w: weekly training goal must be positive", ErrValidationFailed)
	}

	profile := &domain.Profile{
		UserID:              userID,
		DisplayName:         input.DisplayName,
		RunningExperience:   input.RunningExperience,
		RaceGoal:            input.RaceGoal,
		WeeklyMileageGoal:   input.WeeklyMileageGoal,
		PreferredCoachStyle: input.PreferredCoachStyle,
		Age:                 input.Age,
		WeightKg:            input.WeightKg,
		HeightCm:            input.HeightCm,
	}

	err := s.profileRepo.Update(ctx, profile)
	if errors.Is(err, repository.ErrNotFound) {
		// Profile row missing (e.g. created before profiles existed); create it.
		if _, err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s.profileRepo.GetByUserID(ctx, userID)
}

// RequestAvatarUploadURL generates a presigned URL for uploading an avatar image.
func (s *profileService) RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, fmt.Errorf("%w: invalid or missing image content type", ErrValidationFailed)
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("avatars", userID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &AvatarUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmAvatar records the uploaded object key on the profile. Called after
// the client has PUT the file to the presigned URL.
func (s *profileService) ConfirmAvatar(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.Profile, error) {
	if objectKey == "" || !strings.HasPrefix(objectKey, path.Join("avatars", userID.Hex())+"/") {
		return nil, fmt.Errorf("%w: object key does not belong to this user", ErrValidationFailed)
	}

	if err := s.profileRepo.SetAvatarURL(ctx, userID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// GetAvatarDownloadURL generates a temporary URL for viewing the avatar.
func (s *profileService) GetAvatarDownloadURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.AvatarURL == "" {
		return "", repository.ErrNotFound
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, profile.AvatarURL, storage.DefaultPresignedURLExpiry)
}
