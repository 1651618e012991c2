package service

import (
	"context"
	"strings"
	"testing"

	"runai/coach-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateProfile_StoresQuizAnswers(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID}}
	svc := NewProfileService(profileRepo, &fakeFileStorage{})

	exp := domain.ExperienceBeginner
	goal := domain.Goal10K
	style := domain.StyleMotivational
	mileage := 25.0

	profile, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{
		DisplayName:         "Sam",
		RunningExperience:   &exp,
		RaceGoal:            &goal,
		WeeklyMileageGoal:   &mileage,
		PreferredCoachStyle: &style,
	})
	require.NoError(t, err)

	require.Len(t, profileRepo.updated, 1)
	assert.Equal(t, domain.ExperienceBeginner, *profile.RunningExperience)
	assert.Equal(t, domain.Goal10K, *profile.RaceGoal)
	assert.Equal(t, 25.0, *profile.WeeklyMileageGoal)
}

func TestUpdateProfile_CreatesWhenMissing(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{} // no existing profile row
	svc := NewProfileService(profileRepo, &fakeFileStorage{})

	_, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{DisplayName: "Sam"})
	require.NoError(t, err)
	assert.Len(t, profileRepo.created, 1)
}

func TestUpdateProfile_RejectsUnknownEnums(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := NewProfileService(&fakeProfileRepo{profile: &domain.Profile{UserID: userID}}, &fakeFileStorage{})

	bad := domain.ExperienceLevel("olympian")
	_, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{RunningExperience: &bad})
	assert.ErrorIs(t, err, ErrValidationFailed)

	negative := -5.0
	_, err = svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{WeeklyMileageGoal: &negative})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRequestAvatarUploadURL(t *testing.T) {
	userID := primitive.NewObjectID()
	fileStorage := &fakeFileStorage{}
	svc := NewProfileService(&fakeProfileRepo{}, fileStorage)

	resp, err := svc.RequestAvatarUploadURL(context.Background(), userID, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ObjectKey, "avatars/"+userID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(resp.ObjectKey, ".png"))
	assert.Contains(t, resp.UploadURL, resp.ObjectKey)
	assert.Equal(t, "image/png", fileStorage.lastContent)
}

func TestRequestAvatarUploadURL_RejectsNonImage(t *testing.T) {
	svc := NewProfileService(&fakeProfileRepo{}, &fakeFileStorage{})

	_, err := svc.RequestAvatarUploadURL(context.Background(), primitive.NewObjectID(), "application/pdf")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.RequestAvatarUploadURL(context.Background(), primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestConfirmAvatar_EnforcesKeyOwnership(t *testing.T) {
	userID := primitive.NewObjectID()
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID}}
	svc := NewProfileService(profileRepo, &fakeFileStorage{})

	// A key under another user's prefix is rejected.
	otherKey := "avatars/" + primitive.NewObjectID().Hex() + "/x.png"
	_, err := svc.ConfirmAvatar(context.Background(), userID, otherKey)
	assert.ErrorIs(t, err, ErrValidationFailed)

	ownKey := "avatars/" + userID.Hex() + "/x.png"
	profile, err := svc.ConfirmAvatar(context.Background(), userID, ownKey)
	require.NoError(t, err)
	assert.Equal(t, ownKey, profile.AvatarURL)
}

func TestGetAvatarDownloadURL(t *testing.T) {
	userID := primitive.NewObjectID()
	key := "avatars/" + userID.Hex() + "/x.png"
	profileRepo := &fakeProfileRepo{profile: &domain.Profile{UserID: userID, AvatarURL: key}}
	svc := NewProfileService(profileRepo, &fakeFileStorage{})

	url, err := svc.GetAvatarDownloadURL(context.Background(), userID)
	require.NoError(t, err)
	assert.Contains(t, url, key)
}
