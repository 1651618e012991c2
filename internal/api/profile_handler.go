package api

import (
	"errors"
	"fmt"
	"net/http"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/repository"
	"runai/coach-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request/Response Structs ---

// UpdateProfileRequest carries the onboarding quiz answers.
type UpdateProfileRequest struct {
	DisplayName         string   `json:"displayName" binding:"omitempty,max=100"`
	RunningExperience   *string  `json:"runningExperience"`
	RaceGoal            *string  `json:"raceGoal"`
	WeeklyMileageGoal   *float64 `json:"weeklyMileageGoal"`
	PreferredCoachStyle *string  `json:"preferredCoachStyle"`
	Age                 *int     `json:"age" binding:"omitempty,min=13,max=120"`
	WeightKg            *float64 `json:"weightKg" binding:"omitempty,gt=0"`
	HeightCm            *float64 `json:"heightCm" binding:"omitempty,gt=0"`
}

type AvatarUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmAvatarRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Handler Methods ---

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, "Profile not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profile.")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile stores the onboarding quiz answers on the profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.UpdateProfileInput{
		DisplayName:       req.DisplayName,
		WeeklyMileageGoal: req.WeeklyMileageGoal,
		Age:               req.Age,
		WeightKg:          req.WeightKg,
		HeightCm:          req.HeightCm,
	}
	if req.RunningExperience != nil {
		exp := domain.ExperienceLevel(*req.RunningExperience)
		input.RunningExperience = &exp
	}
	if req.RaceGoal != nil {
		goal := domain.RaceGoal(*req.RaceGoal)
		input.RaceGoal = &goal
	}
	if req.PreferredCoachStyle != nil {
		style := domain.CoachStyle(*req.PreferredCoachStyle)
		input.PreferredCoachStyle = &style
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RequestAvatarUploadURL returns a presigned PUT URL for the avatar image.
func (h *ProfileHandler) RequestAvatarUploadURL(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req AvatarUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.profileService.RequestAvatarUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmAvatar records the uploaded object key on the profile.
func (h *ProfileHandler) ConfirmAvatar(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req ConfirmAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.ConfirmAvatar(c.Request.Context(), userID, req.ObjectKey)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, "Profile not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm avatar.")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetAvatarDownloadURL returns a temporary URL for viewing the avatar.
func (h *ProfileHandler) GetAvatarDownloadURL(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	url, err := h.profileService.GetAvatarDownloadURL(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) || errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "Avatar not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func (h *ProfileHandler) userID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "User not authenticated")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}
