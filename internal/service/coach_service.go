package service

import (
	"context"
	"errors"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/llm"
)

const (
	chatMaxTokens   = 500
	chatTemperature = 0.7
)

// ChatInput is the payload of one coach chat turn. Profile and workout
// context are optional and supplied entirely by the caller; nothing is
// loaded from storage and nothing is persisted.
type ChatInput struct {
	Message        string
	CoachStyle     domain.CoachStyle
	UserProfile    *ChatProfile
	RecentWorkouts []ChatWorkout
}

// --- Service Interface ---
type CoachService interface {
	// Chat builds a style-conditioned system prompt and returns the raw
	// completion text. Any upstream failure is surfaced as-is; the caller
	// retries manually.
	Chat(ctx context.Context, input ChatInput) (string, error)
}

// --- Service Implementation ---

// coachService implements the CoachService interface.
type coachService struct {
	completer llm.ChatCompleter
	model     string
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(completer llm.ChatCompleter, model string) CoachService {
	return &coachService{
		completer: completer,
		model:     model,
	}
}

// Chat sends the user's message with a personalized system prompt to the
// completion API.
func (s *coachService) Chat(ctx context.Context, input ChatInput) (string, error) {
	if input.Message == "" {
		return "", errors.New("message is required")
	}

	systemPrompt := BuildCoachSystemPrompt(input.CoachStyle, input.UserProfile, input.RecentWorkouts)

	return s.completer.Complete(ctx, llm.ChatRequest{
		Model:       s.model,
		System:      systemPrompt,
		User:        input.Message,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
}
