package service

import (
	"context"
	"errors"
	"testing"

	"runai/coach-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_SendsStyledPromptAndMessage(t *testing.T) {
	completer := &fakeCompleter{response: "Nice work, keep the easy days easy!"}
	svc := NewCoachService(completer, "chat-model")

	reply, err := svc.Chat(context.Background(), ChatInput{
		Message:    "How was my week?",
		CoachStyle: domain.StyleTough,
	})
	require.NoError(t, err)

	assert.Equal(t, "Nice work, keep the easy days easy!", reply)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, "chat-model", completer.lastReq.Model)
	assert.Equal(t, "How was my week?", completer.lastReq.User)
	assert.Equal(t, 500, completer.lastReq.MaxTokens)
	assert.Equal(t, 0.7, completer.lastReq.Temperature)
	assert.False(t, completer.lastReq.JSONMode)
	assert.Contains(t, completer.lastReq.System, coachStylePrompts[domain.StyleTough])
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	completer := &fakeCompleter{}
	svc := NewCoachService(completer, "chat-model")

	_, err := svc.Chat(context.Background(), ChatInput{})
	assert.Error(t, err)
	assert.Zero(t, completer.calls)
}

func TestChat_UpstreamErrorPropagates(t *testing.T) {
	upstream := errors.New("OpenAI API error: 500")
	svc := NewCoachService(&fakeCompleter{err: upstream}, "chat-model")

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	assert.ErrorIs(t, err, upstream)
}

func TestChat_ContextRendersInPrompt(t *testing.T) {
	completer := &fakeCompleter{response: "ok"}
	svc := NewCoachService(completer, "chat-model")

	mileage := 30.0
	_, err := svc.Chat(context.Background(), ChatInput{
		Message:     "What should I run tomorrow?",
		UserProfile: &ChatProfile{RaceGoal: "10k", WeeklyMileageGoal: &mileage},
		RecentWorkouts: []ChatWorkout{
			{WorkoutType: "long_run", PlannedDistanceKm: &mileage},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, completer.lastReq.System, "- Race goal: 10k")
	assert.Contains(t, completer.lastReq.System, "1. long_run")
}
