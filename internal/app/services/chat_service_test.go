package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/llm"
)

func userMsg(content string) dto.ChatMessage {
	return dto.ChatMessage{Role: llm.RoleUser, Content: content}
}

func TestChat_TrimsHistoryAndReturnsReply(t *testing.T) {
	provider := &stubProvider{reply: "  Try the Go hackathon.  "}
	svc := NewChatService(provider, "You help students.", 3, nil, zerolog.Nop())

	req := &dto.ChatRequest{Messages: []dto.ChatMessage{
		userMsg("one"),
		{Role: llm.RoleAssistant, Content: "two"},
		userMsg("three"),
		{Role: llm.RoleAssistant, Content: "four"},
		userMsg(" five "),
	}}
	resp, err := svc.Chat(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Try the Go hackathon.", resp.Reply)
	assert.Equal(t, "stub", resp.Provider)
	assert.Equal(t, "stub-1", resp.Model)
	assert.Equal(t, "You help students.", provider.system)
	require.Len(t, provider.received, 3)
	assert.Equal(t, "three", provider.received[0].Content)
	assert.Equal(t, "five", provider.received[2].Content)
}

func TestChat_TrimmedHistoryStartsWithUser(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	svc := NewChatService(provider, "", 4, nil, zerolog.Nop())

	req := &dto.ChatRequest{Messages: []dto.ChatMessage{
		userMsg("one"),
		{Role: llm.RoleAssistant, Content: "two"},
		userMsg("three"),
		{Role: llm.RoleAssistant, Content: "four"},
		userMsg("five"),
	}}
	_, err := svc.Chat(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, provider.received, 3)
	assert.Equal(t, llm.RoleUser, provider.received[0].Role)
	assert.Equal(t, "three", provider.received[0].Content)
}

func TestChat_Validation(t *testing.T) {
	tooMany := make([]dto.ChatMessage, MaxChatMessages+1)
	for i := range tooMany {
		tooMany[i] = userMsg("hi")
	}

	tests := []struct {
		name     string
		messages []dto.ChatMessage
	}{
		{"empty", nil},
		{"too many", tooMany},
		{"blank content", []dto.ChatMessage{userMsg("  ")}},
		{"too long", []dto.ChatMessage{userMsg(strings.Repeat("ä", MaxChatMessageLength+1))}},
		{"bad role", []dto.ChatMessage{{Role: "system", Content: "x"}}},
		{"assistant last", []dto.ChatMessage{userMsg("hi"), {Role: llm.RoleAssistant, Content: "hello"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{}
			svc := NewChatService(provider, "", 0, nil, zerolog.Nop())

			_, err := svc.Chat(context.Background(), &dto.ChatRequest{Messages: tt.messages})

			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Nil(t, provider.received)
		})
	}
}

func TestChat_ProviderErrors(t *testing.T) {
	t.Run("unavailable passes through", func(t *testing.T) {
		svc := NewChatService(nil, "", 0, nil, zerolog.Nop())
		_, err := svc.Chat(context.Background(), &dto.ChatRequest{Messages: []dto.ChatMessage{userMsg("hi")}})
		assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
	})

	t.Run("failure is wrapped", func(t *testing.T) {
		provider := &stubProvider{err: errors.New("connection reset")}
		svc := NewChatService(provider, "", 0, nil, zerolog.Nop())
		_, err := svc.Chat(context.Background(), &dto.ChatRequest{Messages: []dto.ChatMessage{userMsg("hi")}})
		assert.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
		assert.NotContains(t, err.Error(), "connection reset")
	})
}
