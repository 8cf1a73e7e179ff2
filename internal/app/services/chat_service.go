package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/llm"
	"github.com/yigit/eventhub/internal/pkg/metrics"
)

// Chat request limits
const (
	MaxChatMessages      = 50
	MaxChatMessageLength = 4000
	DefaultChatHistory   = 20
)

// ChatService answers AI assistant conversations. History is sent by the client on every call.
type ChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatServiceImpl struct {
	provider     llm.Provider
	systemPrompt string
	maxHistory   int
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewChatService creates a new ChatService. m may be nil.
func NewChatService(provider llm.Provider, systemPrompt string, maxHistory int, m *metrics.Metrics, logger zerolog.Logger) ChatService {
	if maxHistory <= 0 {
		maxHistory = DefaultChatHistory
	}
	if provider == nil {
		provider = llm.Disabled{}
	}
	return &chatServiceImpl{
		provider:     provider,
		systemPrompt: systemPrompt,
		maxHistory:   maxHistory,
		metrics:      m,
		logger:       logger,
	}
}

// validateConversation checks the conversation shape and converts it to provider messages
func validateConversation(messages []dto.ChatMessage) ([]llm.Message, error) {
	if len(messages) == 0 {
		return nil, apperrors.NewValidationError("messages must contain at least one message")
	}
	if len(messages) > MaxChatMessages {
		return nil, apperrors.NewValidationError(fmt.Sprintf("messages must contain at most %d messages", MaxChatMessages))
	}

	out := make([]llm.Message, 0, len(messages))
	for i, m := range messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return nil, apperrors.NewValidationError(fmt.Sprintf("messages[%d].role must be user or assistant", i))
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("messages[%d].content must not be blank", i))
		}
		if utf8.RuneCountInString(content) > MaxChatMessageLength {
			return nil, apperrors.NewValidationError(fmt.Sprintf("messages[%d].content must be at most %d characters", i, MaxChatMessageLength))
		}
		out = append(out, llm.Message{Role: m.Role, Content: content})
	}

	if out[len(out)-1].Role != llm.RoleUser {
		return nil, apperrors.NewValidationError("the last message must be from the user")
	}
	return out, nil
}

func (s *chatServiceImpl) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	messages, err := validateConversation(req.Messages)
	if err != nil {
		return nil, err
	}
	if len(messages) > s.maxHistory {
		messages = messages[len(messages)-s.maxHistory:]
	}
	// the forwarded conversation opens with a user turn; the last message is always one
	for messages[0].Role != llm.RoleUser {
		messages = messages[1:]
	}

	start := time.Now()
	reply, err := s.provider.Chat(ctx, s.systemPrompt, messages)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, apperrors.ErrServiceUnavailable) {
			s.metrics.ObserveLLM(s.provider.Name(), "disabled", elapsed)
			return nil, err
		}
		s.metrics.ObserveLLM(s.provider.Name(), "error", elapsed)
		s.logger.Error().Err(err).Str("provider", s.provider.Name()).Dur("elapsed", elapsed).Msg("AI provider request failed")
		return nil, apperrors.NewCustomError(apperrors.ErrUpstreamFailure, "AI assistant request failed")
	}

	s.metrics.ObserveLLM(s.provider.Name(), "success", elapsed)
	return &dto.ChatResponse{
		Reply:    strings.TrimSpace(reply),
		Model:    s.provider.Model(),
		Provider: s.provider.Name(),
	}, nil
}
