package llm

import (
	"context"

	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// Disabled is used when no provider is configured
type Disabled struct{}

func (Disabled) Name() string  { return "none" }
func (Disabled) Model() string { return "" }

// Chat always fails with a service unavailable error
func (Disabled) Chat(context.Context, string, []Message) (string, error) {
	return "", apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "AI assistant is not configured")
}
