package ai

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned when the provider rejects a request for rate or quota reasons.
var ErrQuotaExceeded = errors.New("assistant quota exceeded")

// Prompt is a system instruction plus the user turn.
type Prompt struct {
	System string
	User   string
}

// Generator returns a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
