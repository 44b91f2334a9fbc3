package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/keynes-workspace/internal/application"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/ai"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/chat"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
	"github.com/bryanwahyu/keynes-workspace/internal/pkg/logger"
)

// Service holds the chat use-case: record the user turn, ask the generator,
// record the reply.
type Service struct {
	Materials  materials.Repository
	Results    analysis.Repository
	Transcript chat.Transcript
	Generator  ai.Generator
	Clock      application.Clock
	Log        *logger.Logger
}

// SendCommand is one user chat turn.
type SendCommand struct {
	Body        string
	MaterialIDs []materials.ID
	ActionID    analysis.ActionID
}

// Send appends the user message and the assistant reply. When generation
// fails the user message stays in the transcript and the error wraps
// errs.ErrGenerationFailed so the caller can offer a retry.
func (s *Service) Send(ctx context.Context, cmd SendCommand) (chat.Message, chat.Message, error) {
	attached, err := s.validate(cmd)
	if err != nil {
		return chat.Message{}, chat.Message{}, err
	}
	clock := application.ClockOrSystem(s.Clock)

	userMsg := chat.Message{
		ID:                  uuid.New().String(),
		Role:                chat.RoleUser,
		Body:                cmd.Body,
		AttachedMaterialIDs: attached,
		ReferencedActionID:  cmd.ActionID,
		SentAt:              clock.Now(),
	}
	if err := s.Transcript.Append(userMsg); err != nil {
		return chat.Message{}, chat.Message{}, err
	}

	results := s.Results.ListAll()
	if cmd.ActionID != "" {
		only := map[analysis.ActionID]analysis.Result{}
		if r, ok := results[cmd.ActionID]; ok {
			only[cmd.ActionID] = r
		}
		results = only
	}
	pctx := BuildContext(s.Materials, attached, results)

	log := logger.OrNop(s.Log).With("message_id", userMsg.ID)
	if s.Generator == nil {
		log.Warn("assistant generator is not configured")
		return userMsg, chat.Message{}, fmt.Errorf("%w: assistant is not configured", errs.ErrGenerationFailed)
	}
	text, err := s.Generator.Generate(ctx, BuildPrompt(pctx, cmd.Body))
	if err != nil {
		log.Warn("generation failed", "error", err)
		return userMsg, chat.Message{}, fmt.Errorf("%w: %w", errs.ErrGenerationFailed, err)
	}

	reply := chat.Message{
		ID:     uuid.New().String(),
		Role:   chat.RoleAssistant,
		Body:   text,
		SentAt: clock.Now(),
	}
	if err := s.Transcript.Append(reply); err != nil {
		return userMsg, chat.Message{}, err
	}
	return userMsg, reply, nil
}

// Messages returns the transcript, oldest first.
func (s *Service) Messages() []chat.Message {
	return s.Transcript.List()
}

func (s *Service) validate(cmd SendCommand) ([]materials.ID, error) {
	if strings.TrimSpace(cmd.Body) == "" && len(cmd.MaterialIDs) == 0 {
		return nil, errs.Invalid("message is empty")
	}
	if cmd.ActionID != "" {
		if _, ok := analysis.LookupAction(cmd.ActionID); !ok {
			return nil, errs.Invalid("unknown action %q", cmd.ActionID)
		}
	}
	seen := make(map[materials.ID]bool, len(cmd.MaterialIDs))
	var attached []materials.ID
	for _, id := range cmd.MaterialIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		m, err := s.Materials.Get(id)
		if err != nil {
			return nil, errs.Invalid("material %s not found", id)
		}
		if !m.Ready() {
			return nil, errs.Invalid("material %s is %s", m.Name, m.Status)
		}
		attached = append(attached, id)
	}
	return attached, nil
}
