package chat

import (
	"time"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
)

// Role enum
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is immutable once appended to the transcript.
type Message struct {
	ID                  string            `json:"id"`
	Role                Role              `json:"role"`
	Body                string            `json:"body"`
	AttachedMaterialIDs []materials.ID    `json:"attached_material_ids,omitempty"`
	ReferencedActionID  analysis.ActionID `json:"referenced_action_id,omitempty"`
	SentAt              time.Time         `json:"sent_at"`
}

// Transcript is the append-only message log, oldest first.
type Transcript interface {
	Append(m Message) error
	List() []Message
}
