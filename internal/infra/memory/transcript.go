package memory

import (
	"sync"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/chat"
)

// Transcript is an append-only message log.
type Transcript struct {
	mu       sync.RWMutex
	messages []chat.Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Append(m chat.Message) error {
	m.AttachedMaterialIDs = append(m.AttachedMaterialIDs[:0:0], m.AttachedMaterialIDs...)
	t.mu.Lock()
	t.messages = append(t.messages, m)
	t.mu.Unlock()
	return nil
}

func (t *Transcript) List() []chat.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]chat.Message, len(t.messages))
	copy(out, t.messages)
	return out
}
