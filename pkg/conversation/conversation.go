// Package conversation owns the ordered message history for a chat
// session: the system-prompt singleton, role validation, and JSON
// save/load of the transcript.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Message roles accepted by the history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrInvalidRole is returned when a message carries a role outside
// system/user/assistant.
var ErrInvalidRole = errors.New("invalid role")

// Message is a single conversation turn. This is also the persisted
// wire shape: a flat JSON object with role and content.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History is the ordered conversation transcript. At most one message
// has the system role, and when present it sits at position 0.
// Not safe for concurrent use; a history belongs to one session.
type History struct {
	messages []Message
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// SetSystemPrompt sets or replaces the system message. If the history
// already starts with a system message its content is replaced in
// place; otherwise a new system message is inserted at position 0.
func (h *History) SetSystemPrompt(prompt string) {
	if len(h.messages) > 0 && h.messages[0].Role == RoleSystem {
		h.messages[0].Content = prompt
		return
	}
	h.messages = append([]Message{{Role: RoleSystem, Content: prompt}}, h.messages...)
}

// Add appends a message to the history. System messages are routed
// through SetSystemPrompt so the singleton invariant holds.
func (h *History) Add(role, content string) error {
	switch role {
	case RoleSystem:
		h.SetSystemPrompt(content)
		return nil
	case RoleUser, RoleAssistant:
		h.messages = append(h.messages, Message{Role: role, Content: content})
		return nil
	default:
		return fmt.Errorf("%w: %q (must be %q, %q or %q)", ErrInvalidRole, role, RoleUser, RoleAssistant, RoleSystem)
	}
}

// Clear empties the history. With keepSystemPrompt set and a leading
// system message present, the history is reset to just that message.
func (h *History) Clear(keepSystemPrompt bool) {
	if keepSystemPrompt && len(h.messages) > 0 && h.messages[0].Role == RoleSystem {
		h.messages = []Message{h.messages[0]}
		return
	}
	h.messages = nil
}

// Snapshot returns a copy of the transcript in session order.
func (h *History) Snapshot() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Restore replaces the transcript with the given messages. The input
// is validated: every role must be a known role, and a system message
// may only appear at position 0.
func (h *History) Restore(messages []Message) error {
	for i, m := range messages {
		switch m.Role {
		case RoleUser, RoleAssistant:
		case RoleSystem:
			if i != 0 {
				return fmt.Errorf("system message at position %d (must be first)", i)
			}
		default:
			return fmt.Errorf("message %d: %w: %q", i, ErrInvalidRole, m.Role)
		}
	}
	h.messages = make([]Message, len(messages))
	copy(h.messages, messages)
	return nil
}

// Len returns the number of messages in the history.
func (h *History) Len() int {
	return len(h.messages)
}

// Messages returns the transcript in session order. The returned
// slice is a copy.
func (h *History) Messages() []Message {
	return h.Snapshot()
}

// SystemPrompt returns the current system prompt and whether one is set.
func (h *History) SystemPrompt() (string, bool) {
	if len(h.messages) > 0 && h.messages[0].Role == RoleSystem {
		return h.messages[0].Content, true
	}
	return "", false
}

// SaveFile writes the transcript to path as an indented JSON array of
// {"role","content"} objects.
func (h *History) SaveFile(path string) error {
	data, err := json.MarshalIndent(h.messages, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write conversation: %w", err)
	}
	slog.Info("conversation_saved", "path", path, "messages", len(h.messages))
	return nil
}

// LoadFile replaces the transcript with the contents of path, which
// must hold the same JSON array shape SaveFile produces.
func (h *History) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read conversation: %w", err)
	}
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("parse conversation: %w", err)
	}
	if err := h.Restore(messages); err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	slog.Info("conversation_loaded", "path", path, "messages", len(messages))
	return nil
}
