package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	conversationFile = "conversation.json"
)

// ConversationState is the upstream conversation the terminal chat client
// continues on its next run.
type ConversationState struct {
	// ConversationID is the upstream conversation id from the last done event.
	ConversationID string `json:"conversation_id"`

	// UserID is the user id the conversation was started with.
	UserID string `json:"user_id,omitempty"`

	// UpdatedAt is when the state was last saved.
	UpdatedAt time.Time `json:"updated_at"`
}

// LoadConversation loads the conversation state from a target
// .sxpeea/conversation.json. Returns nil, nil if no state exists.
// If overrideDir is non-empty, it is used instead of the resolved location.
func (m *Manager) LoadConversation(overrideDir string) (*ConversationState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, conversationFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading conversation state: %w", err)
	}

	state := &ConversationState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing conversation state: %w", err)
	}

	return state, nil
}

// SaveConversation persists the conversation state.
func (m *Manager) SaveConversation(state *ConversationState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil conversation state")
	}
	if state.ConversationID == "" {
		return errors.New("cannot save conversation state without a conversation id")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling conversation state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, conversationFile), data, 0o600); err != nil {
		return fmt.Errorf("writing conversation state: %w", err)
	}

	return nil
}

// ClearConversation removes the conversation state file so the next chat
// session starts a new conversation. Returns nil if the file doesn't exist.
func (m *Manager) ClearConversation(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, conversationFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing conversation state: %w", err)
	}

	return nil
}
