package store

import (
	"time"

	"jewelry-assistant-be/pkg/assistant/preference"
)

// Session represents the active conversation state as the turn loop sees it.
// Persistence backends serialize this struct as-is.
type Session struct {
	ID                  string                 `json:"id"`
	State               string                 `json:"current_conversational_state"`
	Preferences         preference.Preferences `json:"preferences"`
	LastShownProductIDs []string               `json:"last_shown_product_ids"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	Active              bool                   `json:"is_active"`
}

// Turn is one append-only history record: a single user or assistant message
// together with the preference snapshot at that point of the conversation.
type Turn struct {
	SessionID   string                 `json:"session_id"`
	Role        string                 `json:"role"` // "user" | "assistant"
	Content     string                 `json:"content"`
	Preferences preference.Preferences `json:"preferences_at_turn"`
	CreatedAt   time.Time              `json:"timestamp"`
}
