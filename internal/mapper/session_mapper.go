package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"jewelry-assistant-be/internal/model"
	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/store"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.ConversationSession) *store.Session {
	if s == nil {
		return nil
	}

	var prefs preference.Preferences
	if len(s.Preferences) > 0 {
		_ = json.Unmarshal(s.Preferences, &prefs)
	}

	return &store.Session{
		ID:                  s.Id,
		State:               s.CurrentState,
		Preferences:         prefs,
		LastShownProductIDs: fromJSONArray(s.LastShownProductIds),
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		Active:              s.IsActive,
	}
}

func (m *SessionMapper) ToModel(s *store.Session) *model.ConversationSession {
	if s == nil {
		return nil
	}

	prefs, _ := json.Marshal(s.Preferences)

	return &model.ConversationSession{
		Id:                  s.ID,
		CurrentState:        s.State,
		Preferences:         datatypes.JSON(prefs),
		LastShownProductIds: toJSONArray(s.LastShownProductIDs),
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		IsActive:            s.Active,
	}
}

func (m *SessionMapper) TurnToModel(t *store.Turn) *model.ConversationMessage {
	if t == nil {
		return nil
	}

	prefs, _ := json.Marshal(t.Preferences)

	return &model.ConversationMessage{
		SessionId:         t.SessionID,
		Role:              t.Role,
		Content:           t.Content,
		PreferencesAtTurn: datatypes.JSON(prefs),
		CreatedAt:         t.CreatedAt,
	}
}

func (m *SessionMapper) TurnToEntity(msg *model.ConversationMessage) *store.Turn {
	if msg == nil {
		return nil
	}

	var prefs preference.Preferences
	if len(msg.PreferencesAtTurn) > 0 {
		_ = json.Unmarshal(msg.PreferencesAtTurn, &prefs)
	}

	return &store.Turn{
		SessionID:   msg.SessionId,
		Role:        msg.Role,
		Content:     msg.Content,
		Preferences: prefs,
		CreatedAt:   msg.CreatedAt,
	}
}

func (m *SessionMapper) TurnsToEntities(msgs []*model.ConversationMessage) []*store.Turn {
	turns := make([]*store.Turn, len(msgs))
	for i, msg := range msgs {
		turns[i] = m.TurnToEntity(msg)
	}
	return turns
}
