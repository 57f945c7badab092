package events

import "time"

// Event type codes published to the bus.
const (
	TypeStaffHandoffRequested = "STAFF_HANDOFF_REQUESTED"
	TypeConversationEnded     = "CONVERSATION_ENDED"
	TypeRecommendationServed  = "RECOMMENDATION_SERVED"
)

// NewStaffHandoffRequested is published when a shopper asks for a person.
// Preferences ride along so staff can pick up where the assistant stopped.
func NewStaffHandoffRequested(sessionID string, preferences map[string]interface{}) Event {
	return BaseEvent{
		Type: TypeStaffHandoffRequested,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"preferences": preferences,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationEnded(sessionID string) Event {
	return BaseEvent{
		Type: TypeConversationEnded,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}

func NewRecommendationServed(sessionID, tier, confidence string, productIDs []string) Event {
	return BaseEvent{
		Type: TypeRecommendationServed,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"tier":        tier,
			"confidence":  confidence,
			"product_ids": productIDs,
		},
		OccurredAt: time.Now(),
	}
}
