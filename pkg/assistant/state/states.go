package state

// State is a page in the guided sales conversation. Each page exists to
// collect specific preference slots before the assistant can recommend.
type State string

const (
	StateInitialGreeting            State = "initial_greeting"
	StateIdentifyingPurpose         State = "identifying_purpose"
	StateCollectingProductType      State = "collecting_product_type"
	StateGatheringPreferences       State = "gathering_preferences"
	StateReadyForRecommendation     State = "ready_for_recommendation"
	StateRefiningRecommendation     State = "refining_recommendation"
	StatePostRecommendationFeedback State = "post_recommendation_feedback"
	StateStaffHandoffRequested      State = "staff_handoff_requested"
	StateErrorState                 State = "error_state"
	StateConversationEnded          State = "conversation_ended"
)

// Action is what the caller should do after a turn is decided.
type Action string

const (
	ActionAskQuestion       Action = "ask_question"
	ActionRecommendProducts Action = "recommend_products"
	ActionOfferStaffHandoff Action = "offer_staff_handoff"
	ActionEndConversation   Action = "end_conversation"
)

var validStates = map[State]bool{
	StateInitialGreeting:            true,
	StateIdentifyingPurpose:         true,
	StateCollectingProductType:      true,
	StateGatheringPreferences:       true,
	StateReadyForRecommendation:     true,
	StateRefiningRecommendation:     true,
	StatePostRecommendationFeedback: true,
	StateStaffHandoffRequested:      true,
	StateErrorState:                 true,
	StateConversationEnded:          true,
}

var validActions = map[Action]bool{
	ActionAskQuestion:       true,
	ActionRecommendProducts: true,
	ActionOfferStaffHandoff: true,
	ActionEndConversation:   true,
}

func (s State) Valid() bool {
	return validStates[s]
}

// Terminal reports whether no further user turns are expected.
func (s State) Terminal() bool {
	return s == StateStaffHandoffRequested || s == StateConversationEnded
}

func (a Action) Valid() bool {
	return validActions[a]
}
