package state

import (
	"errors"
	"io"
	"log"
	"testing"

	"jewelry-assistant-be/pkg/assistant/interpret"
	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/store"
)

func strPtr(s string) *string { return &s }

func newTestMachine() *Machine {
	return NewMachine(log.New(io.Discard, "", 0))
}

func sessionIn(st State) store.Session {
	return store.Session{
		ID:    "sess-1",
		State: string(st),
		Preferences: preference.Preferences{
			Category: strPtr("ring"),
			Metal:    strPtr("gold"),
		},
		Active: true,
	}
}

func TestRouteStaffRequestWinsFromAnyState(t *testing.T) {
	m := newTestMachine()

	states := []State{
		StateInitialGreeting, StateGatheringPreferences,
		StateReadyForRecommendation, StatePostRecommendationFeedback, StateErrorState,
	}
	messages := []string{
		"talk_to_staff",
		"request_staff_assistance_dialogue",
		"I want to talk to a real human please",
		"get me an agent",
		"Staff, now!",
	}

	for _, st := range states {
		for _, msg := range messages {
			routed := m.Route(sessionIn(st), msg)
			if routed.Decision == nil {
				t.Fatalf("state %s message %q: expected a heuristic decision", st, msg)
			}
			d := routed.Decision
			if d.State != StateStaffHandoffRequested {
				t.Errorf("state %s message %q: got state %s", st, msg, d.State)
			}
			if d.Action != ActionOfferStaffHandoff || !d.EndConversation {
				t.Errorf("state %s message %q: got action %s end=%v", st, msg, d.Action, d.EndConversation)
			}
			if d.Preferences.Category == nil {
				t.Errorf("staff handoff must not clear preferences")
			}
		}
	}
}

func TestRouteBroadBrowse(t *testing.T) {
	m := newTestMachine()

	tests := []struct {
		message  string
		category string
	}{
		{"show me all rings", "ring"},
		{"just rings please", "ring"},
		{"all necklaces", "necklace"},
		{"show me earrings", "earrings"},
		{"all bracelets", "bracelet"},
	}

	for _, tt := range tests {
		routed := m.Route(sessionIn(StateGatheringPreferences), tt.message)
		if routed.Decision == nil {
			t.Fatalf("%q: expected a heuristic decision", tt.message)
		}
		d := routed.Decision
		if !d.GenericShowAll || d.Action != ActionRecommendProducts {
			t.Errorf("%q: got generic=%v action=%s", tt.message, d.GenericShowAll, d.Action)
		}
		if d.Preferences.Category == nil || *d.Preferences.Category != tt.category {
			t.Errorf("%q: category = %v, want %s", tt.message, d.Preferences.Category, tt.category)
		}
		if d.Preferences.Metal != nil {
			t.Errorf("%q: broad browse must clear the other slots", tt.message)
		}
		if d.Reply == "" {
			t.Errorf("%q: missing acknowledgement reply", tt.message)
		}
	}
}

func TestRouteGreetingTokenOnlyFromInitialState(t *testing.T) {
	m := newTestMachine()

	routed := m.Route(sessionIn(StateInitialGreeting), "hi_ai_assistant")
	if routed.Decision == nil {
		t.Fatalf("expected the greeting decision")
	}
	if routed.Decision.Reply != ReplyGreeting || routed.Decision.State != StateIdentifyingPurpose {
		t.Errorf("greeting decision = %+v", routed.Decision)
	}

	routed = m.Route(sessionIn(StateGatheringPreferences), "hi_ai_assistant")
	if routed.Decision != nil {
		t.Errorf("mid-conversation greeting token must go to the model")
	}
}

func TestRouteItemDetailsToken(t *testing.T) {
	m := newTestMachine()

	routed := m.Route(sessionIn(StatePostRecommendationFeedback), "item_details: ring-gold-1")
	if routed.Decision == nil {
		t.Fatalf("expected an item-details decision")
	}
	if routed.Decision.ItemDetailsID != "ring-gold-1" {
		t.Errorf("item id = %q, want ring-gold-1", routed.Decision.ItemDetailsID)
	}
	if routed.Decision.State != StateRefiningRecommendation {
		t.Errorf("state = %s, want refining_recommendation", routed.Decision.State)
	}
}

func TestRouteGoodbyeEndsConversation(t *testing.T) {
	m := newTestMachine()

	routed := m.Route(sessionIn(StatePostRecommendationFeedback), "ok bye!")
	if routed.Decision == nil {
		t.Fatalf("expected an end-conversation decision")
	}
	d := routed.Decision
	if d.State != StateConversationEnded || d.Action != ActionEndConversation || !d.EndConversation {
		t.Errorf("decision = %+v", d)
	}
}

func TestRouteAdjustPreferencesDelegatesToModel(t *testing.T) {
	m := newTestMachine()

	routed := m.Route(sessionIn(StatePostRecommendationFeedback), "adjust_preferences_dialogue")
	if routed.Decision != nil {
		t.Fatalf("adjust-preferences must consult the model")
	}
	if !routed.ClearFirst {
		t.Errorf("slots must be cleared before the model sees the synthetic message")
	}
	if routed.ModelMessage != AdjustPreferencesPrompt {
		t.Errorf("model message = %q", routed.ModelMessage)
	}
}

func TestRoutePlainMessagePassesThrough(t *testing.T) {
	m := newTestMachine()

	routed := m.Route(sessionIn(StateGatheringPreferences), "something elegant in silver")
	if routed.Decision != nil || routed.ClearFirst {
		t.Fatalf("plain message must go to the model untouched")
	}
	if routed.ModelMessage != "something elegant in silver" {
		t.Errorf("model message = %q", routed.ModelMessage)
	}
}

func TestResolveMergesAndKeepsReply(t *testing.T) {
	m := newTestMachine()
	out := &interpret.Output{
		DialogueResponse: "Silver it is. Any budget in mind?",
		CurrentState:     "gathering_preferences",
		NextAction:       "ask_question",
		MissingParameter: "budget_max",
		ConfidenceScore:  "medium",
	}
	out.ExtractedPreferences = *preference.NewDelta().Set("metal", "silver")

	d := m.Resolve(sessionIn(StateGatheringPreferences), out)
	if d.Reply != out.DialogueResponse {
		t.Errorf("reply = %q", d.Reply)
	}
	if d.Preferences.Metal == nil || *d.Preferences.Metal != "silver" {
		t.Errorf("metal = %v, want silver", d.Preferences.Metal)
	}
	if d.Preferences.Category == nil || *d.Preferences.Category != "ring" {
		t.Errorf("untouched category lost: %v", d.Preferences.Category)
	}
	if d.Confidence != "medium" || d.MissingParameter != "budget_max" {
		t.Errorf("decision = %+v", d)
	}
}

func TestResolveDemotesRecommendationWithoutCategory(t *testing.T) {
	m := newTestMachine()
	sess := sessionIn(StateGatheringPreferences)
	sess.Preferences = preference.Preferences{Metal: strPtr("gold")}

	out := &interpret.Output{
		DialogueResponse: "Let me find something for you!",
		CurrentState:     "ready_for_recommendation",
		NextAction:       "recommend_products",
		ConfidenceScore:  "high",
	}

	d := m.Resolve(sess, out)
	if d.Action != ActionAskQuestion {
		t.Errorf("action = %s, want demotion to ask_question", d.Action)
	}
	if d.State != StateCollectingProductType || d.MissingParameter != "category" {
		t.Errorf("decision = %+v", d)
	}
	if d.Reply != out.DialogueResponse {
		t.Errorf("demotion must keep the model reply")
	}
}

func TestResolveStaffHandoffFromModel(t *testing.T) {
	m := newTestMachine()
	out := &interpret.Output{
		DialogueResponse: "Of course, one moment.",
		CurrentState:     "staff_handoff_requested",
		NextAction:       "offer_staff_handoff",
		ConfidenceScore:  "high",
	}

	d := m.Resolve(sessionIn(StateGatheringPreferences), out)
	if d.State != StateStaffHandoffRequested || !d.EndConversation {
		t.Errorf("decision = %+v", d)
	}
	if d.Reply != ReplyStaffNotify {
		t.Errorf("reply = %q, want the standard staff notification", d.Reply)
	}
}

func TestResolveFailure(t *testing.T) {
	m := newTestMachine()
	sess := sessionIn(StateGatheringPreferences)

	tests := []struct {
		name      string
		err       error
		wantReply string
	}{
		{"malformed json", interpret.ErrMalformed, ReplyRephrase},
		{"contract violation", interpret.ErrSchema, ReplyClarify},
		{"transport failure", errors.New("connection refused"), ReplyTechnicalTrouble},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := m.ResolveFailure(sess, tt.err)
			if d.Reply != tt.wantReply {
				t.Errorf("reply = %q, want %q", d.Reply, tt.wantReply)
			}
			if d.State != StateErrorState || d.Action != ActionOfferStaffHandoff {
				t.Errorf("decision = %+v", d)
			}
			if d.EndConversation {
				t.Errorf("a failed turn must leave the conversation open")
			}
			if d.Preferences.Category == nil || *d.Preferences.Category != "ring" {
				t.Errorf("failure must not mutate preferences")
			}
		})
	}
}
