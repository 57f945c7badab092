package state

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"jewelry-assistant-be/pkg/assistant/interpret"
	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/store"
)

// Decision is the full outcome of one conversation turn: what to say, where
// the conversation now stands, and what the caller should do next.
type Decision struct {
	Reply            string
	State            State
	Action           Action
	Preferences      preference.Preferences
	GenericShowAll   bool
	MissingParameter string
	Confidence       string
	EndConversation  bool
	// ItemDetailsID is set when the turn asked for one product's details;
	// the caller renders the reply from the catalog.
	ItemDetailsID string
}

// Routed is the outcome of the control-token pass. Either a Decision was
// produced without the model, or ModelMessage must go to the interpreter.
type Routed struct {
	Decision *Decision
	// ModelMessage is the text to interpret. It differs from the user message
	// when a control token substitutes a synthetic instruction.
	ModelMessage string
	// ClearFirst tells the caller to wipe the preference slots and the
	// last-shown products before consulting the model.
	ClearFirst bool
}

// Machine applies the deterministic turn rules that run before and after the
// model: control tokens, staff requests, broad browsing, greeting, failure
// fallbacks, and the recommendation sufficiency check.
type Machine struct {
	logger *log.Logger
}

func NewMachine(logger *log.Logger) *Machine {
	return &Machine{logger: logger}
}

// Control tokens the frontend sends verbatim via action buttons.
const (
	tokenTalkToStaff       = "talk_to_staff"
	tokenStaffAssistance   = "request_staff_assistance_dialogue"
	tokenAdjustPreferences = "adjust_preferences_dialogue"
	tokenGreeting          = "hi_ai_assistant"
	tokenItemDetailsPrefix = "item_details:"
	tokenEndConversation   = "end_conversation_dialogue"
)

var broadSearchTriggers = []string{
	"all rings", "show me rings", "just rings",
	"all necklaces", "show me necklaces", "just necklaces",
	"all earrings", "show me earrings", "just earrings",
	"all bracelets", "show me bracelets", "just bracelets",
}

var staffWords = []string{"staff", "human", "agent"}

var goodbyeWords = []string{"goodbye", "bye"}

// Route runs the pre-model rules. Rules are ordered by priority; the staff
// request always wins regardless of the current state.
func (m *Machine) Route(sess store.Session, userMessage string) Routed {
	msg := strings.ToLower(strings.TrimSpace(userMessage))

	if msg == tokenTalkToStaff || msg == tokenStaffAssistance || containsAnyWord(msg, staffWords) {
		m.logger.Printf("[STATE] staff handoff requested for session %s", sess.ID)
		return Routed{Decision: &Decision{
			Reply:           ReplyStaffHandoff,
			State:           StateStaffHandoffRequested,
			Action:          ActionOfferStaffHandoff,
			Preferences:     sess.Preferences,
			EndConversation: true,
		}}
	}

	if category := broadBrowseCategory(msg); category != "" {
		m.logger.Printf("[STATE] broad %q browse for session %s", category, sess.ID)
		prefs := preference.ClearAll()
		prefs.Category = &category
		return Routed{Decision: &Decision{
			Reply:          fmt.Sprintf("Certainly! Let me show you our collection of %ss.", category),
			State:          StatePostRecommendationFeedback,
			Action:         ActionRecommendProducts,
			Preferences:    prefs,
			GenericShowAll: true,
		}}
	}

	if msg == tokenGreeting && sess.State == string(StateInitialGreeting) {
		return Routed{Decision: &Decision{
			Reply:       ReplyGreeting,
			State:       StateIdentifyingPurpose,
			Action:      ActionAskQuestion,
			Preferences: sess.Preferences,
		}}
	}

	if id := strings.TrimSpace(strings.TrimPrefix(msg, tokenItemDetailsPrefix)); id != msg {
		return Routed{Decision: &Decision{
			State:         StateRefiningRecommendation,
			Action:        ActionAskQuestion,
			Preferences:   sess.Preferences,
			ItemDetailsID: id,
		}}
	}

	if msg == tokenEndConversation || containsAnyWord(msg, goodbyeWords) {
		return Routed{Decision: &Decision{
			Reply:           ReplyGoodbye,
			State:           StateConversationEnded,
			Action:          ActionEndConversation,
			Preferences:     sess.Preferences,
			EndConversation: true,
		}}
	}

	if msg == tokenAdjustPreferences {
		return Routed{ModelMessage: AdjustPreferencesPrompt, ClearFirst: true}
	}

	return Routed{ModelMessage: userMessage}
}

// Resolve turns a validated model interpretation into a Decision, merging the
// extracted slots into the session preferences and applying the sufficiency
// check before a recommendation is allowed.
func (m *Machine) Resolve(sess store.Session, out *interpret.Output) Decision {
	prefs := preference.Merge(sess.Preferences, &out.ExtractedPreferences)

	d := Decision{
		Reply:            out.DialogueResponse,
		State:            State(out.CurrentState),
		Action:           Action(out.NextAction),
		Preferences:      prefs,
		MissingParameter: out.MissingParameter,
		Confidence:       out.ConfidenceScore,
	}

	// A recommendation needs at least one of category, occasion or recipient;
	// otherwise demote to a question and keep the model's reply.
	if d.Action == ActionRecommendProducts &&
		prefs.Category == nil && prefs.Occasion == nil && prefs.Recipient == nil {
		m.logger.Printf("[STATE] demoting under-specified recommendation for session %s", sess.ID)
		d.Action = ActionAskQuestion
		d.State = StateCollectingProductType
		d.MissingParameter = "category"
	}

	if d.Action == ActionOfferStaffHandoff {
		d.State = StateStaffHandoffRequested
		d.EndConversation = true
		if !announcesStaff(d.Reply) {
			d.Reply = ReplyStaffNotify
		}
	}

	return d
}

// ResolveFailure produces the fallback Decision for a failed interpretation.
// Preferences are left untouched and the session parks in the error state
// with a staff handoff on offer.
func (m *Machine) ResolveFailure(sess store.Session, err error) Decision {
	reply := ReplyTechnicalTrouble
	switch {
	case errors.Is(err, interpret.ErrMalformed):
		reply = ReplyRephrase
	case errors.Is(err, interpret.ErrSchema):
		reply = ReplyClarify
	}

	m.logger.Printf("[STATE] interpretation failed for session %s: %v", sess.ID, err)
	return Decision{
		Reply:       reply,
		State:       StateErrorState,
		Action:      ActionOfferStaffHandoff,
		Preferences: sess.Preferences,
	}
}

func broadBrowseCategory(msg string) string {
	triggered := false
	for _, trigger := range broadSearchTriggers {
		if strings.Contains(msg, trigger) {
			triggered = true
			break
		}
	}
	if !triggered {
		return ""
	}
	switch {
	case strings.Contains(msg, "ring"):
		return "ring"
	case strings.Contains(msg, "necklace"):
		return "necklace"
	case strings.Contains(msg, "earring"):
		return "earrings"
	case strings.Contains(msg, "bracelet"):
		return "bracelet"
	}
	return ""
}

func containsAnyWord(msg string, words []string) bool {
	fields := strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

func announcesStaff(reply string) bool {
	lower := strings.ToLower(reply)
	return strings.HasPrefix(lower, "okay, i'll get a staff member") ||
		strings.HasPrefix(lower, "sure, i'm notifying")
}
