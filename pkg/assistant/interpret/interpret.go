package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/llm"
)

// Sentinel errors so callers can pick the right user-facing apology.
var (
	// ErrMalformed means the model reply was not parseable JSON at all.
	ErrMalformed = errors.New("interpreter reply is not valid JSON")
	// ErrSchema means the JSON parsed but violated the output contract.
	ErrSchema = errors.New("interpreter reply violates the output contract")
)

// Actions the model is allowed to pick. Ending the conversation is decided by
// the turn rules, never by the model.
const (
	ActionAskQuestion       = "ask_question"
	ActionRecommendProducts = "recommend_products"
	ActionOfferStaffHandoff = "offer_staff_handoff"
)

// Output is the structured turn interpretation the model is prompted to emit.
// ExtractedPreferences keeps raw key presence so the merge can distinguish
// "slot untouched" from "slot cleared".
type Output struct {
	DialogueResponse     string           `json:"dialogue_response"`
	ExtractedPreferences preference.Delta `json:"extracted_preferences"`
	CurrentState         string           `json:"current_conversational_state"`
	NextAction           string           `json:"next_action"`
	MissingParameter     string           `json:"missing_parameter_for_current_state"`
	ConfidenceScore      string           `json:"confidence_score"`
}

// Interpreter turns one free-form user message into an Output using an LLM
// backend. It owns prompt construction and reply validation; it never touches
// session state.
type Interpreter struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func New(provider llm.LLMProvider, logger *log.Logger) *Interpreter {
	return &Interpreter{provider: provider, logger: logger}
}

// Interpret sends the system prompt, recent history and the user message to
// the model and validates the structured reply. History must already be
// trimmed by the caller; role names follow the provider convention.
func (i *Interpreter) Interpret(ctx context.Context, prefs preference.Preferences, history []llm.Message, userMessage string) (*Output, error) {
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt(string(prefsJSON))})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	raw, err := i.provider.Chat(ctx, messages,
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(800),
		llm.WithJSONFormat(),
	)
	if err != nil {
		return nil, fmt.Errorf("llm chat: %w", err)
	}

	cleaned := stripFences(raw)

	var out Output
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		i.logger.Printf("[INTERPRET] unparseable model reply: %.300s", cleaned)
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := out.validate(); err != nil {
		i.logger.Printf("[INTERPRET] contract violation: %v (reply: %.300s)", err, cleaned)
		return nil, err
	}

	return &out, nil
}

var modelActions = map[string]bool{
	ActionAskQuestion:       true,
	ActionRecommendProducts: true,
	ActionOfferStaffHandoff: true,
}

// Page names the model may report as the current conversational state.
var pageNames = map[string]bool{
	"initial_greeting":             true,
	"identifying_purpose":          true,
	"collecting_product_type":      true,
	"gathering_preferences":        true,
	"ready_for_recommendation":     true,
	"refining_recommendation":      true,
	"post_recommendation_feedback": true,
	"staff_handoff_requested":      true,
	"error_state":                  true,
}

var confidenceLevels = map[string]bool{
	"high":   true,
	"medium": true,
	"low":    true,
}

func (o *Output) validate() error {
	if strings.TrimSpace(o.DialogueResponse) == "" {
		return fmt.Errorf("%w: empty dialogue_response", ErrSchema)
	}
	if !pageNames[o.CurrentState] {
		return fmt.Errorf("%w: unknown state %q", ErrSchema, o.CurrentState)
	}
	if !modelActions[o.NextAction] {
		return fmt.Errorf("%w: unknown action %q", ErrSchema, o.NextAction)
	}
	if !confidenceLevels[o.ConfidenceScore] {
		return fmt.Errorf("%w: unknown confidence %q", ErrSchema, o.ConfidenceScore)
	}
	if o.NextAction == ActionRecommendProducts && o.MissingParameter != "" {
		return fmt.Errorf("%w: recommend_products with missing parameter %q", ErrSchema, o.MissingParameter)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence if the model added
// one despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
