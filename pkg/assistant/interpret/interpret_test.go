package interpret

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/llm"
)

type fakeProvider struct {
	reply       string
	err         error
	gotMessages []llm.Message
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.gotMessages = history
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func newTestInterpreter(reply string, err error) (*Interpreter, *fakeProvider) {
	provider := &fakeProvider{reply: reply, err: err}
	return New(provider, log.New(io.Discard, "", 0)), provider
}

const validReply = `{
	"dialogue_response": "A gold ring, lovely choice. What is your budget?",
	"extracted_preferences": {"category": "ring", "metal": "gold"},
	"current_conversational_state": "gathering_preferences",
	"next_action": "ask_question",
	"missing_parameter_for_current_state": "budget_max",
	"confidence_score": "high"
}`

func TestInterpretValidReply(t *testing.T) {
	interp, provider := newTestInterpreter(validReply, nil)

	out, err := interp.Interpret(context.Background(), preference.Preferences{}, nil, "I want a gold ring")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out.NextAction != ActionAskQuestion {
		t.Errorf("action = %s, want ask_question", out.NextAction)
	}
	if out.CurrentState != "gathering_preferences" {
		t.Errorf("state = %s, want gathering_preferences", out.CurrentState)
	}
	if out.MissingParameter != "budget_max" {
		t.Errorf("missing parameter = %q, want budget_max", out.MissingParameter)
	}
	if !out.ExtractedPreferences.Touches("category") || !out.ExtractedPreferences.Touches("metal") {
		t.Errorf("extracted delta lost slots: %+v", out.ExtractedPreferences)
	}
	if out.ExtractedPreferences.Touches("occasion") {
		t.Errorf("delta claims to touch a slot the model never mentioned")
	}

	if len(provider.gotMessages) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(provider.gotMessages))
	}
	if provider.gotMessages[0].Role != "system" {
		t.Errorf("first message role = %s, want system", provider.gotMessages[0].Role)
	}
	if !strings.Contains(provider.gotMessages[0].Content, `"category":null`) {
		t.Errorf("system prompt missing the current preference slots")
	}
}

func TestInterpretStripsMarkdownFence(t *testing.T) {
	interp, _ := newTestInterpreter("```json\n"+validReply+"\n```", nil)

	out, err := interp.Interpret(context.Background(), preference.Preferences{}, nil, "hello")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out.DialogueResponse == "" {
		t.Errorf("fenced reply not parsed")
	}
}

func TestInterpretMalformedReply(t *testing.T) {
	interp, _ := newTestInterpreter("I would love to help you find a ring!", nil)

	_, err := interp.Interpret(context.Background(), preference.Preferences{}, nil, "hello")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestInterpretSchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{
			name: "unknown action",
			reply: `{"dialogue_response":"hi","extracted_preferences":{},
				"current_conversational_state":"gathering_preferences",
				"next_action":"buy_now","confidence_score":"high"}`,
		},
		{
			name: "model may not end the conversation",
			reply: `{"dialogue_response":"bye","extracted_preferences":{},
				"current_conversational_state":"conversation_ended",
				"next_action":"end_conversation","confidence_score":"high"}`,
		},
		{
			name: "unknown state",
			reply: `{"dialogue_response":"hi","extracted_preferences":{},
				"current_conversational_state":"checkout",
				"next_action":"ask_question","confidence_score":"high"}`,
		},
		{
			name: "unknown confidence",
			reply: `{"dialogue_response":"hi","extracted_preferences":{},
				"current_conversational_state":"gathering_preferences",
				"next_action":"ask_question","confidence_score":"0.9"}`,
		},
		{
			name: "empty dialogue response",
			reply: `{"dialogue_response":"  ","extracted_preferences":{},
				"current_conversational_state":"gathering_preferences",
				"next_action":"ask_question","confidence_score":"high"}`,
		},
		{
			name: "recommendation with a missing parameter",
			reply: `{"dialogue_response":"here you go","extracted_preferences":{},
				"current_conversational_state":"ready_for_recommendation",
				"next_action":"recommend_products",
				"missing_parameter_for_current_state":"budget_max",
				"confidence_score":"high"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interp, _ := newTestInterpreter(tt.reply, nil)
			_, err := interp.Interpret(context.Background(), preference.Preferences{}, nil, "hello")
			if !errors.Is(err, ErrSchema) {
				t.Errorf("err = %v, want ErrSchema", err)
			}
		})
	}
}

func TestInterpretProviderError(t *testing.T) {
	interp, _ := newTestInterpreter("", errors.New("connection refused"))

	_, err := interp.Interpret(context.Background(), preference.Preferences{}, nil, "hello")
	if err == nil {
		t.Fatalf("expected an error from a failing provider")
	}
	if errors.Is(err, ErrMalformed) || errors.Is(err, ErrSchema) {
		t.Errorf("transport failure must not masquerade as a contract error: %v", err)
	}
}
