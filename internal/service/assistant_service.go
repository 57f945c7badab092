package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"jewelry-assistant-be/internal/constant"
	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/entity"
	"jewelry-assistant-be/internal/repository/unitofwork"
	"jewelry-assistant-be/internal/sessionstore"
	"jewelry-assistant-be/pkg/assistant/interpret"
	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/assistant/recommend"
	"jewelry-assistant-be/pkg/assistant/state"
	"jewelry-assistant-be/pkg/events"
	"jewelry-assistant-be/pkg/llm"
	"jewelry-assistant-be/pkg/store"
)

// IAssistantService is the conversational core: one call per user turn.
type IAssistantService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	NewSession(ctx context.Context, request *dto.NewSessionRequest) (*dto.NewSessionResponse, error)
}

// EventPublisher sends domain events to the bus. May be nil in tests.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// StaffNotifier alerts a person that a shopper asked for help.
type StaffNotifier interface {
	NotifyHandoff(ctx context.Context, sessionId string, prefs preference.Preferences) error
}

type AssistantServiceConfig struct {
	HistoryLimit int
	TopN         int
	Confidence   recommend.ConfidenceConfig
}

type assistantService struct {
	sessions    sessionstore.Store
	interpreter *interpret.Interpreter
	machine     *state.Machine
	engine      *recommend.Engine
	uowFactory  unitofwork.RepositoryFactory
	publisher   EventPublisher
	notifier    StaffNotifier
	cfg         AssistantServiceConfig
	logger      *log.Logger
}

func NewAssistantService(
	sessions sessionstore.Store,
	interpreter *interpret.Interpreter,
	machine *state.Machine,
	engine *recommend.Engine,
	uowFactory unitofwork.RepositoryFactory,
	publisher EventPublisher,
	notifier StaffNotifier,
	cfg AssistantServiceConfig,
	logger *log.Logger,
) IAssistantService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 5
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	return &assistantService{
		sessions:    sessions,
		interpreter: interpreter,
		machine:     machine,
		engine:      engine,
		uowFactory:  uowFactory,
		publisher:   publisher,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
	}
}

// Chat runs one conversation turn end to end: load or create the session,
// route control tokens, consult the model if needed, fulfil the decided
// action, then persist once.
func (s *assistantService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	userMessage := strings.TrimSpace(request.Message)
	if userMessage == "" {
		return nil, fmt.Errorf("empty message")
	}

	sess, err := s.loadOrCreateSession(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}
	prefsBeforeTurn := sess.Preferences

	routed := s.machine.Route(*sess, userMessage)

	var decision state.Decision
	if routed.Decision != nil {
		decision = *routed.Decision
	} else {
		if routed.ClearFirst {
			sess.Preferences = preference.ClearAll()
			sess.LastShownProductIDs = nil
		}
		decision, err = s.consultModel(ctx, sess, routed.ModelMessage)
		if err != nil {
			return nil, err
		}
	}

	response := &dto.ChatResponse{
		SessionId:            sess.ID,
		Reply:                decision.Reply,
		CurrentState:         string(decision.State),
		NextActionSuggestion: string(decision.Action),
		EndConversation:      decision.EndConversation,
	}

	if decision.ItemDetailsID != "" {
		s.fulfilItemDetails(ctx, &decision, response)
	}

	switch decision.Action {
	case state.ActionRecommendProducts:
		s.fulfilRecommendation(ctx, sess, &decision, response)
	case state.ActionAskQuestion:
		response.ActionButtons = questionButtons(decision.MissingParameter)
	case state.ActionOfferStaffHandoff:
		// An offer without EndConversation is just a fallback suggestion;
		// only an actual handoff alerts staff.
		if decision.EndConversation {
			s.fulfilStaffHandoff(ctx, sess, decision)
		}
	case state.ActionEndConversation:
		s.publish(ctx, events.NewConversationEnded(sess.ID))
	}

	// The action handlers may have adjusted the outcome.
	response.Reply = decision.Reply
	response.CurrentState = string(decision.State)
	response.EndConversation = decision.EndConversation

	sess.State = string(decision.State)
	sess.Preferences = decision.Preferences
	sess.UpdatedAt = time.Now()
	sess.Active = !decision.EndConversation

	s.persistTurn(ctx, sess, userMessage, prefsBeforeTurn, decision.Reply)

	return response, nil
}

// NewSession clears an existing conversation so the frontend can restart.
func (s *assistantService) NewSession(ctx context.Context, request *dto.NewSessionRequest) (*dto.NewSessionResponse, error) {
	if err := s.sessions.Delete(ctx, request.SessionId); err != nil {
		s.logger.Printf("[ASSISTANT] clearing session %s failed: %v", request.SessionId, err)
		return &dto.NewSessionResponse{Status: "error", Message: err.Error()}, nil
	}
	return &dto.NewSessionResponse{Status: "cleared", Message: "Session cleared"}, nil
}

func (s *assistantService) loadOrCreateSession(ctx context.Context, id string) (*store.Session, error) {
	if id != "" {
		sess, err := s.sessions.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		if sess != nil {
			return sess, nil
		}
	}

	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &store.Session{
		ID:        id,
		State:     string(state.StateInitialGreeting),
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}, nil
}

func (s *assistantService) consultModel(ctx context.Context, sess *store.Session, message string) (state.Decision, error) {
	history, err := s.sessions.RecentTurns(ctx, sess.ID, s.cfg.HistoryLimit)
	if err != nil {
		s.logger.Printf("[ASSISTANT] history load failed for session %s: %v", sess.ID, err)
	}

	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		role := constant.ChatMessageRoleUser
		if turn.Role == constant.ChatMessageRoleAssistant {
			role = constant.ChatMessageRoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}

	out, err := s.interpreter.Interpret(ctx, sess.Preferences, messages, message)
	if err != nil {
		if ctx.Err() != nil {
			return state.Decision{}, ctx.Err()
		}
		return s.machine.ResolveFailure(*sess, err), nil
	}
	return s.machine.Resolve(*sess, out), nil
}

func (s *assistantService) fulfilItemDetails(ctx context.Context, decision *state.Decision, response *dto.ChatResponse) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindById(ctx, decision.ItemDetailsID)
	if err != nil {
		s.logger.Printf("[ASSISTANT] item lookup %s failed: %v", decision.ItemDetailsID, err)
	}
	if product == nil {
		decision.Reply = state.ReplyItemNotFound
		decision.State = state.StateGatheringPreferences
		return
	}

	decision.Reply = formatItemDetails(product)
	response.Products = []dto.ProductDetail{toProductDetail(*product, "")}
}

func (s *assistantService) fulfilRecommendation(ctx context.Context, sess *store.Session, decision *state.Decision, response *dto.ChatResponse) {
	result, err := s.engine.Recommend(ctx, decision.Preferences, decision.GenericShowAll, s.cfg.TopN)
	if err != nil {
		s.logger.Printf("[ASSISTANT] recommendation failed for session %s: %v", sess.ID, err)
		decision.Reply = state.ReplyCatalogTrouble
		decision.State = state.StateErrorState
		return
	}

	if len(result.Products) == 0 {
		if decision.GenericShowAll && decision.Preferences.Category != nil {
			decision.Reply = fmt.Sprintf(
				"I looked for our %ss, but it seems we don't have any matching that right now. Would you like to try a different category or ask for staff help?",
				*decision.Preferences.Category,
			)
		} else {
			decision.Reply += " (However, I couldn't find items with those exact details right now. Want to try adjusting the search?)"
		}
		decision.State = state.StateGatheringPreferences
		response.ActionButtons = []dto.ActionButton{
			{Label: constant.ActionLabelAdjustSearch, Value: constant.ActionValueAdjustPreferences},
			{Label: constant.ActionLabelChatWithStaff, Value: constant.ActionValueTalkToStaff},
		}
		return
	}

	confidence := recommend.Classify(s.cfg.Confidence, decision.Preferences, result.Products)

	details := make([]dto.ProductDetail, len(result.Products))
	ids := make([]string, len(result.Products))
	for i, p := range result.Products {
		details[i] = toProductDetail(p, string(confidence))
		ids[i] = p.ID
	}
	response.Products = details
	response.ActionButtons = []dto.ActionButton{
		{Label: constant.ActionLabelItemDetails, Value: constant.ActionValueItemDetails},
		{Label: constant.ActionLabelShowDifferent, Value: constant.ActionValueShowDifferent},
		{Label: constant.ActionLabelAdjustFilters, Value: constant.ActionValueAdjustPreferences},
		{Label: constant.ActionLabelChatWithStaff, Value: constant.ActionValueTalkToStaff},
	}

	sess.LastShownProductIDs = ids
	if decision.State != state.StateRefiningRecommendation {
		decision.State = state.StatePostRecommendationFeedback
	}

	s.recordRecommendation(ctx, sess.ID, decision.Preferences, result.Tier, string(confidence), result.Products)
}

func (s *assistantService) fulfilStaffHandoff(ctx context.Context, sess *store.Session, decision state.Decision) {
	var prefsPayload map[string]interface{}
	if data, err := json.Marshal(decision.Preferences); err == nil {
		_ = json.Unmarshal(data, &prefsPayload)
	}

	s.publish(ctx, events.NewStaffHandoffRequested(sess.ID, prefsPayload))

	if s.notifier != nil {
		if err := s.notifier.NotifyHandoff(ctx, sess.ID, decision.Preferences); err != nil {
			s.logger.Printf("[ASSISTANT] staff notification failed for session %s: %v", sess.ID, err)
		}
	}
}

// recordRecommendation writes one audit row per surfaced product; failures
// are logged, never surfaced to the shopper.
func (s *assistantService) recordRecommendation(ctx context.Context, sessionId string, prefs preference.Preferences, tier, confidence string, products []store.Product) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.RecommendationEventRepository()

	productIds := make([]string, len(products))
	for i, p := range products {
		productIds[i] = p.ID

		var similarity *float64
		if p.Similarity > 0 {
			sim := p.Similarity
			similarity = &sim
		}
		event := &entity.RecommendationEvent{
			SessionId:   sessionId,
			ProductId:   p.ID,
			Similarity:  similarity,
			Tier:        tier,
			Confidence:  confidence,
			Preferences: prefs,
		}
		if err := repo.Create(ctx, event); err != nil {
			s.logger.Printf("[ASSISTANT] recommendation audit failed for session %s product %s: %v", sessionId, p.ID, err)
		}
	}

	s.publish(ctx, events.NewRecommendationServed(sessionId, tier, confidence, productIds))
}

// persistTurn writes both turn records and the updated session. The reply is
// already decided; persistence failures are logged and swallowed so the
// shopper still gets an answer.
func (s *assistantService) persistTurn(ctx context.Context, sess *store.Session, userMessage string, prefsBefore preference.Preferences, reply string) {
	now := time.Now()

	if err := s.sessions.AppendTurn(ctx, &store.Turn{
		SessionID:   sess.ID,
		Role:        constant.ChatMessageRoleUser,
		Content:     userMessage,
		Preferences: prefsBefore,
		CreatedAt:   now,
	}); err != nil {
		s.logger.Printf("[ASSISTANT] user turn write failed for session %s: %v", sess.ID, err)
	}

	if err := s.sessions.AppendTurn(ctx, &store.Turn{
		SessionID:   sess.ID,
		Role:        constant.ChatMessageRoleAssistant,
		Content:     reply,
		Preferences: sess.Preferences,
		CreatedAt:   now,
	}); err != nil {
		s.logger.Printf("[ASSISTANT] assistant turn write failed for session %s: %v", sess.ID, err)
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		s.logger.Printf("[ASSISTANT] session write failed for session %s: %v", sess.ID, err)
	}
}

func (s *assistantService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Printf("[ASSISTANT] event %s publish failed: %v", event.EventType(), err)
	}
}

func questionButtons(missingParameter string) []dto.ActionButton {
	if missingParameter == preference.SlotCategory {
		return []dto.ActionButton{
			{Label: constant.CategoryLabelRings, Value: constant.CategoryLabelRings},
			{Label: constant.CategoryLabelNecklaces, Value: constant.CategoryLabelNecklaces},
			{Label: constant.CategoryLabelEarrings, Value: constant.CategoryLabelEarrings},
			{Label: constant.CategoryLabelBracelets, Value: constant.CategoryLabelBracelets},
		}
	}
	return []dto.ActionButton{
		{Label: constant.ActionLabelChatWithStaff, Value: constant.ActionValueTalkToStaff},
	}
}

func formatItemDetails(p *store.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are the details for %s:\n\n", p.Name)
	fmt.Fprintf(&b, "• Price: $%.2f\n", p.Price)
	if p.Metal != "" {
		fmt.Fprintf(&b, "• Material: %s\n", p.Metal)
	}
	if p.DesignType != "" {
		fmt.Fprintf(&b, "• Design: %s\n", p.DesignType)
	}
	if len(p.Gemstones) > 0 && !(len(p.Gemstones) == 1 && strings.EqualFold(p.Gemstones[0], "none")) {
		fmt.Fprintf(&b, "• Gemstones: %s\n", strings.Join(p.Gemstones, ", "))
	}
	if len(p.StyleTags) > 0 {
		fmt.Fprintf(&b, "• Style: %s\n", strings.Join(p.StyleTags, ", "))
	}
	if len(p.OccasionTags) > 0 {
		fmt.Fprintf(&b, "• Perfect for: %s\n", strings.Join(p.OccasionTags, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s", p.Description)
	}
	return b.String()
}

func toProductDetail(p store.Product, confidence string) dto.ProductDetail {
	detail := dto.ProductDetail{
		Id:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		ImageUrl:     p.ImageURL,
		Price:        p.Price,
		Metal:        p.Metal,
		Gemstones:    p.Gemstones,
		DesignType:   p.DesignType,
		StyleTags:    p.StyleTags,
		OccasionTags: p.OccasionTags,
		Description:  p.Description,
		Confidence:   confidence,
	}
	if p.Similarity > 0 {
		sim := p.Similarity
		detail.SimilarityScore = &sim
	}
	return detail
}
