package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelry-assistant-be/internal/constant"
	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/entity"
	"jewelry-assistant-be/internal/repository/contract"
	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/internal/repository/unitofwork"
	"jewelry-assistant-be/pkg/assistant/interpret"
	"jewelry-assistant-be/pkg/assistant/preference"
	"jewelry-assistant-be/pkg/assistant/recommend"
	"jewelry-assistant-be/pkg/assistant/state"
	"jewelry-assistant-be/pkg/events"
	"jewelry-assistant-be/pkg/llm"
	"jewelry-assistant-be/pkg/store"
)

// ---- fakes ----

type fakeSessionStore struct {
	sessions map[string]*store.Session
	turns    map[string][]*store.Turn
	putErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]*store.Session),
		turns:    make(map[string][]*store.Turn),
	}
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*store.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (f *fakeSessionStore) Put(_ context.Context, session *store.Session) error {
	if f.putErr != nil {
		return f.putErr
	}
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	delete(f.turns, id)
	return nil
}

func (f *fakeSessionStore) AppendTurn(_ context.Context, turn *store.Turn) error {
	f.turns[turn.SessionID] = append(f.turns[turn.SessionID], turn)
	return nil
}

func (f *fakeSessionStore) RecentTurns(_ context.Context, sessionId string, limit int) ([]*store.Turn, error) {
	turns := f.turns[sessionId]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

type fakeLLM struct {
	reply string
	err   error
	calls [][]llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	f.calls = append(f.calls, messages)
	return f.reply, f.err
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return f.reply, f.err
}

type fakeCatalogSource struct {
	products []store.Product
	err      error
}

func (f *fakeCatalogSource) Products(_ context.Context) ([]store.Product, error) {
	return f.products, f.err
}

type fakeProductRepo struct {
	contract.ProductRepository
	byId map[string]*store.Product
}

func (f *fakeProductRepo) FindById(_ context.Context, id string) (*store.Product, error) {
	return f.byId[id], nil
}

type fakeEventRepo struct {
	contract.RecommendationEventRepository
	created []*entity.RecommendationEvent
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.RecommendationEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeEventRepo) FindBySession(_ context.Context, _ string) ([]*entity.RecommendationEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.RecommendationEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	products *fakeProductRepo
	rec      *fakeEventRepo
}

func (f *fakeUow) ProductRepository() contract.ProductRepository { return f.products }

func (f *fakeUow) RecommendationEventRepository() contract.RecommendationEventRepository {
	return f.rec
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, event events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) typesSeen() []string {
	types := make([]string, len(f.published))
	for i, e := range f.published {
		types[i] = e.EventType()
	}
	return types
}

type fakeNotifier struct {
	sessions []string
}

func (f *fakeNotifier) NotifyHandoff(_ context.Context, sessionId string, _ preference.Preferences) error {
	f.sessions = append(f.sessions, sessionId)
	return nil
}

// ---- harness ----

type harness struct {
	svc      IAssistantService
	sessions *fakeSessionStore
	llm      *fakeLLM
	catalog  *fakeCatalogSource
	factory  *fakeFactory
	pub      *fakePublisher
	notifier *fakeNotifier
}

type fakeVectorSearcher struct {
	products []store.Product
}

func (f *fakeVectorSearcher) Search(_ context.Context, _ string, _ recommend.Filter, _ int) ([]store.Product, error) {
	return f.products, nil
}

func newHarness() *harness {
	return newHarnessWithSearcher(nil)
}

func newHarnessWithSearcher(searcher recommend.VectorSearcher) *harness {
	logger := log.New(io.Discard, "", 0)
	sessions := newFakeSessionStore()
	provider := &fakeLLM{}
	catalog := &fakeCatalogSource{products: serviceCatalog()}
	factory := &fakeFactory{uow: &fakeUow{
		products: &fakeProductRepo{byId: productIndex(serviceCatalog())},
		rec:      &fakeEventRepo{},
	}}
	pub := &fakePublisher{}
	notifier := &fakeNotifier{}

	engine := recommend.NewEngine(searcher, catalog, recommend.DefaultConfig(), logger)
	svc := NewAssistantService(
		sessions,
		interpret.New(provider, logger),
		state.NewMachine(logger),
		engine,
		factory,
		pub,
		notifier,
		AssistantServiceConfig{HistoryLimit: 5, TopN: 5, Confidence: recommend.DefaultConfidenceConfig()},
		logger,
	)
	return &harness{svc: svc, sessions: sessions, llm: provider, catalog: catalog, factory: factory, pub: pub, notifier: notifier}
}

func serviceCatalog() []store.Product {
	return []store.Product{
		{ID: "ring-gold-1", Name: "Classic Gold Band", Category: "ring", Price: 450, Metal: "gold", DesignType: "solitaire", Gemstones: []string{"none"}, StyleTags: []string{"classic"}, OccasionTags: []string{"wedding"}, Description: "A timeless band."},
		{ID: "ring-silver-1", Name: "Silver Halo Ring", Category: "ring", Price: 250, Metal: "silver", Gemstones: []string{"diamond"}, StyleTags: []string{"modern"}},
		{ID: "necklace-1", Name: "Pearl Necklace", Category: "necklace", Price: 600, Metal: "gold", Gemstones: []string{"pearl"}, StyleTags: []string{"elegant"}},
	}
}

func productIndex(products []store.Product) map[string]*store.Product {
	index := make(map[string]*store.Product, len(products))
	for i := range products {
		index[products[i].ID] = &products[i]
	}
	return index
}

// ---- tests ----

func TestChatGreetingTokenCreatesSession(t *testing.T) {
	h := newHarness()

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{Message: "hi_ai_assistant"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionId)
	assert.Equal(t, state.ReplyGreeting, resp.Reply)
	assert.Equal(t, string(state.StateIdentifyingPurpose), resp.CurrentState)
	assert.False(t, resp.EndConversation)

	sess, _ := h.sessions.Get(context.Background(), resp.SessionId)
	require.NotNil(t, sess)
	assert.Equal(t, string(state.StateIdentifyingPurpose), sess.State)
	// Both turns recorded.
	turns := h.sessions.turns[resp.SessionId]
	require.Len(t, turns, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, turns[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, turns[1].Role)
}

func TestChatStaffRequestNotifiesAndEnds(t *testing.T) {
	h := newHarness()

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s1", Message: "I want to talk to staff"})
	require.NoError(t, err)

	assert.True(t, resp.EndConversation)
	assert.Equal(t, string(state.StateStaffHandoffRequested), resp.CurrentState)
	assert.Contains(t, h.pub.typesSeen(), events.TypeStaffHandoffRequested)
	assert.Equal(t, []string{"s1"}, h.notifier.sessions)

	sess, _ := h.sessions.Get(context.Background(), "s1")
	require.NotNil(t, sess)
	assert.False(t, sess.Active)
}

func TestChatModelRecommendationFlow(t *testing.T) {
	h := newHarness()
	h.llm.reply = `{
		"dialogue_response": "Here are some gold rings you might love!",
		"extracted_preferences": {"category": "ring", "metal": "gold"},
		"current_conversational_state": "ready_for_recommendation",
		"next_action": "recommend_products",
		"missing_parameter_for_current_state": "",
		"confidence_score": "high"
	}`

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s2", Message: "show me gold rings"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Products)
	assert.Equal(t, string(state.StatePostRecommendationFeedback), resp.CurrentState)
	// Attribute tier: category gate keeps rings only.
	for _, p := range resp.Products {
		assert.Equal(t, "ring", p.Category)
	}
	// One audit row per surfaced product, plus the bus event.
	created := h.factory.uow.rec.created
	require.Len(t, created, len(resp.Products))
	for i, row := range created {
		assert.Equal(t, "s2", row.SessionId)
		assert.Equal(t, resp.Products[i].Id, row.ProductId)
		assert.Equal(t, recommend.TierAttribute, row.Tier)
		assert.Nil(t, row.Similarity)
	}
	assert.Contains(t, h.pub.typesSeen(), events.TypeRecommendationServed)

	sess, _ := h.sessions.Get(context.Background(), "s2")
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.LastShownProductIDs)
	require.NotNil(t, sess.Preferences.Category)
	assert.Equal(t, "ring", *sess.Preferences.Category)

	buttons := make([]string, len(resp.ActionButtons))
	for i, b := range resp.ActionButtons {
		buttons[i] = b.Label
	}
	assert.Contains(t, buttons, constant.ActionLabelChatWithStaff)
}

func TestChatSemanticRecommendationRecordsSimilarity(t *testing.T) {
	searcher := &fakeVectorSearcher{products: []store.Product{
		{ID: "ring-gold-1", Name: "Classic Gold Band", Category: "ring", Price: 450, Similarity: 0.82},
		{ID: "ring-silver-1", Name: "Silver Halo Ring", Category: "ring", Price: 250, Similarity: 0.74},
		{ID: "ring-rose-1", Name: "Rose Band", Category: "ring", Price: 380, Similarity: 0.61},
	}}
	h := newHarnessWithSearcher(searcher)
	h.llm.reply = `{
		"dialogue_response": "Here are some rings!",
		"extracted_preferences": {"category": "ring"},
		"current_conversational_state": "ready_for_recommendation",
		"next_action": "recommend_products",
		"missing_parameter_for_current_state": "",
		"confidence_score": "high"
	}`

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s2s", Message: "a ring for my wife please"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Products)

	// Each audit row carries the similarity of its own product.
	created := h.factory.uow.rec.created
	require.Len(t, created, len(resp.Products))
	for i, row := range created {
		assert.Equal(t, resp.Products[i].Id, row.ProductId)
		assert.Equal(t, recommend.TierSemantic, row.Tier)
		require.NotNil(t, row.Similarity)
		require.NotNil(t, resp.Products[i].SimilarityScore)
		assert.Equal(t, *resp.Products[i].SimilarityScore, *row.Similarity)
	}
}

func TestChatRecommendationWithoutCategoryIsDemoted(t *testing.T) {
	h := newHarness()
	h.llm.reply = `{
		"dialogue_response": "Let me find something!",
		"extracted_preferences": {"metal": "gold"},
		"current_conversational_state": "ready_for_recommendation",
		"next_action": "recommend_products",
		"missing_parameter_for_current_state": "",
		"confidence_score": "medium"
	}`

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s3", Message: "something in gold"})
	require.NoError(t, err)

	assert.Empty(t, resp.Products)
	assert.Equal(t, string(state.StateCollectingProductType), resp.CurrentState)
	assert.Equal(t, string(state.ActionAskQuestion), resp.NextActionSuggestion)
	// Category quick-picks are offered.
	require.Len(t, resp.ActionButtons, 4)
	assert.Equal(t, constant.CategoryLabelRings, resp.ActionButtons[0].Label)
}

func TestChatEmptyRecommendationAdjustsReply(t *testing.T) {
	h := newHarness()
	h.catalog.products = nil
	h.llm.reply = `{
		"dialogue_response": "Searching now!",
		"extracted_preferences": {"category": "ring"},
		"current_conversational_state": "ready_for_recommendation",
		"next_action": "recommend_products",
		"missing_parameter_for_current_state": "",
		"confidence_score": "medium"
	}`

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s4", Message: "a ring please"})
	require.NoError(t, err)

	assert.Contains(t, resp.Reply, "couldn't find items")
	assert.Equal(t, string(state.StateGatheringPreferences), resp.CurrentState)
	assert.Empty(t, resp.Products)
	assert.Empty(t, h.factory.uow.rec.created)
}

func TestChatCatalogErrorParksInErrorState(t *testing.T) {
	h := newHarness()
	h.catalog.err = errors.New("db down")
	h.llm.reply = `{
		"dialogue_response": "On it!",
		"extracted_preferences": {"category": "ring"},
		"current_conversational_state": "ready_for_recommendation",
		"next_action": "recommend_products",
		"missing_parameter_for_current_state": "",
		"confidence_score": "medium"
	}`

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s5", Message: "a ring please"})
	require.NoError(t, err)

	assert.Equal(t, state.ReplyCatalogTrouble, resp.Reply)
	assert.Equal(t, string(state.StateErrorState), resp.CurrentState)
}

func TestChatMalformedModelReplyFallsBack(t *testing.T) {
	h := newHarness()
	h.llm.reply = "I am not JSON at all"

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s6", Message: "hello there"})
	require.NoError(t, err)

	assert.Equal(t, state.ReplyRephrase, resp.Reply)
	assert.Equal(t, string(state.StateErrorState), resp.CurrentState)
	assert.False(t, resp.EndConversation)
	// A failed turn never alerts staff.
	assert.Empty(t, h.notifier.sessions)
}

func TestChatItemDetailsToken(t *testing.T) {
	h := newHarness()
	h.sessions.sessions["s7"] = &store.Session{ID: "s7", State: string(state.StatePostRecommendationFeedback), Active: true}

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s7", Message: "item_details: ring-gold-1"})
	require.NoError(t, err)

	assert.Contains(t, resp.Reply, "Classic Gold Band")
	assert.Contains(t, resp.Reply, "Price: $450.00")
	assert.Contains(t, resp.Reply, "Material: gold")
	// Gemstone "none" is omitted from the details.
	assert.NotContains(t, resp.Reply, "Gemstones")
	assert.Equal(t, string(state.StateRefiningRecommendation), resp.CurrentState)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "ring-gold-1", resp.Products[0].Id)
}

func TestChatItemDetailsUnknownProduct(t *testing.T) {
	h := newHarness()
	h.sessions.sessions["s8"] = &store.Session{ID: "s8", State: string(state.StatePostRecommendationFeedback), Active: true}

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s8", Message: "item_details: nope"})
	require.NoError(t, err)

	assert.Equal(t, state.ReplyItemNotFound, resp.Reply)
	assert.Equal(t, string(state.StateGatheringPreferences), resp.CurrentState)
}

func TestChatBroadBrowseClearsAndRecommends(t *testing.T) {
	h := newHarness()
	silver := "silver"
	h.sessions.sessions["s9"] = &store.Session{
		ID:          "s9",
		State:       string(state.StateGatheringPreferences),
		Preferences: preference.Preferences{Metal: &silver},
		Active:      true,
	}

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s9", Message: "show me rings"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Products)
	// Cheapest first; the silver slot was cleared so the gold ring still shows.
	assert.Equal(t, "ring-silver-1", resp.Products[0].Id)
	sess, _ := h.sessions.Get(context.Background(), "s9")
	assert.Nil(t, sess.Preferences.Metal)
}

func TestChatGoodbyeEndsConversation(t *testing.T) {
	h := newHarness()

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s10", Message: "ok bye"})
	require.NoError(t, err)

	assert.True(t, resp.EndConversation)
	assert.Equal(t, string(state.StateConversationEnded), resp.CurrentState)
	assert.Contains(t, h.pub.typesSeen(), events.TypeConversationEnded)
}

func TestChatReplySurvivesPersistenceFailure(t *testing.T) {
	h := newHarness()
	h.sessions.putErr = errors.New("redis down")

	resp, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s11", Message: "goodbye"})
	require.NoError(t, err)
	assert.Equal(t, state.ReplyGoodbye, resp.Reply)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s12", Message: "   "})
	assert.Error(t, err)
}

func TestChatHistoryIsForwardedToModel(t *testing.T) {
	h := newHarness()
	h.llm.reply = `{
		"dialogue_response": "Got it.",
		"extracted_preferences": {},
		"current_conversational_state": "gathering_preferences",
		"next_action": "ask_question",
		"missing_parameter_for_current_state": "style",
		"confidence_score": "low"
	}`
	h.sessions.sessions["s13"] = &store.Session{ID: "s13", State: string(state.StateGatheringPreferences), Active: true}

	_, err := h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s13", Message: "first message"})
	require.NoError(t, err)
	_, err = h.svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s13", Message: "second message"})
	require.NoError(t, err)

	turns := h.sessions.turns["s13"]
	require.Len(t, turns, 4)

	// The second model call carries the first exchange as history.
	require.Len(t, h.llm.calls, 2)
	second := h.llm.calls[1]
	var joined strings.Builder
	for _, m := range second {
		joined.WriteString(m.Content)
		joined.WriteString("|")
	}
	assert.Contains(t, joined.String(), "first message")
	assert.Contains(t, joined.String(), "second message")
}

func TestNewSessionClears(t *testing.T) {
	h := newHarness()
	h.sessions.sessions["s14"] = &store.Session{ID: "s14", Active: true}

	resp, err := h.svc.NewSession(context.Background(), &dto.NewSessionRequest{SessionId: "s14"})
	require.NoError(t, err)
	assert.Equal(t, "cleared", resp.Status)
	sess, _ := h.sessions.Get(context.Background(), "s14")
	assert.Nil(t, sess)
}
