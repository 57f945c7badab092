package sessionstore

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"jewelry-assistant-be/pkg/store"
)

type fakeStore struct {
	sessions map[string]*store.Session
	turns    map[string][]*store.Turn
	failAll  bool
	puts     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]*store.Session),
		turns:    make(map[string][]*store.Turn),
	}
}

func (f *fakeStore) Get(_ context.Context, id string) (*store.Session, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	return f.sessions[id], nil
}

func (f *fakeStore) Put(_ context.Context, sess *store.Session) error {
	if f.failAll {
		return errors.New("store down")
	}
	f.puts++
	copied := *sess
	f.sessions[sess.ID] = &copied
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.failAll {
		return errors.New("store down")
	}
	delete(f.sessions, id)
	delete(f.turns, id)
	return nil
}

func (f *fakeStore) AppendTurn(_ context.Context, turn *store.Turn) error {
	if f.failAll {
		return errors.New("store down")
	}
	f.turns[turn.SessionID] = append(f.turns[turn.SessionID], turn)
	return nil
}

func (f *fakeStore) RecentTurns(_ context.Context, sessionId string, limit int) ([]*store.Turn, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	turns := f.turns[sessionId]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func newLayered(hot, durable Store) *LayeredStore {
	return NewLayeredStore(hot, durable, log.New(io.Discard, "", 0))
}

func TestLayeredPutWritesBoth(t *testing.T) {
	hot, durable := newFakeStore(), newFakeStore()
	layered := newLayered(hot, durable)

	sess := &store.Session{ID: "s1", State: "gathering_preferences", Active: true}
	if err := layered.Put(context.Background(), sess); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if hot.puts != 1 || durable.puts != 1 {
		t.Errorf("writes hot=%d durable=%d, want 1/1", hot.puts, durable.puts)
	}
}

func TestLayeredGetFallsBackAndRepopulates(t *testing.T) {
	hot, durable := newFakeStore(), newFakeStore()
	durable.sessions["s1"] = &store.Session{ID: "s1", State: "ready_for_recommendation"}
	layered := newLayered(hot, durable)

	sess, err := layered.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess == nil || sess.State != "ready_for_recommendation" {
		t.Fatalf("session = %+v", sess)
	}
	if hot.sessions["s1"] == nil {
		t.Errorf("hot store not repopulated after durable fallback")
	}
}

func TestLayeredGetSurvivesHotOutage(t *testing.T) {
	hot, durable := newFakeStore(), newFakeStore()
	hot.failAll = true
	durable.sessions["s1"] = &store.Session{ID: "s1"}
	layered := newLayered(hot, durable)

	sess, err := layered.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess == nil {
		t.Fatalf("expected the durable copy despite the hot outage")
	}
}

func TestLayeredHotOutageStillWritesDurable(t *testing.T) {
	hot, durable := newFakeStore(), newFakeStore()
	hot.failAll = true
	layered := newLayered(hot, durable)

	if err := layered.Put(context.Background(), &store.Session{ID: "s1", State: "gathering_preferences"}); err != nil {
		t.Fatalf("Put must tolerate a hot-store outage: %v", err)
	}
	if durable.puts != 1 {
		t.Errorf("durable writes = %d, want 1 despite the hot outage", durable.puts)
	}

	if err := layered.AppendTurn(context.Background(), &store.Turn{SessionID: "s1", Role: "user", Content: "hi"}); err != nil {
		t.Fatalf("AppendTurn must tolerate a hot-store outage: %v", err)
	}
	if len(durable.turns["s1"]) != 1 {
		t.Errorf("turn never reached the durable store")
	}

	if err := layered.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete must tolerate a hot-store outage: %v", err)
	}
	if durable.sessions["s1"] != nil {
		t.Errorf("session survived a delete during the hot outage")
	}
}

func TestLayeredDurableWriteFailureSurfaces(t *testing.T) {
	hot, durable := newFakeStore(), newFakeStore()
	durable.failAll = true
	layered := newLayered(hot, durable)

	if err := layered.Put(context.Background(), &store.Session{ID: "s1"}); err == nil {
		t.Errorf("Put must report a durable-store failure")
	}
	// The hot copy is still written so the current conversation keeps working.
	if hot.puts != 1 {
		t.Errorf("hot writes = %d, want 1", hot.puts)
	}
	if err := layered.AppendTurn(context.Background(), &store.Turn{SessionID: "s1", Role: "user", Content: "hi"}); err == nil {
		t.Errorf("AppendTurn must report a durable-store failure")
	}
}

func TestLayeredRecentTurnsPrefersHot(t *testing.T) {
	hot, durable := newFakeStore(), newFakeStore()
	hot.turns["s1"] = []*store.Turn{{SessionID: "s1", Role: "user", Content: "from hot"}}
	durable.turns["s1"] = []*store.Turn{{SessionID: "s1", Role: "user", Content: "from durable"}}
	layered := newLayered(hot, durable)

	turns, err := layered.RecentTurns(context.Background(), "s1", 5)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "from hot" {
		t.Errorf("turns = %+v, want the hot copy", turns)
	}

	turns, err = layered.RecentTurns(context.Background(), "s2", 5)
	if err != nil {
		t.Fatalf("RecentTurns empty: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected no turns for unknown session")
	}
}
