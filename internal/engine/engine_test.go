package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookcrews/community-platform/internal/catalog"
	"github.com/bookcrews/community-platform/internal/llm"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/internal/session"
	"github.com/bookcrews/community-platform/pkg/logger"
)

// scriptedClient replays canned replies in order and records every request.
type scriptedClient struct {
	replies  []string
	err      error
	requests []*llm.CompletionRequest
}

func (s *scriptedClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	idx := len(s.requests) - 1
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	return &llm.CompletionResponse{Content: s.replies[idx], Model: "stub"}, nil
}

func (s *scriptedClient) Name() string     { return "scripted" }
func (s *scriptedClient) Models() []string { return nil }

func newTestEngine(client llm.Client) (*Engine, session.Store) {
	store := session.NewMemoryStore(2*time.Hour, logger.NewNop())
	eng := New(client, store, nil, logger.NewNop(), Options{})
	return eng, store
}

func TestFirstExchangeClarifiesWithoutRecommending(t *testing.T) {
	stub := &scriptedClient{replies: []string{"What genre are you in the mood for?"}}
	eng, store := newTestEngine(stub)

	resp := eng.Chat(context.Background(), "s1", "hi, I need a book")

	assert.False(t, resp.HasRecommendations)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, 1, resp.ExchangeCount)
	assert.Equal(t, "What genre are you in the mood for?", resp.Reply)

	sess := store.GetOrCreate("s1")
	assert.False(t, sess.HasRecommended)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, model.RoleUser, sess.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, sess.Messages[1].Role)
}

func TestExtractedPayloadMarksRecommended(t *testing.T) {
	stub := &scriptedClient{replies: []string{
		"What do you usually read?",
		`Great, try these! <!--REC_START-->[{"title":"T1","author":"A1"},{"title":"T2","author":"A2"}]<!--REC_END-->`,
	}}
	eng, store := newTestEngine(stub)

	eng.Chat(context.Background(), "s1", "hi")
	resp := eng.Chat(context.Background(), "s1", "cozy fantasy please")

	assert.True(t, resp.HasRecommendations)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "T1", resp.Recommendations[0].Title)
	assert.Equal(t, "Great, try these!", resp.Reply)
	assert.NotContains(t, resp.Reply, "REC_START")

	assert.True(t, store.GetOrCreate("s1").HasRecommended)
}

func TestForcedRecommendByThirdExchange(t *testing.T) {
	// The model never produces a payload; by exchange three the engine must
	// substitute the catalog set anyway.
	stub := &scriptedClient{replies: []string{
		"Tell me more about what you like!",
		"Interesting, and what mood are you in?",
		"Hmm, let me think about that a little longer...",
	}}
	eng, store := newTestEngine(stub)

	eng.Chat(context.Background(), "s1", "hi")
	eng.Chat(context.Background(), "s1", "something adventurous")
	resp := eng.Chat(context.Background(), "s1", "surprise me")

	assert.Equal(t, 3, resp.ExchangeCount)
	assert.True(t, resp.HasRecommendations)
	assert.Equal(t, fallbackSet(3), resp.Recommendations)
	assert.Contains(t, resp.Reply, "Hmm, let me think")
	assert.Contains(t, resp.Reply, invitation)

	assert.True(t, store.GetOrCreate("s1").HasRecommended)
}

func TestMoreSignalVisibleToPrompt(t *testing.T) {
	stub := &scriptedClient{replies: []string{
		"What do you like?",
		`Here you go. <!--REC_START-->[{"title":"T1","author":"A1"}]<!--REC_END-->`,
		`More coming up! <!--REC_START-->[{"title":"T3","author":"A3"}]<!--REC_END-->`,
	}}
	eng, _ := newTestEngine(stub)

	eng.Chat(context.Background(), "s1", "hi")
	eng.Chat(context.Background(), "s1", "space opera")
	eng.Chat(context.Background(), "s1", "more")

	require.Len(t, stub.requests, 3)
	assert.Contains(t, stub.requests[1].System, "Reader is asking for more or different books: false")
	assert.Contains(t, stub.requests[2].System, "Reader is asking for more or different books: true")
	assert.Contains(t, stub.requests[2].System, "Recommendation already given in this conversation: true")
}

func TestPromptCarriesBoundedHistory(t *testing.T) {
	stub := &scriptedClient{replies: []string{"ok"}}
	eng, store := newTestEngine(stub)

	sess := store.GetOrCreate("s1")
	for i := 0; i < 30; i++ {
		sess.Append(model.RoleUser, "old turn")
	}
	store.Upsert(sess)

	eng.Chat(context.Background(), "s1", "latest")

	require.Len(t, stub.requests, 1)
	assert.Len(t, stub.requests[0].Messages, DefaultHistoryWindow)
	last := stub.requests[0].Messages[DefaultHistoryWindow-1]
	assert.Equal(t, "latest", last.Content)
}

func TestTransportFailureTakesDeterministicPath(t *testing.T) {
	stub := &scriptedClient{err: errors.New("gateway timeout")}
	eng, _ := newTestEngine(stub)

	first := eng.Chat(context.Background(), "s1", "hi")
	assert.False(t, first.HasRecommendations)
	assert.Equal(t, staticClarify, first.Reply)

	second := eng.Chat(context.Background(), "s1", "fantasy")
	assert.True(t, second.HasRecommendations)
	assert.Equal(t, fallbackSet(2), second.Recommendations)

	// One attempt per turn, never retried within a turn.
	assert.Len(t, stub.requests, 2)
}

func TestNilClientRunsCatalogPath(t *testing.T) {
	eng, _ := newTestEngine(nil)

	first := eng.Chat(context.Background(), "s1", "hello")
	assert.False(t, first.HasRecommendations)
	assert.Equal(t, staticClarify, first.Reply)

	second := eng.Chat(context.Background(), "s1", "thrillers")
	assert.True(t, second.HasRecommendations)
	assert.Equal(t, catalog.Page(1), second.Recommendations)
	assert.Equal(t, 2, second.ExchangeCount)
}

func TestSessionsAreIndependent(t *testing.T) {
	eng, _ := newTestEngine(nil)

	eng.Chat(context.Background(), "a", "hi")
	respB := eng.Chat(context.Background(), "b", "hi")

	assert.Equal(t, 1, respB.ExchangeCount)
}

func TestMoreSignalVocabulary(t *testing.T) {
	cases := map[string]bool{
		"more":                        true,
		"MORE please":                 true,
		"show me another":             true,
		"something different, please": true,
		"what else do you have?":      true,
		"next!":                       true,
		"moreover that was great":     false,
		"I like morel mushrooms":      false,
		"these are perfect":           false,
	}
	for input, want := range cases {
		assert.Equal(t, want, moreSignal(input), "input %q", input)
	}
}

func TestSearchFallsBackWithoutClient(t *testing.T) {
	eng, _ := newTestEngine(nil)

	recs, source := eng.Search(context.Background(), "sad cowboy novels", 2)
	assert.Equal(t, model.SourceFallback, source)
	assert.Equal(t, catalog.Page(2), recs)
}

func TestSearchUsesGenerativeReply(t *testing.T) {
	stub := &scriptedClient{replies: []string{`[{"title":"S1","author":"A"},{"title":"S2","author":"B"}]`}}
	eng, _ := newTestEngine(stub)

	recs, source := eng.Search(context.Background(), "sea stories", 1)
	assert.Equal(t, model.SourceGenerative, source)
	require.Len(t, recs, 2)
	assert.Equal(t, "S1", recs[0].Title)
}

func TestSearchFallsBackOnProseReply(t *testing.T) {
	stub := &scriptedClient{replies: []string{"I'd be happy to help, but tell me more first."}}
	eng, _ := newTestEngine(stub)

	recs, source := eng.Search(context.Background(), "anything", 1)
	assert.Equal(t, model.SourceFallback, source)
	assert.Equal(t, catalog.Page(1), recs)
}

func TestDetail(t *testing.T) {
	stub := &scriptedClient{replies: []string{`{"title":"Dune","author":"Frank Herbert","year":1965}`}}
	eng, _ := newTestEngine(stub)

	detail, source := eng.Detail(context.Background(), "Dune")
	assert.Equal(t, model.SourceGenerative, source)
	require.NotNil(t, detail)
	assert.Equal(t, "Frank Herbert", detail.Author)

	engOff, _ := newTestEngine(nil)
	detail, source = engOff.Detail(context.Background(), "Dune")
	assert.Equal(t, model.SourceFallback, source)
	assert.Equal(t, "Frank Herbert", detail.Author)
}
