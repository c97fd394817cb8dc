// Package engine drives the multi-turn book-recommendation dialog. The
// state machine is implicit in (exchange count, has-recommended, more
// signal): the first exchange clarifies, the next ones recommend when the
// model judges it has enough signal, and by the third exchange a
// recommendation list is guaranteed regardless of what the model produced.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookcrews/community-platform/internal/catalog"
	"github.com/bookcrews/community-platform/internal/events"
	"github.com/bookcrews/community-platform/internal/extract"
	"github.com/bookcrews/community-platform/internal/llm"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/internal/session"
	"github.com/bookcrews/community-platform/pkg/logger"
	"github.com/bookcrews/community-platform/pkg/metrics"
)

// Defaults for the conversation strategy.
const (
	DefaultHistoryWindow = 14
	DefaultForceAt       = 3

	chatTemperature = 0.8
	chatMaxTokens   = 1024
)

// Engine is the conversational recommendation engine.
type Engine struct {
	llm           llm.Client // nil when the capability is unconfigured
	sessions      session.Store
	pub           events.Publisher
	log           *logger.Logger
	historyWindow int
	forceAt       int
}

// Options tune the conversation strategy.
type Options struct {
	HistoryWindow int
	ForceAt       int
}

// New creates a conversation engine. client may be nil; every turn then
// takes the deterministic catalog path.
func New(client llm.Client, sessions session.Store, pub events.Publisher, log *logger.Logger, opts Options) *Engine {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}
	if opts.ForceAt <= 0 {
		opts.ForceAt = DefaultForceAt
	}
	if pub == nil {
		pub = events.Noop{}
	}
	e := &Engine{
		llm:           client,
		sessions:      sessions,
		pub:           pub,
		log:           log,
		historyWindow: opts.HistoryWindow,
		forceAt:       opts.ForceAt,
	}
	if client == nil {
		log.Warn("generative capability unconfigured, recommendation chat runs on the catalog path")
	}
	return e
}

// Chat runs one conversational turn. It never returns an error: every
// capability failure degrades to a deterministic catalog-backed reply.
func (e *Engine) Chat(ctx context.Context, sessionID, message string) *model.ChatResponse {
	sess := e.sessions.GetOrCreate(sessionID)
	sess.Append(model.RoleUser, message)
	sess.ExchangeCount++

	wantsMore := moreSignal(message)

	reply, recs, source := e.turn(ctx, sess, wantsMore)

	if len(recs) > 0 {
		sess.HasRecommended = true
		metrics.RecommendationsTotal.WithLabelValues("chat", string(source)).Inc()
	}

	sess.Append(model.RoleAssistant, reply)
	e.sessions.Upsert(sess)

	e.pub.PublishChatTurn(ctx, &events.ChatTurnEvent{
		SessionID:          sess.ID,
		ExchangeCount:      sess.ExchangeCount,
		HasRecommendations: len(recs) > 0,
		Source:             source,
		CreatedAt:          time.Now(),
	})

	return &model.ChatResponse{
		Reply:              reply,
		HasRecommendations: len(recs) > 0,
		Recommendations:    recs,
		SessionID:          sess.ID,
		ExchangeCount:      sess.ExchangeCount,
	}
}

// turn produces the visible reply and any recommendation set for the turn
// the user message has already been appended to.
func (e *Engine) turn(ctx context.Context, sess *model.Session, wantsMore bool) (string, []model.BookRecommendation, model.RecommendationSource) {
	if e.llm == nil {
		return e.deterministicTurn(sess)
	}

	history := sess.Recent(e.historyWindow)
	messages := make([]llm.ChatMessage, len(history))
	for i, msg := range history {
		messages[i] = llm.ChatMessage{Role: string(msg.Role), Content: msg.Content}
	}

	start := time.Now()
	resp, err := e.llm.Complete(ctx, &llm.CompletionRequest{
		System:      chatInstruction(sess.ExchangeCount, sess.HasRecommended, wantsMore, e.forceAt),
		Messages:    messages,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		// No retry within the turn; the next user turn is the retry.
		metrics.RecordCompletion("chat", "error", time.Since(start).Seconds(), 0, 0)
		e.log.Warn("chat completion failed, taking catalog path",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return e.deterministicTurn(sess)
	}
	metrics.RecordCompletion(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	recs, visible, found := extract.Recommendations(resp.Content)
	if found {
		return visible, recs, model.SourceGenerative
	}

	// Inviolable rule: past the forcing threshold the caller always gets a
	// non-empty recommendation list.
	if sess.ExchangeCount >= e.forceAt {
		metrics.FallbackServed.WithLabelValues("chat").Inc()
		if visible != "" {
			visible += " "
		}
		return visible + invitation, fallbackSet(sess.ExchangeCount), model.SourceFallback
	}

	return visible, nil, model.SourceGenerative
}

// deterministicTurn is the capability-free reply: a static clarifying
// question on the first exchange, a catalog recommendation afterwards.
func (e *Engine) deterministicTurn(sess *model.Session) (string, []model.BookRecommendation, model.RecommendationSource) {
	if sess.ExchangeCount < 2 {
		return staticClarify, nil, model.SourceFallback
	}
	metrics.FallbackServed.WithLabelValues("chat").Inc()
	return staticRecommend + " " + invitation, fallbackSet(sess.ExchangeCount), model.SourceFallback
}

// fallbackSet derives the catalog page for the current exchange so repeated
// "more" turns within a session rotate rather than repeat.
func fallbackSet(exchangeCount int) []model.BookRecommendation {
	page := exchangeCount - 1
	if page < 1 {
		page = 1
	}
	return catalog.Page(page)
}
