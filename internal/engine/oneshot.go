package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookcrews/community-platform/internal/catalog"
	"github.com/bookcrews/community-platform/internal/extract"
	"github.com/bookcrews/community-platform/internal/llm"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/metrics"
)

// Search is the session-less direct recommendation path: a single-shot
// instruction plus the user's query. Absence of a parseable payload falls
// back to the catalog immediately.
func (e *Engine) Search(ctx context.Context, query string, page int) ([]model.BookRecommendation, model.RecommendationSource) {
	if page < 1 {
		page = 1
	}
	recs, ok := e.oneShotArray(ctx, "search", searchInstruction(page), query)
	if !ok {
		return catalog.Page(page), model.SourceFallback
	}
	return recs, model.SourceGenerative
}

// ByCharacter recommends books featuring a kind of character.
func (e *Engine) ByCharacter(ctx context.Context, character string) ([]model.BookRecommendation, model.RecommendationSource) {
	recs, ok := e.oneShotArray(ctx, "character", characterInstruction, character)
	if !ok {
		return catalog.Page(1), model.SourceFallback
	}
	return recs, model.SourceGenerative
}

// Similar recommends read-alikes for a given title.
func (e *Engine) Similar(ctx context.Context, title string) ([]model.BookRecommendation, model.RecommendationSource) {
	recs, ok := e.oneShotArray(ctx, "similar", similarInstruction, title)
	if !ok {
		return catalog.Page(1), model.SourceFallback
	}
	return recs, model.SourceGenerative
}

// Detail looks up metadata for a single title.
func (e *Engine) Detail(ctx context.Context, title string) (*model.BookDetail, model.RecommendationSource) {
	if e.llm != nil {
		if content, ok := e.complete(ctx, "detail", detailInstruction, title); ok {
			var detail model.BookDetail
			if extract.Object(content, &detail) && detail.Title != "" {
				return &detail, model.SourceGenerative
			}
		}
	}
	metrics.FallbackServed.WithLabelValues("detail").Inc()
	return catalog.Detail(title), model.SourceFallback
}

func (e *Engine) oneShotArray(ctx context.Context, surface, instruction, input string) ([]model.BookRecommendation, bool) {
	if e.llm == nil {
		metrics.FallbackServed.WithLabelValues(surface).Inc()
		return nil, false
	}

	content, ok := e.complete(ctx, surface, instruction, input)
	if !ok {
		metrics.FallbackServed.WithLabelValues(surface).Inc()
		return nil, false
	}

	recs, ok := extract.Array(content)
	if !ok {
		metrics.FallbackServed.WithLabelValues(surface).Inc()
		return nil, false
	}
	metrics.RecommendationsTotal.WithLabelValues(surface, string(model.SourceGenerative)).Inc()
	return recs, true
}

func (e *Engine) complete(ctx context.Context, surface, instruction, input string) (string, bool) {
	start := time.Now()
	resp, err := e.llm.Complete(ctx, &llm.CompletionRequest{
		System:      instruction,
		Messages:    []llm.ChatMessage{{Role: string(model.RoleUser), Content: input}},
		MaxTokens:   chatMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		metrics.RecordCompletion(surface, "error", time.Since(start).Seconds(), 0, 0)
		e.log.Warn("one-shot completion failed",
			zap.String("surface", surface),
			zap.Error(err),
		)
		return "", false
	}
	metrics.RecordCompletion(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	return resp.Content, true
}
