package trending

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookcrews/community-platform/internal/catalog"
	"github.com/bookcrews/community-platform/internal/llm"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/logger"
)

// stubClient returns canned content and counts invocations.
type stubClient struct {
	calls   int
	content string
	err     error
}

func (s *stubClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content, Model: "stub"}, nil
}

func (s *stubClient) Name() string     { return "stub" }
func (s *stubClient) Models() []string { return nil }

func booksJSON(t *testing.T, titles ...string) string {
	t.Helper()
	books := make([]model.BookRecommendation, len(titles))
	for i, title := range titles {
		books[i] = model.BookRecommendation{Title: title, Author: "A"}
	}
	data, err := json.Marshal(books)
	require.NoError(t, err)
	return string(data)
}

func TestGetCachesPageOne(t *testing.T) {
	stub := &stubClient{content: booksJSON(t, "B1", "B2", "B3", "B4", "B5")}
	c := New(stub, nil, DefaultTTL, logger.NewNop())

	first, cached, source := c.Get(context.Background(), 1, false)
	assert.False(t, cached)
	assert.Equal(t, model.SourceGenerative, source)
	require.Len(t, first, 5)

	second, cached, source := c.Get(context.Background(), 1, false)
	assert.True(t, cached)
	assert.Equal(t, model.SourceGenerative, source)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestGetExpiredEntryRefetches(t *testing.T) {
	stub := &stubClient{content: booksJSON(t, "B1")}
	c := New(stub, nil, DefaultTTL, logger.NewNop())

	c.Get(context.Background(), 1, false)
	require.Equal(t, 1, stub.calls)

	// Age the entry past the TTL.
	c.clock = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, cached, _ := c.Get(context.Background(), 1, false)
	assert.False(t, cached)
	assert.Equal(t, 2, stub.calls)
}

func TestGetOtherPagesBypassCache(t *testing.T) {
	stub := &stubClient{content: booksJSON(t, "B1")}
	c := New(stub, nil, DefaultTTL, logger.NewNop())

	c.Get(context.Background(), 1, false)
	_, cached, _ := c.Get(context.Background(), 2, false)
	assert.False(t, cached)
	assert.Equal(t, 2, stub.calls)

	// Page 2 must not have overwritten the page-1 slot.
	_, cached, _ = c.Get(context.Background(), 1, false)
	assert.True(t, cached)
}

func TestGetForceAlwaysAttemptsFetch(t *testing.T) {
	stub := &stubClient{content: booksJSON(t, "B1")}
	c := New(stub, nil, DefaultTTL, logger.NewNop())

	c.Get(context.Background(), 1, false)
	c.Get(context.Background(), 1, true)
	assert.Equal(t, 2, stub.calls)
}

func TestFailedForcedRefreshDoesNotCorruptCache(t *testing.T) {
	stub := &stubClient{content: booksJSON(t, "Original")}
	c := New(stub, nil, DefaultTTL, logger.NewNop())

	first, _, _ := c.Get(context.Background(), 1, false)
	require.Equal(t, "Original", first[0].Title)

	stub.err = errors.New("upstream down")
	degraded, cached, source := c.Get(context.Background(), 1, true)
	assert.False(t, cached)
	assert.Equal(t, model.SourceFallback, source)
	assert.Equal(t, catalog.Page(1), degraded)

	// The pre-refresh entry is still fresh and still servable.
	after, cached, _ := c.Get(context.Background(), 1, false)
	assert.True(t, cached)
	assert.Equal(t, first, after)
}

func TestGetFallsBackWithoutClient(t *testing.T) {
	c := New(nil, nil, DefaultTTL, logger.NewNop())

	for page := 1; page <= 8; page++ {
		books, cached, source := c.Get(context.Background(), page, false)
		assert.False(t, cached)
		assert.Equal(t, model.SourceFallback, source)
		assert.Equal(t, catalog.Page(page), books)
		require.NotEmpty(t, books)
		assert.LessOrEqual(t, len(books), 5)
	}
}

func TestGetFallsBackOnUnparseableReply(t *testing.T) {
	stub := &stubClient{content: "I couldn't come up with a list, sorry!"}
	c := New(stub, nil, DefaultTTL, logger.NewNop())

	books, cached, source := c.Get(context.Background(), 1, false)
	assert.False(t, cached)
	assert.Equal(t, model.SourceFallback, source)
	assert.Equal(t, catalog.Page(1), books)
}

func TestFetchPromptMentionsDateAndOffset(t *testing.T) {
	var captured *llm.CompletionRequest
	capturing := &captureClient{content: booksJSON(t, "B1")}
	c := New(capturing, nil, DefaultTTL, logger.NewNop())

	c.Get(context.Background(), 3, false)
	captured = capturing.last
	require.NotNil(t, captured)
	assert.Contains(t, captured.Messages[0].Content, time.Now().Format("January 2, 2006"))
	assert.Contains(t, captured.Messages[0].Content, "skipping the first 10")
}

// captureClient records the last request it served.
type captureClient struct {
	content string
	last    *llm.CompletionRequest
}

func (c *captureClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.last = req
	return &llm.CompletionResponse{Content: c.content, Model: "stub"}, nil
}

func (c *captureClient) Name() string     { return "capture" }
func (c *captureClient) Models() []string { return nil }
