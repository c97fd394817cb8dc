package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookcrews/community-platform/internal/engine"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/internal/session"
	"github.com/bookcrews/community-platform/pkg/logger"
)

func newRecommendFixture() *RecommendHandler {
	store := session.NewMemoryStore(2*time.Hour, logger.NewNop())
	eng := engine.New(nil, store, nil, logger.NewNop(), engine.Options{})
	return NewRecommendHandler(eng, logger.NewNop())
}

func TestSearchRequiresQuery(t *testing.T) {
	h := newRecommendFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/search", strings.NewReader(`{"page":1}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query")
}

func TestSearchAlwaysAnswers(t *testing.T) {
	h := newRecommendFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/search", strings.NewReader(`{"query":"windswept moors","page":2}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.True(t, resp.HasMore)
	assert.Equal(t, model.SourceFallback, resp.Source)
	assert.NotEmpty(t, resp.Recommendations)
}

func TestCharacterRequiresInput(t *testing.T) {
	h := newRecommendFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/character", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ByCharacter(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetailRequiresTitle(t *testing.T) {
	h := newRecommendFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/detail", nil)
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetailAnswersFromCatalog(t *testing.T) {
	h := newRecommendFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/detail?title=Circe", nil)
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.DetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Book)
	assert.Equal(t, "Circe", resp.Book.Title)
	assert.Equal(t, model.SourceFallback, resp.Source)
}
