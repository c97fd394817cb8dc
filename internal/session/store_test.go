package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/logger"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(2*time.Hour, logger.NewNop())
}

func TestGetOrCreateIsLazy(t *testing.T) {
	store := newTestStore()
	assert.Equal(t, 0, store.Len())

	sess := store.GetOrCreate("abc")
	require.NotNil(t, sess)
	assert.Equal(t, "abc", sess.ID)
	assert.Equal(t, 0, sess.ExchangeCount)
	assert.False(t, sess.HasRecommended)
	assert.Equal(t, 1, store.Len())

	again := store.GetOrCreate("abc")
	assert.Same(t, sess, again)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCreateEmptyIDUsesDefault(t *testing.T) {
	store := newTestStore()
	sess := store.GetOrCreate("")
	assert.Equal(t, model.DefaultSessionID, sess.ID)
}

func TestSweepRemovesExpiredOnly(t *testing.T) {
	store := newTestStore()

	old := store.GetOrCreate("old")
	old.CreatedAt = time.Now().Add(-3 * time.Hour)
	store.Upsert(old)

	fresh := store.GetOrCreate("fresh")
	fresh.CreatedAt = time.Now().Add(-30 * time.Minute)
	store.Upsert(fresh)

	removed := store.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	// The surviving session keeps its state; the expired one is rebuilt
	// from scratch on the next reference.
	assert.Same(t, fresh, store.GetOrCreate("fresh"))
	rebuilt := store.GetOrCreate("old")
	assert.NotSame(t, old, rebuilt)
	assert.Equal(t, 0, rebuilt.ExchangeCount)
}

func TestSweepIdle(t *testing.T) {
	store := newTestStore()
	store.GetOrCreate("live")
	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestSessionHistoryHelpers(t *testing.T) {
	sess := &model.Session{ID: "s"}
	for i := 0; i < 20; i++ {
		sess.Append(model.RoleUser, "msg")
	}
	assert.Len(t, sess.Messages, 20)
	assert.Len(t, sess.Recent(14), 14)
	assert.Len(t, sess.Recent(50), 20)
}
