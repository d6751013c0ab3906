package service

import (
	"clarity_hub_backend/internal/util"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetailFixture(t *testing.T, cache DetailCache) (*SubtopicDetailService, *memRoadmapStore, *scriptedGenerator) {
	t.Helper()
	store := newMemRoadmapStore()

	// 两份不同的路线图都包含 BFS
	roadmaps := NewRoadmapService(store, graphTheoryGenerator())
	_, err := roadmaps.Create(context.Background(), owner, graphTheoryRequest())
	require.NoError(t, err)
	_, err = roadmaps.Create(context.Background(), stranger, graphTheoryRequest())
	require.NoError(t, err)

	gen := &scriptedGenerator{detail: "Breadth-first search visits nodes level by level."}
	return NewSubtopicDetailService(store, cache, gen, time.Hour), store, gen
}

func TestSubtopicDetail_MissThenHit(t *testing.T) {
	svc, store, gen := newDetailFixture(t, nil)
	ctx := context.Background()

	text, err := svc.GetDetail(ctx, owner, "BFS")
	require.NoError(t, err)
	assert.Equal(t, "Breadth-first search visits nodes level by level.", text)
	assert.Equal(t, 1, gen.detailCallCount())

	assert.Equal(t, text, store.details["BFS"])

	// 同一主题下的其他子主题不受影响
	_, found, err := store.FindGeneratedText(ctx, "DFS")
	require.NoError(t, err)
	assert.False(t, found)

	again, err := svc.GetDetail(ctx, stranger, "BFS")
	require.NoError(t, err)
	assert.Equal(t, text, again)
	assert.Equal(t, 1, gen.detailCallCount())
}

func TestSubtopicDetail_CacheLayerShortCircuits(t *testing.T) {
	cache := newMemDetailCache()
	cache.entries["DFS"] = "cached explanation"
	svc, _, gen := newDetailFixture(t, cache)

	text, err := svc.GetDetail(context.Background(), owner, "DFS")
	require.NoError(t, err)
	assert.Equal(t, "cached explanation", text)
	assert.Zero(t, gen.detailCallCount())
}

func TestSubtopicDetail_GeneratedTextIsCached(t *testing.T) {
	cache := newMemDetailCache()
	svc, _, gen := newDetailFixture(t, cache)

	_, err := svc.GetDetail(context.Background(), owner, "  BFS ")
	require.NoError(t, err)
	assert.Equal(t, gen.detail, cache.entries["BFS"])
}

func TestSubtopicDetail_ConcurrentMissesCallProviderOnce(t *testing.T) {
	svc, _, gen := newDetailFixture(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := svc.GetDetail(context.Background(), owner, "DFS")
			assert.NoError(t, err)
			assert.Equal(t, gen.detail, text)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, gen.detailCallCount())
}

func TestSubtopicDetail_Errors(t *testing.T) {
	svc, store, gen := newDetailFixture(t, nil)
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, owner, "   ")
	var validationErr *util.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "name", validationErr.Issues[0].Field)

	_, err = svc.GetDetail(ctx, "", "BFS")
	assert.ErrorIs(t, err, util.ErrUnauthenticated)

	gen.err = &util.UpstreamError{Op: "detail", Status: 503, Err: errors.New("unavailable")}
	_, err = svc.GetDetail(ctx, owner, "BFS")
	assert.ErrorIs(t, err, util.ErrUpstream)

	_, found, err := store.FindGeneratedText(ctx, "BFS")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSubtopicDetail_Warm(t *testing.T) {
	svc, store, gen := newDetailFixture(t, nil)
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, owner, "BFS")
	require.NoError(t, err)

	warmed, err := svc.Warm(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, warmed)
	assert.Equal(t, []string{"BFS", "DFS"}, gen.detailCalls)
	assert.Equal(t, gen.detail, store.details["DFS"])

	pending, err := store.PendingSubtopics(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	warmed, err = svc.Warm(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, warmed)
	assert.Equal(t, 2, gen.detailCallCount())
}

func TestSubtopicDetail_WarmSkipsFailures(t *testing.T) {
	svc, store, gen := newDetailFixture(t, nil)
	gen.err = &util.UpstreamError{Op: "detail", Status: 500, Err: errors.New("down")}

	warmed, err := svc.Warm(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, warmed)
	assert.Equal(t, []string{"BFS"}, gen.detailCalls)
	assert.Empty(t, store.details)
}
