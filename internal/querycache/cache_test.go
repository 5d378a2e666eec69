package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetch(doc string) FetchFunc {
	return func(context.Context) ([]byte, error) {
		return []byte(doc), nil
	}
}

func countingFetch(calls *atomic.Int32, doc string) FetchFunc {
	return func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(doc), nil
	}
}

func seedEntry(t *testing.T, c *Cache, endpoint string, args any, doc string, tags ...Tag) {
	t.Helper()

	_, err := c.Refetch(context.Background(), QuerySpec{
		Endpoint: endpoint,
		Args:     args,
		Tags:     tags,
		Fetch:    staticFetch(doc),
	})
	require.NoError(t, err)
}

func listSpec(calls *atomic.Int32, doc string) QuerySpec {
	return QuerySpec{
		Endpoint: "getTasks",
		Tags:     []Tag{TypeTag(TagTask)},
		Fetch:    countingFetch(calls, doc),
	}
}

func TestQueryServesFreshEntryFromCache(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var calls atomic.Int32
	spec := listSpec(&calls, `[{"_id":"1"}]`)

	first, err := c.Query(context.Background(), spec)
	require.NoError(t, err)
	second, err := c.Query(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	entry, ok := c.Entry(spec.Key())
	require.True(t, ok)
	assert.Equal(t, StatusFulfilled, entry.Status)
	assert.False(t, entry.Stale)
	assert.Equal(t, []Tag{TypeTag(TagTask)}, entry.Tags)
}

func TestQueryReturnsFetchErrorAndRetriesNextTime(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	fetchErr := errors.New("status 500")
	var calls atomic.Int32
	spec := QuerySpec{
		Endpoint: "getTasks",
		Fetch: func(context.Context) ([]byte, error) {
			if calls.Add(1) == 1 {
				return nil, fetchErr
			}
			return []byte(`[]`), nil
		},
	}

	_, err := c.Query(context.Background(), spec)
	require.ErrorIs(t, err, fetchErr)

	entry, ok := c.Entry(spec.Key())
	require.True(t, ok)
	assert.Equal(t, StatusRejected, entry.Status)

	data, err := c.Query(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
	assert.Equal(t, int32(2), calls.Load())
}

func TestConcurrentQueriesShareOneFetch(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	release := make(chan struct{})
	var calls atomic.Int32
	spec := QuerySpec{
		Endpoint: "getTasks",
		Fetch: func(context.Context) ([]byte, error) {
			calls.Add(1)
			<-release
			return []byte(`[]`), nil
		},
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Query(context.Background(), spec)
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestInvalidateTagsDefersRefetchWithoutSubscribers(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var calls atomic.Int32
	spec := listSpec(&calls, `[]`)

	_, err := c.Query(context.Background(), spec)
	require.NoError(t, err)

	keys := c.InvalidateTags(context.Background(), TypeTag(TagTask))
	assert.Equal(t, []Key{spec.Key()}, keys)
	assert.Equal(t, int32(1), calls.Load())

	entry, ok := c.Entry(spec.Key())
	require.True(t, ok)
	assert.True(t, entry.Stale)

	_, err = c.Query(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	entry, _ = c.Entry(spec.Key())
	assert.False(t, entry.Stale)
}

func TestInvalidateTagsRefetchesSubscribedEntries(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var calls atomic.Int32
	spec := listSpec(&calls, `[{"_id":"1"}]`)

	sub := c.Subscribe(spec)
	t.Cleanup(sub.Close)

	_, err := c.Query(context.Background(), spec)
	require.NoError(t, err)

	c.InvalidateTags(context.Background(), TypeTag(TagTask))
	assert.Equal(t, int32(2), calls.Load())

	entry, ok := c.Entry(spec.Key())
	require.True(t, ok)
	assert.False(t, entry.Stale)
	assert.Equal(t, StatusFulfilled, entry.Status)
	assert.Equal(t, 1, entry.Subscribers)

	var last Update
	for {
		select {
		case update := <-sub.Updates():
			last = update
			continue
		default:
		}
		break
	}
	assert.Equal(t, StatusFulfilled, last.Status)
	assert.Equal(t, `[{"_id":"1"}]`, string(last.Data))
}

func TestIDTagInvalidationLeavesOtherEntriesFresh(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	seedEntry(t, c, "getTasks", nil, `[]`, TypeTag(TagTask))
	seedEntry(t, c, "getTask", "1", `{"_id":"1"}`, IDTag(TagTask, "1"))
	seedEntry(t, c, "getTask", "2", `{"_id":"2"}`, IDTag(TagTask, "2"))

	keys := c.InvalidateTags(context.Background(), IDTag(TagTask, "1"))
	assert.Equal(t, []Key{KeyFor("getTask", "1")}, keys)

	for key, wantStale := range map[Key]bool{
		KeyFor("getTasks", nil): false,
		KeyFor("getTask", "1"):  true,
		KeyFor("getTask", "2"):  false,
	} {
		entry, ok := c.Entry(key)
		require.True(t, ok)
		assert.Equal(t, wantStale, entry.Stale, string(key))
	}
}

func TestInFlightQueryIsNotRetroactivelyInvalidated(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	seedEntry(t, c, "getTasks", nil, `[{"_id":"1","currentStage":"todo"}]`, TypeTag(TagTask))

	started := make(chan struct{})
	release := make(chan struct{})
	spec := QuerySpec{
		Endpoint: "getTasks",
		Tags:     []Tag{TypeTag(TagTask)},
		Fetch: func(context.Context) ([]byte, error) {
			close(started)
			<-release
			return []byte(`[{"_id":"1","currentStage":"doing"}]`), nil
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Refetch(context.Background(), spec)
		done <- err
	}()

	<-started
	c.InvalidateTags(context.Background(), TypeTag(TagTask))
	close(release)
	require.NoError(t, <-done)

	entry, ok := c.Entry(spec.Key())
	require.True(t, ok)
	assert.False(t, entry.Stale)
	assert.JSONEq(t, `[{"_id":"1","currentStage":"doing"}]`, string(entry.Data))
}

func TestQueryHonoursCallerCancellationWhileWaiting(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	spec := QuerySpec{
		Endpoint: "getTasks",
		Fetch: func(context.Context) ([]byte, error) {
			<-release
			return []byte(`[]`), nil
		},
	}

	go func() { _, _ = c.Query(context.Background(), spec) }()
	require.Eventually(t, func() bool {
		entry, ok := c.Entry(spec.Key())
		return ok && entry.Status == StatusPending
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Query(ctx, spec)
	require.ErrorIs(t, err, context.Canceled)
}

func TestUpdateQueryDataOnMissingEntryIsNoop(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	called := false
	patch, err := c.UpdateQueryData(context.Background(), "getTasks", nil, func(*Draft) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.True(t, patch.Empty())
	assert.NoError(t, patch.Undo(context.Background()))
}

func TestConcurrentPatchesUndoIndependently(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	original := `[{"_id":"1","currentStage":"todo"},{"_id":"2","currentStage":"todo"}]`
	seedEntry(t, c, "getTasks", nil, original)

	move := func(id, stage string) *PatchResult {
		patch, err := c.UpdateQueryData(context.Background(), "getTasks", nil, func(d *Draft) error {
			_, err := d.SetWhere("_id", id, "currentStage", stage)
			return err
		})
		require.NoError(t, err)
		return patch
	}

	first := move("1", "doing")
	second := move("2", "done")

	require.NoError(t, first.Undo(context.Background()))
	data, err := c.Data(KeyFor("getTasks", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"1","currentStage":"todo"},{"_id":"2","currentStage":"done"}]`, string(data))

	require.NoError(t, second.Undo(context.Background()))
	data, err = c.Data(KeyFor("getTasks", nil))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestResetDropsEntriesAndClosesSubscriptions(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	seedEntry(t, c, "getTasks", nil, `[]`, TypeTag(TagTask))
	sub := c.Subscribe(QuerySpec{Endpoint: "getTasks", Fetch: staticFetch(`[]`)})

	c.Reset()

	_, ok := c.Entry(KeyFor("getTasks", nil))
	assert.False(t, ok)
	assert.Empty(t, c.KeysForTags(TypeTag(TagTask)))

	_, open := <-sub.Updates()
	assert.False(t, open)
	assert.NotPanics(t, sub.Close)

	_, err := c.Data(KeyFor("getTasks", nil))
	require.ErrorIs(t, err, ErrNotCached)
}

func TestKeysListsEntriesOfEndpoint(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	seedEntry(t, c, "getTask", "2", `{}`)
	seedEntry(t, c, "getTask", "1", `{}`)
	seedEntry(t, c, "getTasks", nil, `[]`)

	assert.Equal(t, []Key{`getTask("1")`, `getTask("2")`}, c.Keys("getTask"))
	assert.Equal(t, []Key{"getTasks()"}, c.Keys("getTasks"))
}
