package querycache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveOptimistic(id, stage string) func(context.Context, *Cache) ([]*PatchResult, error) {
	return func(ctx context.Context, c *Cache) ([]*PatchResult, error) {
		patch, err := c.UpdateQueryData(ctx, "getTasks", nil, func(d *Draft) error {
			_, err := d.SetWhere("_id", id, "currentStage", stage)
			return err
		})
		if err != nil {
			return nil, err
		}
		return []*PatchResult{patch}, nil
	}
}

func TestMutateAppliesOptimisticPatchBeforeRun(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	seedEntry(t, c, "getTasks", nil, `[{"_id":"1","currentStage":"todo"}]`, TypeTag(TagTask))

	var seenDuringRun string
	err := c.Mutate(context.Background(), MutationSpec{
		Endpoint:    "moveTask",
		Invalidates: []Tag{TypeTag(TagTask)},
		Optimistic:  moveOptimistic("1", "doing"),
		Run: func(context.Context) error {
			data, err := c.Data(KeyFor("getTasks", nil))
			require.NoError(t, err)
			seenDuringRun = string(data)
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `[{"_id":"1","currentStage":"doing"}]`, seenDuringRun)

	entry, ok := c.Entry(KeyFor("getTasks", nil))
	require.True(t, ok)
	assert.Equal(t, `[{"_id":"1","currentStage":"doing"}]`, string(entry.Data))
	assert.True(t, entry.Stale)
}

func TestMutateRollsBackAndReturnsRunErrorVerbatim(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	original := `[{"_id":"1","currentStage":"todo"}]`
	seedEntry(t, c, "getTasks", nil, original, TypeTag(TagTask))

	runErr := errors.New("status 500: boom")
	err := c.Mutate(context.Background(), MutationSpec{
		Endpoint:    "moveTask",
		Invalidates: []Tag{TypeTag(TagTask)},
		Optimistic:  moveOptimistic("1", "doing"),
		Run:         func(context.Context) error { return runErr },
	})
	require.Same(t, runErr, err)

	entry, ok := c.Entry(KeyFor("getTasks", nil))
	require.True(t, ok)
	assert.Equal(t, original, string(entry.Data))
	assert.False(t, entry.Stale)
}

func TestMutateSuccessRefetchesSubscribedQueries(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var calls atomic.Int32
	spec := listSpec(&calls, `[{"_id":"1","currentStage":"todo"}]`)
	sub := c.Subscribe(spec)
	t.Cleanup(sub.Close)
	_, err := c.Query(context.Background(), spec)
	require.NoError(t, err)

	err = c.Mutate(context.Background(), MutationSpec{
		Endpoint:    "createTask",
		Invalidates: []Tag{TypeTag(TagTask)},
		Run:         func(context.Context) error { return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMutateFailureLeavesCacheFresh(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	seedEntry(t, c, "getTasks", nil, `[]`, TypeTag(TagTask))

	err := c.Mutate(context.Background(), MutationSpec{
		Endpoint:    "deleteTask",
		Invalidates: []Tag{TypeTag(TagTask)},
		Run:         func(context.Context) error { return errors.New("status 404") },
	})
	require.Error(t, err)

	entry, ok := c.Entry(KeyFor("getTasks", nil))
	require.True(t, ok)
	assert.False(t, entry.Stale)
}

func TestMutateOptimisticErrorSkipsRun(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	ran := false
	err := c.Mutate(context.Background(), MutationSpec{
		Endpoint: "moveTask",
		Optimistic: func(context.Context, *Cache) ([]*PatchResult, error) {
			return nil, errors.New("bad recipe")
		},
		Run: func(context.Context) error {
			ran = true
			return nil
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply optimistic update")
	assert.False(t, ran)
}
