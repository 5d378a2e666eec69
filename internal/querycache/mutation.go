package querycache

import (
	"context"
	"errors"
	"fmt"
)

type MutationSpec struct {
	Endpoint    string
	Invalidates []Tag
	// Optimistic runs before Run is dispatched. Its patches are kept when Run
	// succeeds and undone when Run fails.
	Optimistic func(ctx context.Context, c *Cache) ([]*PatchResult, error)
	Run        func(ctx context.Context) error
}

// Mutate runs a mutation and invalidates its tags once it succeeds. The error
// from Run is returned as-is unless undoing an optimistic patch also fails.
func (c *Cache) Mutate(ctx context.Context, spec MutationSpec) error {
	if spec.Run == nil {
		return fmt.Errorf("mutation %s: run func is required", spec.Endpoint)
	}

	var patches []*PatchResult
	if spec.Optimistic != nil {
		applied, err := spec.Optimistic(ctx, c)
		if err != nil {
			return fmt.Errorf("mutation %s: apply optimistic update: %w", spec.Endpoint, err)
		}
		patches = applied
	}

	if err := spec.Run(ctx); err != nil {
		var undoErr error
		for i := len(patches) - 1; i >= 0; i-- {
			// The mutation may have been cancelled; the rollback must still land.
			if rollbackErr := patches[i].Undo(context.WithoutCancel(ctx)); rollbackErr != nil {
				undoErr = errors.Join(undoErr, rollbackErr)
			}
		}
		if undoErr != nil {
			return fmt.Errorf("mutation %s failed and rollback failed: %w", spec.Endpoint, errors.Join(err, undoErr))
		}
		if len(patches) > 0 {
			c.logger.Info("optimistic update rolled back", "endpoint", spec.Endpoint, "patches", len(patches), "error", err)
		}
		return err
	}

	c.InvalidateTags(ctx, spec.Invalidates...)
	return nil
}
