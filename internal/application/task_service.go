package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/ports"
	"github.com/bnema/taskflow-cli/internal/querycache"
	"github.com/bnema/taskflow-cli/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// TagResolver reports the cache tags an endpoint provides or invalidates.
type TagResolver interface {
	ProvidedTags(endpoint string, args any) []querycache.Tag
	InvalidatedTags(endpoint string, args any) []querycache.Tag
}

// TaskService runs task queries through the query cache and task mutations
// through cache-aware mutations.
type TaskService struct {
	api    ports.TaskAPI
	cache  *querycache.Cache
	tags   TagResolver
	logger *slog.Logger
	tracer trace.Tracer
}

func NewTaskService(api ports.TaskAPI, cache *querycache.Cache, tags TagResolver, logger *slog.Logger, tracer trace.Tracer) *TaskService {
	if logger == nil {
		logger = telemetry.Discard()
	}
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &TaskService{
		api:    api,
		cache:  cache,
		tags:   tags,
		logger: logger.With("component", "tasks"),
		tracer: tracer,
	}
}

func (s *TaskService) listSpec() querycache.QuerySpec {
	return querycache.QuerySpec{
		Endpoint: ports.EndpointGetTasks,
		Tags:     s.tags.ProvidedTags(ports.EndpointGetTasks, nil),
		Fetch: func(ctx context.Context) ([]byte, error) {
			return s.api.ListTasks(ctx)
		},
	}
}

func (s *TaskService) taskSpec(id domain.TaskID) querycache.QuerySpec {
	return querycache.QuerySpec{
		Endpoint: ports.EndpointGetTask,
		Args:     id,
		Tags:     s.tags.ProvidedTags(ports.EndpointGetTask, id),
		Fetch: func(ctx context.Context) ([]byte, error) {
			return s.api.GetTask(ctx, id)
		},
	}
}

func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	raw, err := s.cache.Query(ctx, s.listSpec())
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return decodeTasks(raw)
}

func (s *TaskService) GetTask(ctx context.Context, id domain.TaskID) (domain.Task, error) {
	if strings.TrimSpace(string(id)) == "" {
		return domain.Task{}, fmt.Errorf("%w: task id is required", domain.ErrInvalidTask)
	}

	raw, err := s.cache.Query(ctx, s.taskSpec(id))
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	var task domain.Task
	if err := json.Unmarshal(trimmed, &task); err != nil {
		return domain.Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	return task, nil
}

// Board groups the task list into stage columns.
func (s *TaskService) Board(ctx context.Context) ([]domain.Column, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GroupByStage(tasks), nil
}

func (s *TaskService) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error) {
	if err := req.Validate(); err != nil {
		return domain.Task{}, err
	}

	var created domain.Task
	err := s.cache.Mutate(ctx, querycache.MutationSpec{
		Endpoint:    ports.EndpointCreateTask,
		Invalidates: s.tags.InvalidatedTags(ports.EndpointCreateTask, req),
		Run: func(ctx context.Context) error {
			task, err := s.api.CreateTask(ctx, req)
			if err != nil {
				return err
			}
			created = task
			return nil
		},
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	return created, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id domain.TaskID, req domain.UpdateTaskRequest) (domain.Task, error) {
	if strings.TrimSpace(string(id)) == "" {
		return domain.Task{}, fmt.Errorf("%w: task id is required", domain.ErrInvalidTask)
	}
	if err := req.Validate(); err != nil {
		return domain.Task{}, err
	}

	args := ports.UpdateTaskArgs{ID: id, Data: req}
	var updated domain.Task
	err := s.cache.Mutate(ctx, querycache.MutationSpec{
		Endpoint:    ports.EndpointUpdateTask,
		Invalidates: s.tags.InvalidatedTags(ports.EndpointUpdateTask, args),
		Run: func(ctx context.Context) error {
			task, err := s.api.UpdateTask(ctx, id, req)
			if err != nil {
				return err
			}
			updated = task
			return nil
		},
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}

	return updated, nil
}

// MoveTask sets the task's stage in every cached task list before the request
// is sent. The patches are undone if the request fails, and the API error is
// returned unwrapped.
func (s *TaskService) MoveTask(ctx context.Context, req domain.MoveTaskRequest) (domain.Task, error) {
	if err := req.Validate(); err != nil {
		return domain.Task{}, err
	}

	ctx, span := telemetry.StartSpan(ctx, s.tracer, "tasks.move",
		telemetry.AttrTaskID.String(string(req.TaskID)),
	)
	defer span.End()

	var moved domain.Task
	err := s.cache.Mutate(ctx, querycache.MutationSpec{
		Endpoint:    ports.EndpointMoveTask,
		Invalidates: s.tags.InvalidatedTags(ports.EndpointMoveTask, req),
		Optimistic: func(ctx context.Context, c *querycache.Cache) ([]*querycache.PatchResult, error) {
			return s.patchTaskLists(ctx, c, req)
		},
		Run: func(ctx context.Context) error {
			task, err := s.api.MoveTask(ctx, req)
			if err != nil {
				return err
			}
			moved = task
			return nil
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "move failed")
		s.logger.Warn("move task failed", "task_id", string(req.TaskID), "stage", req.NewStage, "error", err)
		return domain.Task{}, err
	}

	return moved, nil
}

func (s *TaskService) patchTaskLists(ctx context.Context, c *querycache.Cache, req domain.MoveTaskRequest) ([]*querycache.PatchResult, error) {
	keys := c.Keys(ports.EndpointGetTasks)
	patches := make([]*querycache.PatchResult, 0, len(keys))

	for _, key := range keys {
		patch, err := c.UpdateEntry(ctx, key, func(d *querycache.Draft) error {
			_, err := d.SetWhere("_id", string(req.TaskID), "currentStage", req.NewStage)
			return err
		})
		if err != nil {
			var undoErr error
			for i := len(patches) - 1; i >= 0; i-- {
				undoErr = errors.Join(undoErr, patches[i].Undo(ctx))
			}
			return nil, errors.Join(err, undoErr)
		}
		if !patch.Empty() {
			patches = append(patches, patch)
		}
	}

	return patches, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id domain.TaskID) error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: task id is required", domain.ErrInvalidTask)
	}

	err := s.cache.Mutate(ctx, querycache.MutationSpec{
		Endpoint:    ports.EndpointDeleteTask,
		Invalidates: s.tags.InvalidatedTags(ports.EndpointDeleteTask, id),
		Run: func(ctx context.Context) error {
			return s.api.DeleteTask(ctx, id)
		},
	})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// SubscribeTasks streams the task list each time its cache entry changes. The
// first snapshot is the current list and may be repeated by the first update.
// The channel closes when ctx is done or the cache is reset.
func (s *TaskService) SubscribeTasks(ctx context.Context) (<-chan TaskSnapshot, error) {
	spec := s.listSpec()
	sub := s.cache.Subscribe(spec)

	raw, err := s.cache.Query(ctx, spec)
	if err != nil {
		sub.Close()
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	initial, err := decodeTasks(raw)
	if err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan TaskSnapshot, 1)
	out <- TaskSnapshot{Tasks: initial}
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-sub.Updates():
				if !ok {
					return
				}
				snapshot, ready := snapshotFromUpdate(update)
				if !ready {
					continue
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func snapshotFromUpdate(update querycache.Update) (TaskSnapshot, bool) {
	switch update.Status {
	case querycache.StatusRejected:
		return TaskSnapshot{Stale: update.Stale, Err: update.Err}, true
	case querycache.StatusFulfilled:
	default:
		return TaskSnapshot{}, false
	}

	tasks, err := decodeTasks(update.Data)
	return TaskSnapshot{Tasks: tasks, Stale: update.Stale, Err: err}, true
}

func decodeTasks(raw []byte) ([]domain.Task, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.Task{}, nil
	}

	var tasks []domain.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}
