package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/ports"
	"github.com/bnema/taskflow-cli/internal/querycache"
)

const (
	GroupAuth  = "auth"
	GroupTasks = "tasks"
)

const (
	EndpointLogin        = ports.EndpointLogin
	EndpointRegister     = ports.EndpointRegister
	EndpointRefreshToken = ports.EndpointRefreshToken
	EndpointLogout       = ports.EndpointLogout

	EndpointGetTasks   = ports.EndpointGetTasks
	EndpointGetTask    = ports.EndpointGetTask
	EndpointCreateTask = ports.EndpointCreateTask
	EndpointUpdateTask = ports.EndpointUpdateTask
	EndpointMoveTask   = ports.EndpointMoveTask
	EndpointDeleteTask = ports.EndpointDeleteTask
)

type UpdateTaskArgs = ports.UpdateTaskArgs

type moveTaskBody struct {
	NewStage string `json:"newStage"`
}

func AuthEndpoints() []Endpoint {
	return []Endpoint{
		{
			Name:   EndpointLogin,
			Kind:   KindMutation,
			Method: http.MethodPost,
			Path:   staticPath("/auth/login"),
			Public: true,
			Body:   passBody[domain.LoginRequest](EndpointLogin),
		},
		{
			Name:   EndpointRegister,
			Kind:   KindMutation,
			Method: http.MethodPost,
			Path:   staticPath("/auth/register"),
			Public: true,
			Body:   passBody[domain.RegisterRequest](EndpointRegister),
		},
		{
			Name:   EndpointRefreshToken,
			Kind:   KindMutation,
			Method: http.MethodPost,
			Path:   staticPath("/auth/refresh-token"),
			Public: true,
			Body:   passBody[domain.RefreshTokenRequest](EndpointRefreshToken),
		},
		{
			Name:   EndpointLogout,
			Kind:   KindMutation,
			Method: http.MethodPost,
			Path:   staticPath("/auth/logout"),
			Public: true,
			Body:   passBody[domain.RefreshTokenRequest](EndpointLogout),
		},
	}
}

func TaskEndpoints() []Endpoint {
	taskList := func(any) []querycache.Tag {
		return []querycache.Tag{querycache.TypeTag(querycache.TagTask)}
	}

	return []Endpoint{
		{
			Name:     EndpointGetTasks,
			Kind:     KindQuery,
			Method:   http.MethodGet,
			Path:     staticPath("/tasks"),
			Provides: taskList,
		},
		{
			Name:   EndpointGetTask,
			Kind:   KindQuery,
			Method: http.MethodGet,
			Path:   taskPath[domain.TaskID](EndpointGetTask, func(id domain.TaskID) domain.TaskID { return id }, ""),
			Provides: func(args any) []querycache.Tag {
				id, _ := args.(domain.TaskID)
				return []querycache.Tag{querycache.IDTag(querycache.TagTask, string(id))}
			},
		},
		{
			Name:        EndpointCreateTask,
			Kind:        KindMutation,
			Method:      http.MethodPost,
			Path:        staticPath("/tasks"),
			Body:        passBody[domain.CreateTaskRequest](EndpointCreateTask),
			Invalidates: taskList,
		},
		{
			Name:   EndpointUpdateTask,
			Kind:   KindMutation,
			Method: http.MethodPut,
			Path:   taskPath[UpdateTaskArgs](EndpointUpdateTask, func(a UpdateTaskArgs) domain.TaskID { return a.ID }, ""),
			Body: func(args any) (any, error) {
				a, err := argsAs[UpdateTaskArgs](EndpointUpdateTask, args)
				if err != nil {
					return nil, err
				}
				return a.Data, nil
			},
			Invalidates: func(args any) []querycache.Tag {
				a, _ := args.(UpdateTaskArgs)
				return []querycache.Tag{
					querycache.TypeTag(querycache.TagTask),
					querycache.IDTag(querycache.TagTask, string(a.ID)),
				}
			},
		},
		{
			Name:   EndpointMoveTask,
			Kind:   KindMutation,
			Method: http.MethodPatch,
			Path:   taskPath[domain.MoveTaskRequest](EndpointMoveTask, func(r domain.MoveTaskRequest) domain.TaskID { return r.TaskID }, "/move"),
			Body: func(args any) (any, error) {
				r, err := argsAs[domain.MoveTaskRequest](EndpointMoveTask, args)
				if err != nil {
					return nil, err
				}
				return moveTaskBody{NewStage: r.NewStage}, nil
			},
			Invalidates: taskList,
		},
		{
			Name:        EndpointDeleteTask,
			Kind:        KindMutation,
			Method:      http.MethodDelete,
			Path:        taskPath[domain.TaskID](EndpointDeleteTask, func(id domain.TaskID) domain.TaskID { return id }, ""),
			Invalidates: taskList,
		},
	}
}

func staticPath(path string) func(any) (string, error) {
	return func(any) (string, error) {
		return path, nil
	}
}

// taskPath builds /tasks/{id}{suffix} with the id path-escaped.
func taskPath[T any](endpoint string, id func(T) domain.TaskID, suffix string) func(any) (string, error) {
	return func(args any) (string, error) {
		a, err := argsAs[T](endpoint, args)
		if err != nil {
			return "", err
		}
		taskID := strings.TrimSpace(string(id(a)))
		if taskID == "" {
			return "", fmt.Errorf("task id is required")
		}
		return "/tasks/" + url.PathEscape(taskID) + suffix, nil
	}
}

func passBody[T any](endpoint string) func(any) (any, error) {
	return func(args any) (any, error) {
		return argsAs[T](endpoint, args)
	}
}

func argsAs[T any](endpoint string, args any) (T, error) {
	typed, ok := args.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("endpoint %s: unexpected args type %T (want %T)", endpoint, args, zero)
	}
	return typed, nil
}
