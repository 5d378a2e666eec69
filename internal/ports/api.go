package ports

import (
	"context"
	"encoding/json"

	"github.com/bnema/taskflow-cli/internal/domain"
)

// Endpoint names shared by the transport registry and the query cache keys.
const (
	EndpointLogin        = "login"
	EndpointRegister     = "register"
	EndpointRefreshToken = "refreshToken"
	EndpointLogout       = "logout"

	EndpointGetTasks   = "getTasks"
	EndpointGetTask    = "getTask"
	EndpointCreateTask = "createTask"
	EndpointUpdateTask = "updateTask"
	EndpointMoveTask   = "moveTask"
	EndpointDeleteTask = "deleteTask"
)

// UpdateTaskArgs are the arguments of the updateTask endpoint.
type UpdateTaskArgs struct {
	ID   domain.TaskID
	Data domain.UpdateTaskRequest
}

type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TaskAPI query methods return the raw response document so it can be cached as-is.
type TaskAPI interface {
	ListTasks(ctx context.Context) (json.RawMessage, error)
	GetTask(ctx context.Context, id domain.TaskID) (json.RawMessage, error)
	CreateTask(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error)
	UpdateTask(ctx context.Context, id domain.TaskID, req domain.UpdateTaskRequest) (domain.Task, error)
	MoveTask(ctx context.Context, req domain.MoveTaskRequest) (domain.Task, error)
	DeleteTask(ctx context.Context, id domain.TaskID) error
}
