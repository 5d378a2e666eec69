package httpapi

import (
	"context"
	"encoding/json"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/ports"
)

type AuthAPI struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthAPI)(nil)

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

func (a *AuthAPI) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := a.client.DoJSON(ctx, EndpointLogin, req, &resp); err != nil {
		return domain.AuthResponse{}, err
	}
	return resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := a.client.DoJSON(ctx, EndpointRegister, req, &resp); err != nil {
		return domain.AuthResponse{}, err
	}
	return resp, nil
}

func (a *AuthAPI) RefreshToken(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := a.client.DoJSON(ctx, EndpointRefreshToken, domain.RefreshTokenRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	_, err := a.client.Do(ctx, EndpointLogout, domain.RefreshTokenRequest{RefreshToken: refreshToken})
	return err
}

type TaskAPI struct {
	client *Client
}

var _ ports.TaskAPI = (*TaskAPI)(nil)

func NewTaskAPI(client *Client) *TaskAPI {
	return &TaskAPI{client: client}
}

func (a *TaskAPI) ListTasks(ctx context.Context) (json.RawMessage, error) {
	return a.client.Do(ctx, EndpointGetTasks, nil)
}

func (a *TaskAPI) GetTask(ctx context.Context, id domain.TaskID) (json.RawMessage, error) {
	return a.client.Do(ctx, EndpointGetTask, id)
}

func (a *TaskAPI) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error) {
	var task domain.Task
	if err := a.client.DoJSON(ctx, EndpointCreateTask, req, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (a *TaskAPI) UpdateTask(ctx context.Context, id domain.TaskID, req domain.UpdateTaskRequest) (domain.Task, error) {
	var task domain.Task
	if err := a.client.DoJSON(ctx, EndpointUpdateTask, UpdateTaskArgs{ID: id, Data: req}, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (a *TaskAPI) MoveTask(ctx context.Context, req domain.MoveTaskRequest) (domain.Task, error) {
	var task domain.Task
	if err := a.client.DoJSON(ctx, EndpointMoveTask, req, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (a *TaskAPI) DeleteTask(ctx context.Context, id domain.TaskID) error {
	_, err := a.client.Do(ctx, EndpointDeleteTask, id)
	return err
}
