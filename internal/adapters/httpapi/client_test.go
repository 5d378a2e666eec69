package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSession domain.Session

func (s staticSession) Snapshot() domain.Session { return domain.Session(s) }

func newTestClient(t *testing.T, server *httptest.Server, session domain.Session) *Client {
	t.Helper()

	registry, err := NewDefaultRegistry()
	require.NoError(t, err)

	return &Client{
		BaseURL:    server.URL + "/api",
		HTTPClient: server.Client(),
		Registry:   registry,
		Session:    staticSession(session),
	}
}

func TestClientGetTaskSendsBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks/42", r.URL.Path)
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"42","title":"Ship","currentStage":"todo"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server, domain.Session{AccessToken: "T1"})
	api := NewTaskAPI(client)

	raw, err := api.GetTask(context.Background(), "42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"42","title":"Ship","currentStage":"todo"}`, string(raw))
}

func TestClientForwardsRequestID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-7", r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server, domain.Session{})
	ctx := telemetry.WithRequestID(context.Background(), "req-7")

	body, err := client.Do(ctx, EndpointGetTasks, nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(body))
}

func TestClientLoginSendsNoAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])

		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"ann@example.com","name":"Ann","role":"member"},"accessToken":"a1","refreshToken":"r1"}`))
	}))
	t.Cleanup(server.Close)

	api := NewAuthAPI(newTestClient(t, server, domain.Session{}))

	resp, err := api.Login(context.Background(), domain.LoginRequest{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "a1", resp.AccessToken)
	assert.Equal(t, "r1", resp.RefreshToken)
	assert.Equal(t, domain.UserID("u1"), resp.User.ID)
}

func TestClientReturnsStatusErrorWithBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	t.Cleanup(server.Close)

	api := NewTaskAPI(newTestClient(t, server, domain.Session{AccessToken: "T1"}))

	_, err := api.MoveTask(context.Background(), domain.MoveTaskRequest{TaskID: "42", NewStage: "doing"})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, `{"message":"boom"}`, string(statusErr.Body))
	assert.Equal(t, EndpointMoveTask, statusErr.Endpoint)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, err.Error(), "status 500")
}

func TestClientMoveAndUpdateBodies(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		switch r.URL.Path {
		case "/api/tasks/42/move":
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.JSONEq(t, `{"newStage":"doing"}`, string(raw))
			_, _ = w.Write([]byte(`{"_id":"42","currentStage":"doing"}`))
		case "/api/tasks/43":
			assert.Equal(t, http.MethodPut, r.Method)
			assert.JSONEq(t, `{"priority":"high"}`, string(raw))
			_, _ = w.Write([]byte(`{"_id":"43","priority":"high"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	api := NewTaskAPI(newTestClient(t, server, domain.Session{AccessToken: "T1"}))

	moved, err := api.MoveTask(context.Background(), domain.MoveTaskRequest{TaskID: "42", NewStage: "doing"})
	require.NoError(t, err)
	assert.Equal(t, "doing", moved.CurrentStage)

	high := domain.PriorityHigh
	updated, err := api.UpdateTask(context.Background(), "43", domain.UpdateTaskRequest{Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
}

func TestClientDeleteToleratesEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	api := NewTaskAPI(newTestClient(t, server, domain.Session{AccessToken: "T1"}))
	require.NoError(t, api.DeleteTask(context.Background(), "42"))
}

func TestClientUnknownEndpoint(t *testing.T) {
	t.Parallel()

	client := &Client{BaseURL: "http://localhost:5000/api", Registry: NewRegistry()}

	_, err := client.Do(context.Background(), "getWorkflows", nil)
	require.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestClientTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server, domain.Session{})
	client.RequestTimeout = 20 * time.Millisecond

	_, err := client.Do(context.Background(), EndpointGetTasks, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getTasks")
}

func TestClientAuthEndpointsNeverSendBearer(t *testing.T) {
	t.Parallel()

	seen := map[string]string{}
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path] = r.Header.Get("Authorization")
		mu.Unlock()
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"ann@example.com","name":"Ann","role":"member"},"accessToken":"NEW","refreshToken":"r2"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server, domain.Session{AccessToken: "OLD", RefreshToken: "r1"})
	ctx := context.Background()

	_, err := client.Do(ctx, EndpointLogin, domain.LoginRequest{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = client.Do(ctx, EndpointRefreshToken, domain.RefreshTokenRequest{RefreshToken: "r1"})
	require.NoError(t, err)
	_, err = client.Do(ctx, EndpointLogout, domain.RefreshTokenRequest{RefreshToken: "r1"})
	require.NoError(t, err)
	_, err = client.Do(ctx, EndpointGetTasks, nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, seen["/api/auth/login"])
	assert.Empty(t, seen["/api/auth/refresh-token"])
	assert.Empty(t, seen["/api/auth/logout"])
	assert.Equal(t, "Bearer OLD", seen["/api/tasks"])
}

func TestClientRejectsOversizedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"1","title":"a very long title"}]`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server, domain.Session{AccessToken: "T1"})
	client.MaxResponseBytes = 16

	body, err := client.Do(context.Background(), EndpointGetTasks, nil)
	require.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Nil(t, body)

	client.MaxResponseBytes = 1024
	body, err = client.Do(context.Background(), EndpointGetTasks, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"1","title":"a very long title"}]`, string(body))
}
