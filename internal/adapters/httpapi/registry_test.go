package httpapi

import (
	"net/http"
	"testing"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/querycache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryDescribesEveryEndpoint(t *testing.T) {
	t.Parallel()

	registry, err := NewDefaultRegistry()
	require.NoError(t, err)

	tests := []struct {
		name       string
		args       any
		wantMethod string
		wantPath   string
		wantBody   any
	}{
		{name: EndpointLogin, args: domain.LoginRequest{Email: "a@b.c", Password: "pw"}, wantMethod: http.MethodPost, wantPath: "/auth/login", wantBody: domain.LoginRequest{Email: "a@b.c", Password: "pw"}},
		{name: EndpointRegister, args: domain.RegisterRequest{Email: "a@b.c", Password: "pw", Name: "Ann"}, wantMethod: http.MethodPost, wantPath: "/auth/register", wantBody: domain.RegisterRequest{Email: "a@b.c", Password: "pw", Name: "Ann"}},
		{name: EndpointRefreshToken, args: domain.RefreshTokenRequest{RefreshToken: "r1"}, wantMethod: http.MethodPost, wantPath: "/auth/refresh-token", wantBody: domain.RefreshTokenRequest{RefreshToken: "r1"}},
		{name: EndpointLogout, args: domain.RefreshTokenRequest{RefreshToken: "r1"}, wantMethod: http.MethodPost, wantPath: "/auth/logout", wantBody: domain.RefreshTokenRequest{RefreshToken: "r1"}},
		{name: EndpointGetTasks, wantMethod: http.MethodGet, wantPath: "/tasks"},
		{name: EndpointGetTask, args: domain.TaskID("42"), wantMethod: http.MethodGet, wantPath: "/tasks/42"},
		{name: EndpointCreateTask, args: domain.CreateTaskRequest{Title: "Write docs"}, wantMethod: http.MethodPost, wantPath: "/tasks", wantBody: domain.CreateTaskRequest{Title: "Write docs"}},
		{name: EndpointMoveTask, args: domain.MoveTaskRequest{TaskID: "42", NewStage: "doing"}, wantMethod: http.MethodPatch, wantPath: "/tasks/42/move", wantBody: moveTaskBody{NewStage: "doing"}},
		{name: EndpointDeleteTask, args: domain.TaskID("42"), wantMethod: http.MethodDelete, wantPath: "/tasks/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			endpoint, ok := registry.Find(tt.name)
			require.True(t, ok)

			desc, err := endpoint.Descriptor(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, desc.Method)
			assert.Equal(t, tt.wantPath, desc.Path)
			assert.Equal(t, tt.wantBody, desc.Body)
		})
	}
}

func TestUpdateTaskSendsPartialBody(t *testing.T) {
	t.Parallel()

	registry, err := NewDefaultRegistry()
	require.NoError(t, err)

	title := "Renamed"
	endpoint, ok := registry.Find(EndpointUpdateTask)
	require.True(t, ok)

	desc, err := endpoint.Descriptor(UpdateTaskArgs{ID: "42", Data: domain.UpdateTaskRequest{Title: &title}})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, desc.Method)
	assert.Equal(t, "/tasks/42", desc.Path)
	assert.Equal(t, domain.UpdateTaskRequest{Title: &title}, desc.Body)
}

func TestTaskPathEscapesAndRequiresID(t *testing.T) {
	t.Parallel()

	endpoint := TaskEndpoints()[1]
	require.Equal(t, EndpointGetTask, endpoint.Name)

	desc, err := endpoint.Descriptor(domain.TaskID("a/b"))
	require.NoError(t, err)
	assert.Equal(t, "/tasks/a%2Fb", desc.Path)

	_, err = endpoint.Descriptor(domain.TaskID("  "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task id is required")

	_, err = endpoint.Descriptor(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected args type int")
}

func TestRegistryTags(t *testing.T) {
	t.Parallel()

	registry, err := NewDefaultRegistry()
	require.NoError(t, err)

	taskType := querycache.TypeTag(querycache.TagTask)

	assert.Equal(t, []querycache.Tag{taskType}, registry.ProvidedTags(EndpointGetTasks, nil))
	assert.Equal(t, []querycache.Tag{querycache.IDTag(querycache.TagTask, "42")}, registry.ProvidedTags(EndpointGetTask, domain.TaskID("42")))

	assert.Equal(t, []querycache.Tag{taskType}, registry.InvalidatedTags(EndpointCreateTask, domain.CreateTaskRequest{Title: "x"}))
	assert.Equal(t, []querycache.Tag{taskType}, registry.InvalidatedTags(EndpointMoveTask, domain.MoveTaskRequest{TaskID: "42", NewStage: "doing"}))
	assert.Equal(t, []querycache.Tag{taskType}, registry.InvalidatedTags(EndpointDeleteTask, domain.TaskID("42")))
	assert.Equal(t,
		[]querycache.Tag{taskType, querycache.IDTag(querycache.TagTask, "42")},
		registry.InvalidatedTags(EndpointUpdateTask, UpdateTaskArgs{ID: "42"}),
	)

	assert.Empty(t, registry.InvalidatedTags(EndpointLogin, nil))
	assert.Empty(t, registry.ProvidedTags("missing", nil))
}

func TestRegistryInjectRejectsDuplicatesAtomically(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.NoError(t, registry.Inject(GroupAuth, AuthEndpoints()...))

	err := registry.Inject("extra",
		Endpoint{Name: "ping", Method: http.MethodGet, Path: staticPath("/ping")},
		Endpoint{Name: EndpointLogin, Method: http.MethodPost, Path: staticPath("/other")},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered: login")

	_, ok := registry.Find("ping")
	assert.False(t, ok)
	assert.Empty(t, registry.Group("extra"))

	err = registry.Inject("twice",
		Endpoint{Name: "ping", Path: staticPath("/ping")},
		Endpoint{Name: "ping", Path: staticPath("/ping")},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")
}

func TestRegistryGroupsKeepInjectionOrder(t *testing.T) {
	t.Parallel()

	registry, err := NewDefaultRegistry()
	require.NoError(t, err)

	names := func(endpoints []Endpoint) []string {
		out := make([]string, 0, len(endpoints))
		for _, e := range endpoints {
			out = append(out, e.Name)
		}
		return out
	}

	assert.Equal(t, []string{EndpointLogin, EndpointRegister, EndpointRefreshToken, EndpointLogout}, names(registry.Group(GroupAuth)))
	assert.Equal(t,
		[]string{EndpointGetTasks, EndpointGetTask, EndpointCreateTask, EndpointUpdateTask, EndpointMoveTask, EndpointDeleteTask},
		names(registry.Group(GroupTasks)),
	)
	assert.Len(t, registry.All(), 10)

	endpoint, ok := registry.Find(EndpointMoveTask)
	require.True(t, ok)
	assert.Equal(t, GroupTasks, endpoint.Group)
	assert.Equal(t, KindMutation, endpoint.Kind)
}

func TestOnlyAuthEndpointsArePublic(t *testing.T) {
	t.Parallel()

	for _, endpoint := range AuthEndpoints() {
		assert.True(t, endpoint.Public, endpoint.Name)
	}
	for _, endpoint := range TaskEndpoints() {
		assert.False(t, endpoint.Public, endpoint.Name)
	}
}
