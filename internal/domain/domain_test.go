package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityValid(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     bool
	}{
		{name: "low", priority: PriorityLow, want: true},
		{name: "medium", priority: PriorityMedium, want: true},
		{name: "high", priority: PriorityHigh, want: true},
		{name: "unknown", priority: Priority("urgent"), want: false},
		{name: "empty", priority: Priority(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.Valid())
		})
	}
}

func TestParsePriorityNormalizesCase(t *testing.T) {
	p, err := ParsePriority(" High ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	require.ErrorIs(t, err, ErrInvalidTask)
}

func TestCreateTaskRequestValidate(t *testing.T) {
	valid := CreateTaskRequest{Title: "Write docs", Priority: PriorityLow, WorkflowID: "wf-1"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CreateTaskRequest)
		want   string
	}{
		{name: "blank title", mutate: func(r *CreateTaskRequest) { r.Title = "  " }, want: "title is required"},
		{name: "bad priority", mutate: func(r *CreateTaskRequest) { r.Priority = "urgent" }, want: "unsupported priority"},
		{name: "missing workflow", mutate: func(r *CreateTaskRequest) { r.WorkflowID = "" }, want: "workflow id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			require.ErrorIs(t, err, ErrInvalidTask)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUpdateTaskRequestOmitsUnsetFields(t *testing.T) {
	stage := "doing"
	req := UpdateTaskRequest{CurrentStage: &stage}
	require.NoError(t, req.Validate())

	encoded, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentStage":"doing"}`, string(encoded))

	require.ErrorIs(t, UpdateTaskRequest{}.Validate(), ErrInvalidTask)
}

func TestUpdateTaskRequestCanClearAssignees(t *testing.T) {
	req := UpdateTaskRequest{AssignedUsers: &[]UserID{}}
	assert.False(t, req.Empty())
	require.NoError(t, req.Validate())

	encoded, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"assignedUsers":[]}`, string(encoded))
}

func TestCreateTaskRequestSendsEmptyAssignees(t *testing.T) {
	encoded, err := json.Marshal(CreateTaskRequest{Title: "Write docs", Priority: PriorityLow, WorkflowID: "wf-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Write docs","priority":"low","workflowId":"wf-1","assignedUsers":[]}`, string(encoded))

	encoded, err = json.Marshal(CreateTaskRequest{Title: "x", Priority: PriorityLow, WorkflowID: "wf-1", AssignedUsers: []UserID{"u1"}})
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"assignedUsers":["u1"]`)
}

func TestTaskDecodesServerDocument(t *testing.T) {
	raw := `{
		"_id": "1",
		"title": "Ship it",
		"priority": "high",
		"currentStage": "todo",
		"assignedUsers": ["u-1"],
		"workflowId": "wf-1",
		"createdBy": "u-2",
		"createdAt": "2026-02-14T11:00:00Z",
		"updatedAt": "2026-02-14T12:00:00Z"
	}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, TaskID("1"), task.ID)
	assert.Equal(t, "todo", task.CurrentStage)
	assert.Equal(t, []UserID{"u-1"}, task.AssignedUsers)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC), task.CreatedAt)
}

func TestGroupByStageKeepsFirstAppearanceOrder(t *testing.T) {
	tasks := []Task{
		{ID: "1", CurrentStage: "doing"},
		{ID: "2", CurrentStage: "todo"},
		{ID: "3", CurrentStage: "doing"},
	}

	columns := GroupByStage(tasks)
	require.Len(t, columns, 2)
	assert.Equal(t, "doing", columns[0].Stage)
	assert.Len(t, columns[0].Tasks, 2)
	assert.Equal(t, "todo", columns[1].Stage)

	task, ok := FindTask(tasks, "3")
	require.True(t, ok)
	assert.Equal(t, "doing", task.CurrentStage)
}

func TestRegisterRequestValidate(t *testing.T) {
	require.NoError(t, RegisterRequest{Email: "ada@example.com", Password: "pw", Name: "Ada"}.Validate())
	assert.Error(t, RegisterRequest{Email: "not-an-email", Password: "pw", Name: "Ada"}.Validate())
	assert.Error(t, RegisterRequest{Email: "ada@example.com", Password: "pw"}.Validate())
	assert.Error(t, LoginRequest{Email: "ada@example.com"}.Validate())
}

func TestSessionWithTokensKeepsUser(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	session := NewSession(AuthResponse{
		User:         User{ID: "u-1", Email: "ada@example.com"},
		AccessToken:  "a1",
		RefreshToken: "r1",
	}, "taskflow/session", now)
	require.True(t, session.Authenticated())

	rotated := session.WithTokens(TokenPair{AccessToken: "a2", RefreshToken: "r2"}, now.Add(time.Minute))
	assert.Equal(t, "a2", rotated.AccessToken)
	assert.Equal(t, "r2", rotated.RefreshToken)
	assert.Equal(t, session.User, rotated.User)
	assert.Equal(t, "taskflow/session", rotated.SecretRef)
	assert.False(t, Session{}.Authenticated())
}
