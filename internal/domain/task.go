package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type TaskID string

type WorkflowID string

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unsupported priority %q", ErrInvalidTask, raw)
	}
	return p, nil
}

// Task mirrors the server document; CurrentStage is a free-form workflow stage.
type Task struct {
	ID            TaskID     `json:"_id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority      Priority   `json:"priority" yaml:"priority"`
	CurrentStage  string     `json:"currentStage" yaml:"currentStage"`
	AssignedUsers []UserID   `json:"assignedUsers" yaml:"assignedUsers"`
	DueDate       *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	WorkflowID    WorkflowID `json:"workflowId" yaml:"workflowId"`
	CreatedBy     UserID     `json:"createdBy" yaml:"createdBy"`
	CompletedAt   *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

type CreateTaskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Priority      Priority   `json:"priority"`
	WorkflowID    WorkflowID `json:"workflowId"`
	AssignedUsers []UserID   `json:"assignedUsers"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
}

func (r CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("%w: unsupported priority %q", ErrInvalidTask, r.Priority)
	}
	if strings.TrimSpace(string(r.WorkflowID)) == "" {
		return fmt.Errorf("%w: workflow id is required", ErrInvalidTask)
	}

	return nil
}

// MarshalJSON always sends assignedUsers as an array, never null.
func (r CreateTaskRequest) MarshalJSON() ([]byte, error) {
	type wire CreateTaskRequest
	out := wire(r)
	if out.AssignedUsers == nil {
		out.AssignedUsers = []UserID{}
	}
	return json.Marshal(out)
}

// UpdateTaskRequest is a partial update; nil fields are not sent. A non-nil
// AssignedUsers pointing at an empty slice clears the assignees.
type UpdateTaskRequest struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Priority      *Priority  `json:"priority,omitempty"`
	CurrentStage  *string    `json:"currentStage,omitempty"`
	AssignedUsers *[]UserID  `json:"assignedUsers,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
}

func (r UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Priority == nil &&
		r.CurrentStage == nil && r.AssignedUsers == nil && r.DueDate == nil
}

func (r UpdateTaskRequest) Validate() error {
	if r.Empty() {
		return fmt.Errorf("%w: no fields to update", ErrInvalidTask)
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return fmt.Errorf("%w: title cannot be blank", ErrInvalidTask)
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return fmt.Errorf("%w: unsupported priority %q", ErrInvalidTask, *r.Priority)
	}

	return nil
}

type MoveTaskRequest struct {
	TaskID   TaskID
	NewStage string
}

func (r MoveTaskRequest) Validate() error {
	if strings.TrimSpace(string(r.TaskID)) == "" {
		return fmt.Errorf("%w: task id is required", ErrInvalidTask)
	}
	if strings.TrimSpace(r.NewStage) == "" {
		return fmt.Errorf("%w: stage is required", ErrInvalidTask)
	}

	return nil
}
