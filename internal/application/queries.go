package application

import (
	"github.com/bnema/taskflow-cli/internal/domain"
)

// TaskSnapshot is one delivery of a task list subscription. Stale is set
// when the list has been invalidated and a refetch is pending.
type TaskSnapshot struct {
	Tasks []domain.Task
	Stale bool
	Err   error
}
