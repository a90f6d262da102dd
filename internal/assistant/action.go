package assistant

import (
	"context"
	"strings"

	"aurora-tasks-backend/internal/tasks"
)

// Action kinds the executor understands. Anything else never reaches the store.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionComplete = "complete"
	ActionDelete   = "delete"
)

// Action is one structured instruction extracted from a model response or
// produced by the fallback interpreter. Pointer fields distinguish "explicitly
// supplied" from "zero value" so updates stay partial. An Action is built
// fresh per user message and applied at most once.
type Action struct {
	Kind        string  `json:"action"`
	TaskID      *int    `json:"task_id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueAt       *string `json:"due_at,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Category    *string `json:"category,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

func (a *Action) kind() string {
	return strings.ToLower(strings.TrimSpace(a.Kind))
}

// TaskStore is the persistence capability the assistant consumes. The SQL
// store in internal/tasks satisfies it; tests use an in-memory fake.
type TaskStore interface {
	ListTasks(ctx context.Context, userID int, f tasks.Filter) ([]tasks.Task, error)
	GetTask(ctx context.Context, id int) (tasks.Task, error)
	GetUserTask(ctx context.Context, userID, id int) (tasks.Task, error)
	CreateTask(ctx context.Context, userID int, f tasks.Fields) (tasks.Task, error)
	UpdateTask(ctx context.Context, id int, f tasks.Fields) (tasks.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// Gateway is the optional language-model capability.
type Gateway interface {
	Available() bool
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
