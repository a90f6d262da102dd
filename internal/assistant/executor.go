package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aurora-tasks-backend/internal/tasks"
)

// Executor validates and applies action descriptors against the task store.
// Every store failure is contained here and rendered as conversational text.
type Executor struct {
	Store TaskStore
}

func (e *Executor) Execute(ctx context.Context, userID int, act *Action) string {
	switch act.kind() {
	case ActionCreate:
		return e.create(ctx, userID, act)
	case ActionUpdate:
		return e.update(ctx, userID, act)
	case ActionComplete:
		return e.complete(ctx, userID, act)
	case ActionDelete:
		return e.delete(ctx, userID, act)
	default:
		return "I'm not sure what you'd like me to do with your tasks. Could you rephrase that?"
	}
}

func (e *Executor) create(ctx context.Context, userID int, act *Action) string {
	title := ""
	if act.Title != nil {
		title = strings.TrimSpace(*act.Title)
	}
	if title == "" {
		return "What should the task be called? Please give me a title for it."
	}

	desc := tasks.DefaultDescription
	if act.Description != nil && strings.TrimSpace(*act.Description) != "" {
		desc = strings.TrimSpace(*act.Description)
	}

	fields := tasks.Fields{
		Title:       &title,
		Description: &desc,
		Category:    act.Category,
		Priority:    act.Priority,
	}
	if act.DueAt != nil {
		if due, ok := ParseDueDate(*act.DueAt); ok {
			fields.DueAt = &due
		} else {
			log.Printf("[WARN] assistant: unparseable due date %q, creating task without deadline", *act.DueAt)
		}
	}

	t, err := e.Store.CreateTask(ctx, userID, fields)
	if err != nil {
		return storeApology(err)
	}

	dueInfo := ""
	if t.DueAt != nil {
		dueInfo = fmt.Sprintf(", due %s", t.DueAt.Format("2006-01-02 15:04"))
	}
	return fmt.Sprintf("✅ Created task #%d: %q%s.", t.ID, t.Title, dueInfo)
}

func (e *Executor) update(ctx context.Context, userID int, act *Action) string {
	t, msg := e.lookup(ctx, userID, act)
	if msg != "" {
		return msg
	}

	fields := tasks.Fields{
		Title:       act.Title,
		Description: act.Description,
		Completed:   act.Completed,
		Category:    act.Category,
		Priority:    act.Priority,
	}
	if act.DueAt != nil {
		if due, ok := ParseDueDate(*act.DueAt); ok {
			fields.DueAt = &due
		} else {
			log.Printf("[WARN] assistant: unparseable due date %q, leaving deadline unchanged", *act.DueAt)
		}
	}

	updated, err := e.Store.UpdateTask(ctx, t.ID, fields)
	if err != nil {
		return storeApology(err)
	}
	return fmt.Sprintf("📝 Updated task #%d: %q.", updated.ID, updated.Title)
}

func (e *Executor) complete(ctx context.Context, userID int, act *Action) string {
	t, msg := e.lookup(ctx, userID, act)
	if msg != "" {
		return msg
	}

	completed := true
	updated, err := e.Store.UpdateTask(ctx, t.ID, tasks.Fields{Completed: &completed})
	if err != nil {
		return storeApology(err)
	}
	return fmt.Sprintf("✅ Task #%d %q is marked as complete. Nice work!", updated.ID, updated.Title)
}

func (e *Executor) delete(ctx context.Context, userID int, act *Action) string {
	t, msg := e.lookup(ctx, userID, act)
	if msg != "" {
		return msg
	}

	if err := e.Store.DeleteTask(ctx, t.ID); err != nil {
		return storeApology(err)
	}
	return fmt.Sprintf("🗑️ Deleted task #%d: %q.", t.ID, t.Title)
}

// lookup resolves the task an update/complete/delete action targets. Missing
// or unknown ids turn into a candidate listing instead of a mutation. The
// model-triggered path resolves by id alone; see the fallback interpreter for
// the user-scoped variant.
func (e *Executor) lookup(ctx context.Context, userID int, act *Action) (tasks.Task, string) {
	if act.TaskID == nil {
		return tasks.Task{}, listCandidates(ctx, e.Store, userID)
	}
	t, err := e.Store.GetTask(ctx, *act.TaskID)
	if err != nil {
		return tasks.Task{}, listCandidates(ctx, e.Store, userID)
	}
	return t, ""
}

// listCandidates enumerates up to 5 of the user's active tasks so the reply
// names real alternatives.
func listCandidates(ctx context.Context, store TaskStore, userID int) string {
	active := false
	list, err := store.ListTasks(ctx, userID, tasks.Filter{Completed: &active, Limit: 5})
	if err != nil {
		return storeApology(err)
	}
	if len(list) == 0 {
		return "I couldn't find that task, and you don't have any active tasks right now."
	}

	var b strings.Builder
	b.WriteString("I couldn't find that task. Here are your active tasks:\n")
	for _, t := range list {
		fmt.Fprintf(&b, "  #%d: %s\n", t.ID, t.Title)
	}
	b.WriteString("Which one did you mean?")
	return b.String()
}

func storeApology(err error) string {
	return fmt.Sprintf("Sorry, something went wrong while updating your tasks: %v. Please try again.", err)
}
