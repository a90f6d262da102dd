package assistant

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"aurora-tasks-backend/internal/tasks"
)

// fakeStore is an in-memory TaskStore that records every call and mirrors the
// SQL store's write-path coercion (title clamp, enum fallback).
type fakeStore struct {
	items  map[int]tasks.Task
	nextID int
	calls  []string
	fail   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[int]tasks.Task{}, nextID: 1}
}

func (s *fakeStore) seed(userID int, title string, completed bool, due *time.Time) tasks.Task {
	t := tasks.Task{
		ID:        s.nextID,
		UserID:    userID,
		Title:     title,
		Completed: completed,
		DueAt:     due,
		Category:  tasks.DefaultCategory,
		Priority:  tasks.DefaultPriority,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.items[t.ID] = t
	s.nextID++
	return t
}

func (s *fakeStore) record(call string) error {
	s.calls = append(s.calls, call)
	return s.fail
}

func (s *fakeStore) ListTasks(ctx context.Context, userID int, f tasks.Filter) ([]tasks.Task, error) {
	if err := s.record("list"); err != nil {
		return nil, err
	}
	var out []tasks.Task
	for _, t := range s.items {
		if t.UserID != userID {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *fakeStore) GetTask(ctx context.Context, id int) (tasks.Task, error) {
	if err := s.record("get"); err != nil {
		return tasks.Task{}, err
	}
	t, ok := s.items[id]
	if !ok {
		return tasks.Task{}, sql.ErrNoRows
	}
	return t, nil
}

func (s *fakeStore) GetUserTask(ctx context.Context, userID, id int) (tasks.Task, error) {
	if err := s.record("get_user"); err != nil {
		return tasks.Task{}, err
	}
	t, ok := s.items[id]
	if !ok || t.UserID != userID {
		return tasks.Task{}, sql.ErrNoRows
	}
	return t, nil
}

func (s *fakeStore) CreateTask(ctx context.Context, userID int, f tasks.Fields) (tasks.Task, error) {
	if err := s.record("create"); err != nil {
		return tasks.Task{}, err
	}
	t := tasks.Task{
		ID:        s.nextID,
		UserID:    userID,
		Category:  tasks.DefaultCategory,
		Priority:  tasks.DefaultPriority,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if f.Title != nil {
		t.Title = tasks.ClampTitle(*f.Title)
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.Completed != nil {
		t.Completed = *f.Completed
	}
	if f.DueAt != nil {
		d := *f.DueAt
		t.DueAt = &d
	}
	if f.Category != nil {
		t.Category = tasks.NormalizeCategory(*f.Category)
	}
	if f.Priority != nil {
		t.Priority = tasks.NormalizePriority(*f.Priority)
	}
	s.items[t.ID] = t
	s.nextID++
	return t, nil
}

func (s *fakeStore) UpdateTask(ctx context.Context, id int, f tasks.Fields) (tasks.Task, error) {
	if err := s.record("update"); err != nil {
		return tasks.Task{}, err
	}
	t, ok := s.items[id]
	if !ok {
		return tasks.Task{}, sql.ErrNoRows
	}
	if f.Title != nil {
		t.Title = tasks.ClampTitle(*f.Title)
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.Completed != nil {
		t.Completed = *f.Completed
	}
	if f.DueAt != nil {
		d := *f.DueAt
		t.DueAt = &d
	}
	if f.Category != nil {
		t.Category = tasks.NormalizeCategory(*f.Category)
	}
	if f.Priority != nil {
		t.Priority = tasks.NormalizePriority(*f.Priority)
	}
	t.UpdatedAt = time.Now()
	s.items[id] = t
	return t, nil
}

func (s *fakeStore) DeleteTask(ctx context.Context, id int) error {
	if err := s.record("delete"); err != nil {
		return err
	}
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

// fakeGateway scripts the model's behavior per test.
type fakeGateway struct {
	available bool
	response  string
	err       error
	calls     int
}

func (g *fakeGateway) Available() bool { return g.available }

func (g *fakeGateway) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	g.calls++
	return g.response, g.err
}

func newTestAssistant(store *fakeStore, gw Gateway) *Assistant {
	a := New(store, gw)
	a.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

// --- orchestrator ---

func TestHandleCommandEmptyMessage(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{available: true}
	a := newTestAssistant(store, gw)

	reply := a.HandleCommand(context.Background(), 1, "   ")
	if !strings.HasPrefix(reply, "I didn't catch that") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls, got %v", store.calls)
	}
	if gw.calls != 0 {
		t.Fatalf("expected no gateway calls, got %d", gw.calls)
	}
}

func TestHandleCommandNoGatewayUsesFallback(t *testing.T) {
	store := newFakeStore()
	a := newTestAssistant(store, &fakeGateway{available: false})

	reply := a.HandleCommand(context.Background(), 1, "add task buy milk")
	if !strings.Contains(reply, "buy milk") {
		t.Fatalf("expected created task title in reply, got %q", reply)
	}
	created := false
	for _, item := range store.items {
		if item.Title == "buy milk" && item.Description == tasks.DefaultDescription && item.DueAt == nil {
			created = true
		}
	}
	if !created {
		t.Fatalf("task was not created via fallback: %+v", store.items)
	}
}

func TestHandleCommandGatewayErrorFallsBack(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{available: true, err: errors.New("quota exceeded")}
	a := newTestAssistant(store, gw)

	reply := a.HandleCommand(context.Background(), 1, "hello")
	if gw.calls != 1 {
		t.Fatalf("expected one gateway attempt, got %d", gw.calls)
	}
	if !strings.Contains(reply, "Aurora") {
		t.Fatalf("expected fallback greeting, got %q", reply)
	}
}

func TestHandleCommandPlainReplyPassedThrough(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{available: true, response: "You have 3 tasks today. Start with the report."}
	a := newTestAssistant(store, gw)

	reply := a.HandleCommand(context.Background(), 1, "summarise my workload")
	if reply != gw.response {
		t.Fatalf("reply = %q, want gateway text unchanged", reply)
	}
}

func TestHandleCommandActionMergedIntoReply(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{
		available: true,
		response:  "Sure, adding that now!\n<ACTION>\n{\"action\": \"create\", \"title\": \"Write report\"}\n</ACTION>",
	}
	a := newTestAssistant(store, gw)

	reply := a.HandleCommand(context.Background(), 1, "add a task to write the report")
	if !strings.Contains(reply, "Sure, adding that now!") {
		t.Fatalf("conversational text lost: %q", reply)
	}
	if !strings.Contains(reply, "Write report") {
		t.Fatalf("confirmation missing: %q", reply)
	}
	if len(store.items) != 1 {
		t.Fatalf("expected one created task, got %d", len(store.items))
	}
}

func TestHandleCommandBlockOnlyResponseReplacedByConfirmation(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{
		available: true,
		response:  "<ACTION>{\"action\": \"create\", \"title\": \"Call dentist\"}</ACTION>",
	}
	a := newTestAssistant(store, gw)

	reply := a.HandleCommand(context.Background(), 1, "remind me to call the dentist")
	if strings.Contains(reply, genericReply) {
		t.Fatalf("generic placeholder should be replaced by the confirmation: %q", reply)
	}
	if !strings.Contains(reply, "Call dentist") {
		t.Fatalf("expected confirmation with title, got %q", reply)
	}
}
