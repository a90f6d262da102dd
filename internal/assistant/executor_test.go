package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestExecuteCreate(t *testing.T) {
	store := newFakeStore()
	ex := &Executor{Store: store}

	act := &Action{
		Kind:     ActionCreate,
		Title:    strPtr("Buy milk"),
		DueAt:    strPtr("2025-06-02 09:00"),
		Category: strPtr("shopping"),
		Priority: strPtr("high"),
	}
	reply := ex.Execute(context.Background(), 1, act)
	assert.Contains(t, reply, `Created task #1: "Buy milk"`)
	assert.Contains(t, reply, "due 2025-06-02 09:00")

	created := store.items[1]
	require.NotNil(t, created.DueAt)
	assert.Equal(t, "shopping", created.Category)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, "Created via assistant", created.Description)
}

func TestExecuteCreateBlankTitleAsksForOne(t *testing.T) {
	store := newFakeStore()
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionCreate, Title: strPtr("   ")})
	assert.Contains(t, reply, "give me a title")
	assert.Empty(t, store.calls, "blank title must not reach the store")
}

func TestExecuteCreateClampsLongTitle(t *testing.T) {
	store := newFakeStore()
	ex := &Executor{Store: store}

	long := strings.Repeat("x", 250)
	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionCreate, Title: &long})
	assert.Contains(t, reply, "Created task #1")
	assert.Len(t, []rune(store.items[1].Title), 200)
}

func TestExecuteCreateBogusEnumsFallBack(t *testing.T) {
	store := newFakeStore()
	ex := &Executor{Store: store}

	act := &Action{
		Kind:     ActionCreate,
		Title:    strPtr("Taxes"),
		Category: strPtr("bogus"),
		Priority: strPtr("whenever"),
	}
	ex.Execute(context.Background(), 1, act)
	assert.Equal(t, "other", store.items[1].Category)
	assert.Equal(t, "medium", store.items[1].Priority)
}

func TestExecuteCreateUnparseableDueDateDropsDeadline(t *testing.T) {
	store := newFakeStore()
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{
		Kind:  ActionCreate,
		Title: strPtr("Dentist"),
		DueAt: strPtr("next blursday"),
	})
	assert.Contains(t, reply, "Created task #1")
	assert.NotContains(t, reply, "due ")
	assert.Nil(t, store.items[1].DueAt)
}

func TestExecuteUpdatePartialFields(t *testing.T) {
	store := newFakeStore()
	seeded := store.seed(1, "Old title", false, nil)
	ex := &Executor{Store: store}

	act := &Action{
		Kind:     ActionUpdate,
		TaskID:   intPtr(seeded.ID),
		Priority: strPtr("urgent"),
	}
	reply := ex.Execute(context.Background(), 1, act)
	assert.Contains(t, reply, `Updated task #1: "Old title"`)

	got := store.items[seeded.ID]
	assert.Equal(t, "Old title", got.Title, "unset fields stay untouched")
	assert.Equal(t, "urgent", got.Priority)
}

func TestExecuteComplete(t *testing.T) {
	store := newFakeStore()
	seeded := store.seed(1, "Laundry", false, nil)
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionComplete, TaskID: intPtr(seeded.ID)})
	assert.Contains(t, reply, "marked as complete")
	assert.True(t, store.items[seeded.ID].Completed)
}

func TestExecuteDelete(t *testing.T) {
	store := newFakeStore()
	seeded := store.seed(1, "Laundry", false, nil)
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionDelete, TaskID: intPtr(seeded.ID)})
	assert.Contains(t, reply, `Deleted task #1: "Laundry"`)
	assert.NotContains(t, store.items, seeded.ID)
}

func TestExecuteMissingIDListsCandidates(t *testing.T) {
	store := newFakeStore()
	store.seed(1, "First", false, nil)
	store.seed(1, "Second", false, nil)
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionDelete})
	assert.Contains(t, reply, "I couldn't find that task")
	assert.Contains(t, reply, "#1: First")
	assert.Contains(t, reply, "#2: Second")
	assert.Contains(t, store.items, 1, "nothing deleted")
	assert.Contains(t, store.items, 2)
}

func TestExecuteUnknownIDWithNoTasks(t *testing.T) {
	store := newFakeStore()
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionComplete, TaskID: intPtr(99)})
	assert.Contains(t, reply, "don't have any active tasks")
}

func TestExecuteCandidateListCapped(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 8; i++ {
		store.seed(1, "Task", false, nil)
	}
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionUpdate, TaskID: intPtr(99)})
	assert.Equal(t, 5, strings.Count(reply, "#"), "at most 5 candidates listed")
}

func TestExecuteUnknownKind(t *testing.T) {
	store := newFakeStore()
	store.seed(1, "Laundry", false, nil)
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: "archive"})
	assert.Contains(t, reply, "Could you rephrase")
	assert.Empty(t, store.calls, "unrecognized kinds never touch the store")
}

func TestExecuteCandidateListingStoreError(t *testing.T) {
	store := newFakeStore()
	store.fail = errors.New("connection reset")
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionDelete, TaskID: intPtr(99)})
	assert.Contains(t, reply, "Sorry, something went wrong")
	assert.Contains(t, reply, "connection reset")
	assert.NotContains(t, reply, "don't have any active tasks")
}

func TestExecuteStoreErrorBecomesApology(t *testing.T) {
	store := newFakeStore()
	store.fail = errors.New("connection refused")
	ex := &Executor{Store: store}

	reply := ex.Execute(context.Background(), 1, &Action{Kind: ActionCreate, Title: strPtr("Buy milk")})
	assert.Contains(t, reply, "Sorry, something went wrong")
	assert.Contains(t, reply, "connection refused")
}
