package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"aurora-tasks-backend/internal/tasks"
)

// Fallback interprets commands with fixed patterns when the language model is
// unconfigured or failing. Rules are evaluated in priority order; the first
// match wins. It never returns an error to the caller.
type Fallback struct {
	Store TaskStore
}

const maxListedTasks = 10

var (
	greetingRe = regexp.MustCompile(`^(hi|hello|hey|yo|sup|howdy|good (morning|afternoon|evening))\b`)

	deleteRe   = regexp.MustCompile(`(?:delete|remove)\b[^0-9]*\btask\b[^0-9]*#?(\d+)`)
	completeRe = regexp.MustCompile(`(?:complete|finish|done)\b[^0-9]*\btask\b[^0-9]*#?(\d+)`)
	markDoneRe = regexp.MustCompile(`(?:mark\b[^0-9]*)?\btask\b[^0-9]*#?(\d+)\b.*\b(?:done|completed?|finished)\b`)

	questionRe = regexp.MustCompile(`^(what|which|who|when|where|why|how|can|could|do|does|is|are)\b`)
)

var listPhrases = []string{
	"list tasks",
	"list my tasks",
	"show tasks",
	"show my tasks",
	"show me my tasks",
	"my tasks",
	"all tasks",
	"what tasks",
}

// createPatterns are tried in order, case-insensitively against the original
// text, so the captured title keeps the user's casing. Matching must never
// index a lower-cased copy: ToLower does not preserve byte offsets for all
// runes.
var createPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^add\s+(?:a\s+)?task\s+(?:called\s+|named\s+|to\s+)?(.+)$`),
	regexp.MustCompile(`(?i)^create\s+(?:a\s+)?task\s+(?:called\s+|named\s+|to\s+)?(.+)$`),
	regexp.MustCompile(`(?i)^new\s+task[:\s]\s*(.+)$`),
	regexp.MustCompile(`(?i)^remind\s+me\s+to\s+(.+)$`),
	regexp.MustCompile(`(?i)^remember\s+to\s+(.+)$`),
	regexp.MustCompile(`(?i)^i\s+need\s+to\s+(.+)$`),
	regexp.MustCompile(`(?i)^task\s+to\s+(.+)$`),
}

func (f *Fallback) Interpret(ctx context.Context, userID int, message string) string {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)

	// 1. greetings
	if greetingRe.MatchString(lower) {
		return "Hi! I'm Aurora, your task assistant. I can add, complete, delete, and list your tasks. What would you like to do?"
	}

	// 2. gratitude
	if strings.Contains(lower, "thank") || lower == "thx" || lower == "ty" {
		return "You're welcome! Let me know if you need anything else with your tasks."
	}

	// 3. delete task N
	if id, ok := matchTaskID(deleteRe, lower); ok {
		return f.deleteByID(ctx, userID, id)
	}

	// 4. complete task N
	if id, ok := matchTaskID(completeRe, lower); ok {
		return f.completeByID(ctx, userID, id)
	}
	if id, ok := matchTaskID(markDoneRe, lower); ok {
		return f.completeByID(ctx, userID, id)
	}

	// 5. list tasks
	for _, phrase := range listPhrases {
		if strings.Contains(lower, phrase) {
			return f.listActive(ctx, userID)
		}
	}

	// 6. explicit create phrasings
	for _, re := range createPatterns {
		if title, ok := matchTitle(re, trimmed); ok {
			return f.createTask(ctx, userID, title)
		}
	}

	// 7. generic add/create/new prefix without the word "task"
	if !strings.Contains(lower, "task") {
		for _, prefix := range []string{"add ", "create ", "new "} {
			if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
				title := cleanTitle(trimmed[len(prefix):])
				if utf8.RuneCountInString(title) >= 3 {
					return f.createTask(ctx, userID, title)
				}
			}
		}
	}

	// 8. nothing matched
	if utf8.RuneCountInString(trimmed) < 5 {
		return "Could you tell me a bit more about what you'd like to do with your tasks?"
	}
	if strings.HasSuffix(trimmed, "?") || questionRe.MatchString(lower) {
		return "I can answer questions about your tasks when the AI assistant is available. Right now I can: add a task (\"add task buy milk\"), complete one (\"complete task 3\"), delete one (\"delete task 2\"), or list them (\"list tasks\")."
	}
	return "I can help you manage your tasks. Try: \"add task ...\", \"complete task 3\", \"delete task 2\", or \"list tasks\"."
}

func matchTaskID(re *regexp.Regexp, lower string) (int, bool) {
	m := re.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func matchTitle(re *regexp.Regexp, message string) (string, bool) {
	m := re.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	title := cleanTitle(m[1])
	if utf8.RuneCountInString(title) < 3 {
		return "", false
	}
	return title, true
}

func cleanTitle(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".!?,;:"))
}

func (f *Fallback) deleteByID(ctx context.Context, userID, id int) string {
	t, err := f.Store.GetUserTask(ctx, userID, id)
	if err != nil {
		return listCandidates(ctx, f.Store, userID)
	}
	if err := f.Store.DeleteTask(ctx, t.ID); err != nil {
		return storeApology(err)
	}
	return fmt.Sprintf("🗑️ Deleted task #%d: %q.", t.ID, t.Title)
}

func (f *Fallback) completeByID(ctx context.Context, userID, id int) string {
	t, err := f.Store.GetUserTask(ctx, userID, id)
	if err != nil {
		return listCandidates(ctx, f.Store, userID)
	}
	completed := true
	updated, err := f.Store.UpdateTask(ctx, t.ID, tasks.Fields{Completed: &completed})
	if err != nil {
		return storeApology(err)
	}
	return fmt.Sprintf("✅ Task #%d %q is marked as complete. Nice work!", updated.ID, updated.Title)
}

func (f *Fallback) listActive(ctx context.Context, userID int) string {
	active := false
	list, err := f.Store.ListTasks(ctx, userID, tasks.Filter{Completed: &active})
	if err != nil {
		return storeApology(err)
	}
	if len(list) == 0 {
		return "You don't have any active tasks. Want to add one? Just say \"add task ...\"."
	}

	var b strings.Builder
	b.WriteString("Here are your active tasks:\n")
	for i, t := range list {
		if i == maxListedTasks {
			break
		}
		dueInfo := ""
		if t.DueAt != nil {
			dueInfo = fmt.Sprintf(" (due %s)", t.DueAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(&b, "  #%d: %s%s\n", t.ID, t.Title, dueInfo)
	}
	fmt.Fprintf(&b, "You have %d active task(s).", len(list))
	return b.String()
}

func (f *Fallback) createTask(ctx context.Context, userID int, title string) string {
	desc := tasks.DefaultDescription
	t, err := f.Store.CreateTask(ctx, userID, tasks.Fields{
		Title:       &title,
		Description: &desc,
	})
	if err != nil {
		return storeApology(err)
	}
	return fmt.Sprintf("✅ Created task #%d: %q.", t.ID, t.Title)
}
