package assistant

import (
	"fmt"
	"strings"
	"time"

	"aurora-tasks-backend/internal/tasks"
)

const (
	maxContextActive    = 20
	maxContextCompleted = 5
	maxHighlighted      = 5
	dueSoonWindow       = 24 * time.Hour
)

// BuildTaskContext renders the user's tasks as the context block of the system
// prompt: active tasks first (top 20), then completed (top 5), with overdue and
// due-soon sub-lists. now is evaluated once by the caller so every comparison
// in a single build agrees.
func BuildTaskContext(list []tasks.Task, now time.Time) string {
	if len(list) == 0 {
		return "  No tasks yet."
	}

	var (
		active    []string
		completed []string
		overdue   []tasks.Task
		dueSoon   []tasks.Task
	)

	for _, t := range list {
		status := "○ Active"
		if t.Completed {
			status = "✓ Completed"
		}

		dueInfo := ""
		if t.DueAt != nil {
			dueInfo = fmt.Sprintf(" (Due: %s)", t.DueAt.Format("2006-01-02 15:04"))
			if !t.Completed {
				until := t.DueAt.Sub(now)
				if until < 0 {
					overdue = append(overdue, t)
				} else if until <= dueSoonWindow {
					dueSoon = append(dueSoon, t)
				}
			}
		}

		line := fmt.Sprintf("  %d. %s - %s%s", t.ID, status, t.Title, dueInfo)
		if t.Description != "" {
			line += "\n     Description: " + snippet(t.Description, 100)
		}

		if t.Completed {
			completed = append(completed, line)
		} else {
			active = append(active, line)
		}
	}

	if len(active) > maxContextActive {
		active = active[:maxContextActive]
	}
	if len(completed) > maxContextCompleted {
		completed = completed[:maxContextCompleted]
	}

	var b strings.Builder
	b.WriteString(strings.Join(append(active, completed...), "\n"))

	if len(overdue) > 0 {
		b.WriteString(fmt.Sprintf("\n\n⚠️ OVERDUE TASKS (%d):", len(overdue)))
		for i, t := range overdue {
			if i == maxHighlighted {
				break
			}
			b.WriteString(fmt.Sprintf("\n  - Task #%d: %s", t.ID, t.Title))
		}
	}
	if len(dueSoon) > 0 {
		b.WriteString(fmt.Sprintf("\n\n⏰ DUE SOON (next 24h, %d):", len(dueSoon)))
		for i, t := range dueSoon {
			if i == maxHighlighted {
				break
			}
			b.WriteString(fmt.Sprintf("\n  - Task #%d: %s", t.ID, t.Title))
		}
	}

	return b.String()
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// BuildSystemPrompt combines the task context with the fixed instruction block.
func BuildSystemPrompt(list []tasks.Task, now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, BuildTaskContext(list, now))
}

const systemPromptTemplate = `You are Aurora, an intelligent productivity AI assistant for task management. You help users understand, organize, and optimize their workload.

CURRENT TASK CONTEXT:
%s

CORE CAPABILITIES - You must be able to:

1. SUMMARIZE & ANALYZE: summarize the user's day based on tasks, deadlines, and priorities; analyze workload distribution; highlight upcoming deadlines.
2. DETECT & WARN: warn about overdue tasks and tasks due within 24 hours, even unprompted.
3. RECOMMEND & SUGGEST: suggest which tasks to do next based on priority, deadlines, and workload; suggest clearer task titles and descriptions.
4. PLAN & SCHEDULE: generate focused work plans and full-day schedules with realistic time blocks.
5. EXPLAIN & CLARIFY: explain task details, break complex tasks into steps, ask clarifying questions when details are unclear.
6. TASK OPERATIONS: create, update, complete, delete tasks; filter by status, category, priority, due date; search by keywords; reschedule.

COMMAND EXAMPLES YOU MUST HANDLE:

- "Show only my overdue tasks" → list all overdue tasks with details
- "What should I do next?" → recommend next task(s) based on priority/deadlines
- "Summarise my workload" → workload analysis with counts and priorities
- "Help me plan my day" → full-day schedule
- "What tasks are due soon?" → tasks due within 24 hours
- "Which tasks are in the category 'work'?" → filter by category
- "Make a new task called '...' with priority high" → create task with priority
- "Reschedule this task to tomorrow at 10am" → update task due date
- "Delete task 5" → delete the task
- "Mark task 3 as complete" → complete the task
- "Explain task 3" → detailed explanation of the task

RESPONSE FORMAT:
- For normal conversation: respond naturally with friendly, helpful text. No JSON needed.
- For task actions (create, update, complete, delete, reschedule): include a JSON action block at the END of your response.

ACTION FORMAT:
<ACTION>
{"action": "create|update|complete|delete", "task_id": X, "title": "...", "description": "...", "due_at": "YYYY-MM-DD HH:MM", "completed": true/false, "category": "...", "priority": "..."}
</ACTION>

Available actions:
1. CREATE: {"action": "create", "title": "...", "description": "...", "due_at": "YYYY-MM-DD HH:MM"}
2. UPDATE: {"action": "update", "task_id": X, "title": "...", "description": "...", "due_at": "...", "completed": true/false}
3. COMPLETE: {"action": "complete", "task_id": X}
4. DELETE: {"action": "delete", "task_id": X}

Categories: work, personal, shopping, health, finance, other. Priorities: low, medium, high, urgent.

GUIDELINES:
- Be specific: use actual task IDs, titles, and dates from the context.
- Extract dates/times from natural language (e.g. "tomorrow at 3pm" → "YYYY-MM-DD 15:00").
- When suggesting tasks, consider urgency, deadlines, and estimated effort.
- For planning, be realistic about time.

RESPONSE STYLE:
- Warm, friendly, and professional.
- Use emojis sparingly for emphasis (✓ ⚠️ ⏰ 📝 ✅).
- Use bullet points for lists; be concise but thorough.`
