package tasks

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aurora-tasks-backend/internal/analytics"
	"aurora-tasks-backend/internal/auth"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Priority: strings.TrimSpace(q.Get("priority")),
		Search:   strings.TrimSpace(q.Get("search")),
		Due:      strings.TrimSpace(q.Get("due")),
	}
	if v := q.Get("completed"); v != "" {
		completed := v == "true" || v == "1"
		f.Completed = &completed
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	return f
}

// -------------------------------
// HANDLERS
// -------------------------------

func ListTasksHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		result, err := store.ListTasks(r.Context(), uid, filterFromQuery(r))
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		if result == nil {
			result = []Task{}
		}
		writeJSON(w, result)
	}
}

func CreateTaskHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			DueAt       *string `json:"due_at"`
			Category    string  `json:"category"`
			Priority    string  `json:"priority"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if strings.TrimSpace(body.Title) == "" {
			http.Error(w, "title is required", 400)
			return
		}

		fields := Fields{
			Title:       &body.Title,
			Description: &body.Description,
			Category:    &body.Category,
			Priority:    &body.Priority,
		}
		if body.DueAt != nil {
			if due, err := time.Parse(time.RFC3339, *body.DueAt); err == nil {
				fields.DueAt = &due
			}
		}

		t, err := store.CreateTask(r.Context(), uid, fields)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":      t.ID,
				"title_len":    len(t.Title),
				"has_deadline": t.DueAt != nil,
				"category":     t.Category,
				"priority":     t.Priority,
				"created_from": "api",
			}
			_ = analytics.Log(r.Context(), store.DB, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		writeJSON(w, t)
	}
}

func UpdateTaskHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID      int     `json:"task_id"`
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Completed   *bool   `json:"completed"`
			DueAt       *string `json:"due_at"`
			Category    *string `json:"category"`
			Priority    *string `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", 400)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", 400)
			return
		}

		// ownership check before the partial update
		if _, err := store.GetUserTask(r.Context(), uid, body.TaskID); err != nil {
			http.Error(w, "task not found", 404)
			return
		}

		fields := Fields{
			Title:       body.Title,
			Description: body.Description,
			Completed:   body.Completed,
			Category:    body.Category,
			Priority:    body.Priority,
		}
		if body.DueAt != nil {
			if due, err := time.Parse(time.RFC3339, *body.DueAt); err == nil {
				fields.DueAt = &due
			}
		}

		t, err := store.UpdateTask(r.Context(), body.TaskID, fields)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id": t.ID,
			}
			_ = analytics.Log(r.Context(), store.DB, env, "task_updated", props, analytics.SourceEventKeyFromRequest(r))
		}

		writeJSON(w, t)
	}
}

func SetTaskStatusHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID    int  `json:"task_id"`
			Completed bool `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", 400)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", 400)
			return
		}

		prev, err := store.GetUserTask(r.Context(), uid, body.TaskID)
		if err != nil {
			http.Error(w, "task not found", 404)
			return
		}

		t, err := store.UpdateTask(r.Context(), body.TaskID, Fields{Completed: &body.Completed})
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		// analytics: task_completed / task_uncompleted
		if prev.Completed != t.Completed {
			env := analytics.FromRequest(r)
			env.UserID = uid

			event := "task_completed"
			if !t.Completed {
				event = "task_uncompleted"
			}
			props := map[string]any{
				"task_id":                t.ID,
				"time_since_created_sec": int(time.Now().UTC().Sub(t.CreatedAt).Seconds()),
			}
			_ = analytics.Log(r.Context(), store.DB, env, event, props, analytics.SourceEventKeyFromRequest(r))
		}

		writeJSON(w, t)
	}
}

func DeleteTaskHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int `json:"task_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", 400)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", 400)
			return
		}

		if _, err := store.GetUserTask(r.Context(), uid, body.TaskID); err != nil {
			http.Error(w, "task not found", 404)
			return
		}

		if err := store.DeleteTask(r.Context(), body.TaskID); err != nil {
			if err == sql.ErrNoRows {
				http.Error(w, "task not found", 404)
				return
			}
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id": body.TaskID,
			}
			_ = analytics.Log(r.Context(), store.DB, env, "task_deleted", props, analytics.SourceEventKeyFromRequest(r))
		}

		writeJSON(w, map[string]any{"ok": true})
	}
}

func StatsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := store.UserStats(r.Context(), uid, time.Now().UTC())
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		writeJSON(w, st)
	}
}
