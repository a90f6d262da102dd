package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Store wraps the tasks table. Every query except GetTask is scoped to a user.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Filter narrows ListTasks results. Zero values mean "no constraint".
type Filter struct {
	Completed *bool
	Category  string
	Priority  string
	Search    string
	Due       string // "overdue" | "today" | "week"
	Limit     int
}

const taskColumns = `
	id, user_id, title, COALESCE(description,''), completed, due_at,
	category, priority, created_at, updated_at
`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var (
		t   Task
		due sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&due,
		&t.Category,
		&t.Priority,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}
	if due.Valid {
		d := due.Time
		t.DueAt = &d
	}
	return t, nil
}

// ListTasks returns the user's tasks ordered with active first, dated before
// undated, earliest deadline first, newest created last as tie-breaker.
func (s *Store) ListTasks(ctx context.Context, userID int, f Filter) ([]Task, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Completed != nil {
		add("completed = $%d", *f.Completed)
	}
	if f.Category != "" {
		add("category = $%d", NormalizeCategory(f.Category))
	}
	if f.Priority != "" {
		add("priority = $%d", NormalizePriority(f.Priority))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	switch f.Due {
	case "overdue":
		where = append(where, "NOT completed AND due_at IS NOT NULL AND due_at < now()")
	case "today":
		where = append(where, "due_at IS NOT NULL AND due_at::date = now()::date")
	case "week":
		where = append(where, "due_at IS NOT NULL AND due_at >= now() AND due_at < now() + interval '7 days'")
	}

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY completed, (due_at IS NULL), due_at, created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// GetTask looks a task up by id alone, without an ownership check.
func (s *Store) GetTask(ctx context.Context, id int) (Task, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// GetUserTask looks a task up by id and owner.
func (s *Store) GetUserTask(ctx context.Context, userID, id int) (Task, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTask(row)
}

func (s *Store) CreateTask(ctx context.Context, userID int, f Fields) (Task, error) {
	title := ""
	if f.Title != nil {
		title = ClampTitle(*f.Title)
	}
	desc := ""
	if f.Description != nil {
		desc = *f.Description
	}
	completed := false
	if f.Completed != nil {
		completed = *f.Completed
	}
	category := DefaultCategory
	if f.Category != nil {
		category = NormalizeCategory(*f.Category)
	}
	priority := DefaultPriority
	if f.Priority != nil {
		priority = NormalizePriority(*f.Priority)
	}

	var due sql.NullTime
	if f.DueAt != nil {
		due = sql.NullTime{Time: *f.DueAt, Valid: true}
	}

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (user_id, title, description, completed, due_at, category, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns,
		userID, title, desc, completed, due, category, priority,
	)
	return scanTask(row)
}

// UpdateTask applies only the supplied fields and returns the fresh row.
func (s *Store) UpdateTask(ctx context.Context, id int, f Fields) (Task, error) {
	set := []string{}
	args := []any{}

	assign := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if f.Title != nil {
		assign("title", ClampTitle(*f.Title))
	}
	if f.Description != nil {
		assign("description", *f.Description)
	}
	if f.Completed != nil {
		assign("completed", *f.Completed)
	}
	if f.DueAt != nil {
		assign("due_at", *f.DueAt)
	}
	if f.Category != nil {
		assign("category", NormalizeCategory(*f.Category))
	}
	if f.Priority != nil {
		assign("priority", NormalizePriority(*f.Priority))
	}

	if len(set) == 0 {
		return s.GetTask(ctx, id)
	}

	set = append(set, "updated_at = now()")
	args = append(args, id)

	row := s.DB.QueryRowContext(ctx, `
		UPDATE tasks
		SET `+strings.Join(set, ", ")+`
		WHERE id = $`+fmt.Sprint(len(args))+`
		RETURNING `+taskColumns,
		args...,
	)
	return scanTask(row)
}

func (s *Store) DeleteTask(ctx context.Context, id int) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Stats summarizes a user's workload for the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	DueSoon   int `json:"due_soon"`
}

func (s *Store) UserStats(ctx context.Context, userID int, now time.Time) (Stats, error) {
	var st Stats
	err := s.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE NOT completed),
			COUNT(*) FILTER (WHERE completed),
			COUNT(*) FILTER (WHERE NOT completed AND due_at IS NOT NULL AND due_at < $2),
			COUNT(*) FILTER (WHERE NOT completed AND due_at IS NOT NULL
				AND due_at >= $2 AND due_at < $2 + interval '24 hours')
		FROM tasks
		WHERE user_id = $1
	`, userID, now).Scan(&st.Total, &st.Active, &st.Completed, &st.Overdue, &st.DueSoon)
	return st, err
}
