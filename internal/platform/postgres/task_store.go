package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using PostgreSQL.
// Every statement is scoped by user_id, which is what makes foreign tasks
// indistinguishable from missing ones.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullableDate(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			"error", err,
			"task_id", task.ID,
			"user_id", task.UserID)
		return fmt.Errorf("failed to create task: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}

	return task, nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullableDate(task.DueDate),
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			"error", err,
			"task_id", task.ID,
			"user_id", task.UserID)
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		log.Error("failed to delete task",
			"error", err,
			"task_id", taskID,
			"user_id", userID)
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// List implements store.TaskStore.List
func (s *TaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	params store.TaskListParams,
) (*store.TaskPage, error) {
	log := logger.FromContext(ctx)

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = store.DefaultPageSize
	}

	q := buildTaskListQuery(userID, params)

	// The COUNT shares the predicate args but not the LIMIT/OFFSET pair
	// appended at the end.
	var total int
	countArgs := q.args[:len(q.args)-2]
	if err := s.db.QueryRowContext(ctx, q.countSQL, countArgs...).Scan(&total); err != nil {
		log.Error("failed to count tasks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to count tasks: %w", MapError(err))
	}

	rows, err := s.db.QueryContext(ctx, q.selectSQL, q.args...)
	if err != nil {
		log.Error("failed to query tasks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to query tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0, params.PageSize)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", MapError(err))
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", MapError(err))
	}

	return &store.TaskPage{
		Tasks:      tasks,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}, nil
}

// Stats implements store.TaskStore.Stats
func (s *TaskStore) Stats(ctx context.Context, userID uuid.UUID) (*store.TaskStats, error) {
	log := logger.FromContext(ctx)

	// One aggregation pass; FILTER keeps the zero buckets explicit.
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'todo'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'done'),
			COUNT(*) FILTER (WHERE priority = 'low'),
			COUNT(*) FILTER (WHERE priority = 'medium'),
			COUNT(*) FILTER (WHERE priority = 'high'),
			COUNT(*) FILTER (WHERE ` + overduePredicate + `)
		FROM tasks
		WHERE user_id = $1
	`

	stats := store.TaskStats{
		ByStatus:   make(map[domain.TaskStatus]int, 3),
		ByPriority: make(map[domain.TaskPriority]int, 3),
	}

	var todo, inProgress, done, low, medium, high int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.Total,
		&todo, &inProgress, &done,
		&low, &medium, &high,
		&stats.Overdue,
	)
	if err != nil {
		log.Error("failed to aggregate task stats", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to aggregate task stats: %w", MapError(err))
	}

	stats.ByStatus[domain.TaskStatusTodo] = todo
	stats.ByStatus[domain.TaskStatusInProgress] = inProgress
	stats.ByStatus[domain.TaskStatusDone] = done
	stats.ByPriority[domain.TaskPriorityLow] = low
	stats.ByPriority[domain.TaskPriorityMedium] = medium
	stats.ByPriority[domain.TaskPriorityHigh] = high

	return &stats, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		d := dueDate.Time
		task.DueDate = &d
	}

	return &task, nil
}

// nullableDate converts an optional due date to a driver-friendly value.
func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
