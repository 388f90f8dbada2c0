package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

// DefaultPageSize is the number of tasks per page when the config does not
// override it.
const DefaultPageSize = 10

// TaskFilters holds the optional, AND-combined filters of a task list query.
// Nil pointers mean the filter is not applied.
type TaskFilters struct {
	Status        *domain.TaskStatus
	Priority      *domain.TaskPriority
	DueDate       *time.Time // exact date match
	DueDateAfter  *time.Time // due_date >= value
	DueDateBefore *time.Time // due_date <= value
	IsOverdue     *bool      // true: due_date < today AND status != done; false: the complement
}

// TaskListParams describes one page of a filtered, searched, ordered task
// listing. Ordering uses the field name with an optional leading '-' for
// descending; the zero value means the default ordering (-created_at).
type TaskListParams struct {
	Filters  TaskFilters
	Search   string // case-insensitive substring over title OR description
	Ordering string
	Page     int // 1-based
	PageSize int
}

// TaskPage is one page of task list results plus the total match count.
type TaskPage struct {
	Tasks      []domain.Task
	TotalCount int
	Page       int
	PageSize   int
}

// HasNext reports whether a later page exists.
func (p TaskPage) HasNext() bool {
	return p.Page*p.PageSize < p.TotalCount
}

// HasPrevious reports whether an earlier page exists.
func (p TaskPage) HasPrevious() bool {
	return p.Page > 1
}

// TaskStats aggregates one user's tasks by status and priority.
// Every known status and priority appears as a key, zero-count included.
type TaskStats struct {
	Total      int
	ByStatus   map[domain.TaskStatus]int
	ByPriority map[domain.TaskPriority]int
	Overdue    int
}

// TaskStore defines the interface for task data persistence.
// Every read and write is scoped to an owning user; a task owned by another
// user behaves exactly like a missing task (ErrTaskNotFound).
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound if it does not exist or is not owned by userID.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// Update persists the task's mutable fields (title, description, status,
	// priority, due date, updated_at), scoped to task.UserID.
	// Returns ErrTaskNotFound if it does not exist or is not owned.
	Update(ctx context.Context, task *domain.Task) error

	// Delete permanently removes a task, scoped to the given owner.
	// Returns ErrTaskNotFound if it does not exist or is not owned by userID.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	// List returns one page of the owner's tasks matching params.
	List(ctx context.Context, userID uuid.UUID, params TaskListParams) (*TaskPage, error)

	// Stats aggregates the owner's tasks by status and priority and counts
	// overdue tasks (due before today and not done).
	Stats(ctx context.Context, userID uuid.UUID) (*TaskStats, error)
}
