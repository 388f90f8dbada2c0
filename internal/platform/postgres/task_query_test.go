package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

func TestBuildTaskListQueryDefaults(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	q := buildTaskListQuery(userID, store.TaskListParams{Page: 1, PageSize: 10})

	assert.Equal(t,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 "+
			"ORDER BY created_at DESC, id ASC LIMIT $2 OFFSET $3",
		q.selectSQL)
	assert.Equal(t, "SELECT COUNT(*) FROM tasks WHERE user_id = $1", q.countSQL)
	require.Len(t, q.args, 3)
	assert.Equal(t, userID, q.args[0])
	assert.Equal(t, 10, q.args[1])
	assert.Equal(t, 0, q.args[2])
}

func TestBuildTaskListQueryFilters(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	status := domain.TaskStatusTodo
	priority := domain.TaskPriorityHigh
	after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	q := buildTaskListQuery(userID, store.TaskListParams{
		Filters: store.TaskFilters{
			Status:        &status,
			Priority:      &priority,
			DueDateAfter:  &after,
			DueDateBefore: &before,
		},
		Page:     2,
		PageSize: 10,
	})

	assert.Contains(t, q.selectSQL, "status = $2")
	assert.Contains(t, q.selectSQL, "priority = $3")
	assert.Contains(t, q.selectSQL, "due_date >= $4")
	assert.Contains(t, q.selectSQL, "due_date <= $5")
	assert.Contains(t, q.selectSQL, "LIMIT $6 OFFSET $7")

	// COUNT shares the predicate but not the paging args
	assert.Contains(t, q.countSQL, "status = $2")
	assert.NotContains(t, q.countSQL, "LIMIT")

	require.Len(t, q.args, 7)
	assert.Equal(t, status, q.args[1])
	assert.Equal(t, priority, q.args[2])
	assert.Equal(t, 10, q.args[5])
	assert.Equal(t, 10, q.args[6]) // page 2 offset
}

func TestBuildTaskListQueryOverdue(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("overdue true", func(t *testing.T) {
		t.Parallel()
		overdue := true
		q := buildTaskListQuery(userID, store.TaskListParams{
			Filters: store.TaskFilters{IsOverdue: &overdue},
		})
		assert.Contains(t, q.selectSQL, "AND "+overduePredicate)
		assert.NotContains(t, q.selectSQL, "NOT "+overduePredicate)
	})

	t.Run("overdue false matches the complement", func(t *testing.T) {
		t.Parallel()
		overdue := false
		q := buildTaskListQuery(userID, store.TaskListParams{
			Filters: store.TaskFilters{IsOverdue: &overdue},
		})
		assert.Contains(t, q.selectSQL, "NOT "+overduePredicate)
	})
}

func TestBuildTaskListQuerySearch(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("matches title or description", func(t *testing.T) {
		t.Parallel()
		q := buildTaskListQuery(userID, store.TaskListParams{Search: "report"})
		assert.Contains(t, q.selectSQL, "(title ILIKE $2 OR description ILIKE $2)")
		assert.Equal(t, "%report%", q.args[1])
	})

	t.Run("escapes wildcard characters", func(t *testing.T) {
		t.Parallel()
		q := buildTaskListQuery(userID, store.TaskListParams{Search: `50%_done\`})
		assert.Equal(t, `%50\%\_done\\%`, q.args[1])
	})
}

func TestOrderClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ordering string
		want     string
	}{
		{"", "created_at DESC, id ASC"},
		{"due_date", "due_date ASC, id ASC"},
		{"-due_date", "due_date DESC, id ASC"},
		{"priority", "priority ASC, id ASC"},
		{"-status", "status DESC, id ASC"},
		{"updated_at", "updated_at ASC, id ASC"},
		// Unknown fields fall back to the default ordering
		{"title; DROP TABLE tasks", "created_at DESC, id ASC"},
		{"-unknown", "created_at DESC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.ordering, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, orderClause(tt.ordering))
		})
	}
}

func TestBuildTaskListQueryClampsPaging(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	q := buildTaskListQuery(userID, store.TaskListParams{Page: 0, PageSize: 0})

	require.Len(t, q.args, 3)
	assert.Equal(t, store.DefaultPageSize, q.args[1])
	assert.Equal(t, 0, q.args[2])
}
