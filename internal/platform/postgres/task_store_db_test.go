//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
	"github.com/tasktrackhq/tasktrack-api/internal/testdb"
)

// daysFromNow returns a midnight UTC date n days away. Offsets of two or
// more days keep the overdue predicate unambiguous regardless of the
// database session timezone.
func daysFromNow(n int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, n)
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func seedDBUser(t *testing.T, tx *sql.Tx, username, email string) uuid.UUID {
	t.Helper()

	user, err := domain.NewUser(username, email, "password123")
	require.NoError(t, err, "Failed to build test user")
	user.HashedPassword = "test-hash-not-checked-here"

	userStore := NewUserStore(tx)
	require.NoError(t, userStore.Create(context.Background(), user), "Failed to seed test user")
	return user.ID
}

func seedDBTask(
	t *testing.T,
	taskStore *TaskStore,
	userID uuid.UUID,
	title, description string,
	status domain.TaskStatus,
	priority domain.TaskPriority,
	dueDate *time.Time,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title, description, status, priority, dueDate)
	require.NoError(t, err, "Failed to build test task")
	require.NoError(t, taskStore.Create(context.Background(), task), "Failed to seed test task")
	return task
}

func listTitles(tasks []domain.Task) []string {
	titles := make([]string, 0, len(tasks))
	for i := range tasks {
		titles = append(titles, tasks[i].Title)
	}
	return titles
}

func TestTaskStoreListFilters(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		taskStore := NewTaskStore(tx)
		userID := seedDBUser(t, tx, "listuser", "listuser@example.com")

		// One overdue, one due later, one already done past its date, one
		// without a date.
		seedDBTask(t, taskStore, userID, "Pay invoice", "supplier invoice for May",
			domain.TaskStatusTodo, domain.TaskPriorityHigh, daysFromNow(-2))
		seedDBTask(t, taskStore, userID, "Write report", "quarterly numbers",
			domain.TaskStatusInProgress, domain.TaskPriorityMedium, daysFromNow(2))
		seedDBTask(t, taskStore, userID, "Old chore", "already handled",
			domain.TaskStatusDone, domain.TaskPriorityLow, daysFromNow(-2))
		seedDBTask(t, taskStore, userID, "Backlog idea", "someday maybe",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, nil)

		statusTodo := domain.TaskStatusTodo
		priorityHigh := domain.TaskPriorityHigh
		overdue := true
		notOverdue := false

		tests := []struct {
			name       string
			params     store.TaskListParams
			wantTitles []string
		}{
			{
				name:       "no filters returns everything",
				params:     store.TaskListParams{},
				wantTitles: []string{"Pay invoice", "Write report", "Old chore", "Backlog idea"},
			},
			{
				name:       "status filter",
				params:     store.TaskListParams{Filters: store.TaskFilters{Status: &statusTodo}},
				wantTitles: []string{"Pay invoice", "Backlog idea"},
			},
			{
				name:       "priority filter",
				params:     store.TaskListParams{Filters: store.TaskFilters{Priority: &priorityHigh}},
				wantTitles: []string{"Pay invoice"},
			},
			{
				name:       "overdue means past due and not done",
				params:     store.TaskListParams{Filters: store.TaskFilters{IsOverdue: &overdue}},
				wantTitles: []string{"Pay invoice"},
			},
			{
				name:       "not overdue is the exact complement",
				params:     store.TaskListParams{Filters: store.TaskFilters{IsOverdue: &notOverdue}},
				wantTitles: []string{"Write report", "Old chore", "Backlog idea"},
			},
			{
				name:       "exact due date",
				params:     store.TaskListParams{Filters: store.TaskFilters{DueDate: daysFromNow(-2)}},
				wantTitles: []string{"Pay invoice", "Old chore"},
			},
			{
				name:       "due date lower bound",
				params:     store.TaskListParams{Filters: store.TaskFilters{DueDateAfter: daysFromNow(2)}},
				wantTitles: []string{"Write report"},
			},
			{
				name:       "due date upper bound",
				params:     store.TaskListParams{Filters: store.TaskFilters{DueDateBefore: daysFromNow(-2)}},
				wantTitles: []string{"Pay invoice", "Old chore"},
			},
			{
				name:       "search matches title",
				params:     store.TaskListParams{Search: "invoice"},
				wantTitles: []string{"Pay invoice"},
			},
			{
				name:       "search is case-insensitive over description",
				params:     store.TaskListParams{Search: "QUARTERLY"},
				wantTitles: []string{"Write report"},
			},
			{
				name: "filters combine with AND",
				params: store.TaskListParams{
					Filters: store.TaskFilters{Status: &statusTodo},
					Search:  "maybe",
				},
				wantTitles: []string{"Backlog idea"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				page, err := taskStore.List(ctx, userID, tt.params)
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.wantTitles, listTitles(page.Tasks))
				assert.Equal(t, len(tt.wantTitles), page.TotalCount,
					"total count must match the filtered result set")
			})
		}
	})
}

func TestTaskStoreListOrdering(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		taskStore := NewTaskStore(tx)
		userID := seedDBUser(t, tx, "orderuser", "orderuser@example.com")

		seedDBTask(t, taskStore, userID, "Due soon", "",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, daysFromNow(2))
		seedDBTask(t, taskStore, userID, "Due later", "",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, daysFromNow(5))
		seedDBTask(t, taskStore, userID, "No due date", "",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, nil)

		page, err := taskStore.List(ctx, userID, store.TaskListParams{Ordering: "due_date"})
		require.NoError(t, err)
		// Ascending puts the earliest date first and NULL dates last.
		require.Len(t, page.Tasks, 3)
		assert.Equal(t, []string{"Due soon", "Due later", "No due date"}, listTitles(page.Tasks))

		page, err = taskStore.List(ctx, userID, store.TaskListParams{Ordering: "-due_date"})
		require.NoError(t, err)
		// Descending puts NULL dates first, then the latest date.
		require.Len(t, page.Tasks, 3)
		assert.Equal(t, []string{"No due date", "Due later", "Due soon"}, listTitles(page.Tasks))
	})
}

func TestTaskStoreListPagination(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		taskStore := NewTaskStore(tx)
		userID := seedDBUser(t, tx, "pageuser", "pageuser@example.com")
		otherID := seedDBUser(t, tx, "pageother", "pageother@example.com")

		for i := 1; i <= 25; i++ {
			seedDBTask(t, taskStore, userID, fmt.Sprintf("Chore %02d", i), "",
				domain.TaskStatusTodo, domain.TaskPriorityMedium, nil)
		}
		seedDBTask(t, taskStore, otherID, "Foreign chore", "",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, nil)

		first, err := taskStore.List(ctx, userID, store.TaskListParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, first.Tasks, 10)
		assert.Equal(t, 25, first.TotalCount, "other users' tasks must not be counted")
		assert.True(t, first.HasNext())
		assert.False(t, first.HasPrevious())

		last, err := taskStore.List(ctx, userID, store.TaskListParams{Page: 3, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, last.Tasks, 5)
		assert.Equal(t, 25, last.TotalCount)
		assert.False(t, last.HasNext())
		assert.True(t, last.HasPrevious())

		// Pages must not overlap.
		seen := make(map[uuid.UUID]bool)
		for page := 1; page <= 3; page++ {
			p, err := taskStore.List(ctx, userID, store.TaskListParams{Page: page, PageSize: 10})
			require.NoError(t, err)
			for i := range p.Tasks {
				assert.False(t, seen[p.Tasks[i].ID], "task returned on two pages")
				seen[p.Tasks[i].ID] = true
			}
		}
		assert.Len(t, seen, 25)
	})
}

func TestTaskStoreStatsAggregation(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		taskStore := NewTaskStore(tx)
		userID := seedDBUser(t, tx, "statsuser", "statsuser@example.com")

		seedDBTask(t, taskStore, userID, "Overdue todo", "",
			domain.TaskStatusTodo, domain.TaskPriorityHigh, daysFromNow(-2))
		seedDBTask(t, taskStore, userID, "Open todo", "",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, nil)
		seedDBTask(t, taskStore, userID, "Running", "",
			domain.TaskStatusInProgress, domain.TaskPriorityLow, daysFromNow(2))
		seedDBTask(t, taskStore, userID, "Finished late", "",
			domain.TaskStatusDone, domain.TaskPriorityLow, daysFromNow(-2))

		stats, err := taskStore.Stats(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.ByStatus[domain.TaskStatusTodo])
		assert.Equal(t, 1, stats.ByStatus[domain.TaskStatusInProgress])
		assert.Equal(t, 1, stats.ByStatus[domain.TaskStatusDone])
		assert.Equal(t, 2, stats.ByPriority[domain.TaskPriorityLow])
		assert.Equal(t, 1, stats.ByPriority[domain.TaskPriorityMedium])
		assert.Equal(t, 1, stats.ByPriority[domain.TaskPriorityHigh])
		// A done task past its date is not overdue.
		assert.Equal(t, 1, stats.Overdue)

		statusSum := 0
		for _, n := range stats.ByStatus {
			statusSum += n
		}
		prioritySum := 0
		for _, n := range stats.ByPriority {
			prioritySum += n
		}
		assert.Equal(t, stats.Total, statusSum)
		assert.Equal(t, stats.Total, prioritySum)
	})
}

func TestTaskStoreStatsZeroBuckets(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		taskStore := NewTaskStore(tx)
		userID := seedDBUser(t, tx, "emptyuser", "emptyuser@example.com")

		seedDBTask(t, taskStore, userID, "Only task", "",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, nil)

		stats, err := taskStore.Stats(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 0, stats.Overdue)
		// Every bucket is present even when empty.
		for _, status := range []domain.TaskStatus{
			domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone,
		} {
			_, ok := stats.ByStatus[status]
			assert.True(t, ok, "missing status bucket %s", status)
		}
		for _, priority := range []domain.TaskPriority{
			domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh,
		} {
			_, ok := stats.ByPriority[priority]
			assert.True(t, ok, "missing priority bucket %s", priority)
		}
	})
}

func TestTaskStoreOwnerScoping(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		taskStore := NewTaskStore(tx)
		ownerID := seedDBUser(t, tx, "owneruser", "owneruser@example.com")
		strangerID := seedDBUser(t, tx, "stranger", "stranger@example.com")

		task := seedDBTask(t, taskStore, ownerID, "Private task", "",
			domain.TaskStatusTodo, domain.TaskPriorityMedium, nil)

		_, err := taskStore.GetByID(ctx, strangerID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		stolen := *task
		stolen.UserID = strangerID
		stolen.Title = "Hijacked"
		assert.ErrorIs(t, taskStore.Update(ctx, &stolen), store.ErrTaskNotFound)

		assert.ErrorIs(t, taskStore.Delete(ctx, strangerID, task.ID), store.ErrTaskNotFound)

		// The owner still sees the task untouched.
		got, err := taskStore.GetByID(ctx, ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Private task", got.Title)
	})
}
