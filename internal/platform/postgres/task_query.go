package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// taskColumns is the column list shared by every task SELECT.
const taskColumns = "id, user_id, title, description, status, priority, due_date, created_at, updated_at"

// overduePredicate matches tasks whose due date has passed without the task
// being done. Tasks without a due date are never overdue.
const overduePredicate = "(due_date IS NOT NULL AND due_date < CURRENT_DATE AND status <> 'done')"

// orderableColumns whitelists the fields a client may order by.
var orderableColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"status":     "status",
}

// taskListQuery holds the assembled SQL for one task list request: a SELECT
// for the page rows and a COUNT over the same predicate.
type taskListQuery struct {
	selectSQL string
	countSQL  string
	args      []interface{}
}

// buildTaskListQuery translates TaskListParams into SQL. All conditions are
// AND-combined; the search term matches title or description
// case-insensitively. Arguments are positional and shared between the page
// SELECT and the COUNT (the SELECT appends LIMIT/OFFSET args).
func buildTaskListQuery(userID uuid.UUID, params store.TaskListParams) taskListQuery {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	f := params.Filters
	if f.Status != nil {
		conds = append(conds, "status = "+arg(*f.Status))
	}
	if f.Priority != nil {
		conds = append(conds, "priority = "+arg(*f.Priority))
	}
	if f.DueDate != nil {
		conds = append(conds, "due_date = "+arg(*f.DueDate))
	}
	if f.DueDateAfter != nil {
		conds = append(conds, "due_date >= "+arg(*f.DueDateAfter))
	}
	if f.DueDateBefore != nil {
		conds = append(conds, "due_date <= "+arg(*f.DueDateBefore))
	}
	if f.IsOverdue != nil {
		if *f.IsOverdue {
			conds = append(conds, overduePredicate)
		} else {
			conds = append(conds, "NOT "+overduePredicate)
		}
	}

	if params.Search != "" {
		pattern := arg("%" + escapeLike(params.Search) + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", pattern, pattern))
	}

	where := strings.Join(conds, " AND ")
	countSQL := "SELECT COUNT(*) FROM tasks WHERE " + where

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = store.DefaultPageSize
	}

	selectSQL := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE %s ORDER BY %s LIMIT %s OFFSET %s",
		taskColumns,
		where,
		orderClause(params.Ordering),
		arg(pageSize),
		arg((page-1)*pageSize),
	)

	return taskListQuery{selectSQL: selectSQL, countSQL: countSQL, args: args}
}

// orderClause maps an ordering parameter ("field" or "-field") to an ORDER BY
// clause. Unknown fields fall back to the default ordering, newest first.
// The task ID breaks ties so pagination stays stable.
func orderClause(ordering string) string {
	column, direction := "created_at", "DESC"

	field := strings.TrimSpace(ordering)
	if field != "" {
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		if col, ok := orderableColumns[field]; ok {
			column, direction = col, dir
		}
	}

	return fmt.Sprintf("%s %s, id ASC", column, direction)
}

// escapeLike escapes the ILIKE wildcard characters in a user-supplied search
// term so they match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
