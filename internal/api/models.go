// Package api provides the HTTP handlers, request/response models and error
// mapping for the task tracker API.
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// dateLayout is the wire format for due dates.
const dateLayout = "2006-01-02"

// Date is a calendar date (no time component) serialized as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string. JSON null leaves the
// date zeroed.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON emits the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

// OptionalDate distinguishes an absent field from an explicit JSON null.
// With a plain *Date both decode to nil, so a partial update could not tell
// "leave the date alone" apart from "clear it".
type OptionalDate struct {
	Value *Date
	Set   bool
}

// UnmarshalJSON records that the field was present. Null leaves Value nil,
// which clears the date.
func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Value = &d
	return nil
}

// Authentication models

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,min=3,max=30"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for the login endpoint. Login is by
// email, not username.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
// The token is optional in the body because cookie-mode clients carry it in
// the refresh_token cookie instead.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// LogoutRequest defines the payload for the logout endpoint.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
}

// LoginResponse is the successful login body. Tokens are returned in the
// body for programmatic clients and set as HTTP-only cookies for browsers.
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
}

// RefreshResponse is the successful token refresh body.
type RefreshResponse struct {
	Message string `json:"message"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyResponse reports whether the presented access token is valid.
type VerifyResponse struct {
	Valid bool          `json:"valid"`
	User  *UserResponse `json:"user,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Task models

// TaskWriteRequest defines the payload for task creation and full update.
// Status and priority default to todo/medium when omitted.
type TaskWriteRequest struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status"      validate:"omitempty,oneof=todo in_progress done"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *Date  `json:"due_date"`
}

// TaskPatchRequest defines the payload for partial update. Only fields
// present in the body are changed; an explicit null due_date clears it.
type TaskPatchRequest struct {
	Title       *string      `json:"title"       validate:"omitempty,max=255"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"      validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string      `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     OptionalDate `json:"due_date"    validate:"-"`
}

// TaskResponse is the full view of a task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     *Date     `json:"due_date"`
	IsOverdue   bool      `json:"is_overdue"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListItem is the lightweight per-row view used in list responses.
type TaskListItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	DueDate   *Date     `json:"due_date"`
	IsOverdue bool      `json:"is_overdue"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskListResponse is one page of tasks. Next and Previous carry the
// neighboring page numbers, or null at either end.
type TaskListResponse struct {
	Count    int            `json:"count"`
	Next     *int           `json:"next"`
	Previous *int           `json:"previous"`
	Results  []TaskListItem `json:"results"`
}

// StatsResponse aggregates the authenticated user's tasks.
type StatsResponse struct {
	Total      int                         `json:"total"`
	ByStatus   map[domain.TaskStatus]int   `json:"by_status"`
	ByPriority map[domain.TaskPriority]int `json:"by_priority"`
	Overdue    int                         `json:"overdue"`
}

// userToResponse converts a domain user to its public view.
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		DateJoined: user.CreatedAt,
	}
}

// taskToResponse converts a domain task to its full view.
func taskToResponse(task *domain.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     dateOrNil(task.DueDate),
		IsOverdue:   task.IsOverdue(now),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// taskPageToResponse converts a store page to the wire format.
func taskPageToResponse(page *store.TaskPage, now time.Time) TaskListResponse {
	items := make([]TaskListItem, 0, len(page.Tasks))
	for i := range page.Tasks {
		task := &page.Tasks[i]
		items = append(items, TaskListItem{
			ID:        task.ID,
			Title:     task.Title,
			Status:    string(task.Status),
			Priority:  string(task.Priority),
			DueDate:   dateOrNil(task.DueDate),
			IsOverdue: task.IsOverdue(now),
			CreatedAt: task.CreatedAt,
		})
	}

	resp := TaskListResponse{
		Count:   page.TotalCount,
		Results: items,
	}
	if page.HasNext() {
		next := page.Page + 1
		resp.Next = &next
	}
	if page.HasPrevious() {
		prev := page.Page - 1
		resp.Previous = &prev
	}
	return resp
}

func dateOrNil(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: *t}
}
