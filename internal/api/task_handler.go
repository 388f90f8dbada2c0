package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// TaskHandler handles task-related HTTP requests. Every operation is scoped
// to the authenticated principal; other users' tasks are reported as not
// found.
type TaskHandler struct {
	taskStore store.TaskStore
	pageSize  int
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore, pageSize int, log *slog.Logger) *TaskHandler {
	if pageSize < 1 {
		pageSize = store.DefaultPageSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskStore: taskStore,
		pageSize:  pageSize,
		logger:    log.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /api/tasks.
// Supports filtering (status, priority, due_date, due_date_before,
// due_date_after, is_overdue), search over title/description, ordering and
// pagination.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	params, fieldErrs := parseListParams(r.URL.Query(), h.pageSize)
	if len(fieldErrs) > 0 {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, "Invalid query parameters", fieldErrs)
		return
	}

	page, err := h.taskStore.List(r.Context(), userID, params)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list tasks", err)
		return
	}

	// An empty first page is a valid empty listing; an empty later page is
	// past the end.
	if page.Page > 1 && len(page.Tasks) == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, "Invalid page.")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskPageToResponse(page, time.Now()))
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req TaskWriteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation error", ValidationFieldErrors(err))
		return
	}

	task, err := domain.NewTask(
		userID,
		req.Title,
		req.Description,
		domain.TaskStatus(req.Status),
		domain.TaskPriority(req.Priority),
		dueDateValue(req.DueDate),
	)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create task", err)
		return
	}

	log.Debug("task created", "task_id", task.ID, "user_id", userID)
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task, time.Now()))
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, time.Now()))
}

// Update handles PUT /api/tasks/{id}.
// Full update: omitted status/priority fall back to their defaults and an
// omitted due date clears it, exactly like creation.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	var req TaskWriteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation error", ValidationFieldErrors(err))
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	task.Title = strings.TrimSpace(req.Title)
	task.Description = req.Description
	task.Status = domain.TaskStatus(req.Status)
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	task.Priority = domain.TaskPriority(req.Priority)
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	task.DueDate = dueDateValue(req.DueDate)
	task.UpdatedAt = time.Now().UTC()

	h.saveAndRespond(w, r, task)
}

// Patch handles PATCH /api/tasks/{id}.
// Partial update: only fields present in the body change.
func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	var req TaskPatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation error", ValidationFieldErrors(err))
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, "Validation error",
				map[string]string{"title": "Title cannot be empty or whitespace only."})
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.DueDate.Set {
		task.DueDate = dueDateValue(req.DueDate.Value)
	}
	task.UpdatedAt = time.Now().UTC()

	h.saveAndRespond(w, r, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task deleted", "task_id", taskID, "user_id", userID)
	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// Complete handles POST /api/tasks/{id}/complete.
// Idempotent: completing an already-done task succeeds and leaves it done.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	task.Complete(time.Now())

	h.saveAndRespond(w, r, task)
}

// Stats handles GET /api/tasks/stats.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	stats, err := h.taskStore.Stats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to aggregate task statistics", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatsResponse{
		Total:      stats.Total,
		ByStatus:   stats.ByStatus,
		ByPriority: stats.ByPriority,
		Overdue:    stats.Overdue,
	})
}

// saveAndRespond validates and persists a mutated task, then writes the
// full task view.
func (h *TaskHandler) saveAndRespond(w http.ResponseWriter, r *http.Request, task *domain.Task) {
	if err := task.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, time.Now()))
}

// parseListParams translates the query string into TaskListParams.
// Returns a field -> message map describing every malformed parameter.
func parseListParams(query url.Values, pageSize int) (store.TaskListParams, map[string]string) {
	params := store.TaskListParams{
		Search:   query.Get("search"),
		Ordering: query.Get("ordering"),
		Page:     1,
		PageSize: pageSize,
	}
	fieldErrs := make(map[string]string)

	if v := query.Get("status"); v != "" {
		status := domain.TaskStatus(v)
		if !status.Valid() {
			fieldErrs["status"] = "Invalid value."
		} else {
			params.Filters.Status = &status
		}
	}

	if v := query.Get("priority"); v != "" {
		priority := domain.TaskPriority(v)
		if !priority.Valid() {
			fieldErrs["priority"] = "Invalid value."
		} else {
			params.Filters.Priority = &priority
		}
	}

	params.Filters.DueDate = parseDateParam(query, "due_date", fieldErrs)
	params.Filters.DueDateAfter = parseDateParam(query, "due_date_after", fieldErrs)
	params.Filters.DueDateBefore = parseDateParam(query, "due_date_before", fieldErrs)

	if v := query.Get("is_overdue"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			fieldErrs["is_overdue"] = "Invalid value."
		} else {
			params.Filters.IsOverdue = &overdue
		}
	}

	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			fieldErrs["page"] = "Invalid page number."
		} else {
			params.Page = page
		}
	}

	if len(fieldErrs) == 0 {
		return params, nil
	}
	return params, fieldErrs
}

func parseDateParam(query url.Values, name string, fieldErrs map[string]string) *time.Time {
	v := query.Get(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		fieldErrs[name] = fmt.Sprintf("Invalid date, expected %s.", dateLayout)
		return nil
	}
	return &t
}

func dueDateValue(d *Date) *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
