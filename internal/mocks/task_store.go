package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// MockTaskStore provides a mock implementation of store.TaskStore for testing
type MockTaskStore struct {
	CreateFunc  func(ctx context.Context, task *domain.Task) error
	GetByIDFunc func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateFunc  func(ctx context.Context, task *domain.Task) error
	DeleteFunc  func(ctx context.Context, userID, taskID uuid.UUID) error
	ListFunc    func(ctx context.Context, userID uuid.UUID, params store.TaskListParams) (*store.TaskPage, error)
	StatsFunc   func(ctx context.Context, userID uuid.UUID) (*store.TaskStats, error)
}

// Create implements the store.TaskStore interface for testing
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

// GetByID implements the store.TaskStore interface for testing
func (m *MockTaskStore) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, taskID)
	}
	return nil, store.ErrTaskNotFound
}

// Update implements the store.TaskStore interface for testing
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

// Delete implements the store.TaskStore interface for testing
func (m *MockTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, taskID)
	}
	return nil
}

// List implements the store.TaskStore interface for testing
func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	params store.TaskListParams,
) (*store.TaskPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, params)
	}
	return &store.TaskPage{Page: params.Page, PageSize: params.PageSize}, nil
}

// Stats implements the store.TaskStore interface for testing
func (m *MockTaskStore) Stats(ctx context.Context, userID uuid.UUID) (*store.TaskStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, userID)
	}
	return &store.TaskStats{
		ByStatus:   map[domain.TaskStatus]int{},
		ByPriority: map[domain.TaskPriority]int{},
	}, nil
}
