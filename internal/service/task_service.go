package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// TaskService manages personal to-do items. Tasks are private: only the
// owner or an admin can read or change them.
type TaskService struct {
	tasks repository.TaskRepository
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// TaskInput carries writable task fields.
type TaskInput struct {
	Title     string
	Notes     string
	ClientID  *string
	DueDate   *time.Time
	Completed bool
}

// CreateTask inserts a task owned by the actor.
func (s *TaskService) CreateTask(ctx context.Context, actor *domain.User, input TaskInput) (*domain.Task, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	task := &domain.Task{
		UserID:    actor.ID,
		ClientID:  input.ClientID,
		Title:     input.Title,
		Notes:     input.Notes,
		DueDate:   input.DueDate,
		Completed: input.Completed,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask merges fields onto a task the actor may change.
func (s *TaskService) UpdateTask(ctx context.Context, actor *domain.User, id string, input TaskInput) (*domain.Task, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	task, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	task.Title = input.Title
	task.Notes = input.Notes
	task.ClientID = input.ClientID
	task.DueDate = input.DueDate
	task.Completed = input.Completed
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task the actor may change.
func (s *TaskService) DeleteTask(ctx context.Context, actor *domain.User, id string) error {
	task, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task.ID)
}

// ListTasks returns the actor's tasks.
func (s *TaskService) ListTasks(ctx context.Context, actor *domain.User, openOnly bool) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, actor.ID, openOnly)
}

func (s *TaskService) getOwned(ctx context.Context, actor *domain.User, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": id})
		}
		return nil, err
	}
	if task.UserID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("not your task")
	}
	return task, nil
}
