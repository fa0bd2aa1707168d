package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/observability"
	"github.com/noah-isme/tdt-go-api/internal/permission"
	"github.com/noah-isme/tdt-go-api/internal/repository"
)

// TaskService implements the task and assignment workflow.
type TaskService interface {
	List(ctx context.Context, actor permission.Actor, req dto.TaskListRequest) (dto.TaskListResponse, error)
	Get(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error)
	Create(ctx context.Context, actor permission.Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, actor permission.Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, actor permission.Actor, id uint) error
	Accept(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error)
	Reject(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error)
	Start(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error)
	Activities(ctx context.Context, actor permission.Actor, id uint, page, pageSize int) ([]dto.TaskActivityResponse, dto.PaginationMeta, error)
}

type taskService struct {
	tx         repository.Transactor
	tasks      repository.TaskRepository
	activities repository.TaskActivityRepository
	projects   repository.ProjectRepository
	users      repository.UserRepository
	events     TaskEventPublisher
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTaskService constructs a TaskService. A nil publisher disables event fan-out.
func NewTaskService(tx repository.Transactor, tasks repository.TaskRepository, activities repository.TaskActivityRepository, projects repository.ProjectRepository, users repository.UserRepository, events TaskEventPublisher, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		tx:         tx,
		tasks:      tasks,
		activities: activities,
		projects:   projects,
		users:      users,
		events:     events,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "task_service").Logger(),
		now:        time.Now,
	}
}

type activityRecorder struct {
	repo      repository.TaskActivityRepository
	now       func() time.Time
	projectID uint
	entries   []models.TaskActivity
}

func (r *activityRecorder) record(ctx context.Context, taskID, userID uint, action, details string) error {
	entry := models.TaskActivity{
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: r.now().UTC(),
	}
	if err := r.repo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("record %s activity: %w", action, err)
	}
	r.entries = append(r.entries, entry)
	return nil
}

// mutate runs fn in one transaction together with the activity rows it records, then
// publishes the recorded entries once the transaction has committed.
func (s *taskService) mutate(ctx context.Context, fn func(ctx context.Context, rec *activityRecorder) error) error {
	rec := &activityRecorder{repo: s.activities, now: s.now}
	if err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return fn(txCtx, rec)
	}); err != nil {
		return err
	}

	for _, entry := range rec.entries {
		observability.TaskTransitions().WithLabelValues(entry.Action).Inc()
	}
	if s.events != nil {
		s.events.Publish(ctx, rec.projectID, rec.entries)
	}
	return nil
}

func (s *taskService) loadTask(ctx context.Context, id uint) (models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, notFound(err, ErrTaskNotFound)
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, actor permission.Actor, req dto.TaskListRequest) (dto.TaskListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TaskListResponse{}, err
	}
	page, pageSize := normalizePage(req.Page, req.PageSize)

	filter := repository.TaskFilter{
		ProjectID: req.ProjectID,
		Status:    req.Status,
		Page:      page,
		PageSize:  pageSize,
	}
	if req.ProjectID != nil {
		if _, err := loadProject(ctx, s.projects, *req.ProjectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
			return dto.TaskListResponse{}, err
		}
	} else {
		involved := actor.ID
		filter.InvolvedUserID = &involved
	}

	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return dto.TaskListResponse{}, err
	}

	return dto.TaskListResponse{
		Items:      dto.NewTaskResponseSlice(tasks),
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *taskService) Get(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error) {
	task, err := s.loadTask(ctx, id)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if _, err := loadProject(ctx, s.projects, task.ProjectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Create(ctx context.Context, actor permission.Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	var task models.Task
	err := s.mutate(ctx, func(ctx context.Context, rec *activityRecorder) error {
		if _, err := loadProject(ctx, s.projects, payload.ProjectID, actor, permission.CanManage, ErrProjectManageDenied); err != nil {
			return err
		}
		rec.projectID = payload.ProjectID

		task = models.Task{
			Title:       payload.Title,
			Description: s.sanitize(payload.Description),
			Status:      models.TaskStatusTodo,
			ProjectID:   payload.ProjectID,
			CreatorID:   actor.ID,
		}
		if payload.AssigneeID != nil {
			if err := s.ensureAssignee(ctx, *payload.AssigneeID); err != nil {
				return err
			}
			task.AssigneeID = uintPtr(*payload.AssigneeID)
			task.AssignmentStatus = stringPtr(models.AssignmentStatusPending)
		}

		if err := s.tasks.Create(ctx, &task); err != nil {
			return err
		}
		if err := rec.record(ctx, task.ID, actor.ID, models.ActivityCreated, "Task created"); err != nil {
			return err
		}
		if task.AssigneeID != nil {
			return rec.record(ctx, task.ID, actor.ID, models.ActivityAssigned, fmt.Sprintf("Assigned to user %d", *task.AssigneeID))
		}
		return nil
	})
	if err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Uint("project_id", task.ProjectID).Msg("task created")
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, actor permission.Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if payload.Title != nil {
		trimmed := strings.TrimSpace(*payload.Title)
		payload.Title = &trimmed
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	var task models.Task
	err := s.mutate(ctx, func(ctx context.Context, rec *activityRecorder) error {
		var err error
		task, err = s.loadTask(ctx, id)
		if err != nil {
			return err
		}
		project, err := loadProject(ctx, s.projects, task.ProjectID, actor, nil, nil)
		if err != nil {
			return err
		}
		rec.projectID = project.ID
		scope := permission.ScopeOf(project)

		if !permission.CanEditTask(actor, scope, task) {
			return ErrTaskEditDenied
		}

		var changes []func() error

		if payload.AssigneeID != nil && *payload.AssigneeID != valueOf(task.AssigneeID) {
			if !permission.CanManage(actor, scope) {
				return newError(ErrForbidden, "only the project owner or an admin can change the assignee")
			}
			next := *payload.AssigneeID
			details := "Unassigned"
			if next == 0 {
				task.AssigneeID = nil
				task.AssignmentStatus = nil
			} else {
				if err := s.ensureAssignee(ctx, next); err != nil {
					return err
				}
				task.AssigneeID = uintPtr(next)
				task.AssignmentStatus = stringPtr(models.AssignmentStatusPending)
				details = fmt.Sprintf("Reassigned to user %d", next)
			}
			task.WorkingUserID = nil
			changes = append(changes, func() error {
				return rec.record(ctx, task.ID, actor.ID, models.ActivityReassigned, details)
			})
		}

		if payload.Title != nil && *payload.Title != task.Title {
			task.Title = *payload.Title
			changes = append(changes, func() error {
				return rec.record(ctx, task.ID, actor.ID, models.ActivityUpdated, "Title updated")
			})
		}

		if payload.Description != nil {
			description := s.sanitize(*payload.Description)
			if description != task.Description {
				task.Description = description
				changes = append(changes, func() error {
					return rec.record(ctx, task.ID, actor.ID, models.ActivityUpdated, "Description updated")
				})
			}
		}

		if payload.Status != nil && *payload.Status != task.Status {
			previous := task.Status
			task.Status = *payload.Status
			changes = append(changes, func() error {
				return rec.record(ctx, task.ID, actor.ID, models.ActivityStatusChanged, fmt.Sprintf("Status changed from %s to %s", previous, task.Status))
			})
		}

		if len(changes) == 0 {
			return nil
		}

		if err := s.tasks.Update(ctx, &task); err != nil {
			return err
		}
		for _, record := range changes {
			if err := record(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, actor permission.Actor, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.loadTask(ctx, id)
		if err != nil {
			return err
		}
		if _, err := loadProject(ctx, s.projects, task.ProjectID, actor, permission.CanManage, newError(ErrForbidden, "only the project owner or an admin can delete tasks")); err != nil {
			return err
		}
		if err := s.tasks.Delete(ctx, id); err != nil {
			return notFound(err, ErrTaskNotFound)
		}
		s.logger.Info().Uint("task_id", id).Uint("actor_id", actor.ID).Msg("task deleted")
		return nil
	})
}

func (s *taskService) Accept(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error) {
	return s.respond(ctx, actor, id, func(task *models.Task) (string, string) {
		task.AssignmentStatus = stringPtr(models.AssignmentStatusAccepted)
		return models.ActivityAccepted, "Accepted task assignment"
	})
}

func (s *taskService) Reject(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error) {
	return s.respond(ctx, actor, id, func(task *models.Task) (string, string) {
		task.AssignmentStatus = stringPtr(models.AssignmentStatusRejected)
		task.AssigneeID = nil
		return models.ActivityRejected, "Rejected task assignment"
	})
}

// respond applies an assignee decision to a pending assignment. The pending check runs
// before the assignee check, so a decided assignment is an invalid state for everyone.
func (s *taskService) respond(ctx context.Context, actor permission.Actor, id uint, apply func(task *models.Task) (string, string)) (dto.TaskResponse, error) {
	var task models.Task
	err := s.mutate(ctx, func(ctx context.Context, rec *activityRecorder) error {
		var err error
		task, err = s.loadTask(ctx, id)
		if err != nil {
			return err
		}
		rec.projectID = task.ProjectID

		if !task.AssignmentIs(models.AssignmentStatusPending) {
			return ErrAssignmentNotPending
		}
		if !task.IsAssignee(actor.ID) {
			return ErrNotAssignee
		}

		action, details := apply(&task)
		if err := s.tasks.Update(ctx, &task); err != nil {
			return err
		}
		return rec.record(ctx, task.ID, actor.ID, action, details)
	})
	if err != nil {
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Start(ctx context.Context, actor permission.Actor, id uint) (dto.TaskResponse, error) {
	var task models.Task
	err := s.mutate(ctx, func(ctx context.Context, rec *activityRecorder) error {
		current, err := s.loadTask(ctx, id)
		if err != nil {
			return err
		}
		rec.projectID = current.ProjectID

		if !current.IsAssignee(actor.ID) {
			return ErrNotAssignee
		}
		if !current.AssignmentIs(models.AssignmentStatusAccepted) {
			return ErrAssignmentNotAccepted
		}
		if current.WorkingUserID != nil {
			return ErrTaskAlreadyStarted
		}

		claimed, err := s.tasks.ClaimWorker(ctx, id, actor.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrTaskAlreadyStarted
		}

		task, err = s.loadTask(ctx, id)
		if err != nil {
			return err
		}
		return rec.record(ctx, task.ID, actor.ID, models.ActivityStarted, "Started working on task")
	})
	if err != nil {
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Activities(ctx context.Context, actor permission.Actor, id uint, page, pageSize int) ([]dto.TaskActivityResponse, dto.PaginationMeta, error) {
	task, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}
	if _, err := loadProject(ctx, s.projects, task.ProjectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	page, pageSize = normalizePage(page, pageSize)
	entries, total, err := s.activities.List(ctx, repository.TaskActivityFilter{
		TaskID:   id,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	responses := make([]dto.TaskActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewTaskActivityResponse(entry))
	}
	return responses, dto.NewPaginationMeta(page, pageSize, total), nil
}

func (s *taskService) ensureAssignee(ctx context.Context, userID uint) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return notFound(err, ErrAssigneeNotFound)
	}
	return nil
}

func (s *taskService) sanitize(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func uintPtr(v uint) *uint {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

func valueOf(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}
