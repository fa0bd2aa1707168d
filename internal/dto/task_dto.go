package dto

import (
	"time"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// TaskCreateRequest describes the payload for creating a task.
type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=10000"`
	ProjectID   uint   `json:"project_id" validate:"required"`
	AssigneeID  *uint  `json:"assignee_id" validate:"omitempty,gt=0"`
}

// TaskUpdateRequest describes a partial task update. An assignee_id of 0 clears the assignee.
type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      *string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID  *uint   `json:"assignee_id"`
}

// TaskListRequest captures listing filters.
type TaskListRequest struct {
	ProjectID *uint
	Status    string `validate:"omitempty,oneof=todo in_progress done"`
	Page      int
	PageSize  int
}

// TaskResponse is the serialized task.
type TaskResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	ProjectID        uint      `json:"project_id"`
	CreatorID        uint      `json:"creator_id"`
	AssigneeID       *uint     `json:"assignee_id"`
	AssignmentStatus *string   `json:"assignment_status"`
	WorkingUserID    *uint     `json:"working_user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TaskListResponse wraps a paginated listing.
type TaskListResponse struct {
	Items      []TaskResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// TaskActivityResponse is a serialized activity entry.
type TaskActivityResponse struct {
	ID        uint      `json:"id"`
	TaskID    uint      `json:"task_id"`
	UserID    uint      `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskResponse converts a model into a DTO.
func NewTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           task.Status,
		ProjectID:        task.ProjectID,
		CreatorID:        task.CreatorID,
		AssigneeID:       task.AssigneeID,
		AssignmentStatus: task.AssignmentStatus,
		WorkingUserID:    task.WorkingUserID,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}
}

// NewTaskResponseSlice converts a slice of models into DTOs.
func NewTaskResponseSlice(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	return responses
}

// NewTaskActivityResponse converts an activity model into a DTO.
func NewTaskActivityResponse(entry models.TaskActivity) TaskActivityResponse {
	return TaskActivityResponse{
		ID:        entry.ID,
		TaskID:    entry.TaskID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Details:   entry.Details,
		CreatedAt: entry.CreatedAt,
	}
}
