package dto

import (
	"time"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// ProjectCreateRequest describes the payload for creating a project.
type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	IsPublic    *bool  `json:"is_public"`
}

// ProjectUpdateRequest describes a partial project update.
type ProjectUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	IsPublic    *bool   `json:"is_public"`
}

// ProjectListRequest captures listing filters.
type ProjectListRequest struct {
	Search   string
	Page     int
	PageSize int
}

// MemberAddRequest names the user to add to a membership set.
type MemberAddRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// MemberResponse is a trimmed user for membership listings.
type MemberResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ProjectResponse is the serialized project.
type ProjectResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	OwnerID     uint             `json:"owner_id"`
	IsPublic    bool             `json:"is_public"`
	Students    []MemberResponse `json:"students"`
	Supervisors []MemberResponse `json:"supervisors"`
	Stack       *StackResponse   `json:"stack,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProjectListResponse wraps a paginated listing.
type ProjectListResponse struct {
	Items      []ProjectResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// StackRequest describes the technology stack of a project.
type StackRequest struct {
	Language      string `json:"language" validate:"required,max=64"`
	Framework     string `json:"framework" validate:"omitempty,max=64"`
	Database      string `json:"database" validate:"omitempty,max=64"`
	TestFramework string `json:"test_framework" validate:"omitempty,max=64"`
	Containerized bool   `json:"containerized"`
}

// StackResponse is the serialized stack configuration.
type StackResponse struct {
	Language      string    `json:"language"`
	Framework     string    `json:"framework"`
	Database      string    `json:"database"`
	TestFramework string    `json:"test_framework"`
	Containerized bool      `json:"containerized"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FeedbackCreateRequest describes a new feedback entry.
type FeedbackCreateRequest struct {
	FeedbackType string `json:"feedback_type" validate:"required,oneof=note suggestion evaluation"`
	Content      string `json:"content" validate:"required,max=10000"`
}

// FeedbackResponse is the serialized feedback entry.
type FeedbackResponse struct {
	ID           uint      `json:"id"`
	ProjectID    uint      `json:"project_id"`
	UserID       *uint     `json:"user_id"`
	FeedbackType string    `json:"feedback_type"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewProjectResponse converts a model into a DTO.
func NewProjectResponse(project models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		IsPublic:    project.IsPublic,
		Students:    newMemberResponses(project.Students),
		Supervisors: newMemberResponses(project.Supervisors),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if project.Stack != nil {
		stack := NewStackResponse(*project.Stack)
		response.Stack = &stack
	}
	return response
}

// NewStackResponse converts a stack model into a DTO.
func NewStackResponse(stack models.ProjectStack) StackResponse {
	return StackResponse{
		Language:      stack.Language,
		Framework:     stack.Framework,
		Database:      stack.Database,
		TestFramework: stack.TestFramework,
		Containerized: stack.Containerized,
		UpdatedAt:     stack.UpdatedAt,
	}
}

// NewFeedbackResponse converts a feedback model into a DTO.
func NewFeedbackResponse(feedback models.ProjectFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:           feedback.ID,
		ProjectID:    feedback.ProjectID,
		UserID:       feedback.UserID,
		FeedbackType: feedback.FeedbackType,
		Content:      feedback.Content,
		CreatedAt:    feedback.CreatedAt,
		UpdatedAt:    feedback.UpdatedAt,
	}
}

func newMemberResponses(users []models.User) []MemberResponse {
	members := make([]MemberResponse, 0, len(users))
	for _, user := range users {
		members = append(members, MemberResponse{ID: user.ID, Username: user.Username, Role: user.Role})
	}
	return members
}
