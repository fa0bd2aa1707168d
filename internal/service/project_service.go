package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/permission"
	"github.com/noah-isme/tdt-go-api/internal/repository"
)

// ProjectService manages projects, their membership sets, stack and feedback.
type ProjectService interface {
	List(ctx context.Context, actor permission.Actor, req dto.ProjectListRequest) (dto.ProjectListResponse, error)
	Get(ctx context.Context, actor permission.Actor, id uint) (dto.ProjectResponse, error)
	Create(ctx context.Context, actor permission.Actor, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	Update(ctx context.Context, actor permission.Actor, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, actor permission.Actor, id uint) error

	AddStudent(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error)
	RemoveStudent(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error)
	AddSupervisor(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error)
	RemoveSupervisor(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error)

	GetStack(ctx context.Context, actor permission.Actor, projectID uint) (dto.StackResponse, error)
	PutStack(ctx context.Context, actor permission.Actor, projectID uint, payload dto.StackRequest) (dto.StackResponse, error)

	ListFeedback(ctx context.Context, actor permission.Actor, projectID uint) ([]dto.FeedbackResponse, error)
	AddFeedback(ctx context.Context, actor permission.Actor, projectID uint, payload dto.FeedbackCreateRequest) (dto.FeedbackResponse, error)
}

type projectService struct {
	projects  repository.ProjectRepository
	users     repository.UserRepository
	stacks    repository.ProjectStackRepository
	feedback  repository.FeedbackRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, stacks repository.ProjectStackRepository, feedback repository.FeedbackRepository, validate *validator.Validate, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		users:     users,
		stacks:    stacks,
		feedback:  feedback,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "project_service").Logger(),
	}
}

// loadProject fetches the project with membership and applies check. Absent projects are
// reported before permission failures.
func loadProject(ctx context.Context, repo repository.ProjectRepository, id uint, actor permission.Actor, check func(permission.Actor, permission.Scope) bool, denied error) (models.Project, error) {
	project, err := repo.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, notFound(err, ErrProjectNotFound)
	}
	if check != nil && !check(actor, permission.ScopeOf(project)) {
		return models.Project{}, denied
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, actor permission.Actor, req dto.ProjectListRequest) (dto.ProjectListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	projects, total, err := s.projects.List(ctx, repository.ProjectFilter{
		ViewerID:   actor.ID,
		IncludeAll: actor.IsAdmin(),
		Search:     req.Search,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return dto.ProjectListResponse{}, err
	}

	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		items = append(items, dto.NewProjectResponse(project))
	}

	return dto.ProjectListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *projectService) Get(ctx context.Context, actor permission.Actor, id uint) (dto.ProjectResponse, error) {
	project, err := loadProject(ctx, s.projects, id, actor, permission.CanAccess, ErrProjectAccessDenied)
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Create(ctx context.Context, actor permission.Actor, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	if err := s.ensureNameAvailable(ctx, payload.Name, 0); err != nil {
		return dto.ProjectResponse{}, err
	}

	project := models.Project{
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
		OwnerID:     actor.ID,
		IsPublic:    true,
	}
	if payload.IsPublic != nil {
		project.IsPublic = *payload.IsPublic
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ProjectResponse{}, ErrDuplicateProject
		}
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Uint("project_id", project.ID).Uint("owner_id", actor.ID).Msg("project created")

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, actor permission.Actor, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if payload.Name != nil {
		trimmed := strings.TrimSpace(*payload.Name)
		payload.Name = &trimmed
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	project, err := loadProject(ctx, s.projects, id, actor, permission.CanManage, ErrProjectManageDenied)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	if payload.Name != nil && *payload.Name != project.Name {
		if err := s.ensureNameAvailable(ctx, *payload.Name, project.ID); err != nil {
			return dto.ProjectResponse{}, err
		}
		project.Name = *payload.Name
	}
	if payload.Description != nil {
		project.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.IsPublic != nil {
		project.IsPublic = *payload.IsPublic
	}

	if err := s.projects.Update(ctx, &project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ProjectResponse{}, ErrDuplicateProject
		}
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, actor permission.Actor, id uint) error {
	if _, err := loadProject(ctx, s.projects, id, actor, permission.CanManage, ErrProjectManageDenied); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return notFound(err, ErrProjectNotFound)
	}

	s.logger.Info().Uint("project_id", id).Uint("actor_id", actor.ID).Msg("project deleted")
	return nil
}

func (s *projectService) AddStudent(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanModify, ErrProjectModifyDenied); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.requireRole(ctx, userID, models.RoleStudent, ErrNotAStudent); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.projects.AddStudent(ctx, projectID, userID); err != nil {
		return dto.ProjectResponse{}, err
	}
	return s.reload(ctx, projectID)
}

func (s *projectService) RemoveStudent(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanModify, ErrProjectModifyDenied); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.projects.RemoveStudent(ctx, projectID, userID); err != nil {
		return dto.ProjectResponse{}, err
	}
	return s.reload(ctx, projectID)
}

func (s *projectService) AddSupervisor(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanManage, ErrProjectManageDenied); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.requireRole(ctx, userID, models.RoleSupervisor, ErrNotASupervisor); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.projects.AddSupervisor(ctx, projectID, userID); err != nil {
		return dto.ProjectResponse{}, err
	}
	return s.reload(ctx, projectID)
}

func (s *projectService) RemoveSupervisor(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanManage, ErrProjectManageDenied); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.projects.RemoveSupervisor(ctx, projectID, userID); err != nil {
		return dto.ProjectResponse{}, err
	}
	return s.reload(ctx, projectID)
}

func (s *projectService) GetStack(ctx context.Context, actor permission.Actor, projectID uint) (dto.StackResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return dto.StackResponse{}, err
	}

	stack, err := s.stacks.GetByProject(ctx, projectID)
	if err != nil {
		return dto.StackResponse{}, notFound(err, ErrStackNotFound)
	}
	return dto.NewStackResponse(stack), nil
}

func (s *projectService) PutStack(ctx context.Context, actor permission.Actor, projectID uint, payload dto.StackRequest) (dto.StackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StackResponse{}, err
	}
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanModify, ErrProjectModifyDenied); err != nil {
		return dto.StackResponse{}, err
	}

	stack := models.ProjectStack{
		ProjectID:     projectID,
		Language:      strings.ToLower(strings.TrimSpace(payload.Language)),
		Framework:     strings.TrimSpace(payload.Framework),
		Database:      strings.TrimSpace(payload.Database),
		TestFramework: strings.ToLower(strings.TrimSpace(payload.TestFramework)),
		Containerized: payload.Containerized,
	}
	if err := s.stacks.Upsert(ctx, &stack); err != nil {
		return dto.StackResponse{}, err
	}

	stored, err := s.stacks.GetByProject(ctx, projectID)
	if err != nil {
		return dto.StackResponse{}, err
	}
	return dto.NewStackResponse(stored), nil
}

func (s *projectService) ListFeedback(ctx context.Context, actor permission.Actor, projectID uint) ([]dto.FeedbackResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return nil, err
	}

	entries, err := s.feedback.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FeedbackResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewFeedbackResponse(entry))
	}
	return responses, nil
}

func (s *projectService) AddFeedback(ctx context.Context, actor permission.Actor, projectID uint, payload dto.FeedbackCreateRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return dto.FeedbackResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.FeedbackResponse{}, ErrEmptyContent
	}

	authorID := actor.ID
	entry := models.ProjectFeedback{
		ProjectID:    projectID,
		UserID:       &authorID,
		FeedbackType: payload.FeedbackType,
		Content:      content,
	}
	if err := s.feedback.Create(ctx, &entry); err != nil {
		return dto.FeedbackResponse{}, err
	}

	return dto.NewFeedbackResponse(entry), nil
}

func (s *projectService) ensureNameAvailable(ctx context.Context, name string, selfID uint) error {
	existing, err := s.projects.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrDuplicateProject
	}
	return nil
}

func (s *projectService) requireRole(ctx context.Context, userID uint, role string, wrongRole error) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if user.Role != role {
		return wrongRole
	}
	return nil
}

func (s *projectService) reload(ctx context.Context, projectID uint) (dto.ProjectResponse, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return dto.ProjectResponse{}, notFound(err, ErrProjectNotFound)
	}
	return dto.NewProjectResponse(project), nil
}
