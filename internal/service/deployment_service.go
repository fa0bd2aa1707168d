package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/observability"
	"github.com/noah-isme/tdt-go-api/internal/permission"
	"github.com/noah-isme/tdt-go-api/internal/repository"
)

// DeploymentService records deployments of a project.
type DeploymentService interface {
	List(ctx context.Context, actor permission.Actor, projectID uint, environment string) ([]dto.DeploymentResponse, error)
	Create(ctx context.Context, actor permission.Actor, projectID uint, payload dto.DeploymentCreateRequest) (dto.DeploymentResponse, error)
	Finish(ctx context.Context, actor permission.Actor, id uint, payload dto.DeploymentFinishRequest) (dto.DeploymentResponse, error)
}

type deploymentService struct {
	tx          repository.Transactor
	projects    repository.ProjectRepository
	deployments repository.DeploymentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDeploymentService constructs a DeploymentService.
func NewDeploymentService(tx repository.Transactor, projects repository.ProjectRepository, deployments repository.DeploymentRepository, validate *validator.Validate, logger zerolog.Logger) DeploymentService {
	return &deploymentService{
		tx:          tx,
		projects:    projects,
		deployments: deployments,
		validator:   validate,
		logger:      logger.With().Str("component", "deployment_service").Logger(),
		now:         time.Now,
	}
}

func (s *deploymentService) List(ctx context.Context, actor permission.Actor, projectID uint, environment string) ([]dto.DeploymentResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return nil, err
	}

	deployments, err := s.deployments.ListByProject(ctx, projectID, strings.TrimSpace(environment))
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DeploymentResponse, 0, len(deployments))
	for _, deployment := range deployments {
		responses = append(responses, dto.NewDeploymentResponse(deployment))
	}
	return responses, nil
}

func (s *deploymentService) Create(ctx context.Context, actor permission.Actor, projectID uint, payload dto.DeploymentCreateRequest) (dto.DeploymentResponse, error) {
	payload.Environment = strings.ToLower(strings.TrimSpace(payload.Environment))
	payload.Version = strings.TrimSpace(payload.Version)
	if err := s.validator.Struct(payload); err != nil {
		return dto.DeploymentResponse{}, err
	}

	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanModify, ErrProjectModifyDenied); err != nil {
		return dto.DeploymentResponse{}, err
	}

	deployedBy := actor.ID
	deployment := models.Deployment{
		ProjectID:    projectID,
		DeployedByID: &deployedBy,
		Environment:  payload.Environment,
		Version:      payload.Version,
		Status:       models.DeploymentStatusPending,
	}
	if err := s.deployments.Create(ctx, &deployment); err != nil {
		return dto.DeploymentResponse{}, err
	}

	observability.Deployments().WithLabelValues(deployment.Environment, deployment.Status).Inc()
	s.logger.Info().Uint("deployment_id", deployment.ID).Uint("project_id", projectID).Str("environment", deployment.Environment).Msg("deployment recorded")

	return dto.NewDeploymentResponse(deployment), nil
}

// Finish moves a pending deployment to success or failed. It can happen only once.
func (s *deploymentService) Finish(ctx context.Context, actor permission.Actor, id uint, payload dto.DeploymentFinishRequest) (dto.DeploymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DeploymentResponse{}, err
	}

	var deployment models.Deployment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deployment, err = s.deployments.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrDeploymentNotFound)
		}
		if _, err := loadProject(ctx, s.projects, deployment.ProjectID, actor, permission.CanModify, ErrProjectModifyDenied); err != nil {
			return err
		}
		if deployment.Status != models.DeploymentStatusPending {
			return ErrDeploymentFinished
		}

		finishedAt := s.now().UTC()
		deployment.Status = payload.Status
		deployment.FinishedAt = &finishedAt
		return s.deployments.Update(ctx, &deployment)
	})
	if err != nil {
		return dto.DeploymentResponse{}, err
	}

	observability.Deployments().WithLabelValues(deployment.Environment, deployment.Status).Inc()

	return dto.NewDeploymentResponse(deployment), nil
}
