package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// DeploymentRepository persists project deployments.
type DeploymentRepository interface {
	Create(ctx context.Context, deployment *models.Deployment) error
	Update(ctx context.Context, deployment *models.Deployment) error
	GetByID(ctx context.Context, id uint) (models.Deployment, error)
	ListByProject(ctx context.Context, projectID uint, environment string) ([]models.Deployment, error)
}

type deploymentRepository struct {
	db *gorm.DB
}

// NewDeploymentRepository instantiates the deployment repository.
func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{db: db}
}

func (r *deploymentRepository) Create(ctx context.Context, deployment *models.Deployment) error {
	return conn(ctx, r.db).Create(deployment).Error
}

func (r *deploymentRepository) Update(ctx context.Context, deployment *models.Deployment) error {
	return conn(ctx, r.db).Save(deployment).Error
}

func (r *deploymentRepository) GetByID(ctx context.Context, id uint) (models.Deployment, error) {
	var deployment models.Deployment
	if err := conn(ctx, r.db).First(&deployment, id).Error; err != nil {
		return models.Deployment{}, err
	}
	return deployment, nil
}

func (r *deploymentRepository) ListByProject(ctx context.Context, projectID uint, environment string) ([]models.Deployment, error) {
	query := conn(ctx, r.db).Where("project_id = ?", projectID)
	if environment != "" {
		query = query.Where("environment = ?", environment)
	}

	var deployments []models.Deployment
	if err := query.Order("deployed_at DESC").Order("id DESC").Find(&deployments).Error; err != nil {
		return nil, err
	}
	return deployments, nil
}
