package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// ProjectStackRepository persists the one-to-one stack configuration of a project.
type ProjectStackRepository interface {
	GetByProject(ctx context.Context, projectID uint) (models.ProjectStack, error)
	Upsert(ctx context.Context, stack *models.ProjectStack) error
}

type projectStackRepository struct {
	db *gorm.DB
}

// NewProjectStackRepository instantiates the stack repository.
func NewProjectStackRepository(db *gorm.DB) ProjectStackRepository {
	return &projectStackRepository{db: db}
}

func (r *projectStackRepository) GetByProject(ctx context.Context, projectID uint) (models.ProjectStack, error) {
	var stack models.ProjectStack
	if err := conn(ctx, r.db).Where("project_id = ?", projectID).First(&stack).Error; err != nil {
		return models.ProjectStack{}, err
	}
	return stack, nil
}

func (r *projectStackRepository) Upsert(ctx context.Context, stack *models.ProjectStack) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "framework", "database", "test_framework", "containerized", "updated_at"}),
	}).Create(stack).Error
}
