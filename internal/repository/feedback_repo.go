package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// FeedbackRepository persists project feedback notes.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.ProjectFeedback) error
	ListByProject(ctx context.Context, projectID uint) ([]models.ProjectFeedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository instantiates the feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.ProjectFeedback) error {
	return conn(ctx, r.db).Create(feedback).Error
}

func (r *feedbackRepository) ListByProject(ctx context.Context, projectID uint) ([]models.ProjectFeedback, error) {
	var items []models.ProjectFeedback
	if err := conn(ctx, r.db).Where("project_id = ?", projectID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
