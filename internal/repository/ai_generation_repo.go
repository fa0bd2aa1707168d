package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// AIGenerationRepository persists AI generation records.
type AIGenerationRepository interface {
	Create(ctx context.Context, generation *models.AIGeneration) error
	Update(ctx context.Context, generation *models.AIGeneration) error
	GetByID(ctx context.Context, id uint) (models.AIGeneration, error)
	ListByProject(ctx context.Context, projectID uint, limit int) ([]models.AIGeneration, error)
}

type aiGenerationRepository struct {
	db *gorm.DB
}

// NewAIGenerationRepository instantiates the generation repository.
func NewAIGenerationRepository(db *gorm.DB) AIGenerationRepository {
	return &aiGenerationRepository{db: db}
}

func (r *aiGenerationRepository) Create(ctx context.Context, generation *models.AIGeneration) error {
	return conn(ctx, r.db).Create(generation).Error
}

func (r *aiGenerationRepository) Update(ctx context.Context, generation *models.AIGeneration) error {
	return conn(ctx, r.db).Save(generation).Error
}

func (r *aiGenerationRepository) GetByID(ctx context.Context, id uint) (models.AIGeneration, error) {
	var generation models.AIGeneration
	if err := conn(ctx, r.db).First(&generation, id).Error; err != nil {
		return models.AIGeneration{}, err
	}
	return generation, nil
}

func (r *aiGenerationRepository) ListByProject(ctx context.Context, projectID uint, limit int) ([]models.AIGeneration, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var generations []models.AIGeneration
	err := conn(ctx, r.db).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&generations).Error
	if err != nil {
		return nil, err
	}
	return generations, nil
}
