package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// TaskActivityFilter narrows activity queries.
type TaskActivityFilter struct {
	TaskID   uint
	Action   string
	Page     int
	PageSize int
}

// TaskActivityRepository persists the task audit trail. Entries are never updated.
type TaskActivityRepository interface {
	Create(ctx context.Context, entry *models.TaskActivity) error
	List(ctx context.Context, filter TaskActivityFilter) ([]models.TaskActivity, int64, error)
}

type taskActivityRepository struct {
	db *gorm.DB
}

// NewTaskActivityRepository constructs the activity repository.
func NewTaskActivityRepository(db *gorm.DB) TaskActivityRepository {
	return &taskActivityRepository{db: db}
}

func (r *taskActivityRepository) Create(ctx context.Context, entry *models.TaskActivity) error {
	return conn(ctx, r.db).Create(entry).Error
}

// List returns the newest entries first.
func (r *taskActivityRepository) List(ctx context.Context, filter TaskActivityFilter) ([]models.TaskActivity, int64, error) {
	query := conn(ctx, r.db).Model(&models.TaskActivity{}).Where("task_id = ?", filter.TaskID)

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)

	var entries []models.TaskActivity
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
