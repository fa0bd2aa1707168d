package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// TaskFilter narrows task listings.
type TaskFilter struct {
	ProjectID *uint
	// InvolvedUserID matches tasks the user created or is assigned to.
	InvolvedUserID *uint
	Status         string
	Page           int
	PageSize       int
}

// TaskRepository persists project tasks.
type TaskRepository interface {
	GetByID(ctx context.Context, id uint) (models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
	ClaimWorker(ctx context.Context, taskID, userID uint) (bool, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository instantiates a GORM-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task
	if err := conn(ctx, r.db).First(&task, id).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := conn(ctx, r.db).Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.InvolvedUserID != nil {
		query = query.Where("creator_id = ? OR assignee_id = ?", *filter.InvolvedUserID, *filter.InvolvedUserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)

	var tasks []models.Task
	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(task).Error
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(task).Error
}

// Delete removes the task together with its activity trail.
func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskActivity{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ClaimWorker sets the working user only while no one else holds the task. It reports
// false when another caller claimed it first.
func (r *taskRepository) ClaimWorker(ctx context.Context, taskID, userID uint) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Task{}).
		Where("id = ? AND working_user_id IS NULL", taskID).
		Updates(map[string]interface{}{
			"working_user_id": userID,
			"status":          models.TaskStatusInProgress,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
