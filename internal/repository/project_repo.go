package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// ProjectFilter narrows project listings. When ViewerID is set and IncludeAll is false, only
// public projects and projects the viewer owns or belongs to are returned.
type ProjectFilter struct {
	ViewerID   uint
	IncludeAll bool
	Search     string
	Page       int
	PageSize   int
}

// ProjectRepository persists projects and their membership sets.
type ProjectRepository interface {
	GetByID(ctx context.Context, id uint) (models.Project, error)
	GetByName(ctx context.Context, name string) (models.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	AddStudent(ctx context.Context, projectID, userID uint) error
	RemoveStudent(ctx context.Context, projectID, userID uint) error
	AddSupervisor(ctx context.Context, projectID, userID uint) error
	RemoveSupervisor(ctx context.Context, projectID, userID uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository instantiates a GORM-backed project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// GetByID loads the project together with its membership sets and stack.
func (r *projectRepository) GetByID(ctx context.Context, id uint) (models.Project, error) {
	var project models.Project
	err := conn(ctx, r.db).
		Preload("Students").
		Preload("Supervisors").
		Preload("Stack").
		First(&project, id).Error
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (r *projectRepository) GetByName(ctx context.Context, name string) (models.Project, error) {
	var project models.Project
	if err := conn(ctx, r.db).Where("name = ?", name).First(&project).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	db := conn(ctx, r.db)
	query := db.Model(&models.Project{})

	if !filter.IncludeAll {
		students := db.Model(&models.ProjectStudent{}).Select("project_id").Where("student_id = ?", filter.ViewerID)
		supervisors := db.Model(&models.ProjectSupervisor{}).Select("project_id").Where("supervisor_id = ?", filter.ViewerID)
		query = query.Where("is_public = ? OR owner_id = ? OR id IN (?) OR id IN (?)", true, filter.ViewerID, students, supervisors)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)

	var projects []models.Project
	if err := query.Order("id ASC").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(project).Error
}

// Delete removes the project and every row that references it.
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskActivity{}).Error; err != nil {
				return err
			}
		}

		dependents := []interface{}{
			&models.Task{},
			&models.ProjectStudent{},
			&models.ProjectSupervisor{},
			&models.ProjectStack{},
			&models.ProjectFeedback{},
			&models.AIGeneration{},
			&models.Deployment{},
		}
		for _, model := range dependents {
			if err := tx.Where("project_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *projectRepository) AddStudent(ctx context.Context, projectID, userID uint) error {
	row := models.ProjectStudent{ProjectID: projectID, StudentID: userID}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *projectRepository) RemoveStudent(ctx context.Context, projectID, userID uint) error {
	return conn(ctx, r.db).
		Where("project_id = ? AND student_id = ?", projectID, userID).
		Delete(&models.ProjectStudent{}).Error
}

func (r *projectRepository) AddSupervisor(ctx context.Context, projectID, userID uint) error {
	row := models.ProjectSupervisor{ProjectID: projectID, SupervisorID: userID}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *projectRepository) RemoveSupervisor(ctx context.Context, projectID, userID uint) error {
	return conn(ctx, r.db).
		Where("project_id = ? AND supervisor_id = ?", projectID, userID).
		Delete(&models.ProjectSupervisor{}).Error
}
