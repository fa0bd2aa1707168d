package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// Migrate creates or updates the relational schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Project{}, "Students", &models.ProjectStudent{}); err != nil {
		return fmt.Errorf("setup project_students: %w", err)
	}
	if err := db.SetupJoinTable(&models.Project{}, "Supervisors", &models.ProjectSupervisor{}); err != nil {
		return fmt.Errorf("setup project_supervisors: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectStudent{},
		&models.ProjectSupervisor{},
		&models.ProjectStack{},
		&models.ProjectFeedback{},
		&models.Task{},
		&models.TaskActivity{},
		&models.AIGeneration{},
		&models.Deployment{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
