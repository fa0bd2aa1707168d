package models

import (
	"time"

	"gorm.io/datatypes"
)

// Generation status values.
const (
	GenerationStatusPending   = "pending"
	GenerationStatusCompleted = "completed"
	GenerationStatusFailed    = "failed"
)

// GenerationTypeCICD marks a CI/CD pipeline generation.
const GenerationTypeCICD = "cicd"

// AIGeneration records one AI-assisted generation attempt for a project.
type AIGeneration struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	ProjectID      uint              `gorm:"not null;index" json:"project_id"`
	UserID         *uint             `gorm:"index" json:"user_id"`
	GenerationType string            `gorm:"size:32;not null" json:"generation_type"`
	InputPayload   datatypes.JSONMap `gorm:"type:json" json:"input_payload"`
	OutputContent  *string           `gorm:"type:text" json:"output_content"`
	ModelUsed      *string           `gorm:"size:128" json:"model_used"`
	Status         string            `gorm:"size:20;not null;default:pending;index" json:"status"`
	ErrorMessage   *string           `gorm:"type:text" json:"error_message"`
	ArtifactURL    *string           `gorm:"size:512" json:"artifact_url"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at"`
}
