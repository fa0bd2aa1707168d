package dto

import (
	"time"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// DeploymentCreateRequest records a new deployment attempt.
type DeploymentCreateRequest struct {
	Environment string `json:"environment" validate:"required,max=50"`
	Version     string `json:"version" validate:"required,max=50"`
}

// DeploymentFinishRequest moves a pending deployment to its final status.
type DeploymentFinishRequest struct {
	Status string `json:"status" validate:"required,oneof=success failed"`
}

// DeploymentResponse is the serialized deployment.
type DeploymentResponse struct {
	ID           uint       `json:"id"`
	ProjectID    uint       `json:"project_id"`
	DeployedByID *uint      `json:"deployed_by_id"`
	Environment  string     `json:"environment"`
	Version      string     `json:"version"`
	Status       string     `json:"status"`
	DeployedAt   time.Time  `json:"deployed_at"`
	FinishedAt   *time.Time `json:"finished_at"`
}

// NewDeploymentResponse converts a model into a DTO.
func NewDeploymentResponse(deployment models.Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:           deployment.ID,
		ProjectID:    deployment.ProjectID,
		DeployedByID: deployment.DeployedByID,
		Environment:  deployment.Environment,
		Version:      deployment.Version,
		Status:       deployment.Status,
		DeployedAt:   deployment.DeployedAt,
		FinishedAt:   deployment.FinishedAt,
	}
}
