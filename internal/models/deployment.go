package models

import "time"

// Deployment status values.
const (
	DeploymentStatusPending = "pending"
	DeploymentStatusSuccess = "success"
	DeploymentStatusFailed  = "failed"
)

// Deployment records a release of a project to an environment.
type Deployment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProjectID    uint       `gorm:"not null;index" json:"project_id"`
	DeployedByID *uint      `json:"deployed_by_id"`
	Environment  string     `gorm:"size:50;not null" json:"environment"`
	Version      string     `gorm:"size:50;not null" json:"version"`
	Status       string     `gorm:"size:20;not null;default:pending" json:"status"`
	DeployedAt   time.Time  `gorm:"autoCreateTime" json:"deployed_at"`
	FinishedAt   *time.Time `json:"finished_at"`
}
