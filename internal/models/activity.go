package models

import "time"

// Task activity actions.
const (
	ActivityCreated       = "created"
	ActivityAssigned      = "assigned"
	ActivityReassigned    = "reassigned"
	ActivityAccepted      = "accepted"
	ActivityRejected      = "rejected"
	ActivityStarted       = "started"
	ActivityUpdated       = "updated"
	ActivityStatusChanged = "status_changed"
)

// TaskActivity is an append-only audit entry for a task mutation.
type TaskActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
