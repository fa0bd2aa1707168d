package models

import "time"

// Work status values.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Assignment status values.
const (
	AssignmentStatusPending  = "pending"
	AssignmentStatusAccepted = "accepted"
	AssignmentStatusRejected = "rejected"
)

// Task is a unit of work inside a project.
type Task struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:100;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Status           string    `gorm:"size:20;not null;default:todo;index" json:"status"`
	ProjectID        uint      `gorm:"not null;index" json:"project_id"`
	CreatorID        uint      `gorm:"not null;index" json:"creator_id"`
	AssigneeID       *uint     `gorm:"index" json:"assignee_id"`
	AssignmentStatus *string   `gorm:"size:20" json:"assignment_status"`
	WorkingUserID    *uint     `json:"working_user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// IsAssignee reports whether userID is the current assignee.
func (t Task) IsAssignee(userID uint) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// AssignmentIs reports whether the assignment status equals status.
func (t Task) AssignmentIs(status string) bool {
	return t.AssignmentStatus != nil && *t.AssignmentStatus == status
}
