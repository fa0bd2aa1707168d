package models

import "time"

// Project is a named, owned collection of tasks with optional membership sets.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	IsPublic    bool      `gorm:"not null" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner       *User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Students    []User        `gorm:"many2many:project_students;joinForeignKey:ProjectID;joinReferences:StudentID" json:"students,omitempty"`
	Supervisors []User        `gorm:"many2many:project_supervisors;joinForeignKey:ProjectID;joinReferences:SupervisorID" json:"supervisors,omitempty"`
	Stack       *ProjectStack `gorm:"foreignKey:ProjectID" json:"stack,omitempty"`
}

// StudentIDs returns the identifiers of the student membership set.
func (p Project) StudentIDs() []uint {
	return userIDs(p.Students)
}

// SupervisorIDs returns the identifiers of the supervisor membership set.
func (p Project) SupervisorIDs() []uint {
	return userIDs(p.Supervisors)
}

func userIDs(users []User) []uint {
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	return ids
}

// ProjectStudent is the join row between a project and a student member.
type ProjectStudent struct {
	ProjectID uint      `gorm:"primaryKey"`
	StudentID uint      `gorm:"primaryKey;index"`
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}

// ProjectSupervisor is the join row between a project and a supervisor member.
type ProjectSupervisor struct {
	ProjectID    uint      `gorm:"primaryKey"`
	SupervisorID uint      `gorm:"primaryKey;index"`
	AssignedAt   time.Time `gorm:"autoCreateTime"`
}

// ProjectStack describes the technology stack used to build CI/CD prompts.
type ProjectStack struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     uint      `gorm:"uniqueIndex;not null" json:"project_id"`
	Language      string    `gorm:"size:64;not null" json:"language"`
	Framework     string    `gorm:"size:64" json:"framework"`
	Database      string    `gorm:"size:64" json:"database"`
	TestFramework string    `gorm:"size:64" json:"test_framework"`
	Containerized bool      `gorm:"not null;default:false" json:"containerized"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Feedback types accepted for project feedback.
const (
	FeedbackTypeNote       = "note"
	FeedbackTypeSuggestion = "suggestion"
	FeedbackTypeEvaluation = "evaluation"
)

// ProjectFeedback is a note left on a project by a member or supervisor.
type ProjectFeedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	UserID       *uint     `json:"user_id"`
	FeedbackType string    `gorm:"size:50;not null" json:"feedback_type"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the singular table name used by existing databases.
func (ProjectFeedback) TableName() string { return "project_feedback" }
