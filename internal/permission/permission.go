// Package permission evaluates what an authenticated actor may do with a project.
//
// Every check short-circuits on the first matching rule: admins first, then the project
// owner, then the membership sets. Nothing is cached; callers pass freshly loaded state.
package permission

import "github.com/noah-isme/tdt-go-api/internal/models"

// Actor identifies the authenticated caller.
type Actor struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Scope is the project state the rules are evaluated against.
type Scope struct {
	OwnerID       uint
	IsPublic      bool
	StudentIDs    []uint
	SupervisorIDs []uint
}

// ScopeOf builds a Scope from a project with its membership sets loaded.
func ScopeOf(project models.Project) Scope {
	return Scope{
		OwnerID:       project.OwnerID,
		IsPublic:      project.IsPublic,
		StudentIDs:    project.StudentIDs(),
		SupervisorIDs: project.SupervisorIDs(),
	}
}

func (s Scope) isOwner(a Actor) bool {
	return s.OwnerID == a.ID
}

func (s Scope) isStudent(a Actor) bool {
	return contains(s.StudentIDs, a.ID)
}

func (s Scope) isSupervisor(a Actor) bool {
	return contains(s.SupervisorIDs, a.ID)
}

// CanAccess decides read access to the project and its sub-resources.
func CanAccess(a Actor, s Scope) bool {
	if a.IsAdmin() || s.isOwner(a) {
		return true
	}
	if s.IsPublic {
		return true
	}
	return s.isStudent(a) || s.isSupervisor(a)
}

// CanModify decides membership and configuration changes. Students never qualify.
func CanModify(a Actor, s Scope) bool {
	if a.IsAdmin() || s.isOwner(a) {
		return true
	}
	return s.isSupervisor(a)
}

// CanGenerateCICD decides whether the actor may trigger an AI pipeline generation.
func CanGenerateCICD(a Actor, s Scope) bool {
	if a.IsAdmin() || s.isOwner(a) {
		return true
	}
	return s.isStudent(a) || s.isSupervisor(a)
}

// CanManage is reserved to admins and the owner: project edits, supervisor membership,
// task creation, reassignment and deletion.
func CanManage(a Actor, s Scope) bool {
	return a.IsAdmin() || s.isOwner(a)
}

// CanEditTask decides whether the actor may edit a task's title, description or status.
func CanEditTask(a Actor, s Scope, task models.Task) bool {
	if CanManage(a, s) {
		return true
	}
	return task.CreatorID == a.ID || task.IsAssignee(a.ID)
}

func contains(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
