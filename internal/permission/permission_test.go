package permission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

const (
	ownerID      = uint(1)
	studentID    = uint(2)
	supervisorID = uint(3)
	outsiderID   = uint(4)
	adminID      = uint(5)
)

func privateScope() Scope {
	return Scope{
		OwnerID:       ownerID,
		IsPublic:      false,
		StudentIDs:    []uint{studentID},
		SupervisorIDs: []uint{supervisorID},
	}
}

func TestPermissionMatrix(t *testing.T) {
	scope := privateScope()

	cases := []struct {
		name     string
		actor    Actor
		access   bool
		modify   bool
		generate bool
		manage   bool
	}{
		{"admin", Actor{ID: adminID, Role: models.RoleAdmin}, true, true, true, true},
		{"owner", Actor{ID: ownerID, Role: models.RoleUser}, true, true, true, true},
		{"supervisor member", Actor{ID: supervisorID, Role: models.RoleSupervisor}, true, true, true, false},
		{"student member", Actor{ID: studentID, Role: models.RoleStudent}, true, false, true, false},
		{"outsider", Actor{ID: outsiderID, Role: models.RoleSupervisor}, false, false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.access, CanAccess(tc.actor, scope))
			require.Equal(t, tc.modify, CanModify(tc.actor, scope))
			require.Equal(t, tc.generate, CanGenerateCICD(tc.actor, scope))
			require.Equal(t, tc.manage, CanManage(tc.actor, scope))
		})
	}
}

func TestPublicProjectGrantsAccessOnly(t *testing.T) {
	scope := privateScope()
	scope.IsPublic = true
	outsider := Actor{ID: outsiderID, Role: models.RoleStudent}

	require.True(t, CanAccess(outsider, scope))
	require.False(t, CanModify(outsider, scope))
	require.False(t, CanGenerateCICD(outsider, scope))
}

func TestMembershipIsNotInferredFromRole(t *testing.T) {
	scope := privateScope()
	otherSupervisor := Actor{ID: outsiderID, Role: models.RoleSupervisor}

	require.False(t, CanModify(otherSupervisor, scope))
}

func TestCanEditTask(t *testing.T) {
	scope := privateScope()
	assignee := studentID
	task := models.Task{CreatorID: supervisorID, AssigneeID: &assignee}

	require.True(t, CanEditTask(Actor{ID: ownerID}, scope, task))
	require.True(t, CanEditTask(Actor{ID: supervisorID}, scope, task))
	require.True(t, CanEditTask(Actor{ID: studentID}, scope, task))
	require.True(t, CanEditTask(Actor{ID: adminID, Role: models.RoleAdmin}, scope, task))
	require.False(t, CanEditTask(Actor{ID: outsiderID}, scope, task))
}

func TestScopeOfCollectsMembers(t *testing.T) {
	project := models.Project{
		OwnerID:     ownerID,
		Students:    []models.User{{ID: 7}, {ID: 8}},
		Supervisors: []models.User{{ID: 9}},
	}

	scope := ScopeOf(project)
	require.Equal(t, []uint{7, 8}, scope.StudentIDs)
	require.Equal(t, []uint{9}, scope.SupervisorIDs)
	require.True(t, CanGenerateCICD(Actor{ID: 8}, scope))
}
