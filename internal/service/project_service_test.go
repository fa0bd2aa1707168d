package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
)

func TestProjectCreateRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)

	created, err := svc.Create(ctx, owner, dto.ProjectCreateRequest{Name: " Tracker ", IsPublic: ptr(false)})
	require.NoError(t, err)
	require.Equal(t, "Tracker", created.Name)
	require.False(t, created.IsPublic)
	require.Equal(t, owner.ID, created.OwnerID)

	defaulted, err := svc.Create(ctx, owner, dto.ProjectCreateRequest{Name: "Open"})
	require.NoError(t, err)
	require.True(t, defaulted.IsPublic)

	_, err = svc.Create(ctx, owner, dto.ProjectCreateRequest{Name: "Tracker"})
	requireKind(t, err, ErrConflict)

	_, err = svc.Update(ctx, owner, defaulted.ID, dto.ProjectUpdateRequest{Name: ptr("Tracker")})
	requireKind(t, err, ErrConflict)
}

func TestProjectAccessAndManagement(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	supervisor := env.user(t, "sup", models.RoleSupervisor)
	outsider := env.user(t, "out", models.RoleStudent)
	admin := env.user(t, "admin", models.RoleAdmin)
	project := env.project(t, owner, "private", false)

	_, err := svc.Get(ctx, outsider, project.ID)
	requireKind(t, err, ErrForbidden)

	_, err = svc.Get(ctx, owner, 404)
	requireKind(t, err, ErrNotFound)

	_, err = svc.AddSupervisor(ctx, outsider, project.ID, supervisor.ID)
	requireKind(t, err, ErrForbidden)

	withSupervisor, err := svc.AddSupervisor(ctx, owner, project.ID, supervisor.ID)
	require.NoError(t, err)
	require.Len(t, withSupervisor.Supervisors, 1)

	_, err = svc.Update(ctx, supervisor, project.ID, dto.ProjectUpdateRequest{Description: ptr("changed")})
	requireKind(t, err, ErrForbidden)

	listed, err := svc.List(ctx, supervisor, dto.ProjectListRequest{})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)

	hidden, err := svc.List(ctx, outsider, dto.ProjectListRequest{})
	require.NoError(t, err)
	require.Empty(t, hidden.Items)

	require.NoError(t, svc.Delete(ctx, admin, project.ID))
	_, err = svc.Get(ctx, admin, project.ID)
	requireKind(t, err, ErrNotFound)
}

func TestProjectMembershipChecksRoles(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	supervisor := env.user(t, "sup", models.RoleSupervisor)
	student := env.user(t, "stu", models.RoleStudent)
	project := env.project(t, owner, "members", true)

	_, err := svc.AddStudent(ctx, owner, project.ID, supervisor.ID)
	require.ErrorIs(t, err, ErrNotAStudent)

	_, err = svc.AddSupervisor(ctx, owner, project.ID, student.ID)
	require.ErrorIs(t, err, ErrNotASupervisor)

	_, err = svc.AddStudent(ctx, owner, project.ID, 999)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.AddSupervisor(ctx, owner, project.ID, supervisor.ID)
	require.NoError(t, err)

	// supervisors may modify the student set
	added, err := svc.AddStudent(ctx, supervisor, project.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, added.Students, 1)

	again, err := svc.AddStudent(ctx, supervisor, project.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, again.Students, 1)

	_, err = svc.RemoveStudent(ctx, student, project.ID, student.ID)
	requireKind(t, err, ErrForbidden)

	removed, err := svc.RemoveStudent(ctx, supervisor, project.ID, student.ID)
	require.NoError(t, err)
	require.Empty(t, removed.Students)
}

func TestProjectFeedbackAndStack(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	student := env.user(t, "stu", models.RoleStudent)
	project := env.project(t, owner, "feedback", false)
	require.NoError(t, env.projects.AddStudent(ctx, project.ID, student.ID))

	entry, err := svc.AddFeedback(ctx, student, project.ID, dto.FeedbackCreateRequest{
		FeedbackType: models.FeedbackTypeNote,
		Content:      "<script>alert(1)</script>Looks good",
	})
	require.NoError(t, err)
	require.Equal(t, "Looks good", entry.Content)
	require.Equal(t, student.ID, *entry.UserID)

	_, err = svc.AddFeedback(ctx, student, project.ID, dto.FeedbackCreateRequest{
		FeedbackType: models.FeedbackTypeNote,
		Content:      "<b></b>",
	})
	require.ErrorIs(t, err, ErrEmptyContent)

	feedback, err := svc.ListFeedback(ctx, owner, project.ID)
	require.NoError(t, err)
	require.Len(t, feedback, 1)

	_, err = svc.GetStack(ctx, owner, project.ID)
	require.ErrorIs(t, err, ErrStackNotFound)

	_, err = svc.PutStack(ctx, student, project.ID, dto.StackRequest{Language: "go"})
	requireKind(t, err, ErrForbidden)

	stack, err := svc.PutStack(ctx, owner, project.ID, dto.StackRequest{Language: "Go", TestFramework: "testify"})
	require.NoError(t, err)
	require.Equal(t, "go", stack.Language)

	stack, err = svc.PutStack(ctx, owner, project.ID, dto.StackRequest{Language: "python", TestFramework: "pytest", Containerized: true})
	require.NoError(t, err)
	require.Equal(t, "python", stack.Language)
	require.True(t, stack.Containerized)

	fetched, err := svc.GetStack(ctx, student, project.ID)
	require.NoError(t, err)
	require.Equal(t, "pytest", fetched.TestFramework)
}
