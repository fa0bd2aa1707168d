package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/permission"
)

func TestTaskRejectThenAcceptIsInvalidState(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService()
	ctx := context.Background()

	owner := env.user(t, "alice", models.RoleUser)
	assignee := env.user(t, "bob", models.RoleUser)
	project := env.project(t, owner, "private-tracker", false)

	task, err := svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "Write docs", ProjectID: project.ID, AssigneeID: ptr(assignee.ID)})
	require.NoError(t, err)
	require.Equal(t, assignee.ID, *task.AssigneeID)
	require.Equal(t, models.AssignmentStatusPending, *task.AssignmentStatus)

	rejected, err := svc.Reject(ctx, assignee, task.ID)
	require.NoError(t, err)
	require.Nil(t, rejected.AssigneeID)
	require.Equal(t, models.AssignmentStatusRejected, *rejected.AssignmentStatus)
	require.Equal(t, []string{"created", "assigned", "rejected"}, env.actions(t, task.ID))

	_, err = svc.Accept(ctx, assignee, task.ID)
	requireKind(t, err, ErrInvalidState)

	stored, err := env.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Nil(t, stored.AssigneeID)
	require.Equal(t, models.AssignmentStatusRejected, *stored.AssignmentStatus)
}

func TestTaskCreateGuards(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	other := env.user(t, "other", models.RoleSupervisor)
	admin := env.user(t, "admin", models.RoleAdmin)
	project := env.project(t, owner, "guards", true)

	_, err := svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "x", ProjectID: 999})
	requireKind(t, err, ErrNotFound)

	_, err = svc.Create(ctx, other, dto.TaskCreateRequest{Title: "x", ProjectID: project.ID})
	requireKind(t, err, ErrForbidden)

	_, err = svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "x", ProjectID: project.ID, AssigneeID: ptr(uint(4242))})
	require.ErrorIs(t, err, ErrAssigneeNotFound)

	list, err := svc.List(ctx, owner, dto.TaskListRequest{ProjectID: &project.ID})
	require.NoError(t, err)
	require.Empty(t, list.Items)
	require.Empty(t, env.events.published)

	task, err := svc.Create(ctx, admin, dto.TaskCreateRequest{Title: "by admin", ProjectID: project.ID})
	require.NoError(t, err)
	require.Nil(t, task.AssigneeID)
	require.Nil(t, task.AssignmentStatus)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, []string{"created"}, env.actions(t, task.ID))
	require.Len(t, env.events.published, 1)
}

func TestTaskAcceptAndStart(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	assignee := env.user(t, "worker", models.RoleStudent)
	stranger := env.user(t, "stranger", models.RoleStudent)
	project := env.project(t, owner, "workflow", true)

	task, err := svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "Build", ProjectID: project.ID, AssigneeID: ptr(assignee.ID)})
	require.NoError(t, err)

	_, err = svc.Start(ctx, assignee, task.ID)
	require.ErrorIs(t, err, ErrAssignmentNotAccepted)

	_, err = svc.Accept(ctx, stranger, task.ID)
	requireKind(t, err, ErrForbidden)

	accepted, err := svc.Accept(ctx, assignee, task.ID)
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusAccepted, *accepted.AssignmentStatus)

	_, err = svc.Reject(ctx, assignee, task.ID)
	requireKind(t, err, ErrInvalidState)

	_, err = svc.Start(ctx, stranger, task.ID)
	requireKind(t, err, ErrForbidden)

	started, err := svc.Start(ctx, assignee, task.ID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, started.Status)
	require.Equal(t, assignee.ID, *started.WorkingUserID)

	_, err = svc.Start(ctx, assignee, task.ID)
	require.ErrorIs(t, err, ErrTaskAlreadyStarted)

	require.Equal(t, []string{"created", "assigned", "accepted", "started"}, env.actions(t, task.ID))
}

func TestTaskUpdateLogsEachChangedField(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	assignee := env.user(t, "assignee", models.RoleStudent)
	outsider := env.user(t, "outsider", models.RoleStudent)
	project := env.project(t, owner, "updates", true)

	task, err := svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "Draft", Description: "first", ProjectID: project.ID, AssigneeID: ptr(assignee.ID)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, outsider, task.ID, dto.TaskUpdateRequest{Title: ptr("Nope")})
	require.ErrorIs(t, err, ErrTaskEditDenied)

	updated, err := svc.Update(ctx, assignee, task.ID, dto.TaskUpdateRequest{
		Title:       ptr("Final"),
		Description: ptr("first"),
		Status:      ptr(models.TaskStatusDone),
	})
	require.NoError(t, err)
	require.Equal(t, "Final", updated.Title)
	require.Equal(t, models.TaskStatusDone, updated.Status)
	require.Equal(t, []string{"created", "assigned", "updated", "status_changed"}, env.actions(t, task.ID))

	entries, _, err := svc.Activities(ctx, owner, task.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Status changed from todo to done", entries[0].Details)

	_, err = svc.Update(ctx, assignee, task.ID, dto.TaskUpdateRequest{Title: ptr("Final")})
	require.NoError(t, err)
	require.Len(t, env.actions(t, task.ID), 4)
}

func TestTaskReassign(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	first := env.user(t, "first", models.RoleStudent)
	second := env.user(t, "second", models.RoleStudent)
	project := env.project(t, owner, "reassign", true)

	task, err := svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "Move", ProjectID: project.ID, AssigneeID: ptr(first.ID)})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, first, task.ID)
	require.NoError(t, err)
	_, err = svc.Start(ctx, first, task.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, first, task.ID, dto.TaskUpdateRequest{AssigneeID: ptr(second.ID)})
	requireKind(t, err, ErrForbidden)

	moved, err := svc.Update(ctx, owner, task.ID, dto.TaskUpdateRequest{AssigneeID: ptr(second.ID)})
	require.NoError(t, err)
	require.Equal(t, second.ID, *moved.AssigneeID)
	require.Equal(t, models.AssignmentStatusPending, *moved.AssignmentStatus)
	require.Nil(t, moved.WorkingUserID)

	cleared, err := svc.Update(ctx, owner, task.ID, dto.TaskUpdateRequest{AssigneeID: ptr(uint(0))})
	require.NoError(t, err)
	require.Nil(t, cleared.AssigneeID)
	require.Nil(t, cleared.AssignmentStatus)

	require.Equal(t, []string{"created", "assigned", "accepted", "started", "reassigned", "reassigned"}, env.actions(t, task.ID))
}

func TestTaskDeleteAndVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	assignee := env.user(t, "assignee", models.RoleStudent)
	outsider := env.user(t, "outsider", models.RoleStudent)
	admin := env.user(t, "root", models.RoleAdmin)
	project := env.project(t, owner, "hidden", false)
	require.NoError(t, env.projects.AddStudent(ctx, project.ID, assignee.ID))

	task, err := svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "Secret", ProjectID: project.ID, AssigneeID: ptr(assignee.ID)})
	require.NoError(t, err)

	_, err = svc.Get(ctx, outsider, task.ID)
	requireKind(t, err, ErrForbidden)

	got, err := svc.Get(ctx, assignee, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Secret", got.Title)

	mine, err := svc.List(ctx, assignee, dto.TaskListRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)

	theirs, err := svc.List(ctx, outsider, dto.TaskListRequest{})
	require.NoError(t, err)
	require.Empty(t, theirs.Items)

	err = svc.Delete(ctx, assignee, task.ID)
	requireKind(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, admin, task.ID))

	_, err = svc.Get(ctx, owner, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.Empty(t, env.actions(t, task.ID))
}

func TestTaskPublishesCommittedActivities(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	assignee := env.user(t, "assignee", models.RoleStudent)
	project := env.project(t, owner, "events", true)

	task, err := svc.Create(ctx, owner, dto.TaskCreateRequest{Title: "Emit", ProjectID: project.ID, AssigneeID: ptr(assignee.ID)})
	require.NoError(t, err)
	require.Len(t, env.events.published, 2)

	_, err = svc.Start(ctx, assignee, task.ID)
	require.Error(t, err)
	require.Len(t, env.events.published, 2)

	_, err = svc.Accept(ctx, permission.Actor{ID: assignee.ID, Role: models.RoleStudent}, task.ID)
	require.NoError(t, err)
	require.Len(t, env.events.published, 3)
	require.Equal(t, models.ActivityAccepted, env.events.published[2].Action)
}
