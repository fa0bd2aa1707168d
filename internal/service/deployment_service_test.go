package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
)

func TestDeploymentFinishesOnce(t *testing.T) {
	env := newTestEnv(t)
	svc := env.deploymentService()
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	student := env.user(t, "stu", models.RoleStudent)
	project := env.project(t, owner, "deploys", false)
	require.NoError(t, env.projects.AddStudent(ctx, project.ID, student.ID))

	_, err := svc.Create(ctx, student, project.ID, dto.DeploymentCreateRequest{Environment: "staging", Version: "v1"})
	requireKind(t, err, ErrForbidden)

	deployment, err := svc.Create(ctx, owner, project.ID, dto.DeploymentCreateRequest{Environment: " Staging ", Version: "v1.0.0"})
	require.NoError(t, err)
	require.Equal(t, models.DeploymentStatusPending, deployment.Status)
	require.Equal(t, "staging", deployment.Environment)

	_, err = svc.Finish(ctx, owner, deployment.ID, dto.DeploymentFinishRequest{Status: "pending"})
	require.Error(t, err)

	finished, err := svc.Finish(ctx, owner, deployment.ID, dto.DeploymentFinishRequest{Status: models.DeploymentStatusSuccess})
	require.NoError(t, err)
	require.Equal(t, models.DeploymentStatusSuccess, finished.Status)
	require.NotNil(t, finished.FinishedAt)

	_, err = svc.Finish(ctx, owner, deployment.ID, dto.DeploymentFinishRequest{Status: models.DeploymentStatusFailed})
	requireKind(t, err, ErrInvalidState)

	listed, err := svc.List(ctx, student, project.ID, "staging")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	none, err := svc.List(ctx, student, project.ID, "production")
	require.NoError(t, err)
	require.Empty(t, none)
}
