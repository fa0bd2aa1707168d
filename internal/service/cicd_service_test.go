package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/pkg/ai"
)

const validPipeline = "name: CI\non: [push]\njobs:\n  test:\n    runs-on: ubuntu-latest\n    steps:\n      - run: make test\n"

func countGenerations(t *testing.T, env *testEnv) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&models.AIGeneration{}).Count(&count).Error)
	return count
}

func TestCICDGenerateForbiddenForNonMember(t *testing.T) {
	env := newTestEnv(t)
	generator := &stubGenerator{result: ai.Result{Content: validPipeline, Model: "stub"}}
	svc := env.cicdService(generator, nil)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	outsider := env.user(t, "outsider", models.RoleSupervisor)
	project := env.project(t, owner, "cicd", true)

	_, err := svc.Generate(ctx, outsider, project.ID)
	requireKind(t, err, ErrForbidden)
	require.Zero(t, generator.calls)
	require.Zero(t, countGenerations(t, env))

	_, err = svc.Generate(ctx, owner, 9999)
	requireKind(t, err, ErrNotFound)
}

func TestCICDGenerateStoresCompletedOutput(t *testing.T) {
	env := newTestEnv(t)
	generator := &stubGenerator{result: ai.Result{Content: "```yaml\n" + validPipeline + "```", Model: "stub-model"}}
	svc := env.cicdService(generator, nil)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	student := env.user(t, "stu", models.RoleStudent)
	project := env.project(t, owner, "pipeline", false)
	require.NoError(t, env.projects.AddStudent(ctx, project.ID, student.ID))

	generation, err := svc.Generate(ctx, student, project.ID)
	require.NoError(t, err)
	require.Equal(t, models.GenerationStatusCompleted, generation.Status)
	require.Equal(t, "stub-model", *generation.ModelUsed)
	require.NotNil(t, generation.CompletedAt)
	require.Nil(t, generation.ErrorMessage)
	require.NotContains(t, *generation.OutputContent, "```")
	require.Equal(t, "pipeline", generation.InputPayload["project_name"])
	require.Equal(t, student.ID, *generation.UserID)

	stored, err := env.generations.GetByID(ctx, generation.ID)
	require.NoError(t, err)
	require.Equal(t, models.GenerationStatusCompleted, stored.Status)
}

func TestCICDGenerateRecordsProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	generator := &stubGenerator{err: errors.New("provider unavailable")}
	svc := env.cicdService(generator, nil)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	project := env.project(t, owner, "failing", true)

	generation, err := svc.Generate(ctx, owner, project.ID)
	require.NoError(t, err)
	require.Equal(t, models.GenerationStatusFailed, generation.Status)
	require.Equal(t, "provider unavailable", *generation.ErrorMessage)
	require.NotNil(t, generation.CompletedAt)
	require.Nil(t, generation.OutputContent)
	require.EqualValues(t, 1, countGenerations(t, env))
}

func TestCICDGenerateRejectsInvalidYAML(t *testing.T) {
	env := newTestEnv(t)
	generator := &stubGenerator{result: ai.Result{Content: "Sorry, I cannot help with that.", Model: "stub"}}
	svc := env.cicdService(generator, nil)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	project := env.project(t, owner, "yaml", true)

	generation, err := svc.Generate(ctx, owner, project.ID)
	require.NoError(t, err)
	require.Equal(t, models.GenerationStatusFailed, generation.Status)
	require.Contains(t, *generation.ErrorMessage, "YAML")
}

func TestCICDTemplateGeneratorUsesStack(t *testing.T) {
	env := newTestEnv(t)
	svc := env.cicdService(ai.NewTemplateGenerator(), nil)
	ctx := context.Background()

	owner := env.user(t, "owner", models.RoleUser)
	project := env.project(t, owner, "templated", true)
	require.NoError(t, env.db.Create(&models.ProjectStack{ProjectID: project.ID, Language: "python", TestFramework: "pytest"}).Error)

	generation, err := svc.Generate(ctx, owner, project.ID)
	require.NoError(t, err)
	require.Equal(t, models.GenerationStatusCompleted, generation.Status)
	require.Contains(t, *generation.OutputContent, "pytest")
	require.Contains(t, generation.InputPayload, "stack")

	list, err := svc.List(ctx, owner, project.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCICDExport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner", models.RoleUser)
	viewer := env.user(t, "viewer", models.RoleStudent)
	project := env.project(t, owner, "export", true)

	failing := env.cicdService(&stubGenerator{err: errors.New("boom")}, &stubUploader{url: "https://cdn.example.com/a.yml"})
	failed, err := failing.Generate(ctx, owner, project.ID)
	require.NoError(t, err)
	_, err = failing.Export(ctx, owner, failed.ID)
	require.ErrorIs(t, err, ErrGenerationIncomplete)

	uploader := &stubUploader{url: "https://cdn.example.com/pipeline.yml"}
	svc := env.cicdService(&stubGenerator{result: ai.Result{Content: validPipeline, Model: "stub"}}, uploader)
	generation, err := svc.Generate(ctx, owner, project.ID)
	require.NoError(t, err)

	_, err = svc.Export(ctx, viewer, generation.ID)
	requireKind(t, err, ErrForbidden)

	exported, err := svc.Export(ctx, owner, generation.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/pipeline.yml", *exported.ArtifactURL)
	require.Len(t, uploader.names, 1)

	fetched, err := svc.Get(ctx, viewer, generation.ID)
	require.NoError(t, err)
	require.Equal(t, exported.ArtifactURL, fetched.ArtifactURL)

	disabled := env.cicdService(&stubGenerator{}, nil)
	_, err = disabled.Export(ctx, owner, generation.ID)
	require.ErrorIs(t, err, ErrExportUnavailable)
}
