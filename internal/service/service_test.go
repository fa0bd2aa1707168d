package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/database"
	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/permission"
	"github.com/noah-isme/tdt-go-api/internal/repository"
	"github.com/noah-isme/tdt-go-api/pkg/ai"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type testEnv struct {
	db          *gorm.DB
	users       repository.UserRepository
	projects    repository.ProjectRepository
	tasks       repository.TaskRepository
	activities  repository.TaskActivityRepository
	generations repository.AIGenerationRepository
	events      *recordingPublisher
	validate    *validator.Validate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		projects:    repository.NewProjectRepository(db),
		tasks:       repository.NewTaskRepository(db),
		activities:  repository.NewTaskActivityRepository(db),
		generations: repository.NewAIGenerationRepository(db),
		events:      &recordingPublisher{},
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (e *testEnv) taskService() TaskService {
	return NewTaskService(repository.NewTransactor(e.db), e.tasks, e.activities, e.projects, e.users, e.events, e.validate, testLogger())
}

func (e *testEnv) projectService() ProjectService {
	return NewProjectService(e.projects, e.users, repository.NewProjectStackRepository(e.db), repository.NewFeedbackRepository(e.db), e.validate, testLogger())
}

func (e *testEnv) cicdService(generator ai.Generator, uploader FileUploader) CICDService {
	return NewCICDService(e.projects, e.generations, generator, uploader, testLogger())
}

func (e *testEnv) deploymentService() DeploymentService {
	return NewDeploymentService(repository.NewTransactor(e.db), e.projects, repository.NewDeploymentRepository(e.db), e.validate, testLogger())
}

func (e *testEnv) user(t *testing.T, username, role string) permission.Actor {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Role: role, IsActive: true}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, e.users.Create(context.Background(), &user))
	return permission.Actor{ID: user.ID, Role: user.Role}
}

func (e *testEnv) project(t *testing.T, owner permission.Actor, name string, public bool) models.Project {
	t.Helper()
	project := models.Project{Name: name, Description: "tracker for " + name, OwnerID: owner.ID, IsPublic: public}
	require.NoError(t, e.projects.Create(context.Background(), &project))
	return project
}

func (e *testEnv) actions(t *testing.T, taskID uint) []string {
	t.Helper()
	entries, _, err := e.activities.List(context.Background(), repository.TaskActivityFilter{TaskID: taskID, PageSize: 100})
	require.NoError(t, err)

	actions := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		actions = append(actions, entries[i].Action)
	}
	return actions
}

type recordingPublisher struct {
	published []models.TaskActivity
}

func (p *recordingPublisher) Publish(ctx context.Context, projectID uint, entries []models.TaskActivity) {
	p.published = append(p.published, entries...)
}

type stubGenerator struct {
	result ai.Result
	err    error
	calls  int
}

func (g *stubGenerator) Generate(ctx context.Context, input ai.PipelineInput) (ai.Result, error) {
	g.calls++
	return g.result, g.err
}

type stubUploader struct {
	names []string
	url   string
	err   error
}

func (u *stubUploader) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(reader); err != nil {
		return "", err
	}
	u.names = append(u.names, name)
	return u.url, nil
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}

func ptr[T any](v T) *T {
	return &v
}
