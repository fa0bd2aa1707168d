package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/observability"
	"github.com/noah-isme/tdt-go-api/internal/permission"
	"github.com/noah-isme/tdt-go-api/internal/repository"
	"github.com/noah-isme/tdt-go-api/pkg/ai"
)

// FileUploader abstracts uploading data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// CICDService generates CI/CD pipelines for projects and keeps a record of every attempt.
type CICDService interface {
	Generate(ctx context.Context, actor permission.Actor, projectID uint) (dto.AIGenerationResponse, error)
	List(ctx context.Context, actor permission.Actor, projectID uint, limit int) ([]dto.AIGenerationResponse, error)
	Get(ctx context.Context, actor permission.Actor, id uint) (dto.AIGenerationResponse, error)
	Export(ctx context.Context, actor permission.Actor, id uint) (dto.AIGenerationResponse, error)
}

type cicdService struct {
	projects    repository.ProjectRepository
	generations repository.AIGenerationRepository
	generator   ai.Generator
	uploader    FileUploader
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewCICDService constructs a CICDService. A nil uploader disables artifact export.
func NewCICDService(projects repository.ProjectRepository, generations repository.AIGenerationRepository, generator ai.Generator, uploader FileUploader, logger zerolog.Logger) CICDService {
	return &cicdService{
		projects:    projects,
		generations: generations,
		generator:   generator,
		uploader:    uploader,
		logger:      logger.With().Str("component", "cicd_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/tdt-go-api/internal/service/cicd"),
		now:         time.Now,
	}
}

// Generate runs a single attempt. Provider failures are stored on the record, not returned.
func (s *cicdService) Generate(ctx context.Context, actor permission.Actor, projectID uint) (dto.AIGenerationResponse, error) {
	project, err := loadProject(ctx, s.projects, projectID, actor, permission.CanGenerateCICD, ErrCICDDenied)
	if err != nil {
		return dto.AIGenerationResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "cicd.generate", trace.WithAttributes(
		attribute.Int64("project_id", int64(project.ID)),
	))
	defer span.End()

	input := pipelineInput(project)
	userID := actor.ID
	generation := models.AIGeneration{
		ProjectID:      project.ID,
		UserID:         &userID,
		GenerationType: models.GenerationTypeCICD,
		InputPayload:   inputPayload(input),
		Status:         models.GenerationStatusPending,
	}
	if err := s.generations.Create(spanCtx, &generation); err != nil {
		span.RecordError(err)
		return dto.AIGenerationResponse{}, err
	}

	result, genErr := s.generator.Generate(spanCtx, input)
	var content string
	if genErr == nil {
		content, genErr = validatePipeline(result.Content)
	}

	completedAt := s.now().UTC()
	generation.CompletedAt = &completedAt
	if genErr != nil {
		span.RecordError(genErr)
		message := genErr.Error()
		generation.Status = models.GenerationStatusFailed
		generation.ErrorMessage = &message
		s.logger.Warn().Err(genErr).Uint("generation_id", generation.ID).Msg("pipeline generation failed")
	} else {
		model := result.Model
		generation.Status = models.GenerationStatusCompleted
		generation.OutputContent = &content
		generation.ModelUsed = &model
	}

	// The request context may already be cancelled after a provider timeout; the terminal
	// state is still written.
	if err := s.generations.Update(context.WithoutCancel(spanCtx), &generation); err != nil {
		span.RecordError(err)
		return dto.AIGenerationResponse{}, fmt.Errorf("finalize generation %d: %w", generation.ID, err)
	}

	observability.AIGenerations().WithLabelValues(generation.Status).Inc()

	return dto.NewAIGenerationResponse(generation), nil
}

func (s *cicdService) List(ctx context.Context, actor permission.Actor, projectID uint, limit int) ([]dto.AIGenerationResponse, error) {
	if _, err := loadProject(ctx, s.projects, projectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return nil, err
	}

	generations, err := s.generations.ListByProject(ctx, projectID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AIGenerationResponse, 0, len(generations))
	for _, generation := range generations {
		responses = append(responses, dto.NewAIGenerationResponse(generation))
	}
	return responses, nil
}

func (s *cicdService) Get(ctx context.Context, actor permission.Actor, id uint) (dto.AIGenerationResponse, error) {
	generation, err := s.generations.GetByID(ctx, id)
	if err != nil {
		return dto.AIGenerationResponse{}, notFound(err, ErrGenerationNotFound)
	}
	if _, err := loadProject(ctx, s.projects, generation.ProjectID, actor, permission.CanAccess, ErrProjectAccessDenied); err != nil {
		return dto.AIGenerationResponse{}, err
	}
	return dto.NewAIGenerationResponse(generation), nil
}

// Export uploads a completed pipeline and stores the artifact URL on the record.
func (s *cicdService) Export(ctx context.Context, actor permission.Actor, id uint) (dto.AIGenerationResponse, error) {
	generation, err := s.generations.GetByID(ctx, id)
	if err != nil {
		return dto.AIGenerationResponse{}, notFound(err, ErrGenerationNotFound)
	}
	if _, err := loadProject(ctx, s.projects, generation.ProjectID, actor, permission.CanGenerateCICD, ErrCICDDenied); err != nil {
		return dto.AIGenerationResponse{}, err
	}
	if s.uploader == nil {
		return dto.AIGenerationResponse{}, ErrExportUnavailable
	}
	if generation.Status != models.GenerationStatusCompleted || generation.OutputContent == nil {
		return dto.AIGenerationResponse{}, ErrGenerationIncomplete
	}

	content := []byte(*generation.OutputContent)
	if err := ensureTextArtifact(content); err != nil {
		return dto.AIGenerationResponse{}, err
	}

	name := fmt.Sprintf("project-%d-pipeline-%d.yml", generation.ProjectID, generation.ID)
	url, err := s.uploader.Upload(ctx, name, bytes.NewReader(content))
	if err != nil {
		return dto.AIGenerationResponse{}, fmt.Errorf("failed to upload artifact: %w", err)
	}

	generation.ArtifactURL = &url
	if err := s.generations.Update(ctx, &generation); err != nil {
		return dto.AIGenerationResponse{}, err
	}

	s.logger.Info().Uint("generation_id", generation.ID).Str("artifact_url", url).Msg("pipeline exported")

	return dto.NewAIGenerationResponse(generation), nil
}

func pipelineInput(project models.Project) ai.PipelineInput {
	input := ai.PipelineInput{
		ProjectName: project.Name,
		Description: project.Description,
	}
	if project.Stack != nil {
		input.Language = project.Stack.Language
		input.Framework = project.Stack.Framework
		input.Database = project.Stack.Database
		input.TestFramework = project.Stack.TestFramework
		input.Containerized = project.Stack.Containerized
	}
	return input
}

func inputPayload(input ai.PipelineInput) datatypes.JSONMap {
	payload := datatypes.JSONMap{
		"project_name": input.ProjectName,
		"description":  input.Description,
		"prompt":       ai.BuildPrompt(input),
	}
	if input.HasStack() {
		payload["stack"] = map[string]interface{}{
			"language":       input.Language,
			"framework":      input.Framework,
			"database":       input.Database,
			"test_framework": input.TestFramework,
			"containerized":  input.Containerized,
		}
	}
	return payload
}

// validatePipeline strips markdown fences and requires a YAML mapping document.
func validatePipeline(raw string) (string, error) {
	content := ai.StripFences(raw)
	if content == "" {
		return "", errors.New("provider returned an empty pipeline")
	}

	var document map[string]interface{}
	if err := yaml.Unmarshal([]byte(content), &document); err != nil {
		return "", fmt.Errorf("generated pipeline is not valid YAML: %w", err)
	}
	if len(document) == 0 {
		return "", errors.New("generated pipeline is not a YAML mapping")
	}
	return content, nil
}

func ensureTextArtifact(content []byte) error {
	detected := mimetype.Detect(content)
	for mime := detected; mime != nil; mime = mime.Parent() {
		if mime.Is("text/plain") {
			return nil
		}
	}
	return fmt.Errorf("unsupported artifact type: %s", detected.String())
}
