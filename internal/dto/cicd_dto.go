package dto

import (
	"time"

	"github.com/noah-isme/tdt-go-api/internal/models"
)

// AIGenerationResponse is the serialized generation record.
type AIGenerationResponse struct {
	ID             uint                   `json:"id"`
	ProjectID      uint                   `json:"project_id"`
	UserID         *uint                  `json:"user_id"`
	GenerationType string                 `json:"generation_type"`
	InputPayload   map[string]interface{} `json:"input_payload"`
	OutputContent  *string                `json:"output_content"`
	ModelUsed      *string                `json:"model_used"`
	Status         string                 `json:"status"`
	ErrorMessage   *string                `json:"error_message"`
	ArtifactURL    *string                `json:"artifact_url"`
	CreatedAt      time.Time              `json:"created_at"`
	CompletedAt    *time.Time             `json:"completed_at"`
}

// NewAIGenerationResponse converts a model into a DTO.
func NewAIGenerationResponse(generation models.AIGeneration) AIGenerationResponse {
	payload := map[string]interface{}(generation.InputPayload)
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return AIGenerationResponse{
		ID:             generation.ID,
		ProjectID:      generation.ProjectID,
		UserID:         generation.UserID,
		GenerationType: generation.GenerationType,
		InputPayload:   payload,
		OutputContent:  generation.OutputContent,
		ModelUsed:      generation.ModelUsed,
		Status:         generation.Status,
		ErrorMessage:   generation.ErrorMessage,
		ArtifactURL:    generation.ArtifactURL,
		CreatedAt:      generation.CreatedAt,
		CompletedAt:    generation.CompletedAt,
	}
}
