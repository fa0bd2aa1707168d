package ai

import "context"

// Provider names accepted by NewFromConfig.
const (
	ProviderTemplate    = "template"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"
)

// PipelineInput describes the project a CI/CD pipeline is generated for.
type PipelineInput struct {
	ProjectName   string
	Description   string
	Language      string
	Framework     string
	Database      string
	TestFramework string
	Containerized bool
}

// HasStack reports whether any stack details were supplied.
func (p PipelineInput) HasStack() bool {
	return p.Language != "" || p.Framework != "" || p.Database != "" || p.TestFramework != ""
}

// Result is the raw text returned by a model together with the model name.
type Result struct {
	Content string
	Model   string
}

// Generator produces CI/CD pipeline definitions.
type Generator interface {
	Generate(ctx context.Context, input PipelineInput) (Result, error)
}
