package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider          string
	Model             string
	Timeout           time.Duration
	OpenAIAPIKey      string
	GeminiAPIKey      string
	HuggingFaceAPIKey string
	Logger            zerolog.Logger
}

// NewFromConfig returns the generator for the configured provider.
func NewFromConfig(settings Settings) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	switch provider {
	case "", ProviderTemplate:
		return NewTemplateGenerator(), nil
	case ProviderOpenAI:
		return NewChatGenerator(ChatConfig{
			Provider: ProviderOpenAI,
			APIKey:   settings.OpenAIAPIKey,
			Model:    settings.Model,
			Timeout:  settings.Timeout,
			Logger:   settings.Logger,
		})
	case ProviderGemini:
		return NewChatGenerator(ChatConfig{
			Provider: ProviderGemini,
			APIKey:   settings.GeminiAPIKey,
			BaseURL:  geminiBaseURL,
			Model:    settings.Model,
			Timeout:  settings.Timeout,
			Logger:   settings.Logger,
		})
	case ProviderHuggingFace:
		return NewChatGenerator(ChatConfig{
			Provider: ProviderHuggingFace,
			APIKey:   settings.HuggingFaceAPIKey,
			BaseURL:  huggingFaceBaseURL,
			Model:    settings.Model,
			Timeout:  settings.Timeout,
			Logger:   settings.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", settings.Provider)
	}
}
