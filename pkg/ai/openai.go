package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai"
	huggingFaceBaseURL = "https://router.huggingface.co/v1"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tdt",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI pipeline generation requests",
	}, []string{"provider", "model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdt",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of AI pipeline generation failures",
	}, []string{"provider", "model"})
)

// ChatConfig configures a chat-completion backed generator.
type ChatConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// ChatGenerator implements Generator against any OpenAI-compatible chat completion API.
type ChatGenerator struct {
	client *openai.Client
	cfg    ChatConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewChatGenerator builds a generator using the provided configuration.
func NewChatGenerator(cfg ChatConfig) (*ChatGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s api key is required", cfg.Provider)
	}

	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	tracer := otel.Tracer("github.com/noah-isme/tdt-go-api/pkg/ai/chat")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &ChatGenerator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("provider", cfg.Provider).Logger(),
	}, nil
}

// Generate asks the model for a pipeline definition.
func (g *ChatGenerator) Generate(parent context.Context, input PipelineInput) (Result, error) {
	ctx, span := g.tracer.Start(parent, "ai.generate_pipeline", trace.WithAttributes(
		attribute.String("provider", g.cfg.Provider),
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: pipelineSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(input),
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(g.cfg.Provider, g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return Result{}, g.fail(span, fmt.Errorf("%s generate: %w", g.cfg.Provider, err))
	}

	if len(resp.Choices) == 0 {
		return Result{}, g.fail(span, fmt.Errorf("no choices returned from %s", g.cfg.Provider))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return Result{}, g.fail(span, fmt.Errorf("empty completion returned from %s", g.cfg.Provider))
	}

	model := resp.Model
	if model == "" {
		model = g.cfg.Model
	}

	g.logger.Debug().Int("total_tokens", resp.Usage.TotalTokens).Msg("pipeline generated")

	return Result{Content: content, Model: model}, nil
}

func (g *ChatGenerator) fail(span trace.Span, err error) error {
	aiFailures.WithLabelValues(g.cfg.Provider, g.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-1.5-flash"
	case ProviderHuggingFace:
		return "mistralai/Mistral-7B-Instruct-v0.3"
	default:
		return "gpt-4o-mini"
	}
}
