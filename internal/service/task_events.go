package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/observability"
)

// TaskEvent is the broker payload emitted for every committed activity entry.
type TaskEvent struct {
	Source     string    `json:"source"`
	TaskID     uint      `json:"task_id"`
	ProjectID  uint      `json:"project_id"`
	UserID     uint      `json:"user_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaskEventPublisher fans task events out after the owning transaction commits.
type TaskEventPublisher interface {
	Publish(ctx context.Context, projectID uint, entries []models.TaskActivity)
}

type brokerTaskEventPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	tracer       trace.Tracer
	nodeID       string
}

// NewTaskEventPublisher builds a publisher. Nil clients are skipped, so the zero
// configuration publishes nothing.
func NewTaskEventPublisher(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) TaskEventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &brokerTaskEventPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "task_events").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/tdt-go-api/internal/service/task_events"),
		nodeID:       uuid.NewString(),
	}
}

// Publish never fails the caller; broker errors are logged and counted.
func (p *brokerTaskEventPublisher) Publish(ctx context.Context, projectID uint, entries []models.TaskActivity) {
	if len(entries) == 0 {
		return
	}
	if (p.redis == nil || p.redisChannel == "") && (p.nats == nil || p.natsSubject == "") {
		return
	}

	spanCtx, span := p.tracer.Start(ctx, "task_events.publish", trace.WithAttributes(
		attribute.Int("events", len(entries)),
		attribute.Int64("project_id", int64(projectID)),
	))
	defer span.End()

	for _, entry := range entries {
		payload, err := json.Marshal(TaskEvent{
			Source:     p.nodeID,
			TaskID:     entry.TaskID,
			ProjectID:  projectID,
			UserID:     entry.UserID,
			Action:     entry.Action,
			Details:    entry.Details,
			OccurredAt: entry.CreatedAt.UTC(),
		})
		if err != nil {
			p.logger.Warn().Err(err).Msg("failed to encode task event")
			continue
		}

		if p.redis != nil && p.redisChannel != "" {
			if err := p.redis.Publish(spanCtx, p.redisChannel, payload).Err(); err != nil {
				span.RecordError(err)
				observability.TaskEventsPublished().WithLabelValues("redis", "error").Inc()
				p.logger.Warn().Err(err).Uint("task_id", entry.TaskID).Msg("failed to publish task event to redis")
			} else {
				observability.TaskEventsPublished().WithLabelValues("redis", "ok").Inc()
			}
		}

		if p.nats != nil && p.natsSubject != "" {
			if err := p.nats.Publish(p.natsSubject, payload); err != nil {
				span.RecordError(err)
				observability.TaskEventsPublished().WithLabelValues("nats", "error").Inc()
				p.logger.Warn().Err(err).Uint("task_id", entry.TaskID).Msg("failed to publish task event to nats")
			} else {
				observability.TaskEventsPublished().WithLabelValues("nats", "ok").Inc()
			}
		}
	}
}
