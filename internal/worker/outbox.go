package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/messaging"
)

const eventsChannel = "clinic.events"

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// OutboxProcessor drains pending outbox events to the message broker.
type OutboxProcessor struct {
	repo   repository.OutboxRepository
	broker messaging.Broker
	config OutboxProcessorConfig
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker, config OutboxProcessorConfig) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}

	return &OutboxProcessor{
		repo:   repo,
		broker: broker,
		config: config,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	log.Info().Msg("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process outbox events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	events, err := p.repo.GetPendingBatch(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, evt := range events {
		var publishErr error
		for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt) * p.config.RetryDelay):
				}
			}

			publishErr = p.broker.Publish(ctx, eventsChannel, messaging.Message{
				Type:    evt.EventType,
				Payload: evt.Payload,
			})
			if publishErr == nil {
				break
			}

			log.Warn().
				Str("event_id", evt.ID.String()).
				Int("attempt", attempt+1).
				Err(publishErr).
				Msg("retrying event publish")
		}

		if publishErr != nil {
			log.Error().
				Str("event_id", evt.ID.String()).
				Err(publishErr).
				Msg("failed to publish event after retries")
			if err := p.repo.MarkFailed(ctx, evt.ID, publishErr.Error()); err != nil {
				log.Error().Str("event_id", evt.ID.String()).Err(err).Msg("failed to mark event failed")
			}
			continue
		}

		if err := p.repo.MarkProcessed(ctx, evt.ID); err != nil {
			log.Error().Str("event_id", evt.ID.String()).Err(err).Msg("failed to mark event processed")
		}
	}

	return nil
}
