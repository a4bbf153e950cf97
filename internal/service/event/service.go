package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

// Recorder persists entity-change events to the outbox table; a worker
// drains them to the message broker.
type Recorder interface {
	Record(ctx context.Context, eventType string, payload interface{}) error
}

type service struct {
	repo repository.OutboxRepository
}

func NewService(repo repository.OutboxRepository) Recorder {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return s.repo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	})
}
