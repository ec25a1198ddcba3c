package app

import (
	"context"

	"github.com/eventseat/reserve-api/internal/clock"
	"github.com/eventseat/reserve-api/internal/domain"
	"github.com/google/uuid"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) error
	List(ctx context.Context) ([]domain.Event, error)
}

// EventService provisions the capacity pools reservations are made against.
type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name     string
	Capacity int
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.Capacity < 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Capacity:  in.Capacity,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.repo.List(ctx)
}
