package app

import (
	"context"
	"testing"
	"time"

	"github.com/eventseat/reserve-api/internal/clock"
	"github.com/eventseat/reserve-api/internal/domain"
)

func TestEventService_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates event", func(t *testing.T) {
		repo := &fakeEventRepo{}
		svc := NewEventService(repo, clock.NewFixed(now))

		event, err := svc.Create(context.Background(), CreateEventInput{Name: "Concert", Capacity: 100})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.ID == "" {
			t.Fatalf("expected event ID to be set")
		}
		if event.Capacity != 100 || event.CreatedAt != now {
			t.Fatalf("unexpected event: %+v", event)
		}
		if len(repo.events) != 1 {
			t.Fatalf("expected 1 event stored, got %d", len(repo.events))
		}
	})

	t.Run("name required", func(t *testing.T) {
		svc := NewEventService(&fakeEventRepo{}, clock.NewFixed(now))

		_, err := svc.Create(context.Background(), CreateEventInput{Capacity: 10})
		if err != domain.ErrEventNameRequired {
			t.Fatalf("expected ErrEventNameRequired, got %v", err)
		}
	})

	t.Run("negative capacity rejected", func(t *testing.T) {
		svc := NewEventService(&fakeEventRepo{}, clock.NewFixed(now))

		_, err := svc.Create(context.Background(), CreateEventInput{Name: "Concert", Capacity: -1})
		if err != domain.ErrInvalidCapacity {
			t.Fatalf("expected ErrInvalidCapacity, got %v", err)
		}
	})

	t.Run("zero capacity allowed", func(t *testing.T) {
		svc := NewEventService(&fakeEventRepo{}, clock.NewFixed(now))

		if _, err := svc.Create(context.Background(), CreateEventInput{Name: "Sold out preview", Capacity: 0}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

type fakeEventRepo struct {
	events []domain.Event
}

func (f *fakeEventRepo) Create(_ context.Context, event domain.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context) ([]domain.Event, error) {
	return append([]domain.Event{}, f.events...), nil
}
