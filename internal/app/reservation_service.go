package app

import (
	"context"
	"fmt"

	"github.com/eventseat/reserve-api/internal/clock"
	"github.com/eventseat/reserve-api/internal/cryptoutil"
	"github.com/eventseat/reserve-api/internal/domain"
	"github.com/eventseat/reserve-api/internal/metrics"
	"github.com/google/uuid"
)

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	SumUnits(ctx context.Context, eventID, excludeID string) (int, error)
	Create(ctx context.Context, res domain.Reservation) error
	ListByOwner(ctx context.Context, userID int64) ([]domain.Reservation, error)
	GetOwned(ctx context.Context, userID int64, id string) (domain.Reservation, error)
	GetOwnedForUpdate(ctx context.Context, userID int64, id string) (domain.Reservation, error)
	UpdateOwned(ctx context.Context, res domain.Reservation) error
	DeleteOwned(ctx context.Context, userID int64, id string) error
}

// ReservationService is the allocation engine plus the owner-scoped
// reservation lifecycle. Admission recomputes the committed total under an
// exclusive hold on the event row instead of maintaining a counter, so
// out-of-band deletes and updates can never drift the bookkeeping.
type ReservationService struct {
	repo      ReservationRepository
	clock     clock.Clock
	encryptor *cryptoutil.Encryptor
}

func NewReservationService(repo ReservationRepository, clk clock.Clock, enc *cryptoutil.Encryptor) *ReservationService {
	return &ReservationService{
		repo:      repo,
		clock:     clk,
		encryptor: enc,
	}
}

type CreateReservationInput struct {
	EventID string
	Units   int
	Note    string
}

// Create admits a reservation against the event's remaining capacity, as a
// single transaction: lock the event row, sum the existing units, reject on
// overflow, otherwise insert and commit. Two concurrent calls for the same
// event serialize on the row lock; calls for different events do not
// contend.
func (s *ReservationService) Create(ctx context.Context, userID int64, in CreateReservationInput) (domain.Reservation, error) {
	if in.Units <= 0 {
		return domain.Reservation{}, domain.ErrInvalidUnits
	}

	note, err := s.encryptNote(in.Note)
	if err != nil {
		return domain.Reservation{}, err
	}

	reservation := domain.Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventID:   in.EventID,
		Units:     in.Units,
		Note:      note,
		CreatedAt: s.clock.Now(),
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}

		total, err := s.repo.SumUnits(txCtx, in.EventID, "")
		if err != nil {
			return err
		}
		if total+in.Units > event.Capacity {
			return domain.ErrCapacityExceeded
		}

		return s.repo.Create(txCtx, reservation)
	})
	if err != nil {
		switch err {
		case domain.ErrEventNotFound:
			metrics.ReservationsRejected.WithLabelValues(metrics.ReasonEventNotFound).Inc()
		case domain.ErrCapacityExceeded:
			metrics.ReservationsRejected.WithLabelValues(metrics.ReasonCapacity).Inc()
		}
		return domain.Reservation{}, err
	}

	metrics.ReservationsAdmitted.Inc()
	metrics.UnitsReserved.Add(float64(in.Units))

	reservation.Note = in.Note
	return reservation, nil
}

func (s *ReservationService) List(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	reservations, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range reservations {
		note, err := s.decryptNote(reservations[i].Note)
		if err != nil {
			return nil, err
		}
		reservations[i].Note = note
	}
	return reservations, nil
}

func (s *ReservationService) Get(ctx context.Context, userID int64, id string) (domain.Reservation, error) {
	reservation, err := s.repo.GetOwned(ctx, userID, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	note, err := s.decryptNote(reservation.Note)
	if err != nil {
		return domain.Reservation{}, err
	}
	reservation.Note = note
	return reservation, nil
}

// Update applies the non-nil fields of patch. The reservation row is read
// under an exclusive lock, so concurrent patches of the same reservation
// serialize and the write-back never carries stale column values. A units
// change re-runs the admission check under the same event row lock as
// Create, excluding this reservation's current units from the sum, so a
// PATCH can never push an event past capacity.
func (s *ReservationService) Update(ctx context.Context, userID int64, id string, patch domain.ReservationPatch) (domain.Reservation, error) {
	if patch.Units != nil && *patch.Units <= 0 {
		return domain.Reservation{}, domain.ErrInvalidUnits
	}

	var result domain.Reservation
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetOwnedForUpdate(txCtx, userID, id)
		if err != nil {
			return err
		}
		note, err := s.decryptNote(current.Note)
		if err != nil {
			return err
		}
		current.Note = note

		if patch.Units != nil && *patch.Units != current.Units {
			event, err := s.repo.GetEventForUpdate(txCtx, current.EventID)
			if err != nil {
				return err
			}
			total, err := s.repo.SumUnits(txCtx, current.EventID, current.ID)
			if err != nil {
				return err
			}
			if total+*patch.Units > event.Capacity {
				return domain.ErrCapacityExceeded
			}
			current.Units = *patch.Units
		}
		if patch.Note != nil {
			current.Note = *patch.Note
		}

		stored := current
		stored.Note, err = s.encryptNote(current.Note)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateOwned(txCtx, stored); err != nil {
			return err
		}

		result = current
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// Delete removes an owned reservation. The freed units become visible to
// the next admission's sum automatically; no counter needs adjusting.
func (s *ReservationService) Delete(ctx context.Context, userID int64, id string) error {
	return s.repo.DeleteOwned(ctx, userID, id)
}

func (s *ReservationService) encryptNote(note string) (string, error) {
	if note == "" {
		return "", nil
	}
	encrypted, err := s.encryptor.Encrypt(note)
	if err != nil {
		return "", fmt.Errorf("encrypt note: %w", err)
	}
	return encrypted, nil
}

func (s *ReservationService) decryptNote(stored string) (string, error) {
	if stored == "" {
		return "", nil
	}
	note, err := s.encryptor.Decrypt(stored)
	if err != nil {
		return "", fmt.Errorf("decrypt note: %w", err)
	}
	return note, nil
}
