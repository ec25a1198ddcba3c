package postgres

import (
	"context"
	"fmt"

	"github.com/eventseat/reserve-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetEventForUpdate loads the event row under an exclusive lock. Concurrent
// admission attempts for the same event block here until the surrounding
// transaction commits or aborts.
func (r *ReservationRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT id, name, capacity, created_at FROM events WHERE id = $1 FOR UPDATE`
	var e domain.Event
	err := r.queryRow(ctx, query, eventID).Scan(&e.ID, &e.Name, &e.Capacity, &e.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return e, nil
}

// SumUnits totals the units already reserved against an event. excludeID
// skips one reservation (the one being re-admitted on update); pass "" to
// include everything.
func (r *ReservationRepository) SumUnits(ctx context.Context, eventID, excludeID string) (int, error) {
	const query = `
SELECT COALESCE(SUM(units), 0)
FROM reservations
WHERE event_id = $1 AND ($2 = '' OR id::text <> $2)`

	var total int
	if err := r.queryRow(ctx, query, eventID, excludeID).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("sum units: %w", err)
	}
	return total, nil
}

func (r *ReservationRepository) Create(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, user_id, event_id, units, note, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		res.ID,
		res.UserID,
		res.EventID,
		res.Units,
		res.Note,
		res.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	const query = `
SELECT id, user_id, event_id, units, note, created_at
FROM reservations
WHERE user_id = $1
ORDER BY created_at, id`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.EventID, &res.Units, &res.Note, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

// GetOwned loads a reservation only when it belongs to userID. A miss and a
// foreign owner are indistinguishable on purpose.
func (r *ReservationRepository) GetOwned(ctx context.Context, userID int64, id string) (domain.Reservation, error) {
	const query = `
SELECT id, user_id, event_id, units, note, created_at
FROM reservations
WHERE id = $1 AND user_id = $2`

	return r.getOwned(ctx, query, userID, id)
}

// GetOwnedForUpdate is GetOwned under an exclusive lock on the reservation
// row. Concurrent patches of the same reservation serialize here, so a write
// can never put back column values read before another update committed.
func (r *ReservationRepository) GetOwnedForUpdate(ctx context.Context, userID int64, id string) (domain.Reservation, error) {
	const query = `
SELECT id, user_id, event_id, units, note, created_at
FROM reservations
WHERE id = $1 AND user_id = $2
FOR UPDATE`

	return r.getOwned(ctx, query, userID, id)
}

func (r *ReservationRepository) getOwned(ctx context.Context, query string, userID int64, id string) (domain.Reservation, error) {
	var res domain.Reservation
	err := r.queryRow(ctx, query, id, userID).
		Scan(&res.ID, &res.UserID, &res.EventID, &res.Units, &res.Note, &res.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) UpdateOwned(ctx context.Context, res domain.Reservation) error {
	const stmt = `
UPDATE reservations SET units = $1, note = $2
WHERE id = $3 AND user_id = $4`

	tag, err := r.exec(ctx, stmt, res.Units, res.Note, res.ID, res.UserID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrReservationNotFound
		}
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) DeleteOwned(ctx context.Context, userID int64, id string) error {
	const stmt = `DELETE FROM reservations WHERE id = $1 AND user_id = $2`

	tag, err := r.exec(ctx, stmt, id, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrReservationNotFound
		}
		return fmt.Errorf("delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
