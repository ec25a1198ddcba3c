package postgres

import (
	"context"
	"fmt"

	"github.com/eventseat/reserve-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) error {
	const stmt = `INSERT INTO events (id, name, capacity, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.pool.Exec(ctx, stmt, event.ID, event.Name, event.Capacity, event.CreatedAt); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT id, name, capacity, created_at FROM events ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Capacity, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}
