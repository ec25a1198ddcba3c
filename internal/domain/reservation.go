package domain

import "time"

// Reservation is a user's claim on some number of units of an event's
// capacity. UserID always comes from the verified credential, never from a
// request body. Note is optional metadata, stored encrypted.
type Reservation struct {
	ID        string
	UserID    int64
	EventID   string
	Units     int
	Note      string
	CreatedAt time.Time
}

// ReservationPatch carries a partial update. Nil fields are left unchanged.
type ReservationPatch struct {
	Units *int
	Note  *string
}
