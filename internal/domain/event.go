package domain

import "time"

// Event is the capacity-bounded resource reservations claim units from.
// Capacity is fixed from the allocation engine's point of view: admission
// reads it under an exclusive row hold and nothing in this service mutates
// it afterwards.
type Event struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
}
