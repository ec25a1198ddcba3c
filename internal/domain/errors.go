package domain

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrCapacityExceeded    = errors.New("not enough seats available")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidUnits        = errors.New("invalid units")
	ErrEventNameRequired   = errors.New("event name required")
	ErrInvalidCapacity     = errors.New("invalid capacity")
)
