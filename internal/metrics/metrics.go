package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reserve_api_reservations_admitted_total",
		Help: "Total number of reservation requests admitted.",
	})

	ReservationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reserve_api_reservations_rejected_total",
		Help: "Total number of reservation requests rejected, labelled by reason.",
	}, []string{"reason"})

	UnitsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reserve_api_units_reserved_total",
		Help: "Total units admitted across all events.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reserve_api_http_requests_total",
		Help: "Total HTTP requests served, labelled by method and status.",
	}, []string{"method", "status"})
)

// Rejection reason labels.
const (
	ReasonCapacity      = "capacity_exceeded"
	ReasonEventNotFound = "event_not_found"
)
