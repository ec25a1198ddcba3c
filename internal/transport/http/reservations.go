package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventseat/reserve-api/internal/app"
	"github.com/eventseat/reserve-api/internal/domain"
)

// ReservationService is the lifecycle surface the reservation handlers need.
type ReservationService interface {
	Create(ctx context.Context, userID int64, in app.CreateReservationInput) (domain.Reservation, error)
	List(ctx context.Context, userID int64) ([]domain.Reservation, error)
	Get(ctx context.Context, userID int64, id string) (domain.Reservation, error)
	Update(ctx context.Context, userID int64, id string, patch domain.ReservationPatch) (domain.Reservation, error)
	Delete(ctx context.Context, userID int64, id string) error
}

// HandleReservations serves GET (list own) and POST (create) on /reservations.
func HandleReservations(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		switch r.Method {
		case http.MethodGet:
			reservations, err := svc.List(r.Context(), userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]reservationResponse, 0, len(reservations))
			for _, res := range reservations {
				resp = append(resp, toReservationResponse(res))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createReservationRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.EventID == "" {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "event_id is required")
				return
			}
			if req.Units <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidUnits, domain.ErrInvalidUnits.Error())
				return
			}

			reservation, err := svc.Create(r.Context(), userID, app.CreateReservationInput{
				EventID: req.EventID,
				Units:   req.Units,
				Note:    req.Note,
			})
			if err != nil {
				writeReservationError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toReservationResponse(reservation))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func writeReservationError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrCapacityExceeded:
		writeError(w, http.StatusBadRequest, codeCapacityExceeded, err.Error())
	case domain.ErrInvalidUnits:
		writeError(w, http.StatusBadRequest, codeInvalidUnits, err.Error())
	case domain.ErrReservationNotFound:
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type createReservationRequest struct {
	EventID string `json:"event_id"`
	Units   int    `json:"units"`
	Note    string `json:"note"`
}

type reservationResponse struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	EventID   string    `json:"event_id"`
	Units     int       `json:"units"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toReservationResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:        res.ID,
		UserID:    res.UserID,
		EventID:   res.EventID,
		Units:     res.Units,
		Note:      res.Note,
		CreatedAt: res.CreatedAt,
	}
}
