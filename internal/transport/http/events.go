package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventseat/reserve-api/internal/app"
	"github.com/eventseat/reserve-api/internal/domain"
)

// EventService is the minimal interface needed for admin event endpoints.
type EventService interface {
	Create(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
}

// HandleAdminEvents serves GET (list) and POST (create) on /admin/events.
func HandleAdminEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.List(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, toEventResponse(event))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			event, err := svc.Create(r.Context(), app.CreateEventInput{
				Name:     req.Name,
				Capacity: req.Capacity,
			})
			if err != nil {
				switch err {
				case domain.ErrEventNameRequired:
					writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
				case domain.ErrInvalidCapacity:
					writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createEventRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type eventResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:        event.ID,
		Name:      event.Name,
		Capacity:  event.Capacity,
		CreatedAt: event.CreatedAt,
	}
}
