package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eventseat/reserve-api/internal/domain"
)

// HandleReservationByID serves GET, PATCH and DELETE on /reservations/{id}.
// Ownership is enforced inside the service: a foreign reservation answers
// exactly like a missing one.
func HandleReservationByID(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		id, ok := parseReservationPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			reservation, err := svc.Get(r.Context(), userID, id)
			if err != nil {
				writeReservationError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toReservationResponse(reservation))
		case http.MethodPatch:
			var req updateReservationRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.Units != nil && *req.Units <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidUnits, domain.ErrInvalidUnits.Error())
				return
			}

			reservation, err := svc.Update(r.Context(), userID, id, domain.ReservationPatch{
				Units: req.Units,
				Note:  req.Note,
			})
			if err != nil {
				writeReservationError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toReservationResponse(reservation))
		case http.MethodDelete:
			if err := svc.Delete(r.Context(), userID, id); err != nil {
				writeReservationError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// updateReservationRequest distinguishes absent fields from present ones:
// nil pointers leave the stored value untouched.
type updateReservationRequest struct {
	Units *int    `json:"units"`
	Note  *string `json:"note"`
}

func parseReservationPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "reservations" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
