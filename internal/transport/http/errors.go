package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeUnauthenticated     = "unauthenticated"
	codeInvalidToken        = "invalid_token"
	codeUserIDRequired      = "user_id_required"
	codeRefreshRequired     = "refresh_token_required"
	codeInvalidUnits        = "invalid_units"
	codeInvalidCapacity     = "invalid_capacity"
	codeEventNameRequired   = "event_name_required"
	codeEventNotFound       = "event_not_found"
	codeCapacityExceeded    = "capacity_exceeded"
	codeReservationNotFound = "reservation_not_found"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
