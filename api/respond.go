package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/service"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

// respondError maps service errors onto HTTP statuses. Unrecognized errors
// become opaque 500s so internals never leak to clients.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrBadRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		status, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUpstream):
		status, message = http.StatusBadGateway, "upstream service unavailable"
	default:
		logrus.WithError(err).Error("Unhandled request error")
	}

	respondJSON(w, status, errorBody{Error: errorDetail{Code: status, Message: message}})
}
