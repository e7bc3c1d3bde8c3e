package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/listahan/internal/controllers"
	"github.com/amaumene/listahan/internal/utils"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *logrus.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps err to a status code:
// validation 400, no session 401, anything else came from the remote store
// and is reported as 502 with its message
func writeError(w http.ResponseWriter, err error, logger *logrus.Logger) {
	var validationErr *utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Message, Field: validationErr.Field}, logger)
	case errors.Is(err, controllers.ErrNoUser):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()}, logger)
	default:
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()}, logger)
	}
}
