package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/buckalew/retirement-sim/internal/calculation"
	"github.com/buckalew/retirement-sim/internal/domain"
)

// anomalyMessage is shown instead of the raw numeric detail.
const anomalyMessage = "calculation could not complete with these parameters"

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps engine errors to HTTP responses.
func (s *Server) writeDomainError(w http.ResponseWriter, op string, err error) {
	var ve *domain.ValidationError
	var anomaly *domain.NumericAnomalyError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
	case errors.As(err, &anomaly):
		s.logger.Warn("numeric anomaly", zap.String("op", op), zap.Int("path", anomaly.Path), zap.Int("year", anomaly.Year))
		writeError(w, http.StatusUnprocessableEntity, anomalyMessage)
	case errors.Is(err, calculation.ErrRunNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
