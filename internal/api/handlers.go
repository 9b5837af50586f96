package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gwi.com/symptoms-checker/internal/diagnosis"
	"gwi.com/symptoms-checker/internal/store"
)

const (
	msgInternalError     = "Internal server error"
	msgDatabaseError     = "Database error"
	msgInvalidRequest    = "Invalid request"
	msgPrescriptionAdded = "Prescription added successfully"
	healthStatusOK       = "ok"
	healthStatusDegraded = "degraded"
)

// PrescriptionStore is the part of the Persistence Client the handlers use.
type PrescriptionStore interface {
	AddPrescription(ctx context.Context, p store.Prescription) error
	Ping(ctx context.Context) error
}

type APIHandler struct {
	diagnoser diagnosis.Diagnoser
	store     PrescriptionStore
	log       *zap.Logger
}

func NewAPIHandler(d diagnosis.Diagnoser, s PrescriptionStore, log *zap.Logger) *APIHandler {
	return &APIHandler{diagnoser: d, store: s, log: log}
}

// apiError carries the status and flat message a handler wants the client to see.
type apiError struct {
	Status  int
	Message string
	Details []FieldError
}

func (e *apiError) Error() string {
	return e.Message
}

func invalidRequest(details ...FieldError) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: msgInvalidRequest, Details: details}
}

// resultFunc handles one request and returns either the success body or an error.
type resultFunc func(r *http.Request) (any, error)

// handle adapts fn to http.HandlerFunc. Errors that are not an *apiError are
// logged and answered with a 500 carrying only failureMessage.
func (h *APIHandler) handle(failureMessage string, fn resultFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r)
		if err == nil {
			h.writeJSON(w, r, http.StatusOK, result)
			return
		}

		var apiErr *apiError
		if errors.As(err, &apiErr) {
			h.writeJSON(w, r, apiErr.Status, ErrorResponse{Error: apiErr.Message, Details: apiErr.Details})
			return
		}

		h.log.Error("Request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: failureMessage})
	}
}

func (h *APIHandler) CheckSymptoms(r *http.Request) (any, error) {
	var req CheckSymptomsRequest
	if err := decodeRequest(r, &req); err != nil {
		return nil, err
	}

	answer, err := h.diagnoser.Diagnose(r.Context(), req.Symptoms)
	if err != nil {
		return nil, err
	}
	return CheckSymptomsResponse{Response: answer}, nil
}

func (h *APIHandler) AddPrescription(r *http.Request) (any, error) {
	var req AddPrescriptionRequest
	if err := decodeRequest(r, &req); err != nil {
		return nil, err
	}

	err := h.store.AddPrescription(r.Context(), store.Prescription{
		UserID:    string(req.UserID),
		Symptoms:  req.Symptoms,
		Diagnosis: req.Diagnosis,
	})
	if err != nil {
		return nil, err
	}
	return MessageResponse{Message: msgPrescriptionAdded}, nil
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Warn("Health check: database unavailable", zap.Error(err))
		h.writeJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: healthStatusDegraded, Database: "down"})
		return
	}
	h.writeJSON(w, r, http.StatusOK, healthResponse{Status: healthStatusOK, Database: "up"})
}

// writeJSON sends body with status. The status line is already out when
// encoding fails, so the failure can only be logged.
func (h *APIHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Failed to write response",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
}
