package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dhabedank/burnlog/internal/core"
)

// maxBodyBytes caps the estimation request body.
const maxBodyBytes = 64 << 10

// Estimator produces one calorie estimate per request.
type Estimator interface {
	Estimate(ctx context.Context, req *core.EstimateRequest) (*core.EstimateResponse, error)
}

// HandleCalculateCalories validates the body and relays one estimate.
func (s *Server) HandleCalculateCalories(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req core.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "Request body too large", "", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.estimator.Estimate(r.Context(), &req)
	if err != nil {
		status := statusFor(err)
		var ce *core.Error
		if errors.As(err, &ce) {
			if status >= 500 {
				log.Printf("Estimate failed (%s, %d): %v", ce.Kind, status, err)
			}
			jsonError(w, ce.Message, ce.Details, status)
			return
		}
		log.Printf("Estimate failed: %v", err)
		jsonError(w, "Failed to calculate calories", err.Error(), status)
		return
	}

	jsonOK(w, resp)
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{"status": "ok"})
}

// statusFor maps an estimation error onto an HTTP status. Upstream
// failures keep the upstream status when it is an error status.
func statusFor(err error) int {
	var ce *core.Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError
	}
	switch ce.Kind {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindUpstream:
		if ce.Status >= 400 && ce.Status <= 599 {
			return ce.Status
		}
	}
	return http.StatusInternalServerError
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg, details string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(core.ErrorResponse{Error: msg, Details: details}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
