package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/docbook"
	"github.com/FocuswithJustin/idml2docbook/core/errors"
)

// APIResponse wraps every JSON response.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError is the error part of a response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Jobs      int    `json:"jobs"`
	Clients   int    `json:"websocket_clients"`
	IDMLReady bool   `json:"idml_ready"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"name":    "idml2docbook",
		"version": docbook.Version,
		"endpoints": []string{
			"POST /convert",
			"POST /jobs",
			"GET /jobs",
			"GET /jobs/{id}",
			"DELETE /jobs/{id}",
			"GET /health",
			"GET /metrics",
			"GET /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	respond(w, http.StatusOK, HealthInfo{
		Status:    "healthy",
		Version:   docbook.Version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Jobs:      s.jobs.Len(),
		Clients:   s.hub.ClientCount(),
		IDMLReady: s.runner != nil,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	res, err := s.convert(r.Context(), req, nil)
	if err != nil {
		respondConversionError(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

// decodeRequest reads and checks a conversion request, answering the
// client itself on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*ConvertRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload())
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", err.Error())
			return nil, false
		}
		respondError(w, http.StatusBadRequest, "INVALID_JSON", errors.NewParse("JSON", "request body", err.Error()).Error())
		return nil, false
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return nil, false
	}
	return &req, true
}

// respondConversionError maps the error taxonomy to HTTP statuses.
func respondConversionError(w http.ResponseWriter, err error) {
	var cmdErr *errors.CommandError
	switch {
	case errors.As(err, &cmdErr):
		respondError(w, http.StatusBadGateway, "CONVERTER_FAILED", err.Error())
	case errors.Is(err, errors.ErrInvalidInput):
		respondError(w, http.StatusUnprocessableEntity, "INVALID_INPUT", err.Error())
	case errors.Is(err, errors.ErrConfig):
		respondError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", err.Error())
	case errors.Is(err, errors.ErrUnsupported):
		respondError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func respond(w http.ResponseWriter, status int, data any) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	}
	writeJSON(w, status, response)
}

func respondList(w http.ResponseWriter, data any, total int) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Total: total, Timestamp: time.Now().UTC().Format(time.RFC3339)},
	}
	writeJSON(w, http.StatusOK, response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
