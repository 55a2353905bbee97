package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"resumescore/internal/catalog"
	"resumescore/internal/errors"
)

const defaultHistoryLimit = 10
const maxHistoryLimit = 50

// feedbackHealth is implemented by generators carrying a circuit
// breaker; the rule-based generator does not.
type feedbackHealth interface {
	Healthy() bool
	Stats() map[string]any
}

// healthHandler provides a health check endpoint including feedback
// circuit breaker and storage status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "resumescore",
		"version": s.Version,
		"catalog": map[string]any{
			"roles":        len(s.Catalog.Roles()),
			"default_role": catalog.DefaultRole,
		},
	}

	overallHealthy := true

	if hc, ok := s.Generator.(feedbackHealth); ok {
		healthy := hc.Healthy()
		response["feedback"] = map[string]any{
			"strategy":        "gemini",
			"healthy":         healthy,
			"circuit_breaker": hc.Stats(),
		}
		if !healthy {
			overallHealthy = false
		}
	} else {
		response["feedback"] = map[string]any{
			"strategy": "rules",
			"healthy":  true,
		}
	}

	if s.Store != nil {
		count, err := s.Store.Count(r.Context())
		if err != nil {
			response["storage"] = map[string]any{
				"enabled": true,
				"healthy": false,
				"error":   err.Error(),
			}
			overallHealthy = false
		} else {
			response["storage"] = map[string]any{
				"enabled":  true,
				"healthy":  true,
				"analyses": count,
			}
		}
	} else {
		response["storage"] = map[string]any{
			"enabled": false,
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	writeJSONResponse(w, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumescore",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_upload_size_bytes":  s.MaxUploadSize,
		},
		"catalog": map[string]any{
			"roles": len(s.Catalog.Roles()),
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.Store != nil {
		if count, err := s.Store.Count(r.Context()); err == nil {
			response["storage"] = map[string]any{
				"enabled":  true,
				"analyses": count,
			}
		}
	}

	writeJSONResponse(w, response)
}

// rolesHandler lists the job roles known to the skill catalog
func (s *Server) rolesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSONResponse(w, RolesResponse{
		Roles:       s.Catalog.Roles(),
		DefaultRole: catalog.DefaultRole,
	})
}

// historyHandler returns recent analyses, newest first. The limit
// query parameter defaults to 10 and is capped at 50.
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.Store == nil {
		writeErrorResponse(w, "History unavailable", "analysis history storage is disabled", http.StatusServiceUnavailable)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeErrorResponse(w, "Invalid limit", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	records, err := s.Store.Recent(r.Context(), limit)
	if err != nil {
		s.Logger.LogError(err, "Failed to load analysis history")
		writeErrorResponse(w, "Failed to load history", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, HistoryResponse{
		Analyses: records,
		Count:    len(records),
	})
}

// getAnalysisHandler fetches one stored analysis by id
func (s *Server) getAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.Store == nil {
		writeErrorResponse(w, "History unavailable", "analysis history storage is disabled", http.StatusServiceUnavailable)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/analyses/")
	if id == "" || strings.Contains(id, "/") {
		writeErrorResponse(w, "Invalid analysis id", "expected /analyses/{id}", http.StatusBadRequest)
		return
	}

	record, err := s.Store.Get(r.Context(), id)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) && appErr.Code == errors.ErrCodeNotFound {
			writeErrorResponse(w, "Analysis not found", fmt.Sprintf("no analysis with id %s", id), http.StatusNotFound)
			return
		}
		s.Logger.LogError(err, "Failed to load analysis", "id", id)
		writeErrorResponse(w, "Failed to load analysis", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, record)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSONResponse writes v as a JSON response body
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
