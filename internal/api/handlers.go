package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/agency-site/internal/contact"
	"github.com/terra-clan/agency-site/internal/health"
	"github.com/terra-clan/agency-site/internal/models"
)

const maxBodyBytes = 64 << 10

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondErrorFields(w, status, code, message, nil)
}

func respondErrorFields(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results := s.health.CheckAll(r.Context())

	if !health.Healthy(results) {
		var failing []string
		for name, err := range results {
			if err != nil {
				slog.Warn("readiness check failed", "check", name, "error", err)
				failing = append(failing, name)
			}
		}
		sort.Strings(failing)
		respondError(w, http.StatusServiceUnavailable, "not_ready",
			"service not ready: "+strings.Join(failing, ", "))
		return
	}

	checks := make(map[string]string, len(results))
	for name := range results {
		checks[name] = "ok"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}

// Catalog handlers

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.CatalogResponse{
		Services:     s.catalog.Services(),
		Stats:        s.catalog.Stats(),
		Testimonials: s.catalog.Testimonials(),
	})
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	services := s.catalog.Services()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"services": services,
		"total":    len(services),
	})
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	code := models.ServiceCode(chi.URLParam(r, "code"))

	svc, ok := s.catalog.Service(code)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "service not found")
		return
	}

	respondJSON(w, http.StatusOK, svc)
}

// Selection handlers

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	visitorID := VisitorFromContext(r.Context())
	unlock := s.locker.Lock(visitorID)
	defer unlock()

	v := s.openView(r.Context(), visitorID)
	respondJSON(w, http.StatusOK, models.SelectionResponse{Selected: v.Selected()})
}

func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	var req models.SelectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	visitorID := VisitorFromContext(r.Context())
	unlock := s.locker.Lock(visitorID)
	defer unlock()

	v := s.openView(r.Context(), visitorID)
	respondJSON(w, http.StatusOK, s.selectAndSave(r.Context(), visitorID, v, req.Code))
}

// Contact handlers

func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ack, err := s.contact.Submit(r.Context(), req, contact.Meta{
		RemoteAddr: clientIP(r),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		var verr *contact.ValidationError
		switch {
		case errors.As(err, &verr):
			respondErrorFields(w, http.StatusUnprocessableEntity, "validation_error",
				"contact submission is invalid", verr.Fields)
		case errors.Is(err, contact.ErrRateLimited):
			respondError(w, http.StatusTooManyRequests, "rate_limited", "too many submissions, try again later")
		default:
			slog.Error("failed to submit contact message", "error", err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to submit contact message")
		}
		return
	}

	respondJSON(w, http.StatusCreated, ack)
}
