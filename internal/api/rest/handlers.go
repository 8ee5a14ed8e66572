package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flow-metrics/internal/dashboard"
	"flow-metrics/internal/jira"
)

// Handler serves the dashboard metrics over HTTP.
type Handler struct {
	svc *dashboard.Service
}

// NewHandler creates a new REST handler
func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

// CredentialsRequest carries the Jira tenant and account for one request.
type CredentialsRequest struct {
	BaseURL  string `json:"baseUrl"`
	Email    string `json:"email"`
	APIToken string `json:"apiToken"`
}

func (c CredentialsRequest) credentials() jira.Credentials {
	return jira.Credentials{BaseURL: c.BaseURL, Email: c.Email, APIToken: c.APIToken}
}

// MetricsRequest is the body of every metric endpoint.
type MetricsRequest struct {
	Credentials CredentialsRequest `json:"credentials"`
}

// IssueTableRequest adds pagination to MetricsRequest.
type IssueTableRequest struct {
	MetricsRequest
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/metrics", func(r chi.Router) {
		r.Post("/test-connection", h.TestConnection)
		r.Post("/leadtime", h.LeadTime)
		r.Post("/cycletime", h.CycleTime)
		r.Post("/throughput", h.Throughput)
		r.Post("/wip", h.WorkInProgress)
		r.Post("/reopenrate", h.ReopenRate)
		r.Post("/timeinstatus", h.TimeInStatus)
		r.Post("/trend", h.Trend)
		r.Post("/cumulativeflow", h.CumulativeFlow)
		r.Post("/issuetable", h.IssueTable)
		r.Post("/teamtable", h.TeamTable)
		r.Post("/refresh", h.Refresh)
	})
}

// TestConnection handles POST /api/metrics/test-connection. The body is a bare credentials object.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.TestConnection(r.Context(), req.credentials()); err != nil {
		log.Error().Err(err).Msg("Connection test failed")
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid credentials or connection failed"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Connection successful"})
}

// LeadTime handles POST /api/metrics/leadtime
func (h *Handler) LeadTime(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.LeadTime(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to calculate lead time")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"leadTime": v})
}

// CycleTime handles POST /api/metrics/cycletime
func (h *Handler) CycleTime(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.CycleTime(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to calculate cycle time")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"cycleTime": v})
}

// Throughput handles POST /api/metrics/throughput
func (h *Handler) Throughput(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.Throughput(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to calculate throughput")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"throughput": v})
}

// WorkInProgress handles POST /api/metrics/wip
func (h *Handler) WorkInProgress(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.WorkInProgress(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to calculate work in progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"workInProgress": v})
}

// ReopenRate handles POST /api/metrics/reopenrate
func (h *Handler) ReopenRate(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.ReopenRate(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to calculate reopen rate")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"reopenRate": v})
}

// TimeInStatus handles POST /api/metrics/timeinstatus
func (h *Handler) TimeInStatus(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.TimeInStatus(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to get time in status data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"statusDurations": v})
}

// Trend handles POST /api/metrics/trend
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.Trend(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to get trend data")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// CumulativeFlow handles POST /api/metrics/cumulativeflow
func (h *Handler) CumulativeFlow(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.CumulativeFlow(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to get cumulative flow data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dataPoints": v})
}

// IssueTable handles POST /api/metrics/issuetable
func (h *Handler) IssueTable(w http.ResponseWriter, r *http.Request) {
	var req IssueTableRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.IssueTable(r.Context(), req.Credentials.credentials(), req.Page, req.PageSize)
	if err != nil {
		fail(w, err, "Failed to get issue table rows")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// TeamTable handles POST /api/metrics/teamtable
func (h *Handler) TeamTable(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.TeamTable(r.Context(), req.Credentials.credentials())
	if err != nil {
		fail(w, err, "Failed to get team table rows")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Refresh handles POST /api/metrics/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Refresh(r.Context(), req.Credentials.credentials()); err != nil {
		fail(w, err, "Failed to refresh metrics")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Metrics refreshed successfully"})
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func fail(w http.ResponseWriter, err error, message string) {
	log.Error().Err(err).Msg(message)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}
