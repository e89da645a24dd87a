// Package handler exposes the engine's operations over HTTP JSON.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/service"
)

// HTTPHandler handles HTTP requests
type HTTPHandler struct {
	tasks        *service.TaskService
	quotes       *service.QuoteService
	negotiations *service.NegotiationService
	decisions    *service.DecisionService
	log          zerolog.Logger
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(
	tasks *service.TaskService,
	quotes *service.QuoteService,
	negotiations *service.NegotiationService,
	decisions *service.DecisionService,
	log zerolog.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		tasks:        tasks,
		quotes:       quotes,
		negotiations: negotiations,
		decisions:    decisions,
		log:          log,
	}
}

// Register wires all routes onto the mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/tasks", h.Tasks)
	mux.HandleFunc("/api/v1/tasks/abort", h.AbortTask)
	mux.HandleFunc("/api/v1/quotes/record", h.RecordQuote)
	mux.HandleFunc("/api/v1/quotes/summary", h.QuoteSummary)
	mux.HandleFunc("/api/v1/quotes/spikes", h.PriceSpikes)
	mux.HandleFunc("/api/v1/negotiations", h.ListNegotiations)
	mux.HandleFunc("/api/v1/negotiations/gate", h.NegotiationGate)
	mux.HandleFunc("/api/v1/negotiations/start", h.StartNegotiations)
	mux.HandleFunc("/api/v1/negotiations/reply", h.SubmitReply)
	mux.HandleFunc("/api/v1/negotiations/timeout", h.RoundTimeout)
	mux.HandleFunc("/api/v1/negotiations/restart", h.RestartNegotiation)
	mux.HandleFunc("/api/v1/decisions", h.GetDecision)
	mux.HandleFunc("/api/v1/decisions/finalize", h.Finalize)
}

// Tasks dispatches task creation and reads.
func (h *HTTPHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createTask(w, r)
	case http.MethodGet:
		h.getTask(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) createTask(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, task)
}

func (h *HTTPHandler) getTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("id")
	if taskID == "" {
		h.writeError(w, errors.InvalidInput("id", "task id is required"))
		return
	}

	task, err := h.tasks.GetTask(r.Context(), taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

// AbortTask handles abort task HTTP requests
func (h *HTTPHandler) AbortTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	if err := h.negotiations.AbortTask(r.Context(), req.TaskID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "aborted"})
}

// RecordQuote handles initial supplier quote submissions.
func (h *HTTPHandler) RecordQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TaskID     string `json:"task_id"`
		SupplierID string `json:"supplier_id"`
		RawText    string `json:"raw_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}
	if req.TaskID == "" || req.SupplierID == "" {
		h.writeError(w, errors.InvalidInput("task_id", "task_id and supplier_id are required"))
		return
	}

	quote, err := h.quotes.RecordSupplierQuote(r.Context(), req.TaskID, req.SupplierID, req.RawText)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, quote)
}

// QuoteSummary handles quote comparison view requests.
func (h *HTTPHandler) QuoteSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		h.writeError(w, errors.InvalidInput("task_id", "task id is required"))
		return
	}

	summary, err := h.quotes.GetQuoteSummary(r.Context(), taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// PriceSpikes handles price spike detection requests.
func (h *HTTPHandler) PriceSpikes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		h.writeError(w, errors.InvalidInput("task_id", "task id is required"))
		return
	}

	spikes, err := h.quotes.DetectPriceSpikes(r.Context(), taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id": taskID,
		"spikes":  spikes,
	})
}

// ListNegotiations returns every session of a task with its rounds.
func (h *HTTPHandler) ListNegotiations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		h.writeError(w, errors.InvalidInput("task_id", "task id is required"))
		return
	}

	sessions, err := h.negotiations.ListSessions(r.Context(), taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id":  taskID,
		"sessions": sessions,
	})
}

// NegotiationGate reports whether a task is ready for negotiation.
func (h *HTTPHandler) NegotiationGate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		h.writeError(w, errors.InvalidInput("task_id", "task id is required"))
		return
	}
	expired, _ := strconv.ParseBool(r.URL.Query().Get("collection_expired"))

	ready, reason, err := h.quotes.ShouldStartNegotiation(r.Context(), taskID, expired)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id": taskID,
		"ready":   ready,
		"reason":  reason,
	})
}

// StartNegotiations handles start negotiation HTTP requests
func (h *HTTPHandler) StartNegotiations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	sessions, err := h.negotiations.StartNegotiations(r.Context(), req.TaskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"task_id":  req.TaskID,
		"sessions": sessions,
	})
}

// SubmitReply handles supplier reply HTTP requests
func (h *HTTPHandler) SubmitReply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TaskID      string `json:"task_id"`
		SupplierID  string `json:"supplier_id"`
		RoundNumber int    `json:"round_number"`
		RawText     string `json:"raw_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}
	if req.TaskID == "" || req.SupplierID == "" {
		h.writeError(w, errors.InvalidInput("task_id", "task_id and supplier_id are required"))
		return
	}

	quote, err := h.negotiations.SubmitSupplierReply(r.Context(), req.TaskID, req.SupplierID, req.RoundNumber, req.RawText)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

// RoundTimeout handles round timeout HTTP requests
func (h *HTTPHandler) RoundTimeout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TaskID      string `json:"task_id"`
		SupplierID  string `json:"supplier_id"`
		RoundNumber int    `json:"round_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	if err := h.negotiations.MarkRoundTimedOut(r.Context(), req.TaskID, req.SupplierID, req.RoundNumber); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "timed_out"})
}

// RestartNegotiation handles explicit restarts of timed-out negotiations.
func (h *HTTPHandler) RestartNegotiation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TaskID     string `json:"task_id"`
		SupplierID string `json:"supplier_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	if err := h.negotiations.RestartNegotiation(r.Context(), req.TaskID, req.SupplierID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "restarted"})
}

// Finalize handles finalize-and-decide HTTP requests
func (h *HTTPHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.InvalidInput("body", "invalid request body"))
		return
	}

	result, err := h.decisions.FinalizeAndDecide(r.Context(), req.TaskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// GetDecision handles get decision HTTP requests
func (h *HTTPHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		h.writeError(w, errors.InvalidInput("task_id", "task id is required"))
		return
	}

	result, err := h.decisions.GetDecision(r.Context(), taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// ── response helpers ──────────────────────────────────────────────────────────

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Warn().Err(err).Msg("http: failed to encode response")
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("http: request failed")
	}
	h.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(errors.CodeOf(err)),
	})
}
