package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
	"github.com/ccastillo/delivery-orchestrator/internal/orchestrator"
)

type Handler struct {
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, logger *slog.Logger) *Handler {
	return &Handler{orch: orch, logger: logger}
}

func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if code, msg := validateCart(req.UserID, req.Items); code != "" {
		h.writeError(w, http.StatusBadRequest, code, msg)
		return
	}

	quote, err := h.orch.PriceQuote(r.Context(), req)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	// The raw body is kept: its hash binds the idempotency key to this exact
	// payload.
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	var req domain.OrderRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if code, msg := validateCart(req.UserID, req.Items); code != "" {
		h.writeError(w, http.StatusBadRequest, code, msg)
		return
	}
	if req.AddressID == 0 {
		h.writeError(w, http.StatusBadRequest, codeMissingAddressID, "address_id is required")
		return
	}

	outcome, err := h.orch.CreateOrder(r.Context(), req, r.Header.Get("Idempotency-Key"), raw)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(outcome.Response); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		h.writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "missing order id")
		return
	}
	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil || userID == 0 {
		h.writeError(w, http.StatusBadRequest, codeMissingUserID, "user_id query parameter is required")
		return
	}

	cancelled, err := h.orch.CancelOrder(r.Context(), orderID, userID)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cancelled)
}

type healthResponse struct {
	Service      string                                   `json:"service"`
	Time         time.Time                                `json:"time"`
	Status       string                                   `json:"status"`
	Dependencies map[string]orchestrator.DependencyStatus `json:"dependencies,omitempty"`
}

// HandleHealth answers shallow by default; ?deep=1 probes the collaborators
// best-effort and reports "ready" only when all three answered 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Service: "delivery-orchestrator",
		Time:    time.Now().UTC(),
		Status:  "ok",
	}

	if r.URL.Query().Get("deep") == "1" {
		deps, ready := h.orch.DeepHealth(r.Context())
		resp.Dependencies = deps
		if ready {
			resp.Status = "ready"
		} else {
			resp.Status = "degraded"
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleDebugAddresses(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.PathValue("userID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, codeMissingUserID, "invalid user id")
		return
	}
	debug, err := h.orch.DebugAddresses(r.Context(), userID)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, codeUpstreamUnavailable, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, debug)
}

func validateCart(userID int, items []domain.CartLine) (string, string) {
	if userID == 0 {
		return codeMissingUserID, "user_id is required"
	}
	if len(items) == 0 {
		return codeEmptyItems, "items must not be empty"
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return codeInvalidQuantity, "quantity must be greater than zero"
		}
	}
	return "", ""
}

func (h *Handler) writeWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := mapError(err)
	if status >= 500 {
		h.logger.Error("workflow failed", "error", err, "path", r.URL.Path)
	} else {
		h.logger.Info("request rejected", "code", code, "path", r.URL.Path)
	}
	h.writeError(w, status, code, msg)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]string{"error": message, "code": code})
}
