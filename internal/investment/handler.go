package investment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/middleware"
	"github.com/fourx/backend/internal/models"
)

type CreateInvestmentRequest struct {
	TicketID string          `json:"ticket_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type SweepResponse struct {
	Matured int `json:"matured"`
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// CreateInvestment handles POST /investments.
func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		http.Error(w, `{"error":"invalid ticket_id"}`, http.StatusBadRequest)
		return
	}
	if req.Amount.IsNegative() {
		http.Error(w, `{"error":"amount must be >= 0"}`, http.StatusBadRequest)
		return
	}

	inv, err := h.svc.CreateInvestment(r.Context(), user.ID, ticketID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound), errors.Is(err, ErrAccountNotFound):
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAmountMismatch):
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		case errors.Is(err, ErrInsufficientFunds):
			http.Error(w, `{"error":"insufficient funds"}`, http.StatusPaymentRequired)
		default:
			h.log.Error("create investment failed", "user_id", user.ID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// ListMyInvestments handles GET /investments with an optional ?status= filter.
func (h *Handler) ListMyInvestments(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	status := r.URL.Query().Get("status")
	switch status {
	case "", models.InvestmentStatusActive, models.InvestmentStatusCompleted, models.InvestmentStatusCancelled:
	default:
		http.Error(w, `{"error":"invalid status filter"}`, http.StatusBadRequest)
		return
	}
	list, err := h.svc.ListByUser(r.Context(), user.ID, status)
	if err != nil {
		h.log.Error("list investments failed", "user_id", user.ID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Investment{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetInvestment handles GET /investments/{id}. Owners see their own records;
// admins see everything.
func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid investment id"}`, http.StatusBadRequest)
		return
	}
	inv, err := h.svc.GetInvestment(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvestmentNotFound) {
			http.Error(w, `{"error":"investment not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error("get investment failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if inv.UserID != user.ID && user.Role != models.RoleAdmin {
		http.Error(w, `{"error":"investment not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// CancelInvestment handles POST /admin/investments/{id}/cancel.
func (h *Handler) CancelInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid investment id"}`, http.StatusBadRequest)
		return
	}
	inv, err := h.svc.CancelInvestment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvestmentNotFound):
			http.Error(w, `{"error":"investment not found"}`, http.StatusNotFound)
		case errors.Is(err, ErrNotActive):
			http.Error(w, `{"error":"investment is not active"}`, http.StatusConflict)
		default:
			h.log.Error("cancel investment failed", "investment_id", id, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// TriggerSweep handles POST /admin/sweep: a synchronous, on-demand run of
// the maturation sweep for operational recovery and testing.
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	matured, err := h.svc.MaturationSweep(r.Context())
	if err != nil {
		h.log.Error("manual sweep failed", "error", err)
		http.Error(w, `{"error":"sweep failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, SweepResponse{Matured: matured})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
