package funding

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

type DepositRequestBody struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	TransactionRef string          `json:"transaction_ref"`
	ProofRef       string          `json:"proof_ref"`
}

type WithdrawalRequestBody struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	AccountDetails string          `json:"account_details"`
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

// SubmitDeposit handles POST /deposits.
func (h *Handler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req DepositRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	d, err := h.svc.SubmitDeposit(r.Context(), user.ID, req.Amount, req.Method, req.TransactionRef, req.ProofRef)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrMissingDetails):
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		default:
			h.log.Error("submit deposit failed", "user_id", user.ID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ListMyDeposits handles GET /deposits.
func (h *Handler) ListMyDeposits(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.svc.ListMyDeposits(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list deposits failed", "user_id", user.ID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.DepositRequest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// SubmitWithdrawal handles POST /withdrawals. The amount leaves the account
// immediately; a rejection later restores it.
func (h *Handler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req WithdrawalRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	wr, err := h.svc.SubmitWithdrawal(r.Context(), user.ID, req.Amount, req.Method, req.AccountDetails)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrMissingDetails):
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		case errors.Is(err, ErrInsufficientEarnings):
			http.Error(w, `{"error":"insufficient earnings"}`, http.StatusPaymentRequired)
		case errors.Is(err, ErrAccountNotFound):
			http.Error(w, `{"error":"account not found"}`, http.StatusNotFound)
		default:
			h.log.Error("submit withdrawal failed", "user_id", user.ID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, wr)
}

// ListMyWithdrawals handles GET /withdrawals.
func (h *Handler) ListMyWithdrawals(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.svc.ListMyWithdrawals(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list withdrawals failed", "user_id", user.ID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.WithdrawalRequest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// ListPendingDeposits handles GET /admin/deposits.
func (h *Handler) ListPendingDeposits(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPendingDeposits(r.Context())
	if err != nil {
		h.log.Error("list pending deposits failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*PendingDeposit{}
	}
	writeJSON(w, http.StatusOK, list)
}

// ListPendingWithdrawals handles GET /admin/withdrawals.
func (h *Handler) ListPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPendingWithdrawals(r.Context())
	if err != nil {
		h.log.Error("list pending withdrawals failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*PendingWithdrawal{}
	}
	writeJSON(w, http.StatusOK, list)
}

// DecideDeposit handles POST /admin/deposits/{id}/approve and .../reject.
func (h *Handler) DecideDeposit(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, `{"error":"invalid request id"}`, http.StatusBadRequest)
			return
		}
		if approve {
			err = h.svc.ApproveDeposit(r.Context(), id)
		} else {
			err = h.svc.RejectDeposit(r.Context(), id)
		}
		h.writeDecision(w, id, err, "deposit")
	}
}

// DecideWithdrawal handles POST /admin/withdrawals/{id}/approve and .../reject.
func (h *Handler) DecideWithdrawal(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, `{"error":"invalid request id"}`, http.StatusBadRequest)
			return
		}
		if approve {
			err = h.svc.ApproveWithdrawal(r.Context(), id)
		} else {
			err = h.svc.RejectWithdrawal(r.Context(), id)
		}
		h.writeDecision(w, id, err, "withdrawal")
	}
}

func (h *Handler) writeDecision(w http.ResponseWriter, id uuid.UUID, err error, kind string) {
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			http.Error(w, `{"error":"request not found"}`, http.StatusNotFound)
		case errors.Is(err, ErrAlreadyDecided):
			http.Error(w, `{"error":"request already decided"}`, http.StatusConflict)
		default:
			h.log.Error("funding decision failed", "kind", kind, "request_id", id, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
