package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/investment"
	"github.com/fourx/backend/internal/ledger"
	"github.com/fourx/backend/internal/middleware"
	"github.com/fourx/backend/internal/models"
)

// Handler serves the account overview: profile, portfolio summary and the
// ledger history behind the balance.
type Handler struct {
	investments investment.Service
	ledgerR     *ledger.Repository
	log         *slog.Logger
}

func NewHandler(investments investment.Service, ledgerR *ledger.Repository, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{investments: investments, ledgerR: ledgerR, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/v1/account/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	active, err := h.investments.ListByUser(r.Context(), user.ID, models.InvestmentStatusActive)
	if err != nil {
		h.log.Error("list active investments failed", "user_id", user.ID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	invested := decimal.Zero
	pendingProfit := decimal.Zero
	for _, inv := range active {
		invested = invested.Add(inv.Amount)
		pendingProfit = pendingProfit.Add(inv.ExpectedProfit)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":                 user.ID,
		"email":              user.Email,
		"username":           user.Username,
		"name":               user.Name,
		"role":               user.Role,
		"referral_code":      user.ReferralCode,
		"balance":            user.Balance,
		"earn":               user.Earn,
		"total_deposits":     user.TotalDeposits,
		"total_withdrawals":  user.TotalWithdrawals,
		"active_investments": len(active),
		"invested_amount":    invested,
		"pending_profit":     pendingProfit,
		"created_at":         user.CreatedAt,
	})
}

// GET /api/v1/account/ledger
func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	entries, err := h.ledgerR.ListByUserID(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list ledger failed", "user_id", user.ID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*models.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
