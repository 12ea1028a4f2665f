package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/models"
)

// Request/response JSON is snake_case; terms fields mirror the ticket kind.

type TicketRequest struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Kind             string           `json:"kind"`
	Amount           *decimal.Decimal `json:"amount"`
	Profit           *decimal.Decimal `json:"profit"`
	MinCustomAmount  *decimal.Decimal `json:"min_custom_amount"`
	MaxCustomAmount  *decimal.Decimal `json:"max_custom_amount"`
	ProfitPercentage *decimal.Decimal `json:"profit_percentage"`
	ValidityHours    int              `json:"validity_hours"`
	IsActive         *bool            `json:"is_active"`
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

// ListTickets handles GET /tickets (public): active tickets only.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.svc.ListActiveTickets(r.Context())
	if err != nil {
		h.log.Error("list tickets failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// GetTicket handles GET /tickets/{id}.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid ticket id"}`, http.StatusBadRequest)
		return
	}
	ticket, err := h.svc.GetTicket(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			http.Error(w, `{"error":"ticket not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error("get ticket failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// ListAllTickets handles GET /admin/tickets: every ticket, inactive included.
func (h *Handler) ListAllTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.svc.ListAllTickets(r.Context())
	if err != nil {
		h.log.Error("list all tickets failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// CreateTicket handles POST /admin/tickets.
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	ticket, err := h.svc.CreateTicket(r.Context(), ticketFromRequest(&req))
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

// UpdateTicket handles PUT /admin/tickets/{id}.
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid ticket id"}`, http.StatusBadRequest)
		return
	}
	var req TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	ticket := ticketFromRequest(&req)
	ticket.ID = id
	updated, err := h.svc.UpdateTicket(r.Context(), ticket)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			http.Error(w, `{"error":"ticket not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetTicketActive handles PATCH /admin/tickets/{id}/active. Deactivated
// tickets stop accepting purchases; existing investments are unaffected.
func (h *Handler) SetTicketActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid ticket id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		http.Error(w, `{"error":"is_active required"}`, http.StatusBadRequest)
		return
	}
	if err := h.svc.SetActive(r.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			http.Error(w, `{"error":"ticket not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func ticketFromRequest(req *TicketRequest) *models.Ticket {
	t := &models.Ticket{
		Name:          req.Name,
		Description:   req.Description,
		Kind:          req.Kind,
		ValidityHours: req.ValidityHours,
		IsActive:      true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	switch req.Kind {
	case models.TicketKindFixed:
		if req.Amount != nil && req.Profit != nil {
			t.Fixed = &models.FixedTerms{Amount: *req.Amount, Profit: *req.Profit}
		}
	case models.TicketKindCustom:
		if req.MinCustomAmount != nil && req.MaxCustomAmount != nil && req.ProfitPercentage != nil {
			t.Custom = &models.CustomTerms{
				MinAmount:        *req.MinCustomAmount,
				MaxAmount:        *req.MaxCustomAmount,
				ProfitPercentage: *req.ProfitPercentage,
			}
		}
	}
	return t
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
