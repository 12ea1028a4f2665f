package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/models"
)

// mockCatalog is an in-memory Service used to test handler wiring without a
// database. Create/Update run the same Validate as the real service.
type mockCatalog struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*models.Ticket
}

func newMockCatalog(ts ...*models.Ticket) *mockCatalog {
	m := &mockCatalog{tickets: make(map[uuid.UUID]*models.Ticket)}
	for _, t := range ts {
		cp := *t
		m.tickets[t.ID] = &cp
	}
	return m
}

func (m *mockCatalog) CreateTicket(_ context.Context, t *models.Ticket) (*models.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.New()
	cp := *t
	m.tickets[t.ID] = &cp
	return t, nil
}

func (m *mockCatalog) UpdateTicket(_ context.Context, t *models.Ticket) (*models.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[t.ID]; !ok {
		return nil, ErrTicketNotFound
	}
	cp := *t
	m.tickets[t.ID] = &cp
	return t, nil
}

func (m *mockCatalog) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return ErrTicketNotFound
	}
	t.IsActive = active
	return nil
}

func (m *mockCatalog) GetTicket(_ context.Context, id uuid.UUID) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockCatalog) ListActiveTickets(_ context.Context) ([]*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ticket
	for _, t := range m.tickets {
		if t.IsActive {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockCatalog) ListAllTickets(_ context.Context) ([]*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ticket
	for _, t := range m.tickets {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func sample(active bool) *models.Ticket {
	return &models.Ticket{
		ID:            uuid.New(),
		Name:          "Sample",
		Kind:          models.TicketKindFixed,
		Fixed:         &models.FixedTerms{Amount: dec("1500"), Profit: dec("33.33")},
		ValidityHours: 24,
		IsActive:      active,
	}
}

func TestListTicketsShowsActiveOnly(t *testing.T) {
	h := NewHandler(newMockCatalog(sample(true), sample(false)), nil)

	rec := httptest.NewRecorder()
	h.ListTickets(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []*models.Ticket
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("listed %d tickets, want 1 active", len(got))
	}
}

func TestCreateTicketHandler(t *testing.T) {
	svc := newMockCatalog()
	h := NewHandler(svc, nil)

	body := `{"name":"New Fund","kind":"fixed","amount":"3000","profit":"70","validity_hours":24}`
	rec := httptest.NewRecorder()
	h.CreateTicket(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/tickets", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body)
	}
	var got models.Ticket
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != models.TicketKindFixed || got.Fixed == nil || !got.Fixed.Amount.Equal(dec("3000")) {
		t.Errorf("created ticket terms wrong: %+v", got)
	}
	if !got.IsActive {
		t.Error("new tickets should default to active")
	}
}

func TestCreateTicketHandlerRejectsInvalid(t *testing.T) {
	h := NewHandler(newMockCatalog(), nil)

	// Fixed kind missing its terms.
	body := `{"name":"Broken","kind":"fixed","validity_hours":24}`
	rec := httptest.NewRecorder()
	h.CreateTicket(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/tickets", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSetTicketActiveHandler(t *testing.T) {
	ticket := sample(true)
	svc := newMockCatalog(ticket)
	h := NewHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/tickets/"+ticket.ID.String()+"/active", strings.NewReader(`{"is_active":false}`))
	req.SetPathValue("id", ticket.ID.String())
	rec := httptest.NewRecorder()
	h.SetTicketActive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	got, _ := svc.GetTicket(context.Background(), ticket.ID)
	if got.IsActive {
		t.Error("ticket still active after deactivation")
	}

	// Missing is_active field is rejected.
	req = httptest.NewRequest(http.MethodPatch, "/x", strings.NewReader(`{}`))
	req.SetPathValue("id", ticket.ID.String())
	rec = httptest.NewRecorder()
	h.SetTicketActive(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
