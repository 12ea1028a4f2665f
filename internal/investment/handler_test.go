package investment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fourx/backend/internal/middleware"
	"github.com/fourx/backend/internal/models"
)

func authedRequest(method, target, body string, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func TestCreateInvestmentHandlerStatusCodes(t *testing.T) {
	store := newMockStore()
	ticket := fixedTicket()
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	store.addAccount(user.ID, dec("100"))
	h := NewHandler(NewService(store, newMockTickets(ticket), nil, nil), nil)

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "insufficient funds", body: `{"ticket_id":"` + ticket.ID.String() + `"}`, want: http.StatusPaymentRequired},
		{name: "amount mismatch", body: `{"ticket_id":"` + ticket.ID.String() + `","amount":"999"}`, want: http.StatusBadRequest},
		{name: "unknown ticket", body: `{"ticket_id":"` + uuid.NewString() + `"}`, want: http.StatusNotFound},
		{name: "bad ticket id", body: `{"ticket_id":"nope"}`, want: http.StatusBadRequest},
		{name: "invalid json", body: `{`, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CreateInvestment(rec, authedRequest(http.MethodPost, "/api/v1/investments", tc.body, user))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body)
			}
		})
	}
	if !store.balance(user.ID).Equal(dec("100")) {
		t.Errorf("failed requests moved the balance: %s", store.balance(user.ID))
	}
}

func TestGetInvestmentHandlerOwnership(t *testing.T) {
	store := newMockStore()
	ticket := customTicket()
	owner := &models.User{ID: uuid.New(), Role: models.RoleUser}
	stranger := &models.User{ID: uuid.New(), Role: models.RoleUser}
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	store.addAccount(owner.ID, dec("500"))

	svc := NewService(store, newMockTickets(ticket), nil, nil)
	inv, err := svc.CreateInvestment(context.Background(), owner.ID, ticket.ID, dec("200"))
	if err != nil {
		t.Fatalf("CreateInvestment: %v", err)
	}
	h := NewHandler(svc, nil)

	get := func(user *models.User) int {
		req := authedRequest(http.MethodGet, "/api/v1/investments/"+inv.ID.String(), "", user)
		req.SetPathValue("id", inv.ID.String())
		rec := httptest.NewRecorder()
		h.GetInvestment(rec, req)
		return rec.Code
	}

	if code := get(owner); code != http.StatusOK {
		t.Errorf("owner status = %d, want 200", code)
	}
	if code := get(admin); code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", code)
	}
	// Other users get 404, not 403, so record ids are not probeable.
	if code := get(stranger); code != http.StatusNotFound {
		t.Errorf("stranger status = %d, want 404", code)
	}
}

func TestListMyInvestmentsStatusFilter(t *testing.T) {
	store := newMockStore()
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	h := NewHandler(NewService(store, newMockTickets(), nil, nil), nil)

	rec := httptest.NewRecorder()
	h.ListMyInvestments(rec, authedRequest(http.MethodGet, "/api/v1/investments?status=bogus", "", user))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus filter status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListMyInvestments(rec, authedRequest(http.MethodGet, "/api/v1/investments?status=active", "", user))
	if rec.Code != http.StatusOK {
		t.Errorf("valid filter status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty list body = %q, want []", body)
	}
}
