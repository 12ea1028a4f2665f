package router

import (
	"net/http"

	"github.com/fourx/backend/internal/auth"
	"github.com/fourx/backend/internal/catalog"
	"github.com/fourx/backend/internal/dashboard"
	"github.com/fourx/backend/internal/funding"
	"github.com/fourx/backend/internal/investment"
	"github.com/fourx/backend/internal/middleware"
)

// Handlers collects every HTTP handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	Catalog    *catalog.Handler
	Investment *investment.Handler
	Funding    *funding.Handler
	Dashboard  *dashboard.Handler
}

// New returns an http.Handler serving the API under /api/v1. Routes below
// /auth and the public ticket listing are open; everything else requires a
// valid bearer token, and /admin additionally requires the admin role.
func New(h Handlers, tokens middleware.TokenValidator, users middleware.UserLookup) http.Handler {
	mux := http.NewServeMux()
	const base = "/api/v1"

	authed := middleware.JWTAuth(tokens, users)
	admin := func(fn http.HandlerFunc) http.Handler {
		return authed(middleware.RequireAdmin(fn))
	}

	mux.HandleFunc("POST "+base+"/auth/register", h.Auth.Register)
	mux.HandleFunc("POST "+base+"/auth/login", h.Auth.Login)

	mux.HandleFunc("GET "+base+"/tickets", h.Catalog.ListTickets)
	mux.HandleFunc("GET "+base+"/tickets/{id}", h.Catalog.GetTicket)

	mux.Handle("GET "+base+"/account/me", authed(http.HandlerFunc(h.Dashboard.GetMe)))
	mux.Handle("GET "+base+"/account/ledger", authed(http.HandlerFunc(h.Dashboard.ListLedger)))

	mux.Handle("POST "+base+"/investments", authed(http.HandlerFunc(h.Investment.CreateInvestment)))
	mux.Handle("GET "+base+"/investments", authed(http.HandlerFunc(h.Investment.ListMyInvestments)))
	mux.Handle("GET "+base+"/investments/{id}", authed(http.HandlerFunc(h.Investment.GetInvestment)))

	mux.Handle("POST "+base+"/deposits", authed(http.HandlerFunc(h.Funding.SubmitDeposit)))
	mux.Handle("GET "+base+"/deposits", authed(http.HandlerFunc(h.Funding.ListMyDeposits)))
	mux.Handle("POST "+base+"/withdrawals", authed(http.HandlerFunc(h.Funding.SubmitWithdrawal)))
	mux.Handle("GET "+base+"/withdrawals", authed(http.HandlerFunc(h.Funding.ListMyWithdrawals)))

	mux.Handle("GET "+base+"/admin/tickets", admin(h.Catalog.ListAllTickets))
	mux.Handle("POST "+base+"/admin/tickets", admin(h.Catalog.CreateTicket))
	mux.Handle("PUT "+base+"/admin/tickets/{id}", admin(h.Catalog.UpdateTicket))
	mux.Handle("PATCH "+base+"/admin/tickets/{id}/active", admin(h.Catalog.SetTicketActive))

	mux.Handle("POST "+base+"/admin/investments/{id}/cancel", admin(h.Investment.CancelInvestment))
	mux.Handle("POST "+base+"/admin/sweep", admin(h.Investment.TriggerSweep))

	mux.Handle("GET "+base+"/admin/deposits", admin(h.Funding.ListPendingDeposits))
	mux.Handle("POST "+base+"/admin/deposits/{id}/approve", admin(h.Funding.DecideDeposit(true)))
	mux.Handle("POST "+base+"/admin/deposits/{id}/reject", admin(h.Funding.DecideDeposit(false)))
	mux.Handle("GET "+base+"/admin/withdrawals", admin(h.Funding.ListPendingWithdrawals))
	mux.Handle("POST "+base+"/admin/withdrawals/{id}/approve", admin(h.Funding.DecideWithdrawal(true)))
	mux.Handle("POST "+base+"/admin/withdrawals/{id}/reject", admin(h.Funding.DecideWithdrawal(false)))

	return mux
}
