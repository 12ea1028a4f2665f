package investment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/catalog"
	"github.com/fourx/backend/internal/models"
)

var (
	// ErrTicketNotFound covers both a missing ticket and one closed to new purchases.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrAccountNotFound is returned when the purchasing user does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvestmentNotFound is returned for queries against a missing record.
	ErrInvestmentNotFound = errors.New("investment not found")
	// ErrInvalidAmount is returned when a custom amount falls outside the ticket bounds.
	ErrInvalidAmount = errors.New("amount outside ticket bounds")
	// ErrAmountMismatch is returned when a request carries an amount that
	// disagrees with a fixed ticket's price. Mismatches are rejected, never
	// silently substituted.
	ErrAmountMismatch = errors.New("amount does not match fixed ticket price")
	// ErrInsufficientFunds is returned when the balance is below the requested debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotActive is returned when cancelling a record that already left active.
	ErrNotActive = errors.New("investment is not active")
)

// Store is the persistence contract for investment records and the ledger
// mutations bound to them. Each mutating call is one transactional unit.
type Store interface {
	// CreateWithDebit debits inv.Amount from the owner's balance and persists
	// the record, atomically. Fails with ErrAccountNotFound or ErrInsufficientFunds.
	CreateWithDebit(ctx context.Context, inv *models.Investment) error
	// ListMaturedActiveIDs returns ids of active records whose end date has passed.
	ListMaturedActiveIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	// SettleMatured credits principal + profit exactly once, guarded by the
	// record's active status. Returns false (no error) if the record was
	// already settled or is not yet due.
	SettleMatured(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	// CancelWithRefund transitions active -> cancelled and returns the
	// principal to the balance. Returns false if the record is not active.
	CancelWithRefund(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*models.Investment, error)
}

// TicketStore is the slice of the catalog the engine consumes.
type TicketStore interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
}

type Service interface {
	CreateInvestment(ctx context.Context, userID, ticketID uuid.UUID, amount decimal.Decimal) (*models.Investment, error)
	MaturationSweep(ctx context.Context) (int, error)
	CancelInvestment(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	GetInvestment(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*models.Investment, error)
}

type service struct {
	store   Store
	tickets TicketStore
	now     func() time.Time
	log     *slog.Logger
}

// NewService creates the investment engine. clock may be nil (wall clock);
// tests inject a fixed clock to control maturity timing.
func NewService(store Store, tickets TicketStore, clock func() time.Time, log *slog.Logger) *service {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, tickets: tickets, now: clock, log: log}
}

var _ Service = (*service)(nil)

// CreateInvestment validates the purchase against the ticket's terms and
// commits the debit together with the new record. Profit terms are locked in
// here; later ticket edits never change this record's math.
func (s *service) CreateInvestment(ctx context.Context, userID, ticketID uuid.UUID, requested decimal.Decimal) (*models.Investment, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, catalog.ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if !ticket.IsActive {
		return nil, ErrTicketNotFound
	}

	var amount decimal.Decimal
	switch ticket.Kind {
	case models.TicketKindFixed:
		if !requested.IsZero() && !requested.Equal(ticket.Fixed.Amount) {
			return nil, ErrAmountMismatch
		}
		amount = ticket.Fixed.Amount
	case models.TicketKindCustom:
		if requested.LessThan(ticket.Custom.MinAmount) || requested.GreaterThan(ticket.Custom.MaxAmount) {
			return nil, ErrInvalidAmount
		}
		amount = requested
	default:
		return nil, ErrTicketNotFound
	}

	now := s.now()
	inv := &models.Investment{
		ID:             uuid.New(),
		UserID:         userID,
		TicketID:       ticket.ID,
		Amount:         amount,
		ExpectedProfit: ticket.ExpectedProfit(amount),
		ActualProfit:   decimal.Zero,
		StartDate:      now,
		EndDate:        now.Add(time.Duration(ticket.ValidityHours) * time.Hour),
		Status:         models.InvestmentStatusActive,
	}
	if err := s.store.CreateWithDebit(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// MaturationSweep settles every active record past its end date and returns
// how many were matured. A failure on one record never aborts the rest, and
// re-invocation is a no-op for records already settled.
func (s *service) MaturationSweep(ctx context.Context) (int, error) {
	now := s.now()
	ids, err := s.store.ListMaturedActiveIDs(ctx, now)
	if err != nil {
		return 0, err
	}
	matured := 0
	for _, id := range ids {
		settled, err := s.store.SettleMatured(ctx, id, now)
		if err != nil {
			s.log.Error("maturation settle failed", "investment_id", id, "error", err)
			continue
		}
		if settled {
			matured++
		}
	}
	if matured > 0 {
		s.log.Info("maturation sweep completed", "matured", matured, "eligible", len(ids))
	}
	return matured, nil
}

// CancelInvestment is the administrative escape hatch: the principal returns
// to the balance, the expected profit is forfeited.
func (s *service) CancelInvestment(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	if _, err := s.GetInvestment(ctx, id); err != nil {
		return nil, err
	}
	cancelled, err := s.store.CancelWithRefund(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, ErrNotActive
	}
	return s.GetInvestment(ctx, id)
}

func (s *service) GetInvestment(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	inv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvestmentNotFound
	}
	return inv, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*models.Investment, error) {
	return s.store.ListByUser(ctx, userID, status)
}
