package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fourx/backend/internal/models"
)

// ErrTicketNotFound is returned when the requested ticket does not exist.
var ErrTicketNotFound = errors.New("ticket not found")

type Service interface {
	CreateTicket(ctx context.Context, t *models.Ticket) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, t *models.Ticket) (*models.Ticket, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	ListActiveTickets(ctx context.Context) ([]*models.Ticket, error)
	ListAllTickets(ctx context.Context) ([]*models.Ticket, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) *service {
	return &service{repo: repo}
}

var _ Service = (*service)(nil)

func (s *service) CreateTicket(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.ID = uuid.New()
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTicket replaces an existing ticket's definition. Investments that
// already reference the ticket are unaffected: their amount and profit were
// copied at purchase time.
func (s *service) UpdateTicket(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetTicket(ctx, t.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.GetTicket(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, active)
}

func (s *service) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *service) ListActiveTickets(ctx context.Context) ([]*models.Ticket, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) ListAllTickets(ctx context.Context) ([]*models.Ticket, error) {
	return s.repo.ListAll(ctx)
}
