package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const ticketColumns = `id, name, description, kind, amount, profit, min_custom_amount, max_custom_amount, profit_percentage, validity_hours, is_active, created_at`

func (r *Repository) Create(ctx context.Context, t *models.Ticket) error {
	amount, profit, minAmt, maxAmt, pct := termColumns(t)
	return r.pool.QueryRow(ctx, `
		INSERT INTO tickets (id, name, description, kind, amount, profit, min_custom_amount, max_custom_amount, profit_percentage, validity_hours, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`, t.ID, t.Name, t.Description, t.Kind, amount, profit, minAmt, maxAmt, pct, t.ValidityHours, t.IsActive).Scan(&t.CreatedAt)
}

func (r *Repository) Update(ctx context.Context, t *models.Ticket) error {
	amount, profit, minAmt, maxAmt, pct := termColumns(t)
	_, err := r.pool.Exec(ctx, `
		UPDATE tickets SET name = $2, description = $3, kind = $4, amount = $5, profit = $6,
			min_custom_amount = $7, max_custom_amount = $8, profit_percentage = $9,
			validity_hours = $10, is_active = $11
		WHERE id = $1
	`, t.ID, t.Name, t.Description, t.Kind, amount, profit, minAmt, maxAmt, pct, t.ValidityHours, t.IsActive)
	return err
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE tickets SET is_active = $2 WHERE id = $1`, id, active)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	return scanTicket(row)
}

func (r *Repository) ListActive(ctx context.Context) ([]*models.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE is_active ORDER BY created_at`)
}

func (r *Repository) ListAll(ctx context.Context) ([]*models.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at`)
}

func (r *Repository) list(ctx context.Context, query string) ([]*models.Ticket, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTicket reconstructs the tagged terms variant from the flat table row.
func scanTicket(row rowScanner) (*models.Ticket, error) {
	var t models.Ticket
	var amount, profit, minAmt, maxAmt, pct *decimal.Decimal
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Kind, &amount, &profit, &minAmt, &maxAmt, &pct, &t.ValidityHours, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case models.TicketKindFixed:
		t.Fixed = &models.FixedTerms{Amount: *amount, Profit: *profit}
	case models.TicketKindCustom:
		t.Custom = &models.CustomTerms{MinAmount: *minAmt, MaxAmount: *maxAmt, ProfitPercentage: *pct}
	}
	return &t, nil
}

func termColumns(t *models.Ticket) (amount, profit, minAmt, maxAmt, pct *decimal.Decimal) {
	if t.Fixed != nil {
		amount, profit = &t.Fixed.Amount, &t.Fixed.Profit
	}
	if t.Custom != nil {
		minAmt, maxAmt, pct = &t.Custom.MinAmount, &t.Custom.MaxAmount, &t.Custom.ProfitPercentage
	}
	return
}
