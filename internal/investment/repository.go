package investment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/ledger"
	"github.com/fourx/backend/internal/models"
)

// Repository owns investment rows and the account mutations tied to their
// lifecycle. Balance changes are atomic conditional updates: two concurrent
// purchases against one account can never both read the same balance.
type Repository struct {
	pool   *pgxpool.Pool
	ledger *ledger.Repository
}

func NewRepository(pool *pgxpool.Pool, ledgerRepo *ledger.Repository) *Repository {
	return &Repository{pool: pool, ledger: ledgerRepo}
}

var _ Store = (*Repository)(nil)

// CreateWithDebit runs one transaction that:
// a) Deducts inv.Amount from the owner's balance, only if balance >= amount
// b) Inserts the investment row with status active
// c) Inserts an investment ledger entry
// A crash between the debit and the insert rolls everything back.
func (r *Repository) CreateWithDebit(ctx context.Context, inv *models.Investment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var newBalance decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance = balance - $1, updated_at = now()
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`, inv.Amount, inv.UserID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, inv.UserID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrAccountNotFound
			}
			return ErrInsufficientFunds
		}
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO investments (id, user_id, ticket_id, amount, expected_profit, actual_profit, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, inv.ID, inv.UserID, inv.TicketID, inv.Amount, inv.ExpectedProfit, inv.ActualProfit, inv.StartDate, inv.EndDate, inv.Status).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return err
	}

	if err := r.ledger.CreateTx(ctx, tx, &models.LedgerEntry{
		ID:           uuid.New(),
		UserID:       inv.UserID,
		InvestmentID: &inv.ID,
		EntryType:    models.LedgerEntryInvestment,
		Amount:       inv.Amount,
		BalanceAfter: &newBalance,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) ListMaturedActiveIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM investments WHERE status = 'active' AND end_date <= $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SettleMatured runs in its own transaction. The status guard on the UPDATE
// is the idempotency key: a record already completed (or cancelled, or not
// yet due) matches zero rows and the settle is a no-op, so re-running a
// sweep never double-credits.
func (r *Repository) SettleMatured(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	var amount, profit decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE investments SET status = 'completed', actual_profit = expected_profit, updated_at = now()
		WHERE id = $1 AND status = 'active' AND end_date <= $2
		RETURNING user_id, amount, expected_profit
	`, id, now).Scan(&userID, &amount, &profit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	var newBalance decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance = balance + $1, earn = earn + $2, updated_at = now()
		WHERE id = $3
		RETURNING balance
	`, amount.Add(profit), profit, userID).Scan(&newBalance)
	if err != nil {
		return false, err
	}

	if err := r.ledger.CreateTx(ctx, tx, &models.LedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		InvestmentID: &id,
		EntryType:    models.LedgerEntryMaturation,
		Amount:       amount.Add(profit),
		BalanceAfter: &newBalance,
	}); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// CancelWithRefund transitions active -> cancelled and returns the principal
// only; the expected profit is forfeited.
func (r *Repository) CancelWithRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	var amount decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE investments SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'active'
		RETURNING user_id, amount
	`, id).Scan(&userID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	var newBalance decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance = balance + $1, updated_at = now() WHERE id = $2 RETURNING balance
	`, amount, userID).Scan(&newBalance)
	if err != nil {
		return false, err
	}

	if err := r.ledger.CreateTx(ctx, tx, &models.LedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		InvestmentID: &id,
		EntryType:    models.LedgerEntryInvestmentRefund,
		Amount:       amount,
		BalanceAfter: &newBalance,
	}); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

const investmentColumns = `id, user_id, ticket_id, amount, expected_profit, actual_profit, start_date, end_date, status, created_at, updated_at`

// GetByID returns (nil, nil) when no record exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	var inv models.Investment
	err := r.pool.QueryRow(ctx, `SELECT `+investmentColumns+` FROM investments WHERE id = $1`, id).
		Scan(&inv.ID, &inv.UserID, &inv.TicketID, &inv.Amount, &inv.ExpectedProfit, &inv.ActualProfit,
			&inv.StartDate, &inv.EndDate, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*models.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if status != "" {
		query = `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`
		args = append(args, status)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.TicketID, &inv.Amount, &inv.ExpectedProfit, &inv.ActualProfit,
			&inv.StartDate, &inv.EndDate, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
