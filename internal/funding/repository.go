package funding

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fourx/backend/internal/ledger"
	"github.com/fourx/backend/internal/models"
)

// Repository owns deposit/withdrawal requests and the account mutations
// their adjudication performs. Approvals and rejections are status-guarded
// so a request is decided at most once.
type Repository struct {
	pool   *pgxpool.Pool
	ledger *ledger.Repository
}

func NewRepository(pool *pgxpool.Pool, ledgerRepo *ledger.Repository) *Repository {
	return &Repository{pool: pool, ledger: ledgerRepo}
}

// --- deposits ---

func (r *Repository) CreateDeposit(ctx context.Context, d *models.DepositRequest) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO deposit_requests (id, user_id, amount, method, transaction_ref, proof_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING created_at
	`, d.ID, d.UserID, d.Amount, d.Method, d.TransactionRef, d.ProofRef).Scan(&d.CreatedAt)
}

// ApproveDeposit credits the balance and marks the request approved in one
// transaction. Returns false if the request is missing or already decided.
func (r *Repository) ApproveDeposit(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	var amount decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE deposit_requests SET status = 'approved', decided_at = now()
		WHERE id = $1 AND status = 'pending'
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
		UPDATE users SET balance = balance + $1, total_deposits = total_deposits + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance
	`, amount, userID).Scan(&newBalance)
	if err != nil {
		return false, err
	}

	if err := r.ledger.CreateTx(ctx, tx, &models.LedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		RequestID:    &id,
		EntryType:    models.LedgerEntryDeposit,
		Amount:       amount,
		BalanceAfter: &newBalance,
	}); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// RejectDeposit marks the request rejected. No balance change.
func (r *Repository) RejectDeposit(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE deposit_requests SET status = 'rejected', decided_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

const depositColumns = `id, user_id, amount, method, transaction_ref, proof_ref, status, created_at, decided_at`

// GetDeposit returns (nil, nil) when the request does not exist.
func (r *Repository) GetDeposit(ctx context.Context, id uuid.UUID) (*models.DepositRequest, error) {
	var d models.DepositRequest
	err := r.pool.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposit_requests WHERE id = $1`, id).
		Scan(&d.ID, &d.UserID, &d.Amount, &d.Method, &d.TransactionRef, &d.ProofRef, &d.Status, &d.CreatedAt, &d.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListDepositsByUser(ctx context.Context, userID uuid.UUID) ([]*models.DepositRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+depositColumns+` FROM deposit_requests WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.DepositRequest
	for rows.Next() {
		var d models.DepositRequest
		if err := rows.Scan(&d.ID, &d.UserID, &d.Amount, &d.Method, &d.TransactionRef, &d.ProofRef, &d.Status, &d.CreatedAt, &d.DecidedAt); err != nil {
			return nil, err
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// PendingDeposit is an admin-facing pending request with the owner attached.
type PendingDeposit struct {
	models.DepositRequest
	Username string `json:"username"`
	UserName string `json:"user_name"`
}

func (r *Repository) ListPendingDeposits(ctx context.Context) ([]*PendingDeposit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.user_id, d.amount, d.method, d.transaction_ref, d.proof_ref, d.status, d.created_at, d.decided_at,
			u.username, u.name
		FROM deposit_requests d
		JOIN users u ON u.id = d.user_id
		WHERE d.status = 'pending' ORDER BY d.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*PendingDeposit
	for rows.Next() {
		var p PendingDeposit
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &p.TransactionRef, &p.ProofRef, &p.Status, &p.CreatedAt, &p.DecidedAt,
			&p.Username, &p.UserName); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// --- withdrawals ---

// CreateWithdrawalWithDebit deducts the amount from both earn and balance
// (withdrawals draw from realized earnings, capped by the spendable balance)
// and records the pending request, atomically. Fails with
// ErrAccountNotFound or ErrInsufficientEarnings.
func (r *Repository) CreateWithdrawalWithDebit(ctx context.Context, wr *models.WithdrawalRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var newBalance decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE users SET earn = earn - $1, balance = balance - $1, updated_at = now()
		WHERE id = $2 AND earn >= $1 AND balance >= $1
		RETURNING balance
	`, wr.Amount, wr.UserID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, wr.UserID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrAccountNotFound
			}
			return ErrInsufficientEarnings
		}
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO withdrawal_requests (id, user_id, amount, method, account_details, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING created_at
	`, wr.ID, wr.UserID, wr.Amount, wr.Method, wr.AccountDetails).Scan(&wr.CreatedAt)
	if err != nil {
		return err
	}

	if err := r.ledger.CreateTx(ctx, tx, &models.LedgerEntry{
		ID:           uuid.New(),
		UserID:       wr.UserID,
		RequestID:    &wr.ID,
		EntryType:    models.LedgerEntryWithdrawal,
		Amount:       wr.Amount,
		BalanceAfter: &newBalance,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ApproveWithdrawal marks the request approved; the funds already left the
// account at request time, so only the running total moves.
func (r *Repository) ApproveWithdrawal(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	var amount decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE withdrawal_requests SET status = 'approved', decided_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING user_id, amount
	`, id).Scan(&userID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET total_withdrawals = total_withdrawals + $1, updated_at = now() WHERE id = $2
	`, amount, userID)
	if err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// RejectWithdrawal restores the deducted funds to both earn and balance.
func (r *Repository) RejectWithdrawal(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	var amount decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE withdrawal_requests SET status = 'rejected', decided_at = now()
		WHERE id = $1 AND status = 'pending'
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
		UPDATE users SET earn = earn + $1, balance = balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance
	`, amount, userID).Scan(&newBalance)
	if err != nil {
		return false, err
	}

	if err := r.ledger.CreateTx(ctx, tx, &models.LedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		RequestID:    &id,
		EntryType:    models.LedgerEntryWithdrawalRefund,
		Amount:       amount,
		BalanceAfter: &newBalance,
	}); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

const withdrawalColumns = `id, user_id, amount, method, account_details, status, created_at, decided_at`

// GetWithdrawal returns (nil, nil) when the request does not exist.
func (r *Repository) GetWithdrawal(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	var wr models.WithdrawalRequest
	err := r.pool.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id).
		Scan(&wr.ID, &wr.UserID, &wr.Amount, &wr.Method, &wr.AccountDetails, &wr.Status, &wr.CreatedAt, &wr.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &wr, nil
}

func (r *Repository) ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID) ([]*models.WithdrawalRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.WithdrawalRequest
	for rows.Next() {
		var wr models.WithdrawalRequest
		if err := rows.Scan(&wr.ID, &wr.UserID, &wr.Amount, &wr.Method, &wr.AccountDetails, &wr.Status, &wr.CreatedAt, &wr.DecidedAt); err != nil {
			return nil, err
		}
		list = append(list, &wr)
	}
	return list, rows.Err()
}

// PendingWithdrawal is an admin-facing pending request with the owner and
// their current balance attached.
type PendingWithdrawal struct {
	models.WithdrawalRequest
	Username       string          `json:"username"`
	UserName       string          `json:"user_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

func (r *Repository) ListPendingWithdrawals(ctx context.Context) ([]*PendingWithdrawal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT w.id, w.user_id, w.amount, w.method, w.account_details, w.status, w.created_at, w.decided_at,
			u.username, u.name, u.balance
		FROM withdrawal_requests w
		JOIN users u ON u.id = w.user_id
		WHERE w.status = 'pending' ORDER BY w.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*PendingWithdrawal
	for rows.Next() {
		var p PendingWithdrawal
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &p.AccountDetails, &p.Status, &p.CreatedAt, &p.DecidedAt,
			&p.Username, &p.UserName, &p.CurrentBalance); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
