package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourx/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, name, email, password_hash, role, balance, earn, referral_code, referred_by, total_deposits, total_withdrawals, created_at, updated_at`

// Create inserts a new user and fills in the database-assigned timestamps.
func (r *Repository) Create(ctx context.Context, u *models.User) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, name, email, password_hash, role, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING balance, earn, total_deposits, total_withdrawals, created_at, updated_at
	`, u.ID, u.Username, u.Name, u.Email, u.PasswordHash, u.Role, u.ReferralCode, u.ReferredBy).
		Scan(&u.Balance, &u.Earn, &u.TotalDeposits, &u.TotalWithdrawals, &u.CreatedAt, &u.UpdatedAt)
}

// GetByID returns (nil, nil) when the user does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail returns (nil, nil) when no user has the email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByReferralCode returns (nil, nil) when no user owns the code.
func (r *Repository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
}

func (r *Repository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Balance, &u.Earn,
			&u.ReferralCode, &u.ReferredBy, &u.TotalDeposits, &u.TotalWithdrawals, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
