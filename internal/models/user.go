package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User carries the ledger account fields (balance, earn) alongside identity.
// Balance and earn never go negative; every mutation is an atomic conditional
// update at the storage layer paired with a ledger entry.
type User struct {
	ID               uuid.UUID       `json:"id"`
	Username         string          `json:"username"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	PasswordHash     string          `json:"-"`
	Role             string          `json:"role"`
	Balance          decimal.Decimal `json:"balance"`
	Earn             decimal.Decimal `json:"earn"`
	ReferralCode     string          `json:"referral_code"`
	ReferredBy       *uuid.UUID      `json:"referred_by,omitempty"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
