package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investment status enums. Active is initial; completed and cancelled are
// terminal and a record leaves active at most once.
const (
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
	InvestmentStatusCancelled = "cancelled"
)

// Investment binds one user to one ticket purchase. Amount and expected
// profit are fixed at creation; actual profit is written exactly once, at
// maturation, and equals the expected profit carried forward.
type Investment struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	TicketID       uuid.UUID       `json:"ticket_id"`
	Amount         decimal.Decimal `json:"amount"`
	ExpectedProfit decimal.Decimal `json:"expected_profit"`
	ActualProfit   decimal.Decimal `json:"actual_profit"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
