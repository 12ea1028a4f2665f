package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger entry_type enums. Every balance mutation writes exactly one entry.
const (
	LedgerEntryDeposit          = "deposit"
	LedgerEntryInvestment       = "investment"
	LedgerEntryMaturation       = "maturation"
	LedgerEntryWithdrawal       = "withdrawal"
	LedgerEntryWithdrawalRefund = "withdrawal_refund"
	LedgerEntryInvestmentRefund = "investment_refund"
)

// LedgerEntry is an append-only record of a single balance mutation.
// InvestmentID is set for investment/maturation/investment_refund entries,
// RequestID for deposit/withdrawal entries.
type LedgerEntry struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	InvestmentID *uuid.UUID       `json:"investment_id,omitempty"`
	RequestID    *uuid.UUID       `json:"request_id,omitempty"`
	EntryType    string           `json:"entry_type"`
	Amount       decimal.Decimal  `json:"amount"`
	BalanceAfter *decimal.Decimal `json:"balance_after,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
