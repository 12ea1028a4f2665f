package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket kind enums. Exactly one terms struct is set per ticket.
const (
	TicketKindFixed  = "fixed"
	TicketKindCustom = "custom"
)

var oneHundred = decimal.NewFromInt(100)

// FixedTerms is a take-it-or-leave-it product: the purchase amount and the
// absolute profit are both set by the ticket.
type FixedTerms struct {
	Amount decimal.Decimal `json:"amount"`
	Profit decimal.Decimal `json:"profit"`
}

// CustomTerms lets the buyer choose an amount within [MinAmount, MaxAmount];
// profit is a percentage of the invested amount.
type CustomTerms struct {
	MinAmount        decimal.Decimal `json:"min_custom_amount"`
	MaxAmount        decimal.Decimal `json:"max_custom_amount"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

// Ticket is an investment product definition. Terms are locked in at purchase:
// once an investment references a ticket, later edits never change that
// investment's math.
type Ticket struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Kind          string       `json:"kind"`
	Fixed         *FixedTerms  `json:"fixed,omitempty"`
	Custom        *CustomTerms `json:"custom,omitempty"`
	ValidityHours int          `json:"validity_hours"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
}

// ExpectedProfit computes the profit the given purchase amount earns under
// this ticket's terms.
func (t *Ticket) ExpectedProfit(amount decimal.Decimal) decimal.Decimal {
	if t.Kind == TicketKindCustom {
		return amount.Mul(t.Custom.ProfitPercentage).Div(oneHundred)
	}
	return t.Fixed.Profit
}

// Validate checks structural consistency of the ticket's terms.
func (t *Ticket) Validate() error {
	if t.Name == "" {
		return errors.New("ticket name is required")
	}
	if t.ValidityHours <= 0 {
		return errors.New("validity_hours must be > 0")
	}
	switch t.Kind {
	case TicketKindFixed:
		if t.Fixed == nil || t.Custom != nil {
			return errors.New("fixed ticket requires fixed terms only")
		}
		if !t.Fixed.Amount.IsPositive() {
			return errors.New("fixed amount must be > 0")
		}
		if t.Fixed.Profit.IsNegative() {
			return errors.New("fixed profit must be >= 0")
		}
	case TicketKindCustom:
		if t.Custom == nil || t.Fixed != nil {
			return errors.New("custom ticket requires custom terms only")
		}
		if !t.Custom.MinAmount.IsPositive() {
			return errors.New("min_custom_amount must be > 0")
		}
		if t.Custom.MaxAmount.LessThan(t.Custom.MinAmount) {
			return errors.New("max_custom_amount must be >= min_custom_amount")
		}
		if !t.Custom.ProfitPercentage.IsPositive() {
			return errors.New("profit_percentage must be > 0")
		}
	default:
		return errors.New("ticket kind must be fixed or custom")
	}
	return nil
}
