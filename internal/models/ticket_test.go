package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func validFixed() *Ticket {
	return &Ticket{
		Name:          "Fixed Product",
		Kind:          TicketKindFixed,
		Fixed:         &FixedTerms{Amount: d("1500"), Profit: d("33.33")},
		ValidityHours: 24,
	}
}

func validCustom() *Ticket {
	return &Ticket{
		Name:          "Custom Product",
		Kind:          TicketKindCustom,
		Custom:        &CustomTerms{MinAmount: d("100"), MaxAmount: d("10000"), ProfitPercentage: d("4")},
		ValidityHours: 24,
	}
}

func TestTicketValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Ticket)
		ticket  *Ticket
		wantErr bool
	}{
		{name: "valid fixed", ticket: validFixed()},
		{name: "valid custom", ticket: validCustom()},
		{name: "missing name", ticket: validFixed(), mutate: func(tk *Ticket) { tk.Name = "" }, wantErr: true},
		{name: "zero validity", ticket: validFixed(), mutate: func(tk *Ticket) { tk.ValidityHours = 0 }, wantErr: true},
		{name: "unknown kind", ticket: validFixed(), mutate: func(tk *Ticket) { tk.Kind = "flex" }, wantErr: true},
		{name: "fixed without terms", ticket: validFixed(), mutate: func(tk *Ticket) { tk.Fixed = nil }, wantErr: true},
		{name: "fixed with both terms", ticket: validFixed(), mutate: func(tk *Ticket) { tk.Custom = validCustom().Custom }, wantErr: true},
		{name: "fixed zero amount", ticket: validFixed(), mutate: func(tk *Ticket) { tk.Fixed.Amount = decimal.Zero }, wantErr: true},
		{name: "fixed negative profit", ticket: validFixed(), mutate: func(tk *Ticket) { tk.Fixed.Profit = d("-1") }, wantErr: true},
		{name: "fixed zero profit ok", ticket: validFixed(), mutate: func(tk *Ticket) { tk.Fixed.Profit = decimal.Zero }},
		{name: "custom without terms", ticket: validCustom(), mutate: func(tk *Ticket) { tk.Custom = nil }, wantErr: true},
		{name: "custom inverted bounds", ticket: validCustom(), mutate: func(tk *Ticket) { tk.Custom.MaxAmount = d("50") }, wantErr: true},
		{name: "custom zero percentage", ticket: validCustom(), mutate: func(tk *Ticket) { tk.Custom.ProfitPercentage = decimal.Zero }, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.mutate != nil {
				tc.mutate(tc.ticket)
			}
			err := tc.ticket.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestExpectedProfit(t *testing.T) {
	fixed := validFixed()
	if got := fixed.ExpectedProfit(d("1500")); !got.Equal(d("33.33")) {
		t.Errorf("fixed profit = %s, want 33.33", got)
	}

	custom := validCustom()
	// 4% of 2500 = 100
	if got := custom.ExpectedProfit(d("2500")); !got.Equal(d("100")) {
		t.Errorf("custom profit = %s, want 100", got)
	}
	// Percentage math stays exact for awkward amounts.
	if got := custom.ExpectedProfit(d("333.33")); !got.Equal(d("13.3332")) {
		t.Errorf("custom profit = %s, want 13.3332", got)
	}
}
