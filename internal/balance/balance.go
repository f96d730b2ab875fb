// Package balance derives account balances from ledger sums and computes the
// corrective entry needed to move a balance to a declared target.
package balance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/money/internal/record"
)

// Sums holds the per-type totals of every record touching one account. All
// fields must come from the same snapshot of the ledger. The zero value is a
// valid empty history.
type Sums struct {
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Investment   decimal.Decimal
	TransfersIn  decimal.Decimal
	TransfersOut decimal.Decimal
}

// Net returns income - (expense + investment) + transfers in - transfers out.
func (s Sums) Net() decimal.Decimal {
	return s.Income.
		Sub(s.Expense.Add(s.Investment)).
		Add(s.TransfersIn).
		Sub(s.TransfersOut)
}

// Calculate returns the balance carried at the currency's minor-unit scale.
func Calculate(s Sums, scale int32) decimal.Decimal {
	return s.Net().Round(scale)
}

// FromRecords aggregates the sums for accountID in a single pass.
func FromRecords(accountID uuid.UUID, records []*record.Record) Sums {
	var s Sums

	for _, r := range records {
		switch r.Type {
		case record.TypeIncome:
			if isAccount(r.AccountID, accountID) {
				s.Income = s.Income.Add(r.Amount)
			}
		case record.TypeExpense:
			if isAccount(r.AccountID, accountID) {
				s.Expense = s.Expense.Add(r.Amount)
			}
		case record.TypeInvestment:
			if isAccount(r.AccountID, accountID) {
				s.Investment = s.Investment.Add(r.Amount)
			}
		case record.TypeTransfer:
			if isAccount(r.ToAccountID, accountID) {
				s.TransfersIn = s.TransfersIn.Add(r.Amount)
			}

			if isAccount(r.FromAccountID, accountID) {
				s.TransfersOut = s.TransfersOut.Add(r.Amount)
			}
		}
	}

	return s
}

func isAccount(id *uuid.UUID, accountID uuid.UUID) bool {
	return id != nil && *id == accountID
}
