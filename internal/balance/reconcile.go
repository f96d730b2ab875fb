package balance

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/money/internal/record"
)

// Adjustment describes the corrective record that moves a balance to a target.
type Adjustment struct {
	Type   record.Type
	Amount decimal.Decimal
}

// Reconcile returns the adjustment that makes current equal target. The
// second return value is false when no record is needed; a zero-amount
// adjustment is never produced.
func Reconcile(current, target decimal.Decimal) (Adjustment, bool) {
	diff := target.Sub(current)

	switch diff.Sign() {
	case 1:
		return Adjustment{Type: record.TypeIncome, Amount: diff}, true
	case -1:
		return Adjustment{Type: record.TypeExpense, Amount: diff.Abs()}, true
	default:
		return Adjustment{}, false
	}
}

// Apply returns the sums after the adjustment has been recorded.
func (a Adjustment) Apply(s Sums) Sums {
	switch a.Type {
	case record.TypeIncome:
		s.Income = s.Income.Add(a.Amount)
	case record.TypeExpense:
		s.Expense = s.Expense.Add(a.Amount)
	}

	return s
}
