package cgd

import "github.com/MrJamesThe3rd/money/internal/record"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of a CGD CSV export format.
type Profile struct {
	Name          string
	DateCol       string
	DescCol       string
	AmountMode    amountMode
	AmountCol     string // used when AmountMode == amountSingle
	DebitCol      string // used when AmountMode == amountSplit
	CreditCol     string // used when AmountMode == amountSplit
	PaymentMethod record.PaymentMethod
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order during auto-detection, most specific first.
var profiles = []Profile{
	{
		Name:          "cartão",
		DateCol:       "Data",
		DescCol:       "Descrição",
		AmountMode:    amountSplit,
		DebitCol:      "Débito",
		CreditCol:     "Crédito",
		PaymentMethod: record.PaymentDebitCard,
	},
	{
		Name:          "extrato",
		DateCol:       "Data mov.",
		DescCol:       "Descrição",
		AmountMode:    amountSingle,
		AmountCol:     "Movimento",
		PaymentMethod: record.PaymentTransfer,
	},
	{
		Name:          "conta",
		DateCol:       "Data mov.",
		DescCol:       "Descrição",
		AmountMode:    amountSingle,
		AmountCol:     "Montante",
		PaymentMethod: record.PaymentTransfer,
	},
}
