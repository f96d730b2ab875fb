// Package cgd reads Caixa Geral de Depósitos CSV exports.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/money/internal/encoding"
	"github.com/MrJamesThe3rd/money/internal/record"
)

const dateLayout = "02-01-2006"

var ErrUnknownFormat = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

// Parser auto-detects which CGD format (conta, extrato, cartão) is being used
// by matching column headers against known profiles. Rows become income or
// expense params; owner and account are left for the caller.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]record.CreateParams, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	slog.Debug("parsing cgd export", "profile", profile.Name, "charset", charset)

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile returns the matched profile, its column map and the header
// row index, or a nil profile when no header matches.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a date or amount (footers, page markers).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]record.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var params []record.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, typ, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		params = append(params, record.CreateParams{
			Title:         desc,
			Description:   desc,
			Amount:        amount,
			Type:          typ,
			PaymentMethod: p.PaymentMethod,
			OccurredAt:    date,
		})
	}

	return params, nil
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, record.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return decimal.Zero, "", false
}

// parseSingleAmount handles a single signed amount column.
func parseSingleAmount(row []string, idx int) (decimal.Decimal, record.Type, bool) {
	amount, ok := cellAmount(row, idx)
	if !ok {
		return decimal.Zero, "", false
	}

	if amount.IsNegative() {
		return amount.Neg(), record.TypeExpense, true
	}

	return amount, record.TypeIncome, true
}

// parseSplitAmount handles separate debit/credit columns.
func parseSplitAmount(row []string, debitIdx, creditIdx int) (decimal.Decimal, record.Type, bool) {
	if amount, ok := cellAmount(row, debitIdx); ok {
		return amount.Abs(), record.TypeExpense, true
	}

	if amount, ok := cellAmount(row, creditIdx); ok {
		return amount.Abs(), record.TypeIncome, true
	}

	return decimal.Zero, "", false
}

// cellAmount parses a non-zero amount from the cell.
func cellAmount(row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	amount, err := parseEuropeanAmount(s)
	if err != nil || amount.IsZero() {
		return decimal.Zero, false
	}

	return amount, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
