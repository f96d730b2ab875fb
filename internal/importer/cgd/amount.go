package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount parses a European-formatted amount.
// Format examples: "1.234,56" -> 1234.56, "-588,74" -> -588.74, "10,00" -> 10.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(strings.TrimSpace(clean))
}
