package currency

import (
	"errors"
	"fmt"
	"strings"

	xcurrency "golang.org/x/text/currency"
)

var ErrUnknown = errors.New("unknown currency")

// Currency is an ISO 4217 currency. MinorUnit is the number of fractional
// digits amounts in this currency carry.
type Currency struct {
	Code        string
	Name        string
	NumericCode string
	MinorUnit   int32
	Active      bool
}

type entry struct {
	code    string
	name    string
	numeric string
	minor   int32
}

// catalog lists the currencies offered to users with their ISO 4217 minor
// units.
var catalog = []entry{
	{"ARS", "Argentine Peso", "032", 2},
	{"AUD", "Australian Dollar", "036", 2},
	{"BHD", "Bahraini Dinar", "048", 3},
	{"BOB", "Boliviano", "068", 2},
	{"BRL", "Brazilian Real", "986", 2},
	{"CAD", "Canadian Dollar", "124", 2},
	{"CHF", "Swiss Franc", "756", 2},
	{"CLP", "Chilean Peso", "152", 0},
	{"CNY", "Yuan Renminbi", "156", 2},
	{"COP", "Colombian Peso", "170", 2},
	{"CRC", "Costa Rican Colon", "188", 2},
	{"CZK", "Czech Koruna", "203", 2},
	{"DKK", "Danish Krone", "208", 2},
	{"DOP", "Dominican Peso", "214", 2},
	{"EUR", "Euro", "978", 2},
	{"GBP", "Pound Sterling", "826", 2},
	{"GTQ", "Quetzal", "320", 2},
	{"HKD", "Hong Kong Dollar", "344", 2},
	{"INR", "Indian Rupee", "356", 2},
	{"JPY", "Yen", "392", 0},
	{"KRW", "Won", "410", 0},
	{"KWD", "Kuwaiti Dinar", "414", 3},
	{"MXN", "Mexican Peso", "484", 2},
	{"NOK", "Norwegian Krone", "578", 2},
	{"NZD", "New Zealand Dollar", "554", 2},
	{"PEN", "Sol", "604", 2},
	{"PLN", "Zloty", "985", 2},
	{"PYG", "Guarani", "600", 0},
	{"SEK", "Swedish Krona", "752", 2},
	{"USD", "US Dollar", "840", 2},
	{"UYU", "Peso Uruguayo", "858", 2},
	{"VES", "Bolívar Soberano", "928", 2},
}

// isoMinorUnits holds the ISO 4217 minor units that differ from 2.
var isoMinorUnits = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "UYI": 0, "VND": 0, "VUV": 0,
	"XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"CLF": 4, "UYW": 4,
}

// nonMonetary codes have no minor unit in ISO 4217 and cannot hold ledger
// amounts.
var nonMonetary = map[string]bool{
	"XAG": true, "XAU": true, "XBA": true, "XBB": true, "XBC": true, "XBD": true,
	"XDR": true, "XPD": true, "XPT": true, "XSU": true, "XTS": true, "XUA": true,
	"XXX": true,
}

func minorUnit(code string) int32 {
	if m, ok := isoMinorUnits[code]; ok {
		return m
	}

	return 2
}

// lookup validates code against the x/text ISO table. The returned currency
// has no display name when the code is not in the catalog.
func lookup(code string) (Currency, error) {
	unit, err := xcurrency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil || nonMonetary[unit.String()] {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnknown, code)
	}

	return Currency{
		Code:      unit.String(),
		Name:      unit.String(),
		MinorUnit: minorUnit(unit.String()),
		Active:    true,
	}, nil
}
