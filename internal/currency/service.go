package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Service struct {
	byCode map[string]Currency
	def    Currency
}

// NewService builds the lookup from the built-in catalog. It fails when the
// default currency cannot be resolved, which is a configuration error.
func NewService(defaultCode string) (*Service, error) {
	s := &Service{byCode: make(map[string]Currency, len(catalog))}

	for _, e := range catalog {
		c, err := lookup(e.code)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}

		c.Name = e.name
		c.NumericCode = e.numeric
		c.MinorUnit = e.minor
		s.byCode[c.Code] = c
	}

	if strings.TrimSpace(defaultCode) == "" {
		return nil, fmt.Errorf("resolving default currency: %w", ErrUnknown)
	}

	def, err := s.Resolve(defaultCode)
	if err != nil {
		return nil, fmt.Errorf("resolving default currency: %w", err)
	}

	s.def = def

	return s, nil
}

// Resolve returns the currency for code, falling back to the default when
// code is empty. Codes outside the catalog are accepted when they are valid
// ISO 4217 codes.
func (s *Service) Resolve(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.def, nil
	}

	if c, ok := s.byCode[code]; ok {
		return c, nil
	}

	return lookup(code)
}

func (s *Service) Default() Currency {
	return s.def
}

// List returns the catalog ordered by code.
func (s *Service) List() []Currency {
	out := make([]Currency, 0, len(s.byCode))
	for _, c := range s.byCode {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })

	return out
}

// FitsScale reports whether amount can be represented exactly in c's minor unit.
func (c Currency) FitsScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(c.MinorUnit))
}
