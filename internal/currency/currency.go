// Package currency resolves an ISO 4217 currency code to a display symbol
// and formats cent amounts for replies. The chat core never touches this
// package directly; it only receives closures over a Service.
package currency

import (
	"fmt"

	"golang.org/x/text/currency"

	"boodschappen/internal/core"
)

// symbols maps ISO codes to their display symbol. Codes without an entry
// fall back to the code itself ("CHF 12,34").
var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
}

type Service struct {
	unit   currency.Unit
	symbol string
}

// New validates the ISO code and resolves its symbol.
func New(code string) (*Service, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency code %q: %w", code, err)
	}
	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}
	return &Service{unit: unit, symbol: symbol}, nil
}

// Code returns the ISO 4217 code, e.g. "EUR".
func (s *Service) Code() string {
	return s.unit.String()
}

// Symbol returns the display symbol, e.g. "€".
func (s *Service) Symbol() string {
	return s.symbol
}

// Format renders cents as a currency string with a decimal comma,
// e.g. "€12,34" or "-€0,50".
func (s *Service) Format(m core.Money) string {
	return core.FormatAmount(m, s.symbol)
}
